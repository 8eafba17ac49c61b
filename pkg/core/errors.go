package core

import "errors"

// Common errors.
var (
	ErrReadOnly        = errors.New("storage is in read-only mode")
	ErrNotFound        = errors.New("key not found")
	ErrIndexOutOfRange = errors.New("note index out of range")
	ErrPersist         = errors.New("failed to persist history")
	ErrDirty           = errors.New("history has unsaved changes")
)
