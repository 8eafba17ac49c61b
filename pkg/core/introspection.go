package core

import (
	"github.com/aretw0/introspection"
)

// StoreState exposes internal state for observability.
type StoreState struct {
	Key         string `json:"key"`
	Notes       int    `json:"notes"`
	Dirty       bool   `json:"dirty"`
	Codec       string `json:"codec"`
	Renderers   int    `json:"renderers"`
	Subscribers int    `json:"subscribers"`
	StorageType string `json:"storage_type"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	storageType := "unknown"
	if s.storage != nil {
		storageType = "storage"
		if comp, ok := s.storage.(introspection.Component); ok {
			storageType = comp.ComponentType()
		}
	}

	codec := ""
	if s.codec != nil {
		codec = s.codec.Name()
	}

	return StoreState{
		Key:         s.key,
		Notes:       len(s.notes),
		Dirty:       s.dirty,
		Codec:       codec,
		Renderers:   len(s.renderers),
		Subscribers: len(s.subs),
		StorageType: storageType,
	}
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "store"
}

var _ introspection.Introspectable = (*Store)(nil)
var _ introspection.Component = (*Store)(nil)
