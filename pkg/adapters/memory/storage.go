// Package memory provides a process-local core.Storage.
package memory

import (
	"context"
	"slices"
	"sync"

	"github.com/aretw0/talktyper/pkg/core"
)

// Storage keeps blobs in a map. It is mostly useful for tests and for
// throwaway sessions.
type Storage struct {
	mu       sync.RWMutex
	blobs    map[string][]byte
	readOnly bool

	// FailWrites makes Save and Remove return the given error when set.
	FailWrites error
}

// New creates an empty in-memory storage.
func New() *Storage {
	return &Storage{blobs: make(map[string][]byte)}
}

// NewReadOnly creates a storage preloaded with blobs that rejects writes.
func NewReadOnly(blobs map[string][]byte) *Storage {
	s := New()
	for k, v := range blobs {
		s.blobs[k] = slices.Clone(v)
	}
	s.readOnly = true
	return s
}

func (s *Storage) Initialize(ctx context.Context) error { return nil }

func (s *Storage) Load(ctx context.Context, key string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.blobs[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	return slices.Clone(data), nil
}

func (s *Storage) Save(ctx context.Context, key string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writableLocked(); err != nil {
		return err
	}
	s.blobs[key] = slices.Clone(data)
	return nil
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writableLocked(); err != nil {
		return err
	}
	delete(s.blobs, key)
	return nil
}

// Has reports whether key is present.
func (s *Storage) Has(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.blobs[key]
	return ok
}

// Set writes data directly, bypassing read-only mode and FailWrites.
func (s *Storage) Set(key string, data []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[key] = slices.Clone(data)
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "memory"
}

func (s *Storage) writableLocked() error {
	if s.readOnly {
		return core.ErrReadOnly
	}
	return s.FailWrites
}

var _ core.Storage = (*Storage)(nil)
