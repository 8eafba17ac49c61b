package fs

import (
	"time"

	"github.com/aretw0/introspection"
)

// StorageState exposes internal state for observability.
type StorageState struct {
	Path          string     `json:"path"`
	Ext           string     `json:"ext"`
	ReadOnly      bool       `json:"read_only"`
	MustExist     bool       `json:"must_exist"`
	WatcherActive bool       `json:"watcher_active"`
	LastEvent     *time.Time `json:"last_event,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Storage) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return StorageState{
		Path:          s.Path,
		Ext:           s.config.Ext,
		ReadOnly:      s.config.ReadOnly,
		MustExist:     s.config.MustExist,
		WatcherActive: s.watcherActive,
		LastEvent:     s.lastEvent,
	}
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "fs"
}

var _ introspection.Introspectable = (*Storage)(nil)
var _ introspection.Component = (*Storage)(nil)

func (s *Storage) setWatcherActive(active bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.watcherActive = active
}

func (s *Storage) recordEvent() {
	s.mu.Lock()
	defer s.mu.Unlock()
	now := time.Now()
	s.lastEvent = &now
}
