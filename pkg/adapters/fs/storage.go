// Package fs implements core.Storage on the local filesystem.
// Each key is stored as one file, written atomically.
package fs

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/talktyper/pkg/core"
)

// Storage implements core.Storage using one file per key under Path.
type Storage struct {
	Path   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastEvent     *time.Time
}

// Config holds the configuration for the filesystem storage.
type Config struct {
	Path         string
	Ext          string // file extension for blobs, e.g. ".json" (default) or ".yaml"
	MustExist    bool
	ReadOnly     bool
	Logger       *slog.Logger
	Debounce     time.Duration // coalescing window for Watch, default 50ms
	ErrorHandler func(error)   // receives watcher failures
}

// NewStorage creates a new filesystem-backed storage.
func NewStorage(config Config) *Storage {
	if config.Ext == "" {
		config.Ext = ".json"
	}
	if !strings.HasPrefix(config.Ext, ".") {
		config.Ext = "." + config.Ext
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}
	if config.Debounce <= 0 {
		config.Debounce = 50 * time.Millisecond
	}
	return &Storage{
		Path:   config.Path,
		config: config,
	}
}

// Initialize makes sure the directory exists.
func (s *Storage) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			if s.config.ReadOnly {
				// Nothing to read yet; every Load reports ErrNotFound.
				return nil
			}
			return fmt.Errorf("storage path does not exist: %s", s.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat storage path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("storage path is not a directory: %s", s.Path)
		}
		return nil
	}

	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	return nil
}

// Filename returns the file a key is stored in.
func (s *Storage) Filename(key string) (string, error) {
	if err := validateKey(key); err != nil {
		return "", err
	}
	return filepath.Join(s.Path, key+s.config.Ext), nil
}

// Load reads the blob stored under key.
func (s *Storage) Load(ctx context.Context, key string) ([]byte, error) {
	filename, err := s.Filename(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(filename)
	if errors.Is(err, os.ErrNotExist) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	return data, nil
}

// Save replaces the file for key atomically.
func (s *Storage) Save(ctx context.Context, key string, data []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	filename, err := s.Filename(key)
	if err != nil {
		return err
	}

	if err := writeFileAtomic(filename, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}
	s.config.Logger.Debug("blob written", "key", key, "bytes", len(data))
	return nil
}

// Remove deletes the file for key. A missing file is not an error.
func (s *Storage) Remove(ctx context.Context, key string) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	filename, err := s.Filename(key)
	if err != nil {
		return err
	}

	if err := os.Remove(filename); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to remove %s: %w", filename, err)
	}
	s.config.Logger.Debug("blob removed", "key", key)
	return nil
}

// validateKey keeps keys to a single plain file name so they can double as
// watch patterns.
func validateKey(key string) error {
	if key == "" {
		return fmt.Errorf("storage key cannot be empty")
	}
	if key == "." || key == ".." || strings.ContainsAny(key, `/\*?[]{}`) {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}

var (
	_ core.Storage   = (*Storage)(nil)
	_ core.Watchable = (*Storage)(nil)
)
