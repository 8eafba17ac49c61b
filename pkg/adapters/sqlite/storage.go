// Package sqlite implements core.Storage on a single SQLite key-value table.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/aretw0/talktyper/pkg/core"
)

const schema = `CREATE TABLE IF NOT EXISTS kv (
    key TEXT PRIMARY KEY,
    value BLOB NOT NULL,
    updated_at DATETIME NOT NULL
)`

// Storage keeps each key as one row of the kv table.
type Storage struct {
	DSN    string
	db     *sql.DB
	logger *slog.Logger

	readOnly bool
	missing  bool // read-only on a database that does not exist yet
}

// Open opens (or creates) the database at dsn, e.g. "notes.db" or ":memory:".
func Open(dsn string, logger *slog.Logger) (*Storage, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	// A single connection keeps ":memory:" databases alive across calls.
	db.SetMaxOpenConns(1)

	if logger == nil {
		logger = slog.Default()
	}
	return &Storage{DSN: dsn, db: db, logger: logger}, nil
}

// OpenReadOnly opens the database file at path without ever writing to it.
// A missing file is not created: it reads as an empty store.
func OpenReadOnly(path string, logger *slog.Logger) (*Storage, error) {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Storage{DSN: path, logger: logger, readOnly: true}

	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		s.missing = true
		return s, nil
	} else if err != nil {
		return nil, fmt.Errorf("could not stat database: %w", err)
	}

	db, err := sql.Open("sqlite3", "file:"+path+"?mode=ro")
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}
	db.SetMaxOpenConns(1)
	s.db = db
	return s, nil
}

// Initialize creates the kv table. A read-only store only checks for it.
func (s *Storage) Initialize(ctx context.Context) error {
	if s.readOnly {
		if s.missing {
			return nil
		}
		err := s.db.QueryRowContext(ctx, "SELECT 1 FROM sqlite_master WHERE type = 'table' AND name = 'kv'").Scan(new(int))
		if errors.Is(err, sql.ErrNoRows) {
			s.missing = true
			return nil
		}
		if err != nil {
			return fmt.Errorf("could not inspect database: %w", err)
		}
		return nil
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("could not create kv table: %w", err)
	}
	return nil
}

func (s *Storage) Load(ctx context.Context, key string) ([]byte, error) {
	if s.missing {
		return nil, core.ErrNotFound
	}
	var data []byte
	err := s.db.QueryRowContext(ctx, "SELECT value FROM kv WHERE key = ?", key).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query %q: %w", key, err)
	}
	return data, nil
}

func (s *Storage) Save(ctx context.Context, key string, data []byte) error {
	if s.readOnly {
		return core.ErrReadOnly
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO kv(key, value, updated_at) VALUES(?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		key, data, time.Now().UTC(),
	)
	if err != nil {
		return fmt.Errorf("failed to save %q: %w", key, err)
	}
	s.logger.Debug("blob written", "key", key, "bytes", len(data))
	return nil
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	if s.readOnly {
		return core.ErrReadOnly
	}
	if _, err := s.db.ExecContext(ctx, "DELETE FROM kv WHERE key = ?", key); err != nil {
		return fmt.Errorf("failed to delete %q: %w", key, err)
	}
	return nil
}

// Close closes the database.
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	if s.readOnly {
		return "sqlite (read-only)"
	}
	return "sqlite"
}

var _ core.Storage = (*Storage)(nil)
