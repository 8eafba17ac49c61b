package talktyper

import (
	"context"
	"log/slog"

	"github.com/aretw0/talktyper/internal/platform"
	"github.com/aretw0/talktyper/pkg/core"
)

// --- Types ---

// Note is one timestamped transcription.
type Note = core.Note

// Store owns the note history.
type Store = core.Store

// Config is the environment-level configuration.
type Config = platform.Config

// --- Configuration ---

// Option defines a functional option for configuring the store.
type Option = platform.Option

// WithAdapter selects the storage adapter: fs, memory, sqlite or redis.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithPath sets the fs directory or the sqlite database file.
func WithPath(path string) Option {
	return platform.WithPath(path)
}

// WithKey sets the storage key of the history blob.
func WithKey(key string) Option {
	return platform.WithKey(key)
}

// WithCodec selects the blob format: json or yaml.
func WithCodec(name string) Option {
	return platform.WithCodec(name)
}

// WithStorage injects a custom storage adapter.
func WithStorage(storage core.Storage) Option {
	return platform.WithStorage(storage)
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithReadOnly rejects every write with core.ErrReadOnly.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithMustExist requires the fs directory to exist already.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithTimestampLayout sets the time layout of new notes.
func WithTimestampLayout(layout string) Option {
	return platform.WithTimestampLayout(layout)
}

// WithRedisAddr sets the redis server address.
func WithRedisAddr(addr string) Option {
	return platform.WithRedisAddr(addr)
}

// WithRenderer registers a presentation collaborator.
func WithRenderer(r core.Renderer) Option {
	return platform.WithRenderer(r)
}

// WithWatcherErrorHandler receives runtime failures of the fs watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// --- Factory ---

// New creates a Store with its history loaded.
func New(ctx context.Context, opts ...Option) (*Store, error) {
	return platform.New(ctx, opts...)
}

// Init builds the storage adapter and codec without loading the history.
func Init(ctx context.Context, opts ...Option) (core.Storage, core.Codec, error) {
	return platform.Init(ctx, opts...)
}

// --- Environment ---

// LoadEnv loads dotenv files, ".env" by default, without overriding the
// process environment.
func LoadEnv(files ...string) error {
	return platform.LoadEnv(files...)
}

// FromEnv reads TALKTYPER_* and the provider credentials from the environment.
func FromEnv() Config {
	return platform.FromEnv()
}

// FindRoot walks up from dir to the nearest directory holding .talktyper.
func FindRoot(dir string) (string, error) {
	return platform.FindRoot(dir)
}

// IsDevRun reports whether the process was started by `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}
