package platform

import (
	"log/slog"

	"github.com/aretw0/talktyper/pkg/core"
)

// options holds the internal configuration used to assemble a Store.
type options struct {
	storage      core.Storage
	logger       *slog.Logger
	adapter      string
	path         string
	key          string
	codec        string
	redisAddr    string
	layout       string
	readOnly     bool
	mustExist    bool
	devSafety    bool
	renderers    []core.Renderer
	errorHandler func(error)
}

// Option defines a functional option for configuring the note store.
type Option func(*options)

// defaultOptions returns the default configuration.
func defaultOptions() *options {
	return &options{
		adapter:   "fs",
		key:       core.DefaultKey,
		codec:     "json",
		redisAddr: "localhost:6379",
		devSafety: true,
	}
}

// WithAdapter selects the storage adapter by name: fs (default), memory,
// sqlite or redis.
func WithAdapter(name string) Option {
	return func(o *options) {
		if name != "" {
			o.adapter = name
		}
	}
}

// WithPath sets the adapter location: a directory for fs, a database file
// for sqlite. Empty means DefaultPath.
func WithPath(path string) Option {
	return func(o *options) {
		o.path = path
	}
}

// WithKey sets the storage key of the history blob.
func WithKey(key string) Option {
	return func(o *options) {
		if key != "" {
			o.key = key
		}
	}
}

// WithCodec selects the blob format by name (json or yaml).
func WithCodec(name string) Option {
	return func(o *options) {
		if name != "" {
			o.codec = name
		}
	}
}

// WithStorage injects a custom storage, skipping adapter construction.
func WithStorage(storage core.Storage) Option {
	return func(o *options) {
		o.storage = storage
	}
}

// WithLogger sets the logger for the store and its adapter.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithReadOnly enables read-only mode.
// In this mode:
// 1. Every write returns core.ErrReadOnly (surfaced wrapped in core.ErrPersist).
// 2. Directory creation is skipped.
// 3. The dev sandbox is bypassed: reading the real history is harmless.
func WithReadOnly(enabled bool) Option {
	return func(o *options) {
		o.readOnly = enabled
	}
}

// WithMustExist makes fs initialization fail when the directory is missing.
func WithMustExist(must bool) Option {
	return func(o *options) {
		o.mustExist = must
	}
}

// WithTimestampLayout sets the time layout of new notes.
func WithTimestampLayout(layout string) Option {
	return func(o *options) {
		o.layout = layout
	}
}

// WithRedisAddr sets the redis server address. Defaults to localhost:6379.
func WithRedisAddr(addr string) Option {
	return func(o *options) {
		if addr != "" {
			o.redisAddr = addr
		}
	}
}

// WithRenderer registers a presentation collaborator on the store.
func WithRenderer(r core.Renderer) Option {
	return func(o *options) {
		o.renderers = append(o.renderers, r)
	}
}

// WithWatcherErrorHandler receives runtime failures of the fs watcher.
func WithWatcherErrorHandler(fn func(error)) Option {
	return func(o *options) {
		o.errorHandler = fn
	}
}

// WithDevSafety controls the sandbox used when running via `go run` or
// `go test`. By default (true) file-based adapters are re-rooted into a
// temporary directory so that development runs never touch the real history.
//
// CAUTION: Only disable this if you are sure your code is safe.
func WithDevSafety(enabled bool) Option {
	return func(o *options) {
		o.devSafety = enabled
	}
}
