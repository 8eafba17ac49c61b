package platform

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/aretw0/talktyper/pkg/adapters/fs"
	"github.com/aretw0/talktyper/pkg/adapters/memory"
	"github.com/aretw0/talktyper/pkg/adapters/redis"
	"github.com/aretw0/talktyper/pkg/adapters/sqlite"
	"github.com/aretw0/talktyper/pkg/codec"
	"github.com/aretw0/talktyper/pkg/core"
)

// SQLiteFile is the database file name used when the sqlite adapter is given
// a directory or no path at all.
const SQLiteFile = "talktyper.db"

// RedisPrefix namespaces keys on a shared redis server.
const RedisPrefix = "talktyper:"

// New assembles a ready-to-use Store: storage adapter, codec, and the
// persisted history loaded.
//
//	store, err := platform.New(ctx, platform.WithAdapter("sqlite"), platform.WithPath("notes.db"))
func New(ctx context.Context, opts ...Option) (*core.Store, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}

	storage, cdc, err := initStorage(ctx, o)
	if err != nil {
		return nil, err
	}

	storeOpts := []core.StoreOption{
		core.WithKey(o.key),
		core.WithLogger(o.logger),
		core.WithTimestampLayout(o.layout),
	}
	for _, r := range o.renderers {
		storeOpts = append(storeOpts, core.WithRenderer(r))
	}

	store := core.NewStore(storage, cdc, storeOpts...)
	if _, err := store.Initialize(ctx); err != nil {
		_ = store.Close()
		return nil, err
	}
	return store, nil
}

// Init builds and initializes the configured storage adapter and codec
// without loading the history.
func Init(ctx context.Context, opts ...Option) (core.Storage, core.Codec, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return initStorage(ctx, o)
}

func initStorage(ctx context.Context, o *options) (core.Storage, core.Codec, error) {
	if o.logger == nil {
		o.logger = slog.Default()
	}

	cdc, err := codec.ByName(o.codec)
	if err != nil {
		return nil, nil, err
	}

	storage := o.storage
	if storage == nil {
		switch o.adapter {
		case "fs":
			storage = initFS(o, cdc)
		case "memory":
			storage = memory.New()
		case "sqlite":
			storage, err = initSQLite(o)
		case "redis":
			storage = redis.Dial(o.redisAddr, RedisPrefix, o.logger)
		default:
			return nil, nil, fmt.Errorf("unknown adapter: %s", o.adapter)
		}
		if err != nil {
			return nil, nil, err
		}
		// fs and sqlite enforce read-only themselves, the others are wrapped.
		if o.readOnly && o.adapter != "fs" && o.adapter != "sqlite" {
			storage = readOnly{storage}
		}
	}

	if err := storage.Initialize(ctx); err != nil {
		_ = closeStorage(storage)
		return nil, nil, fmt.Errorf("failed to initialize %s storage: %w", o.adapter, err)
	}
	return storage, cdc, nil
}

// initFS handles the path resolution of the filesystem adapter.
func initFS(o *options, cdc core.Codec) core.Storage {
	path := resolvePath(o, o.path)
	o.logger.Debug("using filesystem storage", "path", path, "codec", cdc.Name())

	return fs.NewStorage(fs.Config{
		Path:         path,
		Ext:          "." + cdc.Name(),
		MustExist:    o.mustExist,
		ReadOnly:     o.readOnly,
		Logger:       o.logger,
		ErrorHandler: o.errorHandler,
	})
}

func initSQLite(o *options) (core.Storage, error) {
	path := o.path
	if path == "" {
		path = filepath.Join(DefaultPath(), SQLiteFile)
	} else if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, SQLiteFile)
	}
	path = resolvePath(o, path)

	if o.readOnly {
		o.logger.Debug("using sqlite storage", "path", path, "read_only", true)
		return sqlite.OpenReadOnly(path, o.logger)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	o.logger.Debug("using sqlite storage", "path", path)
	return sqlite.Open(path, o.logger)
}

// resolvePath applies the default location and the dev sandbox.
func resolvePath(o *options, path string) string {
	if path == "" {
		path = DefaultPath()
	}

	// Read-only runs are inherently safe, as are runs that opted out.
	bypassSafety := o.readOnly || !o.devSafety
	useTemp := IsDevRun() && !bypassSafety
	resolved := ResolvePath(path, useTemp)

	if IsDevRun() {
		switch {
		case o.readOnly:
			o.logger.Debug("running in READ-ONLY mode (bypassing dev sandbox)", "path", resolved)
		case bypassSafety:
			o.logger.Warn("running in UNSAFE mode (bypassing dev sandbox)", "path", resolved)
		default:
			o.logger.Debug("running in SAFE mode (dev sandbox enabled)", "path", resolved)
		}
	}
	return resolved
}

func closeStorage(storage core.Storage) error {
	if c, ok := storage.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}

// readOnly rejects writes on adapters without a native read-only mode.
type readOnly struct {
	core.Storage
}

func (r readOnly) Save(ctx context.Context, key string, data []byte) error {
	return core.ErrReadOnly
}

func (r readOnly) Remove(ctx context.Context, key string) error {
	return core.ErrReadOnly
}

func (r readOnly) Close() error {
	return closeStorage(r.Storage)
}

func (r readOnly) ComponentType() string {
	if c, ok := r.Storage.(interface{ ComponentType() string }); ok {
		return c.ComponentType() + " (read-only)"
	}
	return "read-only"
}
