// Package redis implements core.Storage on a Redis server.
package redis

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"

	"github.com/aretw0/talktyper/pkg/core"
)

// Storage keeps each key as one Redis string, optionally namespaced by Prefix.
type Storage struct {
	Prefix string
	client *redis.Client
	logger *slog.Logger
}

// New wraps an existing client.
func New(client *redis.Client, prefix string, logger *slog.Logger) *Storage {
	if logger == nil {
		logger = slog.Default()
	}
	return &Storage{Prefix: prefix, client: client, logger: logger}
}

// Dial creates a client for addr ("localhost:6379").
func Dial(addr, prefix string, logger *slog.Logger) *Storage {
	return New(redis.NewClient(&redis.Options{Addr: addr}), prefix, logger)
}

// Key returns the Redis key used for key.
func (s *Storage) Key(key string) string {
	return s.Prefix + key
}

// Initialize checks that the server answers.
func (s *Storage) Initialize(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis not reachable: %w", err)
	}
	return nil
}

func (s *Storage) Load(ctx context.Context, key string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.Key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, core.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %q: %w", s.Key(key), err)
	}
	return data, nil
}

func (s *Storage) Save(ctx context.Context, key string, data []byte) error {
	if err := s.client.Set(ctx, s.Key(key), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to set %q: %w", s.Key(key), err)
	}
	s.logger.Debug("blob written", "key", s.Key(key), "bytes", len(data))
	return nil
}

func (s *Storage) Remove(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.Key(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete %q: %w", s.Key(key), err)
	}
	return nil
}

// Close closes the client.
func (s *Storage) Close() error {
	return s.client.Close()
}

// ComponentType implements introspection.Component.
func (s *Storage) ComponentType() string {
	return "redis"
}

var _ core.Storage = (*Storage)(nil)
