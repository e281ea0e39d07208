package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrNotFound is returned by Backend.Load when no checkpoint exists under a key.
var ErrNotFound = errors.New("checkpoint not found")

// ErrUnknownDriver is returned by OpenBackend for an unsupported driver name.
var ErrUnknownDriver = errors.New("unknown store driver")

// Backend is durable storage for a single opaque blob per key.
type Backend interface {
	// Load returns the blob stored under key, or ErrNotFound.
	Load(ctx context.Context, key string) ([]byte, error)

	// Save replaces the blob stored under key.
	Save(ctx context.Context, key string, value []byte) error

	// Close releases the backend.
	Close() error
}

// BackendConfig selects and configures a Backend.
type BackendConfig struct {
	Driver    string // sqlite, file, redis or memory
	Path      string // sqlite database or JSON file path
	RedisAddr string
	RedisDB   int
}

// OpenBackend constructs the backend named by cfg.Driver. Empty means sqlite.
func OpenBackend(ctx context.Context, cfg BackendConfig) (Backend, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", "sqlite":
		b, err := NewSQLiteBackend(cfg.Path)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "file", "json":
		return NewFileBackend(cfg.Path), nil
	case "redis":
		b, err := NewRedisBackend(ctx, cfg.RedisAddr, cfg.RedisDB)
		if err != nil {
			return nil, err
		}
		return b, nil
	case "memory":
		return NewMemoryBackend(), nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownDriver, cfg.Driver)
}
