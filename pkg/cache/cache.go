// Package cache stores generated layouts and heat fields between runs.
//
// Three backends share the Cache interface: NullCache for disabled
// caching, FileCache for the CLI and RedisCache for servers that share
// results across instances. Values are encoded with msgpack.
package cache

import (
	"context"
	"time"

	"github.com/c5kyx9vb72-sketch/Layout-App/pkg/errors"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A non-positive ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Backend names a cache implementation.
type Backend string

const (
	BackendNone  Backend = "none"
	BackendFile  Backend = "file"
	BackendRedis Backend = "redis"
)

// Config selects and configures a backend.
type Config struct {
	Backend       Backend       `yaml:"backend" toml:"backend" json:"backend"`
	Dir           string        `yaml:"dir" toml:"dir" json:"dir"`
	RedisAddr     string        `yaml:"redis_addr" toml:"redis_addr" json:"redis_addr"`
	RedisPassword string        `yaml:"redis_password" toml:"redis_password" json:"-"`
	RedisDB       int           `yaml:"redis_db" toml:"redis_db" json:"redis_db"`
	TTL           time.Duration `yaml:"ttl" toml:"ttl" json:"ttl"`
}

// Open builds the cache described by cfg. An empty backend disables
// caching.
func Open(ctx context.Context, cfg Config) (Cache, error) {
	switch cfg.Backend {
	case "", BackendNone:
		return NewNullCache(), nil
	case BackendFile:
		return NewFileCache(cfg.Dir)
	case BackendRedis:
		return NewRedisCache(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "unknown cache backend %q", cfg.Backend)
	}
}
