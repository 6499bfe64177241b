// Package blacklist tracks revoked token IDs until their tokens would have
// expired anyway. Storage is pluggable: an in-memory store for single
// processes and a redis-backed store for fleets.
package blacklist

import (
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrClosed indicates the store or manager has been shut down.
var ErrClosed = errors.New("blacklist: closed")

// Store persists revoked token IDs with their expiry.
type Store interface {
	// Add records tokenID as revoked until expiresAt.
	Add(tokenID string, expiresAt time.Time) error

	// Contains reports whether tokenID is currently revoked. Entries past
	// their expiry read as not revoked even before cleanup removes them.
	Contains(tokenID string) (bool, error)

	// Remove drops tokenID regardless of expiry.
	Remove(tokenID string) error

	// Cleanup prunes expired entries and returns how many were removed.
	Cleanup() (int, error)

	// Size returns the number of entries currently held.
	Size() (int, error)

	// Close releases the store's resources.
	Close() error
}

// Config selects and tunes the store backing a manager.
type Config struct {
	// CleanupInterval is how often the manager sweeps expired entries.
	CleanupInterval time.Duration

	// MaxSize caps the in-memory store. Ignored by the redis store.
	MaxSize int

	// EnableAutoCleanup starts the background sweep goroutine.
	EnableAutoCleanup bool

	// Redis, when set, selects the redis store over the in-memory one.
	Redis redis.UniversalClient

	// RedisKeyPrefix namespaces revocation keys. Defaults to "jwt:revoked:".
	RedisKeyPrefix string
}

// NewStore builds the store the config asks for.
func NewStore(cfg Config) Store {
	if cfg.Redis != nil {
		return NewRedisStore(cfg.Redis, cfg.RedisKeyPrefix)
	}
	return NewMemoryStore(cfg.MaxSize)
}
