package jwt

import (
	"time"

	"github.com/redis/go-redis/v9"
)

// BlacklistConfig tunes the revocation store behind a Processor.
type BlacklistConfig struct {
	// CleanupInterval is how often expired revocations are swept.
	CleanupInterval time.Duration

	// MaxSize caps the in-memory store. Ignored when Redis is set.
	MaxSize int

	// EnableAutoCleanup runs the sweep on a background ticker.
	EnableAutoCleanup bool

	// Redis, when set, stores revocations in redis (with per-entry TTLs)
	// instead of process memory, so revocation is shared across instances.
	// The client stays owned by the caller.
	Redis redis.UniversalClient

	// RedisKeyPrefix namespaces revocation keys in redis.
	RedisKeyPrefix string
}

// DefaultBlacklistConfig returns the in-memory revocation defaults.
func DefaultBlacklistConfig() BlacklistConfig {
	return BlacklistConfig{
		CleanupInterval:   5 * time.Minute,
		MaxSize:           100000,
		EnableAutoCleanup: true,
	}
}
