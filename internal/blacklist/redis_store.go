package blacklist

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultRedisKeyPrefix = "jwt:revoked:"

// redisStore keeps revocations in redis, one key per token ID with a TTL
// matching the token's remaining lifetime. Redis expires entries itself, so
// Cleanup is a no-op and Size scans the prefix.
type redisStore struct {
	client redis.UniversalClient
	prefix string

	mu     sync.RWMutex
	closed bool
}

// NewRedisStore creates a store on an existing redis client. The client is
// owned by the caller and is not closed with the store.
func NewRedisStore(client redis.UniversalClient, prefix string) Store {
	if prefix == "" {
		prefix = defaultRedisKeyPrefix
	}
	return &redisStore{client: client, prefix: prefix}
}

func (r *redisStore) key(tokenID string) string {
	return r.prefix + tokenID
}

func (r *redisStore) Add(tokenID string, expiresAt time.Time) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return ErrClosed
	}

	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		// Already expired; nothing to revoke.
		return nil
	}

	ctx := context.Background()
	if err := r.client.Set(ctx, r.key(tokenID), "1", ttl).Err(); err != nil {
		return fmt.Errorf("blacklist: redis set: %w", err)
	}
	return nil
}

func (r *redisStore) Contains(tokenID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return false, ErrClosed
	}

	n, err := r.client.Exists(context.Background(), r.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("blacklist: redis exists: %w", err)
	}
	return n > 0, nil
}

func (r *redisStore) Remove(tokenID string) error {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return ErrClosed
	}

	if err := r.client.Del(context.Background(), r.key(tokenID)).Err(); err != nil {
		return fmt.Errorf("blacklist: redis del: %w", err)
	}
	return nil
}

func (r *redisStore) Cleanup() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return 0, ErrClosed
	}

	// Redis TTLs handle expiry.
	return 0, nil
}

func (r *redisStore) Size() (int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		return 0, ErrClosed
	}

	ctx := context.Background()
	var (
		cursor uint64
		total  int
	)
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+"*", 1000).Result()
		if err != nil {
			return 0, fmt.Errorf("blacklist: redis scan: %w", err)
		}
		total += len(keys)
		if next == 0 {
			return total, nil
		}
		cursor = next
	}
}

func (r *redisStore) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.closed = true
	return nil
}
