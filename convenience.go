package jwt

import (
	"sync"
	"sync/atomic"
	"time"
)

type cacheEntry struct {
	processor  *Processor
	lastAccess atomic.Int64
	refCount   atomic.Int32
}

type processorCache struct {
	entries     map[string]*cacheEntry
	mu          sync.RWMutex
	lastCleanup atomic.Int64
}

var cache = &processorCache{
	entries: make(map[string]*cacheEntry, 16),
}

// Issue signs claims with an HS256 processor cached per secret key. It is
// a convenience for callers that do not need rate limiting or asymmetric
// keys; those should construct a Processor. The secret key must be at
// least 32 bytes long and not obviously weak.
func Issue(secretKey string, claims Claims) (string, error) {
	processor, release, err := getProcessor(secretKey)
	if err != nil {
		return "", err
	}
	defer release()

	return processor.Issue(claims)
}

// Verify checks a token against the cached processor for secretKey and
// returns its claims.
func Verify(secretKey, token string) (*Claims, error) {
	processor, release, err := getProcessor(secretKey)
	if err != nil {
		return nil, err
	}
	defer release()

	return processor.Verify(token)
}

// Revoke blacklists a token via the cached processor for secretKey.
// Revocations live in that processor's store, so they are only visible to
// callers sharing the same secret key in the same process.
func Revoke(secretKey, token string) error {
	processor, release, err := getProcessor(secretKey)
	if err != nil {
		return err
	}
	defer release()

	return processor.Revoke(token)
}

func getProcessor(secretKey string) (*Processor, func(), error) {
	now := time.Now().Unix()

	cache.mu.RLock()
	entry, exists := cache.entries[secretKey]
	cache.mu.RUnlock()

	if exists {
		entry.lastAccess.Store(now)
		entry.refCount.Add(1)
		return entry.processor, func() { entry.refCount.Add(-1) }, nil
	}

	cfg := DefaultConfig()
	cfg.SecretKey = secretKey
	processor, err := New(cfg)
	if err != nil {
		return nil, func() {}, err
	}

	cache.mu.Lock()
	defer cache.mu.Unlock()

	if entry, exists := cache.entries[secretKey]; exists {
		processor.Close()
		entry.lastAccess.Store(now)
		entry.refCount.Add(1)
		return entry.processor, func() { entry.refCount.Add(-1) }, nil
	}

	const maxCacheSize = 100
	if len(cache.entries) >= maxCacheSize {
		evictOldestUnsafe()
	}

	entry = &cacheEntry{processor: processor}
	entry.lastAccess.Store(now)
	entry.refCount.Store(1)
	cache.entries[secretKey] = entry

	cleanupCacheIfNeeded(now)

	return processor, func() { entry.refCount.Add(-1) }, nil
}

func evictOldestUnsafe() {
	if len(cache.entries) == 0 {
		return
	}

	oldestKey := ""
	oldestTime := int64(1<<63 - 1)

	for k, entry := range cache.entries {
		if entry.refCount.Load() > 0 {
			continue
		}
		lastAccess := entry.lastAccess.Load()
		if lastAccess < oldestTime {
			oldestKey = k
			oldestTime = lastAccess
		}
	}

	if oldestKey != "" {
		if entry, exists := cache.entries[oldestKey]; exists {
			if entry.processor != nil {
				entry.processor.Close()
			}
			delete(cache.entries, oldestKey)
		}
	}
}

const (
	cacheCleanupInterval = 300  // seconds
	cacheMaxIdleTime     = 3600 // seconds
)

func cleanupCacheIfNeeded(now int64) {
	lastCleanup := cache.lastCleanup.Load()
	if now-lastCleanup < cacheCleanupInterval {
		return
	}

	if !cache.lastCleanup.CompareAndSwap(lastCleanup, now) {
		return
	}

	for key, entry := range cache.entries {
		if entry.refCount.Load() > 0 {
			continue
		}
		if now-entry.lastAccess.Load() > cacheMaxIdleTime {
			if entry.processor != nil {
				entry.processor.Close()
			}
			delete(cache.entries, key)
		}
	}
}

// ClearCache closes and drops every cached processor. Useful for tests and
// graceful shutdown; later convenience calls build fresh processors.
func ClearCache() {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	for key, entry := range cache.entries {
		if entry.processor != nil {
			entry.processor.Close()
		}
		delete(cache.entries, key)
	}
}
