package jwt

import (
	"sync"
	"time"
)

// A RateLimiter caps how many events a key may record inside a fixed
// window. Windows reset wholesale: the first event after a window elapses
// starts a fresh count. It is safe for concurrent use.
type RateLimiter struct {
	limit    int
	interval time.Duration
	maxKeys  int

	mu      sync.Mutex
	windows map[string]*window
	closed  bool
}

type window struct {
	count int
	start time.Time
}

// maxLimiterKeys bounds memory under key churn. When exceeded, the stalest
// windows are evicted first.
const maxLimiterKeys = 10000

// NewRateLimiter allows limit events per interval per key. Non-positive
// arguments fall back to the defaults in DefaultConfig.
func NewRateLimiter(limit int, interval time.Duration) *RateLimiter {
	if limit <= 0 {
		limit = DefaultConfig().RateLimitRate
	}
	if interval <= 0 {
		interval = DefaultConfig().RateLimitWindow
	}
	return &RateLimiter{
		limit:    limit,
		interval: interval,
		maxKeys:  maxLimiterKeys,
		windows:  make(map[string]*window),
	}
}

// Allow records an event for key and reports whether it fits in the current
// window. A closed limiter allows everything.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if rl.closed {
		return true
	}

	now := time.Now()
	w := rl.windows[key]
	if w == nil || now.Sub(w.start) >= rl.interval {
		if w == nil && len(rl.windows) >= rl.maxKeys {
			rl.evictStale(now)
		}
		rl.windows[key] = &window{count: 1, start: now}
		return true
	}

	if w.count >= rl.limit {
		return false
	}
	w.count++
	return true
}

// Reset forgets key's current window.
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.windows, key)
}

// Close releases all state. Subsequent Allow calls succeed unconditionally.
func (rl *RateLimiter) Close() {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	rl.closed = true
	rl.windows = nil
}

// evictStale drops expired windows, then the oldest remaining ones until a
// tenth of the capacity is free. Caller holds the lock.
func (rl *RateLimiter) evictStale(now time.Time) {
	for key, w := range rl.windows {
		if now.Sub(w.start) >= rl.interval {
			delete(rl.windows, key)
		}
	}

	target := rl.maxKeys - rl.maxKeys/10
	for len(rl.windows) > target {
		var oldestKey string
		var oldest time.Time
		for key, w := range rl.windows {
			if oldestKey == "" || w.start.Before(oldest) {
				oldestKey = key
				oldest = w.start
			}
		}
		delete(rl.windows, oldestKey)
	}
}
