package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRateLimiterAllowsWithinLimit(t *testing.T) {
	rl := NewRateLimiter(3, time.Hour)
	defer rl.Close()

	assert.True(t, rl.Allow("key"))
	assert.True(t, rl.Allow("key"))
	assert.True(t, rl.Allow("key"))
	assert.False(t, rl.Allow("key"))
}

func TestRateLimiterKeysAreIndependent(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	defer rl.Close()

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))
}

func TestRateLimiterWindowReset(t *testing.T) {
	rl := NewRateLimiter(1, 20*time.Millisecond)
	defer rl.Close()

	assert.True(t, rl.Allow("key"))
	assert.False(t, rl.Allow("key"))

	time.Sleep(30 * time.Millisecond)
	assert.True(t, rl.Allow("key"))
}

func TestRateLimiterReset(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	defer rl.Close()

	assert.True(t, rl.Allow("key"))
	assert.False(t, rl.Allow("key"))

	rl.Reset("key")
	assert.True(t, rl.Allow("key"))
}

func TestRateLimiterClosedAllowsAll(t *testing.T) {
	rl := NewRateLimiter(1, time.Hour)
	assert.True(t, rl.Allow("key"))
	assert.False(t, rl.Allow("key"))

	rl.Close()
	assert.True(t, rl.Allow("key"))
}

func TestRateLimiterDefaults(t *testing.T) {
	rl := NewRateLimiter(0, 0)
	defer rl.Close()

	def := DefaultConfig()
	assert.Equal(t, def.RateLimitRate, rl.limit)
	assert.Equal(t, def.RateLimitWindow, rl.interval)
}
