package blacklist

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreAddContains(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()

	require.NoError(t, store.Add("token-1", time.Now().Add(time.Hour)))

	revoked, err := store.Contains("token-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.Contains("token-2")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryStoreExpiredEntriesReadAsAbsent(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()

	require.NoError(t, store.Add("stale", time.Now().Add(-time.Minute)))

	revoked, err := store.Contains("stale")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryStoreRemove(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()

	require.NoError(t, store.Add("token-1", time.Now().Add(time.Hour)))
	require.NoError(t, store.Remove("token-1"))

	revoked, err := store.Contains("token-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestMemoryStoreCleanup(t *testing.T) {
	store := NewMemoryStore(0)
	defer store.Close()

	require.NoError(t, store.Add("live", time.Now().Add(time.Hour)))
	require.NoError(t, store.Add("stale-1", time.Now().Add(-time.Second)))
	require.NoError(t, store.Add("stale-2", time.Now().Add(-time.Minute)))

	removed, err := store.Cleanup()
	require.NoError(t, err)
	assert.Equal(t, 2, removed)

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size)
}

func TestMemoryStoreCapacityEviction(t *testing.T) {
	store := NewMemoryStore(10)
	defer store.Close()

	for i := 0; i < 10; i++ {
		expiry := time.Now().Add(time.Duration(i+1) * time.Hour)
		require.NoError(t, store.Add(fmt.Sprintf("token-%d", i), expiry))
	}

	// At capacity the soonest-expiring entries make room.
	require.NoError(t, store.Add("overflow", time.Now().Add(24*time.Hour)))

	size, err := store.Size()
	require.NoError(t, err)
	assert.LessOrEqual(t, size, 10)

	revoked, err := store.Contains("overflow")
	require.NoError(t, err)
	assert.True(t, revoked)
}

func TestMemoryStoreClosed(t *testing.T) {
	store := NewMemoryStore(0)
	require.NoError(t, store.Close())

	assert.ErrorIs(t, store.Add("x", time.Now().Add(time.Hour)), ErrClosed)
	_, err := store.Contains("x")
	assert.ErrorIs(t, err, ErrClosed)
}

func newTestRedisStore(t *testing.T) (Store, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, ""), mr
}

func TestRedisStoreAddContains(t *testing.T) {
	store, _ := newTestRedisStore(t)
	defer store.Close()

	require.NoError(t, store.Add("token-1", time.Now().Add(time.Hour)))

	revoked, err := store.Contains("token-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = store.Contains("unknown")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisStoreTTLExpiry(t *testing.T) {
	store, mr := newTestRedisStore(t)
	defer store.Close()

	require.NoError(t, store.Add("short-lived", time.Now().Add(time.Minute)))
	mr.FastForward(2 * time.Minute)

	revoked, err := store.Contains("short-lived")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisStoreSkipsExpiredTokens(t *testing.T) {
	store, _ := newTestRedisStore(t)
	defer store.Close()

	require.NoError(t, store.Add("already-expired", time.Now().Add(-time.Hour)))

	revoked, err := store.Contains("already-expired")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRedisStoreRemoveAndSize(t *testing.T) {
	store, _ := newTestRedisStore(t)
	defer store.Close()

	require.NoError(t, store.Add("a", time.Now().Add(time.Hour)))
	require.NoError(t, store.Add("b", time.Now().Add(time.Hour)))

	size, err := store.Size()
	require.NoError(t, err)
	assert.Equal(t, 2, size)

	require.NoError(t, store.Remove("a"))

	size, err = store.Size()
	require.NoError(t, err)
	assert.Equal(t, 1, size)
}

func TestRedisStoreCloseLeavesClientOpen(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client, "custom:prefix:")
	require.NoError(t, store.Close())

	_, err := store.Contains("x")
	assert.ErrorIs(t, err, ErrClosed)

	// The caller's client still works after the store is closed.
	assert.NoError(t, client.Ping(context.Background()).Err())
}

func TestNewStoreSelection(t *testing.T) {
	memory := NewStore(Config{})
	defer memory.Close()
	_, isMemory := memory.(*memoryStore)
	assert.True(t, isMemory)

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	viaRedis := NewStore(Config{Redis: client})
	defer viaRedis.Close()
	_, isRedis := viaRedis.(*redisStore)
	assert.True(t, isRedis)
}

func TestManagerRevokeAndCheck(t *testing.T) {
	m := NewManager(NewMemoryStore(0), Config{})
	defer m.Close()

	require.NoError(t, m.Revoke("token-1", time.Now().Add(time.Hour)))

	revoked, err := m.IsRevoked("token-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = m.IsRevoked("other")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestManagerEmptyTokenID(t *testing.T) {
	m := NewManager(NewMemoryStore(0), Config{})
	defer m.Close()

	assert.Error(t, m.Revoke("", time.Now().Add(time.Hour)))

	revoked, err := m.IsRevoked("")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestManagerAutoCleanup(t *testing.T) {
	store := NewMemoryStore(0)
	m := NewManager(store, Config{
		CleanupInterval:   10 * time.Millisecond,
		EnableAutoCleanup: true,
	})
	defer m.Close()

	require.NoError(t, store.Add("stale", time.Now().Add(5*time.Millisecond)))

	assert.Eventually(t, func() bool {
		size, err := store.Size()
		return err == nil && size == 0
	}, time.Second, 10*time.Millisecond)
}

func TestManagerClosedOperations(t *testing.T) {
	m := NewManager(NewMemoryStore(0), Config{})
	require.NoError(t, m.Close())
	require.NoError(t, m.Close())

	assert.ErrorIs(t, m.Revoke("x", time.Now().Add(time.Hour)), ErrClosed)
	_, err := m.IsRevoked("x")
	assert.ErrorIs(t, err, ErrClosed)
}
