package blacklist

import (
	"sort"
	"sync"
	"time"
)

const defaultMaxSize = 100000

// memoryStore keeps revoked IDs in a map guarded by a RWMutex. Expired
// entries read as absent immediately; physical removal is left to Cleanup
// so reads never take the write lock.
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	maxSize int
	closed  bool
}

// NewMemoryStore creates an in-memory store holding at most maxSize entries.
func NewMemoryStore(maxSize int) Store {
	if maxSize <= 0 {
		maxSize = defaultMaxSize
	}
	return &memoryStore{
		entries: make(map[string]time.Time),
		maxSize: maxSize,
	}
}

func (m *memoryStore) Add(tokenID string, expiresAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	if len(m.entries) >= m.maxSize {
		m.pruneExpired(time.Now())
		if len(m.entries) >= m.maxSize {
			m.evictSoonest(m.maxSize / 10)
		}
	}

	m.entries[tokenID] = expiresAt
	return nil
}

func (m *memoryStore) Contains(tokenID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return false, ErrClosed
	}

	expiresAt, ok := m.entries[tokenID]
	if !ok || time.Now().After(expiresAt) {
		return false, nil
	}
	return true, nil
}

func (m *memoryStore) Remove(tokenID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}

	delete(m.entries, tokenID)
	return nil
}

func (m *memoryStore) Cleanup() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return 0, ErrClosed
	}

	return m.pruneExpired(time.Now()), nil
}

func (m *memoryStore) Size() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return 0, ErrClosed
	}

	return len(m.entries), nil
}

func (m *memoryStore) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}

	m.closed = true
	m.entries = nil
	return nil
}

// pruneExpired removes entries past their expiry. Caller holds the write lock.
func (m *memoryStore) pruneExpired(now time.Time) int {
	pruned := 0
	for id, expiresAt := range m.entries {
		if now.After(expiresAt) {
			delete(m.entries, id)
			pruned++
		}
	}
	return pruned
}

// evictSoonest drops the count entries closest to expiry to make room.
// Caller holds the write lock.
func (m *memoryStore) evictSoonest(count int) {
	if count <= 0 {
		count = 1
	}

	type entry struct {
		id        string
		expiresAt time.Time
	}

	all := make([]entry, 0, len(m.entries))
	for id, expiresAt := range m.entries {
		all = append(all, entry{id, expiresAt})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].expiresAt.Before(all[j].expiresAt)
	})

	for i := 0; i < len(all) && i < count; i++ {
		delete(m.entries, all[i].id)
	}
}
