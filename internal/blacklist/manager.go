package blacklist

import (
	"errors"
	"sync"
	"time"
)

// Manager wraps a Store with the revocation policy the processor needs and
// an optional background sweep of expired entries.
type Manager struct {
	store  Store
	config Config

	mu            sync.RWMutex
	cleanupTicker *time.Ticker
	stopCleanup   chan struct{}
	cleanupWg     sync.WaitGroup
	closed        bool
}

// NewManager wraps store. When cfg.EnableAutoCleanup is set, a goroutine
// sweeps expired entries every cfg.CleanupInterval until Close.
func NewManager(store Store, cfg Config) *Manager {
	m := &Manager{
		store:       store,
		config:      cfg,
		stopCleanup: make(chan struct{}),
	}
	if cfg.EnableAutoCleanup && cfg.CleanupInterval > 0 {
		m.startAutoCleanup()
	}
	return m
}

// Revoke marks tokenID revoked until expiresAt.
func (m *Manager) Revoke(tokenID string, expiresAt time.Time) error {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return ErrClosed
	}
	if tokenID == "" {
		return errors.New("blacklist: empty token ID")
	}

	return m.store.Add(tokenID, expiresAt)
}

// IsRevoked reports whether tokenID is currently revoked. An empty ID is
// never revoked.
func (m *Manager) IsRevoked(tokenID string) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.closed {
		return false, ErrClosed
	}
	if tokenID == "" {
		return false, nil
	}

	return m.store.Contains(tokenID)
}

// Close stops the sweep goroutine and closes the underlying store.
func (m *Manager) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return nil
	}
	m.closed = true

	if m.cleanupTicker != nil {
		m.cleanupTicker.Stop()
		close(m.stopCleanup)
		m.cleanupWg.Wait()
	}

	return m.store.Close()
}

func (m *Manager) startAutoCleanup() {
	m.cleanupTicker = time.NewTicker(m.config.CleanupInterval)
	m.cleanupWg.Add(1)

	go func() {
		defer m.cleanupWg.Done()
		for {
			select {
			case <-m.cleanupTicker.C:
				// Best effort; a failed sweep retries next tick.
				_, _ = m.store.Cleanup()
			case <-m.stopCleanup:
				return
			}
		}
	}()
}
