// Package revocation stores the ids of bearer tokens that were logged out
// before their natural expiry.
package revocation

import (
	"context"
	"sync"
	"time"
)

// MemoryList is an in-process revocation list with per-entry TTL.
// Implements domain.RevocationList.
type MemoryList struct {
	mu      sync.RWMutex
	entries map[string]time.Time
	now     func() time.Time
	done    chan struct{}
	once    sync.Once
}

// NewMemoryList creates a list and starts its cleanup loop.
func NewMemoryList(cleanupInterval time.Duration) *MemoryList {
	l := &MemoryList{
		entries: make(map[string]time.Time),
		now:     time.Now,
		done:    make(chan struct{}),
	}
	go l.cleanupLoop(cleanupInterval)
	return l
}

// Revoke remembers tokenID for ttl.
func (l *MemoryList) Revoke(_ context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries[tokenID] = l.now().Add(ttl)
	return nil
}

// IsRevoked reports whether tokenID is on the list and not yet expired.
func (l *MemoryList) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	expiresAt, found := l.entries[tokenID]
	return found && l.now().Before(expiresAt), nil
}

// Close stops the cleanup loop.
func (l *MemoryList) Close() error {
	l.once.Do(func() { close(l.done) })
	return nil
}

func (l *MemoryList) cleanup() {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	for id, expiresAt := range l.entries {
		if !now.Before(expiresAt) {
			delete(l.entries, id)
		}
	}
}

func (l *MemoryList) cleanupLoop(interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			l.cleanup()
		case <-l.done:
			return
		}
	}
}

func (l *MemoryList) size() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}
