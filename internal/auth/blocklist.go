package auth

import (
	"context"
	"sync"
	"time"
)

// Blocklist records revoked token IDs. Entries carry a TTL equal to the
// remaining token lifetime, after which they are irrelevant (the token is
// expired anyway) and may be dropped.
type Blocklist interface {
	// Add marks the jti as revoked for the given ttl. Non-positive ttl is a
	// no-op: the token is already expired.
	Add(ctx context.Context, jti string, ttl time.Duration) error
	// Contains reports whether the jti has been revoked.
	Contains(ctx context.Context, jti string) (bool, error)
}

// MemoryBlocklist is an in-process Blocklist. Revocations do not survive a
// restart; use the Redis backend where that matters.
type MemoryBlocklist struct {
	mu      sync.RWMutex
	entries map[string]time.Time
}

// NewMemoryBlocklist creates an empty in-process blocklist.
func NewMemoryBlocklist() *MemoryBlocklist {
	return &MemoryBlocklist{
		entries: make(map[string]time.Time),
	}
}

// Add marks the jti as revoked until now+ttl.
func (b *MemoryBlocklist) Add(_ context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	b.entries[jti] = time.Now().Add(ttl)

	// Opportunistic sweep of expired entries keeps the map bounded without a
	// background goroutine.
	if len(b.entries) > 1024 {
		now := time.Now()
		for id, exp := range b.entries {
			if now.After(exp) {
				delete(b.entries, id)
			}
		}
	}

	return nil
}

// Contains reports whether the jti is currently revoked.
func (b *MemoryBlocklist) Contains(_ context.Context, jti string) (bool, error) {
	b.mu.RLock()
	exp, ok := b.entries[jti]
	b.mu.RUnlock()

	if !ok {
		return false, nil
	}
	if time.Now().After(exp) {
		b.mu.Lock()
		delete(b.entries, jti)
		b.mu.Unlock()
		return false, nil
	}
	return true, nil
}
