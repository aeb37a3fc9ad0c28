// Package redis implements the token blocklist on Redis so revocations
// survive process restarts.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const blocklistKeyPrefix = "revoked:"

// Blocklist stores revoked token IDs in Redis. Each entry is a SET with a TTL
// equal to the remaining token lifetime, so Redis expires it exactly when the
// token itself would stop being accepted.
type Blocklist struct {
	client *redis.Client
}

// NewBlocklist creates a Redis-backed blocklist.
func NewBlocklist(client *redis.Client) *Blocklist {
	return &Blocklist{client: client}
}

// Add marks the jti as revoked for the given ttl.
func (b *Blocklist) Add(ctx context.Context, jti string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}

	if err := b.client.Set(ctx, blocklistKey(jti), "1", ttl).Err(); err != nil {
		return fmt.Errorf("blocklist jti: %w", err)
	}

	return nil
}

// Contains reports whether the jti has been revoked.
func (b *Blocklist) Contains(ctx context.Context, jti string) (bool, error) {
	n, err := b.client.Exists(ctx, blocklistKey(jti)).Result()
	if err != nil {
		return false, fmt.Errorf("check blocklist: %w", err)
	}

	return n > 0, nil
}

func blocklistKey(jti string) string {
	return blocklistKeyPrefix + jti
}
