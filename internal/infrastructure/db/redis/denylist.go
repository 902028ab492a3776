package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// TokenDenyList stores revoked token ids (jti claims) backed by Redis.
// Key format: denylist:<jti>
type TokenDenyList struct {
	client *redis.Client
}

// NewTokenDenyList creates a TokenDenyList wrapping the given Redis client.
func NewTokenDenyList(client *redis.Client) *TokenDenyList {
	return &TokenDenyList{client: client}
}

// Revoke marks the token id as revoked. The entry expires after ttl, once
// the token itself would no longer validate.
func (d *TokenDenyList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	return d.client.Set(ctx, d.key(tokenID), "1", ttl).Err()
}

// IsRevoked reports whether the token id has been revoked.
func (d *TokenDenyList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	n, err := d.client.Exists(ctx, d.key(tokenID)).Result()
	if err != nil {
		return false, fmt.Errorf("denylist check: %w", err)
	}
	return n > 0, nil
}

func (d *TokenDenyList) key(tokenID string) string {
	return "denylist:" + tokenID
}
