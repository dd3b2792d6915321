package revocation

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const keyPrefix = "client-gate:revoked:"

// RedisList keeps revoked token ids as expiring Redis keys so every
// replica sees the same list. Implements domain.RevocationList.
type RedisList struct {
	client *redis.Client
}

// NewRedisListWithURL connects using a redis:// URL.
func NewRedisListWithURL(url string) (*RedisList, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, err
	}
	return &RedisList{client: redis.NewClient(opts)}, nil
}

// NewRedisList wraps an existing client.
func NewRedisList(client *redis.Client) *RedisList {
	return &RedisList{client: client}
}

// Ping checks connectivity.
func (r *RedisList) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (r *RedisList) Close() error {
	return r.client.Close()
}

// Revoke stores tokenID with an expiry of ttl.
func (r *RedisList) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	return r.client.Set(ctx, keyPrefix+tokenID, 1, ttl).Err()
}

// IsRevoked reports whether tokenID has an unexpired key.
func (r *RedisList) IsRevoked(ctx context.Context, tokenID string) (bool, error) {
	err := r.client.Get(ctx, keyPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
