package auth

import (
	"context"
	"time"

	"github.com/fekuna/omnipos-inventory-service/pkg/cache"
)

const blacklistPrefix = "auth:blacklist:"

// Blacklist records revoked refresh tokens until they would have expired
// anyway.
type Blacklist interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

type RedisBlacklist struct {
	cache *cache.RedisClient
	now   func() time.Time
}

func NewRedisBlacklist(c *cache.RedisClient) *RedisBlacklist {
	return &RedisBlacklist{cache: c, now: time.Now}
}

func (b *RedisBlacklist) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	ttl := expiresAt.Sub(b.now())
	if ttl <= 0 {
		return nil
	}
	return b.cache.Client.Set(ctx, blacklistPrefix+jti, 1, ttl).Err()
}

func (b *RedisBlacklist) IsRevoked(ctx context.Context, jti string) (bool, error) {
	n, err := b.cache.Client.Exists(ctx, blacklistPrefix+jti).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
