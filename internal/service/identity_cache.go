package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// IdentityCache is the slice of the cache the user lookup depends on.
// Get reports ok=false on a miss.
type IdentityCache interface {
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

type redisIdentityCache struct {
	client *redis.Client
}

// NewRedisIdentityCache adapts a go-redis client to IdentityCache. A nil
// client yields a nil cache, which disables caching.
func NewRedisIdentityCache(client *redis.Client) IdentityCache {
	if client == nil {
		return nil
	}
	return &redisIdentityCache{client: client}
}

func (c *redisIdentityCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (c *redisIdentityCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}
