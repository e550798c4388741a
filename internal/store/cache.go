package store

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

type redisCache struct {
	client *redis.Client
	prefix string
}

// NewRedisCache namespaces every key with prefix so several services can
// share one Redis database.
func NewRedisCache(client *redis.Client, prefix string) *redisCache {
	return &redisCache{client: client, prefix: prefix}
}

func (c *redisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := c.client.Get(ctx, c.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (c *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, value, ttl).Err()
}

// nopCache is used when Redis is not configured; every lookup misses.
type nopCache struct{}

func NewNopCache() nopCache { return nopCache{} }

func (nopCache) Get(context.Context, string) (string, bool, error) { return "", false, nil }

func (nopCache) Set(context.Context, string, string, time.Duration) error { return nil }
