package services

import (
	"context"
	"encoding/json"
	"time"

	"github.com/GregMSThompson/onboarding/pkg/logger"
)

type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

type cacheObserver interface {
	CacheHit(cache string)
	CacheMiss(cache string)
}

// cachedList is a cache-aside read. Cache failures are logged and fall
// through to load so a Redis outage never fails a request.
func cachedList[T any](ctx context.Context, c Cache, obs cacheObserver, name, key string, ttl time.Duration, load func(context.Context) ([]T, error)) ([]T, error) {
	log := logger.FromContext(ctx)

	raw, ok, err := c.Get(ctx, key)
	if err != nil {
		log.Warn("cache read failed", "cache", name, "key", key, "error", err)
	}
	if ok {
		var out []T
		if err := json.Unmarshal([]byte(raw), &out); err == nil && out != nil {
			obs.CacheHit(name)
			return out, nil
		}
		log.Warn("discarding undecodable cache entry", "cache", name, "key", key)
	}
	obs.CacheMiss(name)

	out, err := load(ctx)
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}

	if data, err := json.Marshal(out); err == nil {
		if err := c.Set(ctx, key, string(data), ttl); err != nil {
			log.Warn("cache write failed", "cache", name, "key", key, "error", err)
		}
	}
	return out, nil
}
