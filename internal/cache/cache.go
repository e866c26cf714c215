// Package cache provides a read-through cache for the menu endpoints.
// Product and category listings are read-heavy and change rarely, so they
// are served from Redis with a short TTL when a Redis address is configured.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Invalidate(ctx context.Context, pattern string) error
}

type redisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(addr, prefix string) Cache {
	return &redisCache{
		client: redis.NewClient(&redis.Options{Addr: addr}),
		prefix: prefix,
	}
}

func (r *redisCache) key(k string) string {
	return fmt.Sprintf("%s:%s", r.prefix, k)
}

func (r *redisCache) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return val, true, nil
}

func (r *redisCache) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return r.client.Set(ctx, r.key(key), value, ttl).Err()
}

// Invalidate removes all keys matching the prefixed pattern, for when menu
// data is changed out of band and the TTL is too long to wait out.
func (r *redisCache) Invalidate(ctx context.Context, pattern string) error {
	iter := r.client.Scan(ctx, 0, r.key(pattern), 100).Iterator()
	for iter.Next(ctx) {
		if err := r.client.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

// Noop is used when no Redis address is configured; every lookup misses.
type Noop struct{}

func (Noop) Get(ctx context.Context, key string) (string, bool, error) { return "", false, nil }
func (Noop) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return nil
}
func (Noop) Invalidate(ctx context.Context, pattern string) error { return nil }
