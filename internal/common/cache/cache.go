package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrMiss is returned by Get when the key does not exist.
var ErrMiss = errors.New("cache miss")

type CacheService struct {
	client redis.Cmdable
}

func NewCacheService(client redis.Cmdable) *CacheService {
	return &CacheService{client: client}
}

// Get decodes the JSON value stored under key into dest.
func (c *CacheService) Get(ctx context.Context, key string, dest interface{}) error {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return ErrMiss
		}
		return err
	}
	return json.Unmarshal([]byte(data), dest)
}

func (c *CacheService) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return c.client.Set(ctx, key, data, ttl).Err()
}

func (c *CacheService) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

// DeletePattern removes every key matching pattern using SCAN.
func (c *CacheService) DeletePattern(ctx context.Context, pattern string) (int, error) {
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, 100).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, err
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}

// GetOrSet returns the cached value or computes, stores and returns it.
// Cache failures never fail the call; only loader errors are returned.
func GetOrSet[T any](ctx context.Context, c *CacheService, key string, ttl time.Duration, loader func(context.Context) (T, error)) (T, error) {
	var cached T
	if c != nil {
		if err := c.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	value, err := loader(ctx)
	if err != nil {
		return value, err
	}

	if c != nil {
		_ = c.Set(ctx, key, value, ttl)
	}
	return value, nil
}

func AnalyticsKey(parts ...interface{}) string {
	key := "analytics"
	for _, p := range parts {
		key += fmt.Sprintf(":%v", p)
	}
	return key
}

// InvalidateAnalytics drops every cached analytics rollup.
func (c *CacheService) InvalidateAnalytics(ctx context.Context) (int, error) {
	return c.DeletePattern(ctx, "analytics:*")
}

// InvalidateUser drops the cached activity rollup of one user.
func (c *CacheService) InvalidateUser(ctx context.Context, userID int64) error {
	return c.Delete(ctx, AnalyticsKey("user", userID))
}
