package redis

import (
	"context"
	"errors"
	"time"

	"github.com/phrazzld/ledger-api/internal/cache"
	goredis "github.com/redis/go-redis/v9"
)

// Cache implements cache.Store on a Redis client.
type Cache struct {
	client goredis.Cmdable
}

var _ cache.Store = (*Cache)(nil)

// NewCache wraps client as a cache.Store.
func NewCache(client goredis.Cmdable) *Cache {
	return &Cache{client: client}
}

// Get implements cache.Store.Get.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, cache.ErrMiss
	}
	return val, err
}

// Set implements cache.Store.Set.
func (c *Cache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return c.client.Set(ctx, key, value, ttl).Err()
}

// Delete implements cache.Store.Delete.
func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}
