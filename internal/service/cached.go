package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/phrazzld/ledger-api/internal/cache"
)

// readThrough serves key from the cache, or calls load and stores its
// result for ttl. Cache failures degrade to load and are logged.
func readThrough[T any](
	ctx context.Context,
	c cache.Store,
	log *slog.Logger,
	key string,
	ttl time.Duration,
	load func(ctx context.Context) (T, error),
) (T, error) {
	var cached T
	err := cache.GetJSON(ctx, c, key, &cached)
	if err == nil {
		log.DebugContext(ctx, "cache hit", "key", key)
		return cached, nil
	}
	if !errors.Is(err, cache.ErrMiss) {
		log.WarnContext(ctx, "cache read failed, loading from store", "key", key, "error", err)
	}

	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	if err := cache.SetJSON(ctx, c, key, value, ttl); err != nil {
		log.WarnContext(ctx, "cache write failed", "key", key, "error", err)
	}
	return value, nil
}

// invalidate deletes keys. The write that made them stale has already
// committed, so a failure is logged rather than returned.
func invalidate(ctx context.Context, c cache.Store, log *slog.Logger, keys ...string) {
	if err := c.Delete(ctx, keys...); err != nil {
		log.ErrorContext(ctx, "cache invalidation failed", "keys", keys, "error", err)
	}
}
