package redis

import (
	"context"
	"fmt"
	"net"
	"strconv"
	"time"

	"github.com/phrazzld/ledger-api/internal/config"
	goredis "github.com/redis/go-redis/v9"
)

// NewClient creates a Redis client from the cache configuration and verifies
// the connection with a PING.
func NewClient(ctx context.Context, cfg config.CacheConfig) (*goredis.Client, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return client, ping(ctx, client)
}

// NewClientFromURL creates a Redis client from a redis:// URL, as used for the
// broker connection.
func NewClientFromURL(ctx context.Context, url string) (*goredis.Client, error) {
	opts, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := goredis.NewClient(opts)
	return client, ping(ctx, client)
}

func ping(ctx context.Context, client *goredis.Client) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping %s: %w", client.Options().Addr, err)
	}
	return nil
}
