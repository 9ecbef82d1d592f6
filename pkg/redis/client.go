package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/opsatya/ved/pkg/config"
)

// Client wraps the Redis client with additional utilities
// ⭐ SSOT: the Redis connection is managed here only
type Client struct {
	rdb     *redis.Client
	enabled bool
}

// New creates a new Redis client; a disabled config yields a no-op client
func New(ctx context.Context, cfg *config.Config) (*Client, error) {
	if !cfg.Redis.Enabled {
		return &Client{enabled: false}, nil
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%s", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	// Test connection
	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	return Wrap(rdb), nil
}

// Wrap adopts an existing go-redis client
func Wrap(rdb *redis.Client) *Client {
	return &Client{
		rdb:     rdb,
		enabled: rdb != nil,
	}
}

// Close closes the Redis connection
func (c *Client) Close() error {
	if c.rdb != nil {
		return c.rdb.Close()
	}
	return nil
}

// Enabled returns whether Redis is enabled
func (c *Client) Enabled() bool {
	return c.enabled
}

// Redis returns the underlying redis client for advanced usage
func (c *Client) Redis() *redis.Client {
	return c.rdb
}
