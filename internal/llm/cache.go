package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"github.com/opsatya/ved/pkg/logger"
	"github.com/opsatya/ved/pkg/redis"
)

// Cache stores completed narrations by prompt key
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string)
	Clear(ctx context.Context) error
}

// Key hashes the full request so identical prompts share one entry
func Key(model, system, user string) string {
	h := sha256.New()
	for _, part := range []string{model, system, user} {
		h.Write([]byte(part))
		h.Write([]byte{0})
	}
	return hex.EncodeToString(h.Sum(nil))
}

// MemoryCache is a bounded in-process LRU with optional expiry
type MemoryCache struct {
	lru *expirable.LRU[string, string]
}

// NewMemoryCache creates an LRU holding at most size entries; ttl 0 never expires
func NewMemoryCache(size int, ttl time.Duration) *MemoryCache {
	if size < 1 {
		size = 1
	}
	return &MemoryCache{lru: expirable.NewLRU[string, string](size, nil, ttl)}
}

func (c *MemoryCache) Get(_ context.Context, key string) (string, bool) {
	return c.lru.Get(key)
}

func (c *MemoryCache) Set(_ context.Context, key, value string) {
	c.lru.Add(key, value)
}

func (c *MemoryCache) Clear(_ context.Context) error {
	c.lru.Purge()
	return nil
}

// Len returns the number of cached entries
func (c *MemoryCache) Len() int {
	return c.lru.Len()
}

// RedisCache shares narrations across processes.
// Redis failures degrade to cache misses.
type RedisCache struct {
	cache  *redis.Cache
	ttl    time.Duration
	logger *logger.Logger
}

// NewRedisCache wraps a prefixed redis cache
func NewRedisCache(cache *redis.Cache, ttl time.Duration, log *logger.Logger) *RedisCache {
	return &RedisCache{cache: cache, ttl: ttl, logger: log}
}

func (c *RedisCache) Get(ctx context.Context, key string) (string, bool) {
	var value string
	found, err := c.cache.Get(ctx, key, &value)
	if err != nil {
		c.logger.WithError(err).Warn("narration cache read failed")
		return "", false
	}
	return value, found
}

func (c *RedisCache) Set(ctx context.Context, key, value string) {
	if err := c.cache.Set(ctx, key, value, c.ttl); err != nil {
		c.logger.WithError(err).Warn("narration cache write failed")
	}
}

func (c *RedisCache) Clear(ctx context.Context) error {
	n, err := c.cache.Clear(ctx)
	if err != nil {
		return err
	}
	c.logger.WithField("deleted", n).Debug("narration cache cleared")
	return nil
}

// TieredCache reads through a fast front cache to a shared back cache
type TieredCache struct {
	front Cache
	back  Cache
}

// NewTieredCache layers front over back
func NewTieredCache(front, back Cache) *TieredCache {
	return &TieredCache{front: front, back: back}
}

func (c *TieredCache) Get(ctx context.Context, key string) (string, bool) {
	if v, ok := c.front.Get(ctx, key); ok {
		return v, true
	}
	v, ok := c.back.Get(ctx, key)
	if ok {
		c.front.Set(ctx, key, v)
	}
	return v, ok
}

func (c *TieredCache) Set(ctx context.Context, key, value string) {
	c.front.Set(ctx, key, value)
	c.back.Set(ctx, key, value)
}

func (c *TieredCache) Clear(ctx context.Context) error {
	if err := c.front.Clear(ctx); err != nil {
		return err
	}
	return c.back.Clear(ctx)
}
