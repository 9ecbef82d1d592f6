// Package pricefeed composes live price sources: ordered failover and a
// short-lived quote cache.
package pricefeed

import (
	"context"
	"sync"
	"time"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/pkg/logger"
)

type cachedQuote struct {
	quote     contracts.Quote
	fetchedAt time.Time
}

// Cache remembers quotes for ttl so repeated questions do not hit the provider
// ⭐ SSOT: live quotes are cached here only
type Cache struct {
	feed   contracts.PriceFeed
	ttl    time.Duration
	now    func() time.Time
	logger *logger.Logger

	mu     sync.RWMutex
	quotes map[string]cachedQuote
}

// NewCache wraps feed; a non-positive ttl disables caching
func NewCache(feed contracts.PriceFeed, ttl time.Duration, log *logger.Logger) *Cache {
	return &Cache{
		feed:   feed,
		ttl:    ttl,
		now:    time.Now,
		logger: log,
		quotes: make(map[string]cachedQuote),
	}
}

// LastPrice returns a fresh cached quote or asks the wrapped feed.
// Failures are never cached.
func (c *Cache) LastPrice(ctx context.Context, ticker string) (contracts.Quote, error) {
	if q, ok := c.get(ticker); ok {
		return q, nil
	}

	q, err := c.feed.LastPrice(ctx, ticker)
	if err != nil {
		return contracts.Quote{}, err
	}
	if c.ttl > 0 {
		c.mu.Lock()
		c.quotes[ticker] = cachedQuote{quote: q, fetchedAt: c.now()}
		c.mu.Unlock()
	}
	return q, nil
}

func (c *Cache) get(ticker string) (contracts.Quote, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, ok := c.quotes[ticker]
	if !ok || c.now().Sub(entry.fetchedAt) >= c.ttl {
		return contracts.Quote{}, false
	}
	c.logger.WithFields(map[string]interface{}{
		"ticker": ticker,
		"source": entry.quote.Source,
	}).Debug("Price served from cache")
	return entry.quote, true
}

// CleanStale drops expired quotes and returns how many were removed
func (c *Cache) CleanStale() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	removed := 0
	now := c.now()
	for ticker, entry := range c.quotes {
		if now.Sub(entry.fetchedAt) >= c.ttl {
			delete(c.quotes, ticker)
			removed++
		}
	}
	return removed
}

// Len returns the number of cached quotes, stale ones included
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.quotes)
}
