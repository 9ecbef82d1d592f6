// Package yahoo reads last traded prices from Yahoo Finance.
package yahoo

import (
	"context"
	"fmt"
	"strings"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/quote"
	"github.com/shopspring/decimal"
	"golang.org/x/time/rate"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/pkg/logger"
)

const source = "yahoo"

// QuoteFunc fetches one Yahoo quote by symbol
type QuoteFunc func(symbol string) (*finance.Quote, error)

// Client resolves NSE tickers through finance-go
type Client struct {
	fetch   QuoteFunc
	limiter *rate.Limiter
	logger  *logger.Logger
}

// NewClient creates a Yahoo price client limited to rps requests per second
func NewClient(rps float64, log *logger.Logger) *Client {
	return NewClientWithFetcher(quote.Get, rps, log)
}

// NewClientWithFetcher creates a client around a custom quote fetcher
func NewClientWithFetcher(fetch QuoteFunc, rps float64, log *logger.Logger) *Client {
	c := &Client{fetch: fetch, logger: log.WithField("client", source)}
	if rps > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(rps), 1)
	}
	return c
}

// Symbol maps a ticker to its NSE Yahoo symbol
func Symbol(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker)) + ".NS"
}

// LastPrice returns the regular market price
func (c *Client) LastPrice(ctx context.Context, ticker string) (contracts.Quote, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return contracts.Quote{}, fmt.Errorf("rate limit wait failed: %w", err)
		}
	}

	symbol := Symbol(ticker)
	q, err := c.fetch(symbol)
	if err != nil {
		return contracts.Quote{}, fmt.Errorf("yahoo quote %s: %w", symbol, err)
	}
	if q == nil || q.RegularMarketPrice <= 0 {
		c.logger.WithField("symbol", symbol).Warn("yahoo returned no price")
		return contracts.Quote{}, fmt.Errorf("%s: %w", symbol, contracts.ErrPriceUnavailable)
	}

	return contracts.Quote{
		Symbol: ticker,
		Price:  decimal.NewFromFloat(q.RegularMarketPrice),
		Source: source,
	}, nil
}
