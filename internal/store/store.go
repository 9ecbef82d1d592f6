// Package store holds the process-wide, read-only table of stock records.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/opsatya/ved/internal/contracts"
)

// ErrStockNotFound is returned when no record matches a name
var ErrStockNotFound = errors.New("stock not found")

// Store is read-only after construction and safe for concurrent use
// ⭐ SSOT: every engine reads stock records through this type
type Store struct {
	stocks []*contracts.Stock
	index  map[string]*contracts.Stock
}

type options struct {
	normalize bool
}

// Option configures New
type Option func(*options)

// WithNormalize coerces the numeric metric vocabulary once at construction
func WithNormalize() Option {
	return func(o *options) { o.normalize = true }
}

// New builds a store; on duplicate names the first record wins
func New(stocks []contracts.Stock, opts ...Option) *Store {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	s := &Store{
		stocks: make([]*contracts.Stock, 0, len(stocks)),
		index:  make(map[string]*contracts.Stock, len(stocks)),
	}
	for i := range stocks {
		stock := &stocks[i]
		key := strings.ToLower(stock.Name)
		if _, dup := s.index[key]; dup {
			continue
		}
		if o.normalize {
			for _, rec := range stock.Years {
				rec.NormalizeNumeric()
			}
		}
		s.index[key] = stock
		s.stocks = append(s.stocks, stock)
	}
	return s
}

// Load builds a store from a loader
func Load(ctx context.Context, loader contracts.StockLoader, opts ...Option) (*Store, error) {
	stocks, err := loader.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load stocks: %w", err)
	}
	return New(stocks, opts...), nil
}

// Get finds a stock by case-insensitive full name
func (s *Store) Get(name string) (*contracts.Stock, error) {
	stock, ok := s.index[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrStockNotFound, name)
	}
	return stock, nil
}

// All returns records in load order; callers must not modify them
func (s *Store) All() []*contracts.Stock {
	return s.stocks
}

// Len returns the number of records
func (s *Store) Len() int {
	return len(s.stocks)
}

// Names returns display names in load order
func (s *Store) Names() []string {
	names := make([]string, len(s.stocks))
	for i, stock := range s.stocks {
		names[i] = stock.Name
	}
	return names
}
