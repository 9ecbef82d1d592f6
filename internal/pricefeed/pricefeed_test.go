package pricefeed

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/pkg/logger"
)

type stubFeed struct {
	source string
	price  string
	err    error
	calls  int
}

func (s *stubFeed) LastPrice(_ context.Context, ticker string) (contracts.Quote, error) {
	s.calls++
	if s.err != nil {
		return contracts.Quote{}, s.err
	}
	return contracts.Quote{Symbol: ticker, Price: decimal.RequireFromString(s.price), Source: s.source}, nil
}

func TestCache(t *testing.T) {
	feed := &stubFeed{source: "stub", price: "101.25"}
	c := NewCache(feed, 15*time.Second, logger.Nop())
	now := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return now }
	ctx := context.Background()

	q, err := c.LastPrice(ctx, "ITC")
	require.NoError(t, err)
	assert.Equal(t, "101.25", q.Price.String())

	now = now.Add(10 * time.Second)
	_, err = c.LastPrice(ctx, "ITC")
	require.NoError(t, err)
	assert.Equal(t, 1, feed.calls, "served from cache within ttl")

	now = now.Add(5 * time.Second)
	_, err = c.LastPrice(ctx, "ITC")
	require.NoError(t, err)
	assert.Equal(t, 2, feed.calls, "refetched once the ttl elapsed")

	_, err = c.LastPrice(ctx, "HDFCBANK")
	require.NoError(t, err)
	assert.Equal(t, 2, c.Len())

	now = now.Add(15 * time.Second)
	assert.Equal(t, 2, c.CleanStale())
	assert.Equal(t, 0, c.Len())
}

func TestCache_FailuresAreNotCached(t *testing.T) {
	feed := &stubFeed{err: contracts.ErrPriceUnavailable}
	c := NewCache(feed, time.Minute, logger.Nop())

	for i := 0; i < 2; i++ {
		_, err := c.LastPrice(context.Background(), "ITC")
		assert.ErrorIs(t, err, contracts.ErrPriceUnavailable)
	}
	assert.Equal(t, 2, feed.calls)
	assert.Equal(t, 0, c.Len())
}

func TestCache_ZeroTTL(t *testing.T) {
	feed := &stubFeed{price: "1"}
	c := NewCache(feed, 0, logger.Nop())

	for i := 0; i < 3; i++ {
		_, err := c.LastPrice(context.Background(), "ITC")
		require.NoError(t, err)
	}
	assert.Equal(t, 3, feed.calls)
}

func TestFailover(t *testing.T) {
	ctx := context.Background()
	transport := errors.New("connection refused")

	tests := []struct {
		name       string
		sources    []*stubFeed
		wantSource string
		wantErr    error
		wantCalls  []int
	}{
		{
			name:       "first source wins",
			sources:    []*stubFeed{{source: "fivepaisa", price: "10"}, {source: "yahoo", price: "11"}},
			wantSource: "fivepaisa",
			wantCalls:  []int{1, 0},
		},
		{
			name:       "falls through on transport error",
			sources:    []*stubFeed{{err: transport}, {source: "yahoo", price: "11"}},
			wantSource: "yahoo",
			wantCalls:  []int{1, 1},
		},
		{
			name:      "unavailable beats transport error",
			sources:   []*stubFeed{{err: contracts.ErrPriceUnavailable}, {err: transport}},
			wantErr:   contracts.ErrPriceUnavailable,
			wantCalls: []int{1, 1},
		},
		{
			name:      "transport error surfaces",
			sources:   []*stubFeed{{err: transport}},
			wantErr:   transport,
			wantCalls: []int{1},
		},
		{
			name:    "no sources",
			wantErr: contracts.ErrPriceUnavailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sources := make([]Source, len(tt.sources))
			for i, s := range tt.sources {
				sources[i] = Source{Name: s.source, Feed: s}
			}

			q, err := NewFailover(logger.Nop(), sources...).LastPrice(ctx, "ITC")
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
				assert.Equal(t, tt.wantSource, q.Source)
			}
			for i, s := range tt.sources {
				assert.Equal(t, tt.wantCalls[i], s.calls, "source %d", i)
			}
		})
	}
}
