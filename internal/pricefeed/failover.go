package pricefeed

import (
	"context"
	"errors"
	"fmt"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/pkg/logger"
)

// Source is a named price feed
type Source struct {
	Name string
	Feed contracts.PriceFeed
}

// Failover asks each source in priority order until one has a price
type Failover struct {
	sources []Source
	logger  *logger.Logger
}

// NewFailover creates a failover feed; the first source has the highest priority
func NewFailover(log *logger.Logger, sources ...Source) *Failover {
	return &Failover{sources: sources, logger: log}
}

// LastPrice returns the first successful quote. When every source fails the
// result is ErrPriceUnavailable if any source simply had no price, otherwise
// the last transport error.
func (f *Failover) LastPrice(ctx context.Context, ticker string) (contracts.Quote, error) {
	var lastErr error
	unavailable := false

	for _, src := range f.sources {
		if err := ctx.Err(); err != nil {
			return contracts.Quote{}, err
		}

		q, err := src.Feed.LastPrice(ctx, ticker)
		if err == nil {
			return q, nil
		}

		if errors.Is(err, contracts.ErrPriceUnavailable) {
			unavailable = true
		} else {
			lastErr = fmt.Errorf("%s: %w", src.Name, err)
		}
		f.logger.WithError(err).WithFields(map[string]interface{}{
			"ticker": ticker,
			"source": src.Name,
		}).Debug("Price source failed, trying next")
	}

	if unavailable || lastErr == nil {
		return contracts.Quote{}, contracts.ErrPriceUnavailable
	}
	return contracts.Quote{}, lastErr
}
