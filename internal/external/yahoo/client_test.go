package yahoo

import (
	"context"
	"errors"
	"testing"

	finance "github.com/piquette/finance-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/pkg/logger"
)

func TestSymbol(t *testing.T) {
	assert.Equal(t, "RELIANCE.NS", Symbol("reliance"))
}

func TestLastPrice(t *testing.T) {
	tests := []struct {
		name    string
		quote   *finance.Quote
		err     error
		want    string
		wantErr error
	}{
		{name: "price", quote: &finance.Quote{Symbol: "ITC.NS", RegularMarketPrice: 431.5}, want: "431.5"},
		{name: "nil quote", wantErr: contracts.ErrPriceUnavailable},
		{name: "zero price", quote: &finance.Quote{Symbol: "ITC.NS"}, wantErr: contracts.ErrPriceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var asked string
			c := NewClientWithFetcher(func(symbol string) (*finance.Quote, error) {
				asked = symbol
				return tt.quote, tt.err
			}, 0, logger.Nop())

			q, err := c.LastPrice(context.Background(), "itc")
			assert.Equal(t, "ITC.NS", asked)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, q.Price.String())
			assert.Equal(t, "yahoo", q.Source)
		})
	}
}

func TestLastPrice_FetchError(t *testing.T) {
	c := NewClientWithFetcher(func(string) (*finance.Quote, error) {
		return nil, errors.New("remote error")
	}, 0, logger.Nop())

	_, err := c.LastPrice(context.Background(), "ITC")
	assert.ErrorContains(t, err, "remote error")
}
