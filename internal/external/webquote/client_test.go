package webquote

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/pkg/httputil"
	"github.com/opsatya/ved/pkg/logger"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"₹1,234.50", "1234.5", true},
		{" 431.55 ", "431.55", true},
		{"", "0", false},
		{"N/A", "0", false},
		{"₹0.00", "0", false},
		{"1.2.3", "0", false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := ParsePrice(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got.String())
		})
	}
}

func TestLastPrice(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/ITC:NSE", r.URL.Path)
		w.Write([]byte(`<html><body><div class="YMlKec fxKbKc">₹431.55</div><div class="YMlKec fxKbKc">₹1.00</div></body></html>`))
	}))
	defer server.Close()

	c := NewClient(server.URL+"/", httputil.New(logger.Nop()).DisableRetry(), logger.Nop())
	q, err := c.LastPrice(context.Background(), "itc")
	require.NoError(t, err)
	assert.Equal(t, "431.55", q.Price.String())
	assert.Equal(t, "web", q.Source)
}

func TestLastPrice_Missing(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`<html><body><span class="price">₹431.55</span></body></html>`))
	}))
	defer server.Close()

	c := NewClient(server.URL, httputil.New(logger.Nop()).DisableRetry(), logger.Nop())
	_, err := c.LastPrice(context.Background(), "ITC")
	assert.ErrorIs(t, err, contracts.ErrPriceUnavailable)

	q, err := c.WithSelector("span.price").LastPrice(context.Background(), "ITC")
	require.NoError(t, err)
	assert.Equal(t, "431.55", q.Price.String())
}
