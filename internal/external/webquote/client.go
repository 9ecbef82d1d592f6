// Package webquote scrapes last traded prices from a public quote page.
package webquote

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/shopspring/decimal"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/pkg/httputil"
	"github.com/opsatya/ved/pkg/logger"
)

const (
	source = "web"
	// DefaultSelector matches the price element of a Google Finance quote page
	DefaultSelector = "div.YMlKec.fxKbKc"
)

// Client scrapes <baseURL>/<TICKER>:NSE
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	baseURL    string
	selector   string
}

// NewClient creates a scraping price client
func NewClient(baseURL string, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("client", source),
		baseURL:    strings.TrimRight(baseURL, "/"),
		selector:   DefaultSelector,
	}
}

// WithSelector overrides the CSS selector of the price element
func (c *Client) WithSelector(selector string) *Client {
	c.selector = selector
	return c
}

// LastPrice fetches the quote page and parses the first matching element
func (c *Client) LastPrice(ctx context.Context, ticker string) (contracts.Quote, error) {
	url := fmt.Sprintf("%s/%s:NSE", c.baseURL, strings.ToUpper(strings.TrimSpace(ticker)))

	resp, err := c.httpClient.Get(ctx, url, map[string]string{"User-Agent": "Mozilla/5.0"})
	if err != nil {
		return contracts.Quote{}, fmt.Errorf("HTTP request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return contracts.Quote{}, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return contracts.Quote{}, fmt.Errorf("parse HTML: %w", err)
	}

	text := strings.TrimSpace(doc.Find(c.selector).First().Text())
	price, ok := ParsePrice(text)
	if !ok {
		c.logger.WithFields(map[string]interface{}{
			"ticker": ticker,
			"text":   text,
		}).Warn("price element missing or unparseable")
		return contracts.Quote{}, fmt.Errorf("%s: %w", ticker, contracts.ErrPriceUnavailable)
	}

	return contracts.Quote{Symbol: ticker, Price: price, Source: source}, nil
}

// ParsePrice reads "₹1,234.50" style text
func ParsePrice(text string) (decimal.Decimal, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}
		return -1
	}, text)
	if cleaned == "" {
		return decimal.Zero, false
	}
	d, err := decimal.NewFromString(cleaned)
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}
