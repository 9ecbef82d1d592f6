// Package fivepaisa reads last traded prices from the 5paisa market feed.
package fivepaisa

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/pkg/config"
	"github.com/opsatya/ved/pkg/httputil"
	"github.com/opsatya/ved/pkg/logger"
)

const (
	marketFeedPath = "/V1/MarketFeed"
	exchangeNSE    = "N"
	segmentCash    = "C"
	source         = "fivepaisa"
)

// Client handles communication with the 5paisa OpenAPI
// ⭐ SSOT: 5paisa market feed calls go through this client only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.FivePaisaConfig
}

// NewClient creates a new market feed client
func NewClient(cfg config.FivePaisaConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("client", source),
		cfg:        cfg,
	}
}

type feedItem struct {
	Exch      string `json:"Exch"`
	ExchType  string `json:"ExchType"`
	ScripData string `json:"ScripData"`
}

type feedRequest struct {
	Head struct {
		Key string `json:"key"`
	} `json:"head"`
	Body struct {
		ClientCode      string     `json:"ClientCode"`
		MarketFeedData  []feedItem `json:"MarketFeedData"`
		ClientLoginType int        `json:"ClientLoginType"`
		LastRequestTime string     `json:"LastRequestTime"`
		RefreshRate     string     `json:"RefreshRate"`
	} `json:"body"`
}

type feedResponse struct {
	Head struct {
		StatusDescription string `json:"statusDescription"`
	} `json:"head"`
	Body struct {
		Data []struct {
			Symbol   string          `json:"Symbol"`
			LastRate decimal.Decimal `json:"LastRate"`
		} `json:"Data"`
		Message string `json:"Message"`
	} `json:"body"`
}

// ScripData builds the NSE equity scrip name for a ticker
func ScripData(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker)) + "_EQ"
}

// LastPrice fetches the last traded price of an NSE cash-segment ticker
func (c *Client) LastPrice(ctx context.Context, ticker string) (contracts.Quote, error) {
	var req feedRequest
	req.Head.Key = c.cfg.AppKey
	req.Body.ClientCode = c.cfg.ClientCode
	req.Body.MarketFeedData = []feedItem{{Exch: exchangeNSE, ExchType: segmentCash, ScripData: ScripData(ticker)}}
	req.Body.LastRequestTime = "/Date(0)/"
	req.Body.RefreshRate = "H"

	headers := map[string]string{}
	if c.cfg.AccessToken != "" {
		headers["Authorization"] = "bearer " + c.cfg.AccessToken
	}

	resp, err := c.httpClient.PostJSON(ctx, c.cfg.BaseURL+marketFeedPath, req, headers)
	if err != nil {
		return contracts.Quote{}, fmt.Errorf("market feed request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return contracts.Quote{}, fmt.Errorf("market feed status %d", resp.StatusCode)
	}

	var result feedResponse
	if err := httputil.DecodeJSON(resp, &result); err != nil {
		return contracts.Quote{}, err
	}

	if len(result.Body.Data) == 0 || !result.Body.Data[0].LastRate.IsPositive() {
		c.logger.WithFields(map[string]interface{}{
			"ticker":  ticker,
			"message": result.Body.Message,
		}).Warn("market feed returned no price")
		return contracts.Quote{}, fmt.Errorf("%s: %w", ticker, contracts.ErrPriceUnavailable)
	}

	return contracts.Quote{
		Symbol: ticker,
		Price:  result.Body.Data[0].LastRate,
		Source: source,
	}, nil
}
