// Package neo places market orders through the Kotak Neo trading API.
package neo

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"strings"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/pkg/config"
	"github.com/opsatya/ved/pkg/httputil"
	"github.com/opsatya/ved/pkg/logger"
)

const (
	placeOrderPath = "/Orders/2.0/quick/order/rule/ms/place"
	finKey         = "neotradeapi"
)

// Client handles communication with the Kotak Neo API
// ⭐ SSOT: broker order calls go through this client only
type Client struct {
	httpClient *httputil.Client
	logger     *logger.Logger
	cfg        config.NeoConfig
}

// NewClient creates a new Neo order client
func NewClient(cfg config.NeoConfig, httpClient *httputil.Client, log *logger.Logger) *Client {
	return &Client{
		httpClient: httpClient,
		logger:     log.WithField("client", "neo"),
		cfg:        cfg,
	}
}

// orderData is the jData payload of a place-order call
type orderData struct {
	AMO               string `json:"am"`
	DisclosedQuantity string `json:"dq"`
	ExchangeSegment   string `json:"es"`
	MarketProtection  string `json:"mp"`
	Product           string `json:"pc"`
	PF                string `json:"pf"`
	Price             string `json:"pr"`
	OrderType         string `json:"pt"`
	Quantity          string `json:"qt"`
	Validity          string `json:"rt"`
	TriggerPrice      string `json:"tp"`
	TradingSymbol     string `json:"ts"`
	TransactionType   string `json:"tt"`
}

type orderResponse struct {
	Stat    string `json:"stat"`
	OrderNo string `json:"nOrdNo"`
	Code    string `json:"code"`
	ErrMsg  string `json:"errMsg"`
	Message string `json:"message"`
}

// TradingSymbol maps a ticker to its NSE equity symbol
func TradingSymbol(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker)) + "-EQ"
}

func newOrderData(req contracts.OrderRequest) orderData {
	side := "B"
	if req.Side == contracts.OrderSideSell {
		side = "S"
	}
	return orderData{
		AMO:               "NO",
		DisclosedQuantity: "0",
		ExchangeSegment:   "nse_cm",
		MarketProtection:  "0",
		Product:           "CNC",
		PF:                "N",
		Price:             "0",
		OrderType:         "MKT",
		Quantity:          strconv.Itoa(req.Quantity),
		Validity:          "DAY",
		TriggerPrice:      "0",
		TradingSymbol:     TradingSymbol(req.Ticker),
		TransactionType:   side,
	}
}

// PlaceOrder sends a CNC market order valid for the day.
// Broker rejections come back as a failed OrderResult; only transport
// failures are returned as errors.
func (c *Client) PlaceOrder(ctx context.Context, req contracts.OrderRequest) (contracts.OrderResult, error) {
	payload, err := json.Marshal(newOrderData(req))
	if err != nil {
		return contracts.OrderResult{}, fmt.Errorf("encode order: %w", err)
	}

	form := url.Values{}
	form.Set("jData", string(payload))

	target := fmt.Sprintf("%s%s?sId=%s", c.cfg.BaseURL, placeOrderPath, url.QueryEscape(c.cfg.ServerID))
	resp, err := c.httpClient.PostForm(ctx, target, form, map[string]string{
		"Authorization": "Bearer " + c.cfg.AccessToken,
		"Sid":           c.cfg.SessionID,
		"Auth":          c.cfg.SessionToken,
		"neo-fin-key":   finKey,
		"accept":        "application/json",
	})
	if err != nil {
		return contracts.OrderResult{}, fmt.Errorf("place order request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return contracts.OrderResult{}, fmt.Errorf("read order response: %w", err)
	}

	result := parseOrderResponse(body)

	c.logger.WithFields(map[string]interface{}{
		"symbol":      TradingSymbol(req.Ticker),
		"side":        req.Side,
		"quantity":    req.Quantity,
		"status_code": resp.StatusCode,
		"status":      result.Status,
		"order_id":    result.OrderID,
		"error_code":  result.ErrorCode,
	}).Info("order placed")

	return result, nil
}

// parseOrderResponse maps stat "Ok" to an accepted order and anything else to a failure
func parseOrderResponse(body []byte) contracts.OrderResult {
	raw := strings.TrimSpace(string(body))

	var r orderResponse
	if err := json.Unmarshal(body, &r); err != nil {
		return contracts.OrderResult{Status: contracts.OrderStatusFailed, Raw: raw}
	}

	if r.Stat == "Ok" {
		return contracts.OrderResult{Status: contracts.OrderStatusOK, OrderID: r.OrderNo, Raw: raw}
	}
	return contracts.OrderResult{Status: contracts.OrderStatusFailed, ErrorCode: r.Code, Raw: raw}
}
