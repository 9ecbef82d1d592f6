package contracts

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

// ErrPriceUnavailable is returned when a feed has no last price for a symbol
var ErrPriceUnavailable = errors.New("price unavailable")

// TextGenerator narrates analysis text.
// Failures come back as error text, never as a Go error.
type TextGenerator interface {
	Generate(ctx context.Context, system, user string) string
}

// PriceFeed fetches last traded prices
type PriceFeed interface {
	LastPrice(ctx context.Context, ticker string) (Quote, error)
}

// OrderPlacer forwards market orders to a broker
type OrderPlacer interface {
	PlaceOrder(ctx context.Context, req OrderRequest) (OrderResult, error)
}

// Deployer starts the trading script on a remote host
type Deployer interface {
	Deploy(ctx context.Context) (Deployment, error)
}

// StockLoader supplies the initial stock records
type StockLoader interface {
	Load(ctx context.Context) ([]Stock, error)
}

// Quote is a last traded price
type Quote struct {
	Symbol string          `json:"symbol"`
	Price  decimal.Decimal `json:"price"`
	Source string          `json:"source"`
}

// OrderSide represents buy or sell
type OrderSide string

const (
	OrderSideBuy  OrderSide = "BUY"
	OrderSideSell OrderSide = "SELL"
)

// Title returns "Buy" or "Sell" for messages
func (s OrderSide) Title() string {
	if s == OrderSideSell {
		return "Sell"
	}
	return "Buy"
}

// OrderRequest is a market order for whole shares
type OrderRequest struct {
	Ticker   string    `json:"ticker"`
	Side     OrderSide `json:"side"`
	Quantity int       `json:"quantity"`
}

// OrderStatus is the broker verdict
type OrderStatus string

const (
	OrderStatusOK     OrderStatus = "ok"
	OrderStatusFailed OrderStatus = "failed"
)

// AuthExpiredCode is the broker error code for an expired session token
const AuthExpiredCode = "900901"

// OrderResult is the broker response reduced to what the chatbot reports
type OrderResult struct {
	Status    OrderStatus `json:"status"`
	OrderID   string      `json:"order_id,omitempty"`
	ErrorCode string      `json:"error_code,omitempty"`
	Raw       string      `json:"raw,omitempty"`
}

// OK reports an accepted order
func (r OrderResult) OK() bool {
	return r.Status == OrderStatusOK
}

// AuthExpired reports a rejected session token
func (r OrderResult) AuthExpired() bool {
	return r.ErrorCode == AuthExpiredCode
}

// Deployment describes a started remote process
type Deployment struct {
	PID       string    `json:"pid"`
	Host      string    `json:"host"`
	StartedAt time.Time `json:"started_at"`
}
