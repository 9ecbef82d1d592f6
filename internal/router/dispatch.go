package router

import (
	"context"
	"errors"
	"fmt"

	"github.com/opsatya/ved/internal/analysis"
	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/internal/render"
)

const greetingMessage = "Hello! I'm your Stock Analysis Chatbot. I can help you analyze financial data " +
	"or place buy/sell orders. Try asking about a company's revenue trend, financial health, " +
	"forensic analysis, or say 'place buy order for 10 shares of <stock>'."

const authExpiredMessage = "Authentication failed: Invalid JWT token. Please restart the chatbot and provide a valid OTP."

func (r *Router) dispatch(ctx context.Context, d Decision) string {
	switch d.Intent {
	case contracts.IntentDecline:
		return d.Message
	case contracts.IntentGreeting:
		return greetingMessage
	case contracts.IntentAnalyze:
		return r.deps.Analysis.Analyze(ctx, d.Stock, "")
	case contracts.IntentDeploy:
		return r.deploy(ctx)
	case contracts.IntentForensic:
		return r.deps.Forensic.Analyze(ctx, d.Stock)
	case contracts.IntentOrder:
		return r.placeOrder(ctx, d)
	case contracts.IntentForecast:
		return r.deps.Analysis.Forecast(ctx, d.Stock, d.Metric, forecastYears)
	case contracts.IntentSummary:
		return r.deps.Analysis.Summarize(ctx, d.Stock, d.Year)
	case contracts.IntentCashTimeline:
		return r.deps.Analysis.HealthTimeline(ctx, d.Stock, analysis.CashOnly)
	case contracts.IntentHealthTimeline:
		return r.deps.Analysis.HealthTimeline(ctx, d.Stock, analysis.HealthTriple)
	case contracts.IntentTrend:
		return r.deps.Analysis.HistoricalTrend(ctx, d.Stock, d.Metric, d.StartYear, trendYears)
	case contracts.IntentPrice:
		return r.currentPrice(ctx, d.Stock)
	default:
		return r.deps.Scoring.Verdict(ctx, d.Stock, d.Year)
	}
}

func (r *Router) deploy(ctx context.Context) string {
	if r.deps.Deployer == nil {
		return "[ERROR] deployment is not configured"
	}
	dep, err := r.deps.Deployer.Deploy(ctx)
	if err != nil {
		r.logger.WithError(err).Warn("deployment failed")
		return fmt.Sprintf("[ERROR] %v", err)
	}
	return fmt.Sprintf("[INFO] Script started with PID: %s\n[INFO] Check logs using: cat output.log\n"+
		"Your Algo has been deployed on AWS server with IP %s at time %s in IST",
		dep.PID, dep.Host, render.Timestamp(dep.StartedAt))
}

func (r *Router) placeOrder(ctx context.Context, d Decision) string {
	ticker, err := d.Stock.Symbol()
	if err != nil {
		return fmt.Sprintf("No ticker available for %s.", d.Stock.Name)
	}
	if r.deps.Orders == nil {
		return "Order placement is not configured."
	}

	side := d.Order.Side
	res, err := r.deps.Orders.PlaceOrder(ctx, contracts.OrderRequest{
		Ticker:   ticker,
		Side:     side,
		Quantity: d.Order.Quantity,
	})
	if err != nil {
		r.logger.WithError(err).Warn("order placement failed")
		return fmt.Sprintf("Failed to place %s order with Neo API: %v", lowerSide(side), err)
	}

	switch {
	case res.OK():
		orderID := res.OrderID
		if orderID == "" {
			orderID = "Not provided"
		}
		return fmt.Sprintf("%s order placed successfully for %d shares of %s. Order ID: %s",
			side.Title(), d.Order.Quantity, d.Stock.Name, orderID)
	case res.AuthExpired():
		return authExpiredMessage
	default:
		return fmt.Sprintf("Failed to place %s order. Response: %s", lowerSide(side), res.Raw)
	}
}

func lowerSide(side contracts.OrderSide) string {
	if side == contracts.OrderSideSell {
		return "sell"
	}
	return "buy"
}

func (r *Router) currentPrice(ctx context.Context, stock *contracts.Stock) string {
	ticker, err := stock.Symbol()
	if err != nil {
		return fmt.Sprintf("No ticker available for %s in the database.", stock.Name)
	}
	unavailable := fmt.Sprintf("Unable to fetch the current price for %s at this time.", stock.Name)
	if r.deps.Prices == nil {
		return unavailable
	}

	quote, err := r.deps.Prices.LastPrice(ctx, ticker)
	if err != nil {
		if !errors.Is(err, contracts.ErrPriceUnavailable) {
			r.logger.WithError(err).WithField("ticker", ticker).Warn("price fetch failed")
		}
		return unavailable
	}
	return fmt.Sprintf("The current price of %s (%s) is ₹%s as of %s IST.",
		stock.Name, ticker, quote.Price.StringFixed(2), render.Timestamp(r.deps.Now()))
}
