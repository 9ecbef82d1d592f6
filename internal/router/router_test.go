package router

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opsatya/ved/internal/analysis"
	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/internal/forensic"
	"github.com/opsatya/ved/internal/render"
	"github.com/opsatya/ved/internal/ruleconfig"
	"github.com/opsatya/ved/internal/scoring"
	"github.com/opsatya/ved/internal/store"
)

type cannedGenerator struct{}

func (cannedGenerator) Generate(context.Context, string, string) string {
	return "Looks fine."
}

type fakePrices struct {
	quote contracts.Quote
	err   error
}

func (f fakePrices) LastPrice(_ context.Context, ticker string) (contracts.Quote, error) {
	if f.err != nil {
		return contracts.Quote{}, f.err
	}
	q := f.quote
	q.Symbol = ticker
	return q, nil
}

type fakeOrders struct {
	got    contracts.OrderRequest
	result contracts.OrderResult
	err    error
}

func (f *fakeOrders) PlaceOrder(_ context.Context, req contracts.OrderRequest) (contracts.OrderResult, error) {
	f.got = req
	return f.result, f.err
}

type fakeDeployer struct {
	dep contracts.Deployment
	err error
}

func (f fakeDeployer) Deploy(context.Context) (contracts.Deployment, error) {
	return f.dep, f.err
}

var fixedNow = time.Date(2024, 3, 1, 20, 45, 0, 0, time.UTC)

func fixtureStocks() []contracts.Stock {
	year := func(rg float64) map[contracts.FiscalYear]contracts.YearRecord {
		return map[contracts.FiscalYear]contracts.YearRecord{
			"2022-23": {"RevenueGrowth": rg - 2, "DebtToEquity": 0.4},
			"2023-24": {"RevenueGrowth": rg, "DebtToEquity": 0.3, "CashReserve": 500.0},
		}
	}
	return []contracts.Stock{
		{Name: "Axis Bank Limited", Ticker: "AXISBANK", Years: year(11)},
		{Name: "HDFC Bank Limited", Ticker: "HDFCBANK", Years: year(14)},
		{Name: "ITC Limited", Ticker: "ITC", Years: year(9)},
		{Name: "Asian Paints Limited", Years: year(7)},
	}
}

func newTestRouter(t *testing.T, mutate func(*Deps)) *Router {
	t.Helper()
	rules, err := ruleconfig.Default()
	require.NoError(t, err)

	gen := cannedGenerator{}
	deps := Deps{
		Store:    store.New(fixtureStocks()),
		Rules:    rules,
		Scoring:  scoring.NewEngine(rules.Risk, gen, render.Plain),
		Analysis: analysis.NewEngine(gen, render.Plain),
		Forensic: forensic.NewEngine(rules.Forensic, gen, render.Plain),
		Now:      func() time.Time { return fixedNow },
	}
	if mutate != nil {
		mutate(&deps)
	}
	return New(deps)
}

func TestExtractFiscalYear(t *testing.T) {
	tests := []struct {
		query  string
		want   contracts.FiscalYear
		wantOK bool
	}{
		{"revenue in FY 2024", "2024-25", true},
		{"revenue in FY2024", "2024-25", true},
		{"revenue in 2024", "2024-25", true},
		{"revenue in 2023-24", "2023-24", true},
		{"revenue of itc", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			got, ok := ExtractFiscalYear(tt.query)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractors(t *testing.T) {
	assert.Equal(t, 2019, ExtractSinceYear("revenue trend since 2019"))
	assert.Equal(t, 0, ExtractSinceYear("revenue trend"))
	assert.Equal(t, "revenue of itc", StripYears("revenue of itc 2023-24"))

	assert.Equal(t, contracts.MetricRevenueGrowth, ExtractMetric("Revenue trend"))
	assert.Equal(t, contracts.MetricDebtToEquity, ExtractMetric("debt ratio"))
	assert.Equal(t, contracts.MetricCashReserve, ExtractMetric("cash position"))
	assert.Equal(t, contracts.MetricVerdict, ExtractMetric("your advice"))
	assert.Equal(t, "", ExtractMetric("hello"))

	cmd, ok := ParseOrder("place sell order for 25 shares of itc limited")
	require.True(t, ok)
	assert.Equal(t, OrderCommand{Side: contracts.OrderSideSell, Quantity: 25, Stock: "itc limited"}, cmd)

	_, ok = ParseOrder("place order for itc")
	assert.False(t, ok)

	cmd, ok = ParseOrder("place buy order for 99999999999999999999 shares of itc")
	require.True(t, ok)
	assert.Equal(t, 0, cmd.Quantity)

	assert.True(t, IsGreeting("Hi"))
	assert.True(t, IsGreeting("hello there bot"))
	assert.False(t, IsGreeting("hi there how are you"))
	assert.False(t, IsGreeting("this is ok"))
}

func TestSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, similarity("", ""), 1e-9)
	assert.InDelta(t, 0.75, similarity("abcd", "bcde"), 1e-9)
	assert.InDelta(t, 0.0, similarity("abc", "xyz"), 1e-9)
	assert.InDelta(t, 14.0/24, similarity("hdfcbnk", "hdfc bank limited"), 1e-9)
}

func TestResolveStock(t *testing.T) {
	r := newTestRouter(t, nil).Resolver()

	tests := []struct {
		name      string
		query     string
		wantStock string
		wantAlias string
	}{
		{"exact name", "itc limited", "ITC Limited", ""},
		{"token overlap beats alias table", "tell me about hdfc bank performance", "HDFC Bank Limited", ""},
		{"most shared tokens wins", "axis bank", "Axis Bank Limited", ""},
		{"abbreviation substring", "asianpaints outlook", "Asian Paints Limited", ""},
		{"abbreviation for unloaded stock", "coal outlook", "", "Coal India Limited"},
		{"nothing", "weather today", "", ""},
		{"empty", "  ", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := r.ResolveStock(tt.query)
			if tt.wantStock == "" {
				assert.False(t, m.Found())
			} else {
				require.True(t, m.Found())
				assert.Equal(t, tt.wantStock, m.Stock.Name)
			}
			assert.Equal(t, tt.wantAlias, m.Alias)
		})
	}
}

func TestExtractStockName(t *testing.T) {
	r := newTestRouter(t, nil).Resolver()

	m := r.ExtractStockName("analyze ITC Limited please")
	require.True(t, m.Found())
	assert.Equal(t, "ITC Limited", m.Stock.Name)

	m = r.ExtractStockName("analyze itc")
	require.True(t, m.Found())
	assert.Equal(t, "ITC Limited", m.Stock.Name)

	m = r.ExtractStockName("sbi")
	assert.False(t, m.Found())
	assert.Equal(t, "State Bank of India", m.Alias)

	m = r.ExtractStockName("analyze")
	assert.Equal(t, Match{}, m)

	m = r.ExtractStockName("analyze paints")
	require.True(t, m.Found())
	assert.Equal(t, "Asian Paints Limited", m.Stock.Name)

	// short words must equal a whole name token, not sit inside one
	assert.Equal(t, Match{}, r.ExtractStockName("can you analyze a company for me"))
	assert.Equal(t, Match{}, r.ExtractStockName("analyze the limited ones"))
}

func TestSuggest(t *testing.T) {
	r := newTestRouter(t, nil).Resolver()

	assert.Equal(t, []string{"HDFC Bank Limited"}, r.Suggest("hdfcbnk"))
	assert.Empty(t, r.Suggest("zzzz"))
	assert.Empty(t, r.Suggest(""))
}

func TestClassify(t *testing.T) {
	r := newTestRouter(t, nil)

	tests := []struct {
		query  string
		intent contracts.Intent
		stock  string
	}{
		{"analyze itc", contracts.IntentAnalyze, "ITC Limited"},
		{"hello", contracts.IntentGreeting, ""},
		{"hello itc", contracts.IntentGreeting, ""},
		{"deploy my algo", contracts.IntentDeploy, ""},
		{"forensic trend of revenue for itc", contracts.IntentForensic, "ITC Limited"},
		{"check insider trading at axis bank", contracts.IntentForensic, "Axis Bank Limited"},
		{"place buy order for 10 shares of hdfc bank", contracts.IntentOrder, "HDFC Bank Limited"},
		{"place buy order for 0 shares of itc", contracts.IntentDecline, ""},
		{"place buy order for 99999999999999999999 shares of itc", contracts.IntentDecline, ""},
		{"place sell order for 5 shares of zzzz", contracts.IntentDecline, ""},
		{"can you analyze a company for me", contracts.IntentDecline, ""},
		{"predict revenue for itc", contracts.IntentForecast, "ITC Limited"},
		{"summarize the annual report of itc", contracts.IntentSummary, "ITC Limited"},
		{"display cash reserve of itc", contracts.IntentCashTimeline, "ITC Limited"},
		{"show financial health of itc", contracts.IntentHealthTimeline, "ITC Limited"},
		{"revenue trend of itc", contracts.IntentTrend, "ITC Limited"},
		{"what is the current price of itc", contracts.IntentPrice, "ITC Limited"},
		{"how is itc doing", contracts.IntentScoring, "ITC Limited"},
		{"hi there how are you today", contracts.IntentDecline, ""},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			d := r.Classify(tt.query)
			assert.Equal(t, tt.intent.String(), d.Intent.String())
			if tt.stock == "" {
				assert.Nil(t, d.Stock)
			} else {
				require.NotNil(t, d.Stock)
				assert.Equal(t, tt.stock, d.Stock.Name)
			}
		})
	}
}

func TestClassify_Fallback(t *testing.T) {
	r := newTestRouter(t, nil)

	d := r.Classify("revenue trend of itc since 2020 for 2023-24")
	assert.Equal(t, contracts.IntentTrend, d.Intent)
	assert.Equal(t, contracts.MetricRevenueGrowth, d.Metric)
	assert.Equal(t, 2020, d.StartYear)
	assert.Equal(t, contracts.FiscalYear("2020-21"), d.Year, "first year token wins")

	d = r.Classify("how did itc score in FY 2023")
	assert.Equal(t, contracts.IntentScoring, d.Intent)
	assert.Equal(t, contracts.FiscalYear("2023-24"), d.Year)

	d = r.Classify("predict the outlook for itc")
	assert.Equal(t, contracts.IntentScoring, d.Intent, "predict needs a metric")
}

func TestProcess_Declines(t *testing.T) {
	r := newTestRouter(t, nil)
	ctx := context.Background()

	got := r.Process(ctx, "what is the weather")
	assert.True(t, strings.HasPrefix(got, "I'm specialized in stock analysis"), got)

	got = r.Process(ctx, "tell me about the zzzz stock market")
	assert.True(t, strings.HasPrefix(got, "I don't have information about this specific stock"), got)

	got = r.Process(ctx, "hdfcbnk")
	assert.Contains(t, got, "\nDid you mean: HDFC Bank Limited?")

	got = r.Process(ctx, "coal outlook")
	assert.Equal(t, "'Coal India Limited' is a known stock, but it is not in my database yet.", got)

	got = r.Process(ctx, "run a forensic check")
	assert.Equal(t, "Please specify a valid stock for forensic analysis", got)

	got = r.Process(ctx, "place buy order for 5 shares of zzzz")
	assert.Equal(t, "Stock 'zzzz' not found in database...", got)
}

func TestProcess_Engines(t *testing.T) {
	r := newTestRouter(t, nil)
	ctx := context.Background()

	assert.True(t, strings.HasPrefix(r.Process(ctx, "  hello  "), "Hello! I'm your Stock Analysis Chatbot."))
	assert.True(t, strings.HasPrefix(r.Process(ctx, "forensic check for itc"), "🔍 FORENSIC ANALYSIS"))
	assert.True(t, strings.HasPrefix(r.Process(ctx, "how is itc doing"), "🏆 SCORING VERDICT"))
	assert.Contains(t, r.Process(ctx, "revenue trend of itc"), "Looks fine.")
}

func TestProcess_Order(t *testing.T) {
	ctx := context.Background()
	const query = "place buy order for 10 shares of hdfc bank"

	tests := []struct {
		name   string
		result contracts.OrderResult
		err    error
		want   string
	}{
		{
			name:   "accepted",
			result: contracts.OrderResult{Status: contracts.OrderStatusOK, OrderID: "240301000123"},
			want:   "Buy order placed successfully for 10 shares of HDFC Bank Limited. Order ID: 240301000123",
		},
		{
			name:   "accepted without id",
			result: contracts.OrderResult{Status: contracts.OrderStatusOK},
			want:   "Buy order placed successfully for 10 shares of HDFC Bank Limited. Order ID: Not provided",
		},
		{
			name:   "session expired",
			result: contracts.OrderResult{Status: contracts.OrderStatusFailed, ErrorCode: contracts.AuthExpiredCode},
			want:   authExpiredMessage,
		},
		{
			name:   "rejected",
			result: contracts.OrderResult{Status: contracts.OrderStatusFailed, ErrorCode: "1007", Raw: `{"stat":"Not_Ok"}`},
			want:   `Failed to place buy order. Response: {"stat":"Not_Ok"}`,
		},
		{
			name: "transport",
			err:  errors.New("connection reset"),
			want: "Failed to place buy order with Neo API: connection reset",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			orders := &fakeOrders{result: tt.result, err: tt.err}
			r := newTestRouter(t, func(d *Deps) { d.Orders = orders })

			assert.Equal(t, tt.want, r.Process(ctx, query))
			assert.Equal(t, contracts.OrderRequest{Ticker: "HDFCBANK", Side: contracts.OrderSideBuy, Quantity: 10}, orders.got)
		})
	}

	r := newTestRouter(t, func(d *Deps) { d.Orders = &fakeOrders{} })
	assert.Equal(t, "No ticker available for Asian Paints Limited.",
		r.Process(ctx, "place sell order for 3 shares of asian paints"))

	for _, q := range []string{
		"place buy order for 0 shares of itc",
		"place buy order for 99999999999999999999 shares of itc",
	} {
		t.Run(q, func(t *testing.T) {
			orders := &fakeOrders{result: contracts.OrderResult{Status: contracts.OrderStatusOK}}
			r := newTestRouter(t, func(d *Deps) { d.Orders = orders })

			assert.Equal(t, invalidQuantityMessage, r.Process(ctx, q))
			assert.Equal(t, contracts.OrderRequest{}, orders.got, "broker must not be called")
		})
	}
}

func TestProcess_Price(t *testing.T) {
	ctx := context.Background()

	r := newTestRouter(t, func(d *Deps) {
		d.Prices = fakePrices{quote: contracts.Quote{Price: decimal.RequireFromString("412.5"), Source: "test"}}
	})
	assert.Equal(t, "The current price of ITC Limited (ITC) is ₹412.50 as of 2024-03-02 02:15:00 IST.",
		r.Process(ctx, "what is the current price of itc"))
	assert.Equal(t, "No ticker available for Asian Paints Limited in the database.",
		r.Process(ctx, "live price of asian paints"))

	r = newTestRouter(t, func(d *Deps) { d.Prices = fakePrices{err: contracts.ErrPriceUnavailable} })
	assert.Equal(t, "Unable to fetch the current price for ITC Limited at this time.",
		r.Process(ctx, "share price of itc"))
}

func TestProcess_Deploy(t *testing.T) {
	ctx := context.Background()

	r := newTestRouter(t, func(d *Deps) {
		d.Deployer = fakeDeployer{dep: contracts.Deployment{PID: "4242", Host: "10.0.0.7", StartedAt: fixedNow}}
	})
	assert.Equal(t, "[INFO] Script started with PID: 4242\n[INFO] Check logs using: cat output.log\n"+
		"Your Algo has been deployed on AWS server with IP 10.0.0.7 at time 2024-03-02 02:15:00 in IST",
		r.Process(ctx, "deploy"))

	r = newTestRouter(t, func(d *Deps) { d.Deployer = fakeDeployer{err: errors.New("dial tcp: timeout")} })
	assert.Equal(t, "[ERROR] dial tcp: timeout", r.Process(ctx, "Deploy now"))
}

func TestProcess_RecoversFromPanic(t *testing.T) {
	r := newTestRouter(t, func(d *Deps) { d.Analysis = nil })

	var got string
	require.NotPanics(t, func() { got = r.Process(context.Background(), "analyze itc") })
	assert.True(t, strings.HasPrefix(got, "❌ Error:"), got)
}
