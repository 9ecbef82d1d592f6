// Package router classifies chat queries into intents and dispatches them
// to the engines and external collaborators.
package router

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/opsatya/ved/internal/analysis"
	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/internal/forensic"
	"github.com/opsatya/ved/internal/ruleconfig"
	"github.com/opsatya/ved/internal/scoring"
	"github.com/opsatya/ved/internal/store"
	"github.com/opsatya/ved/pkg/logger"
)

const (
	forecastYears = 3
	trendYears    = 5
)

var (
	forensicTriggers = []string{
		"forensic", "fraud check", "accounting anomaly", "auditor remark", "insider trading",
		"benford", "revenue quality", "cash flow", "related party", "expense anomaly",
	}
	financeVocabulary = []string{"stock", "share", "market", "invest", "finance", "analysis"}
	priceKeywords     = []string{"current price", "live price", "stock price", "market price", "share price"}
)

// Deps is everything the router needs, built once at startup
// ⭐ SSOT: collaborators reach the router only through this struct
type Deps struct {
	Store    *store.Store
	Rules    *ruleconfig.Rules
	Scoring  *scoring.Engine
	Analysis *analysis.Engine
	Forensic *forensic.Engine

	// Optional collaborators; nil disables the matching intent
	Prices   contracts.PriceFeed
	Orders   contracts.OrderPlacer
	Deployer contracts.Deployer

	Now    func() time.Time
	Logger *logger.Logger
}

// Decision is the classified query
type Decision struct {
	Intent    contracts.Intent
	Stock     *contracts.Stock
	Metric    string
	Year      contracts.FiscalYear
	StartYear int
	Order     OrderCommand
	// Message is the fixed reply of a decline
	Message string
}

type query struct {
	raw   string
	lower string
}

// rule is one step of the ordered classifier; the first match wins
type rule struct {
	intent contracts.Intent
	match  func(r *Router, q query) (Decision, bool)
}

// stockRule refines a resolved fallback query; the first match wins
type stockRule struct {
	intent contracts.Intent
	match  func(q query, metric string) bool
}

var rules = []rule{
	{contracts.IntentAnalyze, (*Router).matchAnalyze},
	{contracts.IntentGreeting, (*Router).matchGreeting},
	{contracts.IntentDeploy, (*Router).matchDeploy},
	{contracts.IntentForensic, (*Router).matchForensic},
	{contracts.IntentOrder, (*Router).matchOrder},
}

var stockRules = []stockRule{
	{contracts.IntentForecast, func(q query, metric string) bool {
		return strings.Contains(q.lower, "predict") && metric != ""
	}},
	{contracts.IntentSummary, func(q query, _ string) bool {
		return containsAny(q.lower, []string{"summarize", "annual report"})
	}},
	{contracts.IntentCashTimeline, func(q query, _ string) bool {
		return isDisplay(q) && strings.Contains(q.lower, "cash reserve")
	}},
	{contracts.IntentHealthTimeline, func(q query, _ string) bool {
		return isDisplay(q) && containsAny(q.lower, []string{"financial health", "health timeline"})
	}},
	{contracts.IntentTrend, func(q query, metric string) bool {
		return strings.Contains(q.lower, "trend") && metric != ""
	}},
	{contracts.IntentPrice, func(q query, _ string) bool {
		return containsAny(q.lower, priceKeywords)
	}},
}

func isDisplay(q query) bool {
	return strings.Contains(q.lower, "display") || strings.Contains(q.lower, "show")
}

// Router answers chat queries
type Router struct {
	deps     Deps
	resolver *Resolver
	logger   *logger.Logger
}

// New creates a router
func New(deps Deps) *Router {
	if deps.Now == nil {
		deps.Now = time.Now
	}
	if deps.Logger == nil {
		deps.Logger = logger.Nop()
	}
	return &Router{
		deps:     deps,
		resolver: NewResolver(deps.Store, deps.Rules.Resolution),
		logger:   deps.Logger.WithField("component", "router"),
	}
}

// Resolver exposes stock resolution
func (r *Router) Resolver() *Resolver {
	return r.resolver
}

// Classify runs the ordered rules without calling any collaborator
func (r *Router) Classify(text string) Decision {
	q := query{raw: strings.TrimSpace(text)}
	q.lower = strings.ToLower(q.raw)

	for _, rl := range rules {
		if d, ok := rl.match(r, q); ok {
			if d.Message == "" {
				d.Intent = rl.intent
			}
			return d
		}
	}
	return r.matchFallback(q)
}

// Process answers one query. It never fails: every problem is rendered as text.
func (r *Router) Process(ctx context.Context, text string) (reply string) {
	log := r.logger.WithField("request_id", uuid.NewString())
	defer func() {
		if rec := recover(); rec != nil {
			log.WithField("panic", rec).Error("query processing panicked")
			reply = fmt.Sprintf("❌ Error: Unable to process query: %v", rec)
		}
	}()

	d := r.Classify(text)
	log.WithFields(map[string]interface{}{
		"intent": d.Intent.String(),
		"stock":  stockName(d.Stock),
		"metric": d.Metric,
		"year":   d.Year,
	}).Debug("query classified")

	return r.dispatch(ctx, d)
}

func stockName(s *contracts.Stock) string {
	if s == nil {
		return ""
	}
	return s.Name
}

func (r *Router) matchAnalyze(q query) (Decision, bool) {
	if !strings.Contains(q.lower, "analyze") {
		return Decision{}, false
	}
	m := r.resolver.ExtractStockName(q.raw)
	switch {
	case m.Found():
		return Decision{Stock: m.Stock}, true
	case m.Alias != "":
		return decline(knownAliasMessage(m.Alias)), true
	default:
		return Decision{}, false
	}
}

func (r *Router) matchGreeting(q query) (Decision, bool) {
	return Decision{}, IsGreeting(q.raw)
}

func (r *Router) matchDeploy(q query) (Decision, bool) {
	return Decision{}, strings.HasPrefix(q.lower, "deploy")
}

func (r *Router) matchForensic(q query) (Decision, bool) {
	if !containsAny(q.lower, forensicTriggers) {
		return Decision{}, false
	}
	m := r.resolver.ResolveStock(q.raw)
	switch {
	case m.Found():
		return Decision{Stock: m.Stock}, true
	case m.Alias != "":
		return decline(knownAliasMessage(m.Alias)), true
	default:
		return decline("Please specify a valid stock for forensic analysis"), true
	}
}

func (r *Router) matchOrder(q query) (Decision, bool) {
	cmd, ok := ParseOrder(q.lower)
	if !ok {
		return Decision{}, false
	}
	if cmd.Quantity < 1 {
		return decline(invalidQuantityMessage), true
	}
	m := r.resolver.ResolveStock(cmd.Stock)
	if !m.Found() {
		return decline(fmt.Sprintf("Stock '%s' not found in database...", cmd.Stock)), true
	}
	return Decision{Stock: m.Stock, Order: cmd}, true
}

func (r *Router) matchFallback(q query) Decision {
	year, _ := ExtractFiscalYear(q.raw)
	clean := StripYears(q.raw)

	m := r.resolver.ResolveStock(clean)
	if !m.Found() {
		if m.Alias != "" {
			return decline(knownAliasMessage(m.Alias))
		}
		msg := "I'm specialized in stock analysis based on my financial database..."
		if containsAny(q.lower, financeVocabulary) {
			msg = "I don't have information about this specific stock or query in my database..."
		}
		if names := r.resolver.Suggest(clean); len(names) > 0 {
			msg += "\nDid you mean: " + strings.Join(names, ", ") + "?"
		}
		return decline(msg)
	}

	d := Decision{
		Intent:    contracts.IntentScoring,
		Stock:     m.Stock,
		Metric:    ExtractMetric(clean),
		Year:      year,
		StartYear: ExtractSinceYear(q.raw),
	}
	for _, sr := range stockRules {
		if sr.match(q, d.Metric) {
			d.Intent = sr.intent
			break
		}
	}
	return d
}

func decline(msg string) Decision {
	return Decision{Intent: contracts.IntentDecline, Message: msg}
}

const invalidQuantityMessage = "Invalid quantity. Please specify a positive whole number of shares."

func knownAliasMessage(name string) string {
	return fmt.Sprintf("'%s' is a known stock, but it is not in my database yet.", name)
}
