package commands

import (
	"context"
	"fmt"

	"github.com/opsatya/ved/internal/analysis"
	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/internal/deploy"
	"github.com/opsatya/ved/internal/external/fivepaisa"
	"github.com/opsatya/ved/internal/external/neo"
	"github.com/opsatya/ved/internal/external/webquote"
	"github.com/opsatya/ved/internal/external/yahoo"
	"github.com/opsatya/ved/internal/forensic"
	"github.com/opsatya/ved/internal/llm"
	"github.com/opsatya/ved/internal/pricefeed"
	"github.com/opsatya/ved/internal/render"
	"github.com/opsatya/ved/internal/router"
	"github.com/opsatya/ved/internal/ruleconfig"
	"github.com/opsatya/ved/internal/scoring"
	"github.com/opsatya/ved/internal/store"
	"github.com/opsatya/ved/pkg/config"
	"github.com/opsatya/ved/pkg/database"
	"github.com/opsatya/ved/pkg/httputil"
	"github.com/opsatya/ved/pkg/logger"
	"github.com/opsatya/ved/pkg/redis"
	"github.com/opsatya/ved/pkg/retry"
)

const cachePrefix = "stockbot:llm"

// app holds everything a command needs, built once
// ⭐ SSOT: collaborators are wired here and nowhere else
type app struct {
	cfg       *config.Config
	log       *logger.Logger
	db        *database.DB // nil unless DATA_SOURCE=postgres
	redis     *redis.Client
	stocks    *store.Store
	rules     *ruleconfig.Rules
	rulesHash string
	narrator  *llm.Narrator
	quotes    *pricefeed.Cache
	router    *router.Router
}

// loadConfig reads the environment and applies global flags
func loadConfig() (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if rulesFile != "" {
		cfg.RulesFile = rulesFile
	}
	if dataDir != "" {
		cfg.Data.Dir = dataDir
	}
	if verbose {
		cfg.LogLevel = "debug"
	}
	return cfg, logger.New(cfg), nil
}

// newCompletionCache builds the memory cache, fronting Redis when enabled
func newCompletionCache(ctx context.Context, cfg *config.Config, log *logger.Logger) (llm.Cache, *redis.Client, error) {
	memory := llm.NewMemoryCache(cfg.LLM.CacheSize, cfg.LLM.CacheTTL)

	rc, err := redis.New(ctx, cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	if !rc.Enabled() {
		return memory, rc, nil
	}

	shared := llm.NewRedisCache(redis.NewCache(rc, cachePrefix), cfg.LLM.CacheTTL, log)
	return llm.NewTieredCache(memory, shared), rc, nil
}

// bootstrap wires the full chatbot; style decides how headings render
func bootstrap(ctx context.Context, style render.Styler) (*app, error) {
	cfg, log, err := loadConfig()
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg, log: log}

	rules, _, err := ruleconfig.Load(cfg.RulesFile)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}
	a.rules = rules
	if a.rulesHash, err = ruleconfig.Hash(rules); err != nil {
		return nil, fmt.Errorf("hash rules: %w", err)
	}

	if err := a.loadStocks(ctx); err != nil {
		a.Close()
		return nil, err
	}

	cache, rc, err := newCompletionCache(ctx, cfg, log)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.redis = rc

	provider, err := llm.NewProvider(ctx, cfg.LLM)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("create llm provider: %w", err)
	}
	a.narrator = llm.NewNarrator(provider, cfg.LLM.Model, cache, log,
		llm.WithPolicy(retry.New(cfg.LLM.MaxRetries, cfg.LLM.RetryDelay)),
		llm.WithTimeout(cfg.LLM.Timeout),
	)
	if cfg.LLM.FlushOnStart {
		if err := a.narrator.Clear(ctx); err != nil {
			log.WithError(err).Warn("Failed to flush completion cache on start")
		}
	}

	a.quotes = newPriceFeed(cfg, log)
	a.router = router.New(router.Deps{
		Store:    a.stocks,
		Rules:    rules,
		Scoring:  scoring.NewEngine(rules.Risk, a.narrator, style),
		Analysis: analysis.NewEngine(a.narrator, style),
		Forensic: forensic.NewEngine(rules.Forensic, a.narrator, style),
		Prices:   a.quotes,
		Orders:   newOrderPlacer(cfg, log),
		Deployer: deploy.NewSSHDeployer(cfg.Deploy, log),
		Logger:   log,
	})

	log.WithFields(map[string]interface{}{
		"stocks":     a.stocks.Len(),
		"rules_id":   rules.Meta.RulesID,
		"rules_hash": a.rulesHash[:12],
		"provider":   cfg.LLM.Provider,
		"model":      cfg.LLM.Model,
		"price_feed": cfg.Price.Providers,
	}).Info("Chatbot ready")

	return a, nil
}

func (a *app) loadStocks(ctx context.Context) error {
	var opts []store.Option
	if a.cfg.Data.Normalize {
		opts = append(opts, store.WithNormalize())
	}

	var loader contracts.StockLoader
	switch a.cfg.Data.Source {
	case "postgres":
		db, err := database.New(ctx, a.cfg)
		if err != nil {
			return fmt.Errorf("connect to database: %w", err)
		}
		a.db = db
		loader = store.NewPostgresLoader(db.Pool)
	default:
		loader = store.NewJSONDirLoader(a.cfg.Data.Dir, a.log)
	}

	stocks, err := store.Load(ctx, loader, opts...)
	if err != nil {
		return err
	}
	a.stocks = stocks
	return nil
}

// newPriceFeed chains the configured sources in order behind a quote cache
func newPriceFeed(cfg *config.Config, log *logger.Logger) *pricefeed.Cache {
	sources := make([]pricefeed.Source, 0, len(cfg.Price.Providers))
	for _, name := range cfg.Price.Providers {
		var feed contracts.PriceFeed
		switch name {
		case "yahoo":
			feed = yahoo.NewClient(cfg.Price.RPS, log)
		case "web":
			feed = webquote.NewClient(cfg.Price.WebURL, httputil.New(log).WithRateLimit(cfg.Price.RPS, 1), log)
		default:
			feed = fivepaisa.NewClient(cfg.FivePaisa, httputil.New(log).WithRateLimit(cfg.Price.RPS, 1), log)
		}
		sources = append(sources, pricefeed.Source{Name: name, Feed: feed})
	}
	return pricefeed.NewCache(pricefeed.NewFailover(log, sources...), cfg.Price.CacheTTL, log)
}

// newOrderPlacer never retries: a repeated order could fill twice
func newOrderPlacer(cfg *config.Config, log *logger.Logger) contracts.OrderPlacer {
	return neo.NewClient(cfg.Neo, httputil.New(log).DisableRetry(), log)
}

// Close releases pooled connections
func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close redis")
		}
	}
	if a.db != nil {
		a.db.Close()
	}
}
