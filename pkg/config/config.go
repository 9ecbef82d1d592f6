package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
// ⭐ SSOT: every environment variable is read here and nowhere else
type Config struct {
	// Server
	Port           string
	Env            string   // development, staging, production
	AllowedOrigins []string // WebSocket origins; empty = same origin only

	// Stock data
	Data DataConfig

	// Database (only when Data.Source == "postgres")
	Database DatabaseConfig

	// Redis (shared completion cache)
	Redis RedisConfig

	// Language model
	LLM LLMConfig

	// External APIs
	Price     PriceConfig
	FivePaisa FivePaisaConfig
	Neo       NeoConfig
	Deploy    DeployConfig

	// Rules file override (empty = embedded defaults)
	RulesFile string

	// Logging
	LogLevel  string
	LogFormat string
}

// DataConfig describes where stock records come from
type DataConfig struct {
	Source    string // json, postgres
	Dir       string
	Normalize bool
}

// DatabaseConfig holds PostgreSQL configuration
type DatabaseConfig struct {
	URL string

	// Connection Pool
	MaxConns        int
	MinConns        int
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
}

// RedisConfig holds Redis configuration
type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Enabled  bool
}

// LLMConfig holds text-generation configuration
type LLMConfig struct {
	Provider     string // openai, gemini
	Model        string
	OpenAIKey    string
	OpenAIURL    string
	GeminiKey    string
	Timeout      time.Duration
	MaxRetries   int
	RetryDelay   time.Duration
	CacheSize    int
	CacheTTL     time.Duration
	FlushOnStart bool
	FlushCron    string
}

// PriceConfig selects the live price provider
type PriceConfig struct {
	Providers []string // fivepaisa, yahoo, web; tried in order
	WebURL    string
	RPS       float64
	CacheTTL  time.Duration
}

// FivePaisaConfig holds 5paisa market feed credentials
type FivePaisaConfig struct {
	BaseURL     string
	AppKey      string
	AccessToken string
	ClientCode  string
}

// NeoConfig holds Kotak Neo trading API session values
type NeoConfig struct {
	BaseURL      string
	AccessToken  string
	SessionToken string
	SessionID    string
	ServerID     string
}

// DeployConfig holds remote deployment target settings
type DeployConfig struct {
	Host       string
	Port       string
	User       string
	KeyPath    string
	Script     string
	KnownHosts string
	Timeout    time.Duration
}

var defaultModels = map[string]string{
	"openai": "gpt-4o-mini",
	"gemini": "gemini-2.0-flash",
}

// Load reads configuration from environment variables
// ⭐ SSOT: the only function that calls os.Getenv()
func Load() (*Config, error) {
	// Try multiple paths for .env file
	loadEnvFile()

	cfg := &Config{
		// Server
		Port: getEnv("PORT", "5000"),
		Env:  getEnv("ENV", "development"),

		AllowedOrigins: getEnvAsList("ALLOWED_ORIGINS", ""),

		Data: DataConfig{
			Source:    getEnv("DATA_SOURCE", "json"),
			Dir:       getEnv("STOCK_DATA_DIR", "stock_data"),
			Normalize: getEnvAsBool("DATA_NORMALIZE", true),
		},

		// Database
		Database: DatabaseConfig{
			URL:             getEnv("DATABASE_URL", ""),
			MaxConns:        getEnvAsInt("DB_MAX_CONNS", 5),
			MinConns:        getEnvAsInt("DB_MIN_CONNS", 1),
			MaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", "1h"),
			MaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", "30m"),
		},

		// Redis
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost"),
			Port:     getEnv("REDIS_PORT", "6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			Enabled:  getEnvAsBool("REDIS_ENABLED", false),
		},

		LLM: LLMConfig{
			Provider:     getEnv("LLM_PROVIDER", "openai"),
			Model:        getEnv("LLM_MODEL", ""),
			OpenAIKey:    getEnv("OPENAI_API_KEY", ""),
			OpenAIURL:    getEnv("OPENAI_BASE_URL", ""),
			GeminiKey:    getEnv("GEMINI_API_KEY", ""),
			Timeout:      getEnvAsDuration("LLM_TIMEOUT", "60s"),
			MaxRetries:   getEnvAsInt("LLM_MAX_RETRIES", 3),
			RetryDelay:   getEnvAsDuration("LLM_RETRY_DELAY", "5s"),
			CacheSize:    getEnvAsInt("LLM_CACHE_SIZE", 100),
			CacheTTL:     getEnvAsDuration("LLM_CACHE_TTL", "24h"),
			FlushOnStart: getEnvAsBool("CLEAR_CACHE", false),
			FlushCron:    getEnv("CACHE_FLUSH_SCHEDULE", ""),
		},

		// External APIs
		Price: PriceConfig{
			Providers: getEnvAsList("PRICE_PROVIDER", "fivepaisa"),
			WebURL:    getEnv("PRICE_WEB_URL", "https://www.google.com/finance/quote"),
			RPS:       getEnvAsFloat("PRICE_RPS", 5),
			CacheTTL:  getEnvAsDuration("PRICE_CACHE_TTL", "15s"),
		},

		FivePaisa: FivePaisaConfig{
			BaseURL:     getEnv("FIVEPAISA_BASE_URL", "https://Openapi.5paisa.com/VendorsAPI/Service1.svc"),
			AppKey:      getEnv("FIVEPAISA_APP_KEY", ""),
			AccessToken: getEnv("FIVEPAISA_ACCESS_TOKEN", ""),
			ClientCode:  getEnv("FIVEPAISA_CLIENT_CODE", ""),
		},

		Neo: NeoConfig{
			BaseURL:      getEnv("NEO_BASE_URL", "https://gw-napi.kotaksecurities.com"),
			AccessToken:  getEnv("NEO_ACCESS_TOKEN", ""),
			SessionToken: getEnv("NEO_SESSION_TOKEN", ""),
			SessionID:    getEnv("NEO_SID", ""),
			ServerID:     getEnv("NEO_SERVER_ID", "server1"),
		},

		Deploy: DeployConfig{
			Host:       getEnv("DEPLOY_HOST", ""),
			Port:       getEnv("DEPLOY_PORT", "22"),
			User:       getEnv("DEPLOY_USER", "ubuntu"),
			KeyPath:    getEnv("DEPLOY_KEY_PATH", ""),
			Script:     getEnv("DEPLOY_SCRIPT", ""),
			KnownHosts: getEnv("DEPLOY_KNOWN_HOSTS", ""),
			Timeout:    getEnvAsDuration("DEPLOY_TIMEOUT", "20s"),
		},

		RulesFile: getEnv("RULES_FILE", ""),

		// Logging
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "console"),
	}

	if cfg.LLM.Model == "" {
		cfg.LLM.Model = defaultModels[cfg.LLM.Provider]
	}

	// Validate configuration
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// validate checks if required configuration values are set
func (c *Config) validate() error {
	if c.Env != "development" && c.Env != "staging" && c.Env != "production" {
		return fmt.Errorf("ENV must be one of: development, staging, production")
	}

	switch c.Data.Source {
	case "json":
		if c.Data.Dir == "" {
			return fmt.Errorf("STOCK_DATA_DIR is required when DATA_SOURCE=json")
		}
	case "postgres":
		if c.Database.URL == "" {
			return fmt.Errorf("DATABASE_URL is required when DATA_SOURCE=postgres")
		}
	default:
		return fmt.Errorf("DATA_SOURCE must be one of: json, postgres")
	}

	if c.LLM.Provider != "openai" && c.LLM.Provider != "gemini" {
		return fmt.Errorf("LLM_PROVIDER must be one of: openai, gemini")
	}
	if c.LLM.MaxRetries < 1 {
		return fmt.Errorf("LLM_MAX_RETRIES must be at least 1")
	}
	if c.LLM.CacheSize < 1 {
		return fmt.Errorf("LLM_CACHE_SIZE must be at least 1")
	}

	if len(c.Price.Providers) == 0 {
		return fmt.Errorf("PRICE_PROVIDER must name at least one provider")
	}
	for _, p := range c.Price.Providers {
		switch p {
		case "fivepaisa", "yahoo", "web":
		default:
			return fmt.Errorf("PRICE_PROVIDER entries must be one of: fivepaisa, yahoo, web (got %q)", p)
		}
	}

	return nil
}

// Helper functions (private, only used within this file)

// loadEnvFile tries to load .env from multiple locations
func loadEnvFile() {
	paths := []string{".env"}

	// Also try relative to executable
	if exe, err := os.Executable(); err == nil {
		exeDir := filepath.Dir(exe)
		paths = append(paths,
			filepath.Join(exeDir, ".env"),
			filepath.Join(exeDir, "..", ".env"),
		)
	}

	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			_ = godotenv.Load(path)
			return
		}
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsList splits a comma separated value, dropping blanks
func getEnvAsList(key, defaultValue string) []string {
	var items []string
	for _, item := range strings.Split(getEnv(key, defaultValue), ",") {
		if item = strings.ToLower(strings.TrimSpace(item)); item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		valueStr = defaultValue
	}

	duration, err := time.ParseDuration(valueStr)
	if err != nil {
		// Fallback to default
		duration, _ = time.ParseDuration(defaultValue)
	}

	return duration
}
