// Package llm narrates analysis tables through a hosted language model,
// with a bounded response cache and a retry policy in front of the provider.
package llm

import (
	"context"
	"fmt"

	"github.com/opsatya/ved/pkg/config"
)

const (
	temperature = 0.3
	maxTokens   = 1000
)

// Provider completes one system/user prompt pair
type Provider interface {
	Complete(ctx context.Context, model, system, user string) (string, error)
}

// NewProvider builds the provider selected by LLM_PROVIDER
func NewProvider(ctx context.Context, cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		if cfg.OpenAIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
		return NewOpenAI(cfg.OpenAIKey, cfg.OpenAIURL), nil
	case "gemini":
		if cfg.GeminiKey == "" {
			return nil, fmt.Errorf("GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
		return NewGemini(ctx, cfg.GeminiKey)
	default:
		return nil, fmt.Errorf("unknown llm provider: %s", cfg.Provider)
	}
}
