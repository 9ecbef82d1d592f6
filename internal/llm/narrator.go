package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/opsatya/ved/pkg/logger"
	"github.com/opsatya/ved/pkg/retry"
)

const truncatedSuffix = " [Analysis truncated due to length constraints]"

// Narrator turns prompts into narration text for the engines.
// It never returns an error: failures become user-facing error text.
type Narrator struct {
	provider Provider
	model    string
	cache    Cache
	policy   retry.Policy
	timeout  time.Duration
	logger   *logger.Logger
}

// NarratorOption configures a Narrator
type NarratorOption func(*Narrator)

// WithPolicy replaces the retry policy
func WithPolicy(p retry.Policy) NarratorOption {
	return func(n *Narrator) {
		n.policy = p
	}
}

// WithTimeout bounds each provider call; zero disables the bound
func WithTimeout(d time.Duration) NarratorOption {
	return func(n *Narrator) {
		n.timeout = d
	}
}

// NewNarrator creates a narrator with three attempts five seconds apart
func NewNarrator(provider Provider, model string, cache Cache, log *logger.Logger, opts ...NarratorOption) *Narrator {
	n := &Narrator{
		provider: provider,
		model:    model,
		cache:    cache,
		policy:   retry.New(3, 5*time.Second),
		logger:   log.WithField("component", "narrator"),
	}
	for _, opt := range opts {
		opt(n)
	}

	onRetry := n.policy.OnRetry
	n.policy.OnRetry = func(attempt int, err error) {
		n.logger.WithError(err).WithField("attempt", attempt).Warnf("completion failed, retrying in %s", n.policy.Delay)
		if onRetry != nil {
			onRetry(attempt, err)
		}
	}
	return n
}

// Generate returns the cached narration for the prompt, or asks the provider
func (n *Narrator) Generate(ctx context.Context, system, user string) string {
	key := Key(n.model, system, user)
	if text, ok := n.cache.Get(ctx, key); ok {
		return text
	}

	var text string
	err := n.policy.Do(ctx, func(ctx context.Context) error {
		callCtx, cancel := n.callContext(ctx)
		defer cancel()

		out, err := n.provider.Complete(callCtx, n.model, system, user)
		if err != nil {
			return err
		}
		text = out
		return nil
	})
	if err != nil {
		n.logger.WithError(err).Error("completion failed")
		return n.failureText(err)
	}

	if !strings.HasSuffix(text, ".") && !strings.HasSuffix(text, "!") && !strings.HasSuffix(text, "?") {
		text += truncatedSuffix
	}
	n.cache.Set(ctx, key, text)
	return text
}

// Clear drops every cached narration
func (n *Narrator) Clear(ctx context.Context) error {
	if err := n.cache.Clear(ctx); err != nil {
		return fmt.Errorf("failed to clear narration cache: %w", err)
	}
	n.logger.Info("narration cache cleared")
	return nil
}

func (n *Narrator) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if n.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, n.timeout)
}

func (n *Narrator) failureText(err error) string {
	attempts := max(n.policy.Attempts, 1)
	cause := err
	var exhausted *retry.ExhaustedError
	if errors.As(err, &exhausted) {
		cause = exhausted.Last
	}
	return fmt.Sprintf("Error: Unable to complete analysis after %d attempts: %v", attempts, cause)
}
