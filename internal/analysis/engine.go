// Package analysis computes multi-year trends, CAGR projections and health
// timelines from a stock's yearly records, and renders them with narration.
package analysis

import (
	"context"
	"fmt"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/internal/render"
)

const (
	tableSystemPrompt   = "You are a senior financial analyst providing detailed insights."
	summarySystemPrompt = "You are a financial analyst creating concise report summaries."
)

// Engine renders trend, forecast and report answers
type Engine struct {
	gen   contracts.TextGenerator
	style render.Styler
}

// NewEngine creates an analysis engine
func NewEngine(gen contracts.TextGenerator, style render.Styler) *Engine {
	return &Engine{gen: gen, style: style}
}

// explain asks the generator to narrate a rendered table
func (e *Engine) explain(ctx context.Context, table, instruction string) string {
	prompt := instruction + "\nHere is the table:\n" + table + "\nPlease provide a detailed explanation in at least 5 lines..."
	return e.gen.Generate(ctx, tableSystemPrompt, prompt)
}

// formatValue renders the ratio-valued debt metric with two decimals and everything else as percent
func formatValue(metric string, v float64) string {
	if metric == contracts.MetricDebtToEquity {
		return fmt.Sprintf("%.2f", v)
	}
	return render.Percent(v)
}
