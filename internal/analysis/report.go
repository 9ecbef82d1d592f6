package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/internal/render"
)

var basicMetrics = []string{
	contracts.MetricRevenueGrowth,
	contracts.MetricEBITDAGrowth,
	contracts.MetricNetProfitMargin,
	contracts.MetricROCE,
	contracts.MetricEPSGrowth,
}

// Analyze renders the comprehensive report for one year (latest when empty)
func (e *Engine) Analyze(ctx context.Context, stock *contracts.Stock, year contracts.FiscalYear) string {
	if year == "" {
		latest, ok := stock.LatestYear()
		if !ok {
			return "❌ Error: No annual data available for this stock"
		}
		year = latest
	}
	rec, ok := stock.Record(year)
	if !ok {
		return fmt.Sprintf("❌ Error: No data available for %s in %s", stock.Name, year)
	}

	basic := make([][]string, 0, len(basicMetrics))
	for _, m := range basicMetrics {
		basic = append(basic, []string{m, render.Percent(rec.Float(m))})
	}

	health := [][]string{
		{"Debt-to-Equity", contracts.FormatNumber(rec.Float(contracts.MetricDebtToEquity))},
		{"Interest Coverage", contracts.FormatNumber(rec.Float(contracts.MetricInterestCoverage))},
		{"Promoter Holding", render.Percent(rec.Float(contracts.MetricPromoterHolding))},
	}

	verdict := stock.Verdict
	if verdict == "" {
		verdict = "No recommendation available"
	}

	out := []string{
		e.style.Bold("🚀 COMPREHENSIVE ANALYSIS"),
		fmt.Sprintf("Company: %s | Fiscal Year: %s", stock.Name, year),
		"",
		e.style.Bold("📊 KEY METRICS"),
		render.Table([]string{"Metric", "Value"}, basic),
		"",
		e.style.Bold("🏛️ FINANCIAL HEALTH"),
		render.Table([]string{"Indicator", "Value"}, health),
		"",
		e.style.Bold("📈 TREND ANALYSIS"),
		e.HistoricalTrend(ctx, stock, contracts.MetricRevenueGrowth, 0, 3),
		"",
		e.HistoricalTrend(ctx, stock, contracts.MetricNetProfitMargin, 0, 5),
		"",
		e.style.Bold("📌 ANALYST VERDICT"),
		verdict,
	}
	return strings.Join(out, "\n")
}

// Summarize asks for a five-point annual report summary (latest year when empty)
func (e *Engine) Summarize(ctx context.Context, stock *contracts.Stock, year contracts.FiscalYear) string {
	if year == "" {
		latest, ok := stock.LatestYear()
		if !ok {
			return fmt.Sprintf("No annual data available for %s", stock.Name)
		}
		year = latest
	}
	rec, ok := stock.Record(year)
	if !ok {
		return fmt.Sprintf("No data available for %s", year)
	}

	pairs := make([]string, 0, len(rec))
	for _, k := range rec.Keys() {
		pairs = append(pairs, fmt.Sprintf("%s: %s", k, rec.Text(k)))
	}
	prompt := fmt.Sprintf("Create a concise 5-point summary for %s's %s annual report with these metrics: %s",
		stock.Name, year, strings.Join(pairs, ", "))

	return strings.Join([]string{
		e.style.Bold("📄 ANNUAL REPORT SUMMARY"),
		fmt.Sprintf("Company: %s | Fiscal Year: %s", stock.Name, year),
		"",
		e.gen.Generate(ctx, summarySystemPrompt, prompt),
	}, "\n")
}
