package scoring

import (
	"context"
	"fmt"
	"strings"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/internal/render"
	"github.com/opsatya/ved/internal/ruleconfig"
)

const verdictSystemPrompt = "You are a senior financial analyst evaluating stock performance..."

// Engine renders scoring verdicts
type Engine struct {
	rules ruleconfig.Risk
	gen   contracts.TextGenerator
	style render.Styler
}

// NewEngine creates a scoring engine
func NewEngine(rules ruleconfig.Risk, gen contracts.TextGenerator, style render.Styler) *Engine {
	return &Engine{rules: rules, gen: gen, style: style}
}

// Verdict scores one year (latest when year is empty) and appends a narrative
func (e *Engine) Verdict(ctx context.Context, stock *contracts.Stock, year contracts.FiscalYear) string {
	if year == "" {
		latest, ok := stock.LatestYear()
		if !ok {
			return fmt.Sprintf("%s: No annual data available for %s", e.style.Bold("❌ Error"), stock.Name)
		}
		year = latest
	}
	if _, ok := stock.Record(year); !ok {
		return fmt.Sprintf("%s: No data available for %s in %s", e.style.Bold("❌ Error"), stock.Name, year)
	}

	card := Score(stock, year, e.rules)

	rows := make([][]string, 0, len(card.Lines))
	for _, l := range card.Lines {
		rows = append(rows, []string{l.Label, l.Value, l.Band.Display})
	}

	risk := card.Risk.Details()
	if risk == "" {
		risk = "• None"
	}

	out := []string{
		e.style.Bold("🏆 SCORING VERDICT"),
		fmt.Sprintf("Company: %s | Fiscal Year: %s", stock.Name, year),
		render.Table([]string{"Metric", "Value", "Score"}, rows),
		"",
		e.style.Bold("⚠️ Risk Adjustments:"),
		risk,
		"",
		fmt.Sprintf("Total Score: %d/100", card.Score),
		fmt.Sprintf("Recommendation: %s", card.Recommendation.Text),
		fmt.Sprintf("Reasons: %s", strings.Join(card.Recommendation.Reasons, ", ")),
		fmt.Sprintf("Outlook: %s", card.Recommendation.Outlook),
		"",
		e.style.Bold("📝 Analyst Commentary:"),
		e.gen.Generate(ctx, verdictSystemPrompt, verdictPrompt(stock, year)),
	}
	return strings.Join(out, "\n")
}

func verdictPrompt(stock *contracts.Stock, year contracts.FiscalYear) string {
	rec := stock.Years[year]
	value := func(metric string) string {
		if !rec.Has(metric) {
			return "Data not available"
		}
		return rec.Text(metric)
	}

	return fmt.Sprintf(`
You are a senior financial analyst. Evaluate the following financial metrics for %s for the fiscal year %s...
### **Metrics**:
- Revenue Growth: %s%%
- EBITDA Growth: %s%%
- Net Profit Margin: %s%%
- Debt-to-Equity: %s
- Interest Coverage: %s
- Promoter Holding: %s%%
...`,
		stock.Name, year,
		value(contracts.MetricRevenueGrowth),
		value(contracts.MetricEBITDAGrowth),
		value(contracts.MetricNetProfitMargin),
		value(contracts.MetricDebtToEquity),
		value(contracts.MetricInterestCoverage),
		value(contracts.MetricPromoterHolding),
	)
}
