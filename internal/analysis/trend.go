package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/internal/render"
)

// TrendPoint is one selected year in a historical trend
type TrendPoint struct {
	Year  contracts.FiscalYear
	Value float64
	// Change is nil when the preceding fiscal year lacks the metric
	Change *float64
}

// Trend is the computed historical series, newest first
type Trend struct {
	Metric  string
	Points  []TrendPoint
	Peak    TrendPoint
	Trough  TrendPoint
	Avg3    float64
	Avg5    float64
	Overall float64
}

// ComputeTrend selects up to years of the newest fiscal years holding metric,
// optionally floored at startYear (0 disables the floor; years <= 0 takes all).
// Year-over-year change is measured against the fiscal year before each point,
// found by key rather than position: relative percent for debt-to-equity,
// point difference for everything else.
func ComputeTrend(stock *contracts.Stock, metric string, startYear, years int) (Trend, bool) {
	t := Trend{Metric: metric}

	for _, fy := range stock.FiscalYears() {
		if years > 0 && len(t.Points) == years {
			break
		}
		if startYear > 0 {
			start, ok := fy.Start()
			if !ok || start < startYear {
				continue
			}
		}
		rec := stock.Years[fy]
		if !rec.Has(metric) {
			continue
		}

		p := TrendPoint{Year: fy, Value: rec.Float(metric)}
		if prev, ok := stock.Years[fy.Prev()]; ok && prev.Has(metric) {
			pv := prev.Float(metric)
			change := p.Value - pv
			if metric == contracts.MetricDebtToEquity && pv != 0 {
				change = (p.Value - pv) / pv * 100
			}
			p.Change = &change
		}
		t.Points = append(t.Points, p)
	}

	if len(t.Points) == 0 {
		return t, false
	}

	t.Peak, t.Trough = t.Points[0], t.Points[0]
	for _, p := range t.Points[1:] {
		if p.Value > t.Peak.Value {
			t.Peak = p
		}
		if p.Value < t.Trough.Value {
			t.Trough = p
		}
	}
	t.Avg3 = average(t.Points, 3)
	t.Avg5 = average(t.Points, 5)
	t.Overall = t.Points[0].Value - t.Points[len(t.Points)-1].Value

	return t, true
}

func average(points []TrendPoint, n int) float64 {
	n = min(n, len(points))
	sum := 0.0
	for _, p := range points[:n] {
		sum += p.Value
	}
	return sum / float64(n)
}

// HistoricalTrend renders the trend table, key insights and a narrative
func (e *Engine) HistoricalTrend(ctx context.Context, stock *contracts.Stock, metric string, startYear, years int) string {
	t, ok := ComputeTrend(stock, metric, startYear, years)
	if !ok {
		return fmt.Sprintf("%s: %s not available for analysis", e.style.Bold("⚠️ No Data"), metric)
	}

	rows := make([][]string, 0, len(t.Points))
	for _, p := range t.Points {
		trend, change := "N/A", "N/A"
		if p.Change != nil {
			trend = render.TrendWord(*p.Change)
			change = fmt.Sprintf("%s %.1f%%", render.TrendIcon(*p.Change), math.Abs(*p.Change))
		}
		rows = append(rows, []string{string(p.Year), formatValue(metric, p.Value), trend, change})
	}
	table := render.Table([]string{"Year", "Value", "Trend", "YoY Change"}, rows)

	oldest, newest := t.Points[len(t.Points)-1].Year, t.Points[0].Year
	out := []string{
		e.style.Bold("📈 HISTORICAL TREND ANALYSIS"),
		fmt.Sprintf("Company: %s | Metric: %s | Period: %s–%s", stock.Name, metric, oldest, newest),
		"",
		table,
		"",
		e.style.Bold("🔍 KEY INSIGHTS:"),
		fmt.Sprintf("- Peak Performance: %s in %s", formatValue(metric, t.Peak.Value), t.Peak.Year),
		fmt.Sprintf("- Lowest Value: %s in %s", formatValue(metric, t.Trough.Value), t.Trough.Year),
		fmt.Sprintf("- 3Y Avg: %.1f%% | 5Y Avg: %.1f%%", t.Avg3, t.Avg5),
		"",
		fmt.Sprintf("Overall, the performance shows %s.", overallPhrase(t.Overall)),
		"",
		e.explain(ctx, table, "Analyze the historical trend table above..."),
	}
	return strings.Join(out, "\n")
}

func overallPhrase(change float64) string {
	switch {
	case change > 0:
		return "an uptrend"
	case change < 0:
		return "a downtrend"
	default:
		return "a stable trend"
	}
}
