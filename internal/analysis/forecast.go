package analysis

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/internal/render"
)

// Projection is a CAGR-based one-year projection
type Projection struct {
	Metric string
	Years  []contracts.FiscalYear // newest first
	Values []float64
	Growth []*float64 // nil when the prior year is missing or zero

	CAGR       float64
	Defined    bool // false when CAGR could not be computed
	Next       float64
	Confidence string
}

// CAGR returns (latest/earliest)^(1/(n-1)) - 1 over n observations.
// It reports false when the rate is undefined: fewer than two points,
// a non-positive earliest value, or a negative ratio.
func CAGR(latest, earliest float64, n int) (float64, bool) {
	if n < 2 || earliest <= 0 {
		return 0, false
	}
	ratio := latest / earliest
	if ratio < 0 {
		return 0, false
	}
	rate := math.Pow(ratio, 1/float64(n-1)) - 1
	if math.IsNaN(rate) || math.IsInf(rate, 0) {
		return 0, false
	}
	return rate, true
}

// Project takes the newest years fiscal years, keeps those holding metric,
// and projects the next value. It reports false with fewer than two points.
func Project(stock *contracts.Stock, metric string, years int) (Projection, bool) {
	p := Projection{Metric: metric, Confidence: "Low"}

	recent := stock.FiscalYears()
	if len(recent) > years {
		recent = recent[:years]
	}
	for _, fy := range recent {
		rec := stock.Years[fy]
		if !rec.Has(metric) {
			continue
		}
		v := rec.Float(metric)
		p.Years = append(p.Years, fy)
		p.Values = append(p.Values, v)

		var growth *float64
		if prev, ok := stock.Years[fy.Prev()]; ok && prev.Has(metric) {
			if pv := prev.Float(metric); pv != 0 {
				g := (v - pv) / pv * 100
				growth = &g
			}
		}
		p.Growth = append(p.Growth, growth)
	}

	n := len(p.Values)
	if n < 2 {
		return p, false
	}

	p.CAGR, p.Defined = CAGR(p.Values[0], p.Values[n-1], n)
	if p.Defined {
		p.Next = p.Values[0] * (1 + p.CAGR)
		if p.CAGR > 0 {
			p.Confidence = "High"
		}
	}
	return p, true
}

// Forecast renders the projection table and a narrative
func (e *Engine) Forecast(ctx context.Context, stock *contracts.Stock, metric string, years int) string {
	p, ok := Project(stock, metric, years)
	if !ok {
		return render.Table([]string{"Warning"}, [][]string{{"Insufficient data for forecasting"}})
	}

	rows := make([][]string, len(p.Years))
	for i, fy := range p.Years {
		growth := "-"
		if p.Growth[i] != nil {
			growth = fmt.Sprintf("%.1f%%", *p.Growth[i])
		}
		rows[i] = []string{string(fy), formatValue(metric, p.Values[i]), growth}
	}

	projected, cagr := "-", "-"
	if p.Defined {
		projected = formatProjection(metric, p.Next)
		cagr = fmt.Sprintf("%.1f%%", p.CAGR*100)
	}

	text := strings.Join([]string{
		e.style.Bold("📊 PERFORMANCE FORECAST"),
		fmt.Sprintf("Company: %s | Metric: %s | Basis: %dY CAGR", stock.Name, metric, years),
		render.Table([]string{"Year", "Value", "YoY Change"}, rows),
		fmt.Sprintf("Projected %s for next fiscal year: %s", metric, projected),
		fmt.Sprintf("CAGR: %s | Confidence: %s", cagr, p.Confidence),
	}, "\n")

	return text + "\n" + e.explain(ctx, text, "Analyze the performance forecast table above...")
}

func formatProjection(metric string, v float64) string {
	if metric == contracts.MetricDebtToEquity {
		return fmt.Sprintf("%.2f", v)
	}
	return fmt.Sprintf("%.1f%%", v)
}
