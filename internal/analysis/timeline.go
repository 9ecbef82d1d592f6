package analysis

import (
	"context"
	"fmt"
	"strings"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/internal/render"
)

// TimelineMode selects the metrics shown by HealthTimeline
type TimelineMode int

const (
	// HealthTriple shows debt-to-equity, interest coverage and promoter holding
	HealthTriple TimelineMode = iota
	// CashOnly shows the cash reserve
	CashOnly
)

const timelineYears = 3

func (m TimelineMode) metrics() []string {
	if m == CashOnly {
		return []string{contracts.MetricCashReserve}
	}
	return []string{contracts.MetricDebtToEquity, contracts.MetricInterestCoverage, contracts.MetricPromoterHolding}
}

// HealthTimeline renders the newest three years of the selected metrics.
// Years where none of them is set are dropped.
func (e *Engine) HealthTimeline(ctx context.Context, stock *contracts.Stock, mode TimelineMode) string {
	if mode == CashOnly && !anyYearHas(stock, contracts.MetricCashReserve) {
		return "Cash reserve data not available for this stock"
	}

	metrics := mode.metrics()
	years := stock.FiscalYears()
	if len(years) > timelineYears {
		years = years[:timelineYears]
	}

	var rows [][]string
	for _, fy := range years {
		rec := stock.Years[fy]
		var lines []string
		for _, m := range metrics {
			if !rec.Truthy(m) {
				continue
			}
			if m == contracts.MetricCashReserve {
				lines = append(lines, "Cash Reserve: "+render.Crores(rec.Float(m)))
			} else {
				lines = append(lines, fmt.Sprintf("%s: %s", m, rec.Text(m)))
			}
		}
		if len(lines) > 0 {
			rows = append(rows, []string{string(fy), strings.Join(lines, "\n")})
		}
	}
	if len(rows) == 0 {
		return fmt.Sprintf("No financial health data available for %s", stock.Name)
	}

	title, instruction := "🏛️ FINANCIAL HEALTH TIMELINE", "Analyze the financial health timeline"
	if mode == CashOnly {
		title, instruction = "🏛️ CASH RESERVE TREND", "Analyze the cash reserve changes"
	}

	table := e.style.Bold(title) + "\n" + render.Table([]string{"Year", "Metrics"}, rows)
	return table + "\n" + e.explain(ctx, table, instruction)
}

func anyYearHas(stock *contracts.Stock, metric string) bool {
	for _, rec := range stock.Years {
		if rec.Has(metric) {
			return true
		}
	}
	return false
}
