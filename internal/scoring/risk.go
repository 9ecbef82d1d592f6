package scoring

import (
	"fmt"
	"strings"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/internal/ruleconfig"
)

// Penalty is one triggered risk flag
type Penalty struct {
	Label  string `json:"label"`
	Points int    `json:"points"`
}

// RiskAdjustment sums the triggered penalties
type RiskAdjustment struct {
	Penalties []Penalty `json:"penalties"`
	Total     int       `json:"total"`
}

// Details renders triggered penalties as bullets, one per line
func (r RiskAdjustment) Details() string {
	lines := make([]string, 0, len(r.Penalties))
	for _, p := range r.Penalties {
		lines = append(lines, fmt.Sprintf("• %s: %d pts", p.Label, p.Points))
	}
	return strings.Join(lines, "\n")
}

// Risks evaluates the sector table, the debt ceiling and the growth floor for one year
func Risks(stock *contracts.Stock, year contracts.FiscalYear, rules ruleconfig.Risk) RiskAdjustment {
	var adj RiskAdjustment
	add := func(label string, points int) {
		if points == 0 {
			return
		}
		adj.Penalties = append(adj.Penalties, Penalty{Label: label, Points: points})
		adj.Total += points
	}

	name := strings.ToLower(stock.Name)
	for _, sp := range rules.SectorPenalties {
		if strings.Contains(name, sp.Keyword) {
			add(sp.Label, sp.Points)
		}
	}

	rec := stock.Years[year]
	if rec.Float(contracts.MetricDebtToEquity) > rules.DebtToEquityMax {
		add("Debt Risk", rules.DebtPenalty)
	}
	if rec.Float(contracts.MetricRevenueGrowth) < rules.RevenueGrowthMin {
		add("Growth Risk", rules.GrowthPenalty)
	}

	return adj
}
