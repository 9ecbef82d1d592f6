package scoring

import (
	"math"
	"strings"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/internal/ruleconfig"
)

// Line is one scored metric
type Line struct {
	Label  string `json:"label"`
	Metric string `json:"metric"`
	Value  string `json:"value"`
	Band   Band   `json:"band"`
}

// Scorecard is the aggregate evaluation of one fiscal year
type Scorecard struct {
	Stock          string               `json:"stock"`
	Year           contracts.FiscalYear `json:"year"`
	Lines          []Line               `json:"lines"`
	Points         int                  `json:"points"`
	Risk           RiskAdjustment       `json:"risk"`
	Score          int                  `json:"score"`
	Recommendation Recommendation       `json:"recommendation"`
}

type scorer struct {
	label  string
	metric string
	unit   string
	band   func(float64) Band
}

var scorers = []scorer{
	{"Revenue Growth", contracts.MetricRevenueGrowth, "%", RevenueGrowth},
	{"EBITDA Growth", contracts.MetricEBITDAGrowth, "%", EBITDAGrowth},
	{"Net Profit Margin", contracts.MetricNetProfitMargin, "%", NetProfitMargin},
	{"Debt-to-Equity", contracts.MetricDebtToEquity, "", DebtToEquity},
	{"Promoter Holding", contracts.MetricPromoterHolding, "%", PromoterHolding},
}

// Score sums the five bands and the risk total, then normalizes onto 0..100
// against MaxPoints. Missing metrics score as zero.
func Score(stock *contracts.Stock, year contracts.FiscalYear, rules ruleconfig.Risk) Scorecard {
	rec := stock.Years[year]
	card := Scorecard{Stock: stock.Name, Year: year}

	for _, s := range scorers {
		value := "N/A"
		if rec.Has(s.metric) {
			value = strings.TrimSuffix(rec.Text(s.metric), "%") + s.unit
		}
		band := s.band(rec.Float(s.metric))
		card.Lines = append(card.Lines, Line{Label: s.label, Metric: s.metric, Value: value, Band: band})
		card.Points += band.Points
	}

	card.Risk = Risks(stock, year, rules)
	card.Score = normalize(card.Points + card.Risk.Total)
	card.Recommendation = Recommend(card.Score)
	return card
}

func normalize(raw int) int {
	score := int(math.Round(float64(raw) * 100 / MaxPoints))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}
