// Package forensic runs accounting red-flag detectors over a stock's history.
package forensic

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/opsatya/ved/internal/contracts"
	"github.com/opsatya/ved/internal/render"
	"github.com/opsatya/ved/internal/ruleconfig"
)

// Detector inspects a stock and returns flagged findings, or a single
// detector-specific sentinel when nothing was flagged
type Detector func(stock *contracts.Stock, rules ruleconfig.Forensic) []string

// Section binds a detector to its report heading
type Section struct {
	Key    string
	Title  string
	Detect Detector
}

// Sections lists the detectors in report order
var Sections = []Section{
	{Key: "benfords_law", Title: "🚩 Benford's Law Analysis:", Detect: Benford},
	{Key: "insider_trading", Title: "🚩 Insider Trading Patterns:", Detect: InsiderTrading},
	{Key: "revenue_quality", Title: "🚩 Revenue Quality Check:", Detect: RevenueQuality},
	{Key: "expense_anomalies", Title: "🚩 Expense Anomalies:", Detect: ExpenseAnomalies},
	{Key: "auditor_issues", Title: "🚩 Auditor Remarks Analysis:", Detect: AuditorRemarks},
	{Key: "cash_flow", Title: "🚩 Cash Flow Irregularities:", Detect: CashFlowNotes},
	{Key: "related_parties", Title: "🚩 Related Party Transactions:", Detect: RelatedParties},
}

// benfordExpected is the reference leading-digit distribution in percent, digits 1..9
var benfordExpected = [10]float64{0, 30.1, 17.6, 12.5, 9.7, 7.9, 6.7, 5.8, 5.1, 4.6}

// Benford compares the leading digits of yearly Revenue against Benford's law
func Benford(stock *contracts.Stock, rules ruleconfig.Forensic) []string {
	var counts [10]int
	total := 0
	for _, fy := range chronological(stock) {
		rec := stock.Years[fy]
		if !rec.Truthy(contracts.MetricRevenue) {
			continue
		}
		d := leadingDigit(rec.Float(contracts.MetricRevenue))
		if d == 0 {
			continue
		}
		counts[d]++
		total++
	}
	if total == 0 {
		return []string{"Insufficient data for Benford's Law analysis"}
	}

	var out []string
	for d := 1; d <= 9; d++ {
		observed := float64(counts[d]) / float64(total) * 100
		deviation := observed - benfordExpected[d]
		if deviation < 0 {
			deviation = -deviation
		}
		if deviation > rules.BenfordTolerancePct {
			out = append(out, fmt.Sprintf("Digit %d: %.1f%% vs expected %s%%",
				d, observed, contracts.FormatNumber(benfordExpected[d])))
		}
	}
	if len(out) == 0 {
		return []string{"No significant deviations from Benford's Law"}
	}
	return out
}

// leadingDigit returns the first significant decimal digit of a positive value, 0 otherwise
func leadingDigit(v float64) int {
	if !(v > 0) || math.IsInf(v, 1) {
		return 0
	}
	s := strconv.FormatFloat(v, 'e', -1, 64)
	return int(s[0] - '0')
}

// InsiderTrading flags heavy selling and block trades in the latest fiscal year's starting calendar year
func InsiderTrading(stock *contracts.Stock, rules ruleconfig.Forensic) []string {
	if len(stock.InsiderTrades) == 0 {
		return []string{"No insider trading data available"}
	}

	var prefix string
	if latest, ok := stock.LatestYear(); ok {
		prefix = latest.StartPrefix()
	}

	var recent []contracts.Trade
	for _, t := range stock.InsiderTrades {
		if strings.HasPrefix(t.Date, prefix) {
			recent = append(recent, t)
		}
	}
	if len(recent) == 0 {
		return []string{"No recent insider trades"}
	}

	sells, block := 0, false
	for _, t := range recent {
		if t.IsSell() {
			sells++
		}
		if int64(t.Shares) > rules.BlockTradeShares {
			block = true
		}
	}

	var out []string
	if ratio := float64(sells) / float64(len(recent)); ratio > rules.SellRatioMax {
		out = append(out, fmt.Sprintf("High sell ratio (%.0f%%) in current year", ratio*100))
	}
	if block {
		out = append(out, "Large block trades detected")
	}
	if len(out) == 0 {
		return []string{"No suspicious insider trading patterns"}
	}
	return out
}

// RevenueQuality flags revenue growth that disagrees with receivable days
func RevenueQuality(stock *contracts.Stock, rules ruleconfig.Forensic) []string {
	var out []string
	for _, fy := range chronological(stock) {
		rec := stock.Years[fy]
		growth := rec.Float(contracts.MetricRevenueGrowth)
		days := rec.Float(contracts.MetricAccountsReceivableDays)
		if growth == 0 || days == 0 {
			continue
		}

		g, d := contracts.FormatNumber(growth), contracts.FormatNumber(days)
		switch {
		case growth > rules.RevenueSurgePct && days > rules.ReceivableDaysHigh:
			out = append(out, fmt.Sprintf("%s: High revenue growth (%s%%) with long AR days (%s)", fy, g, d))
		case growth < rules.RevenueDropPct && days < rules.ReceivableDaysLow:
			out = append(out, fmt.Sprintf("%s: Declining revenue (%s%%) with short AR days (%s)", fy, g, d))
		}
	}
	if len(out) == 0 {
		return []string{"Consistent revenue quality metrics"}
	}
	return out
}

// ExpenseAnomalies flags EBITDA collapsing while revenue still grows
func ExpenseAnomalies(stock *contracts.Stock, rules ruleconfig.Forensic) []string {
	var out []string
	for _, fy := range chronological(stock) {
		rec := stock.Years[fy]
		if rec.Float(contracts.MetricEBITDAGrowth) < rules.EBITDACollapsePct &&
			rec.Float(contracts.MetricRevenueGrowth) > rules.ExpenseRevenueGrowthMin {
			out = append(out, fmt.Sprintf("%s: Severe EBITDA decline (%s%%) despite revenue growth",
				fy, rec.Text(contracts.MetricEBITDAGrowth)))
		}
	}
	if len(out) == 0 {
		return []string{"No significant expense anomalies"}
	}
	return out
}

// AuditorRemarks quotes remarks containing a critical auditor keyword
func AuditorRemarks(stock *contracts.Stock, rules ruleconfig.Forensic) []string {
	return keywordScan(stock, contracts.MetricAuditorRemarks, rules.AuditorKeywords, func(fy contracts.FiscalYear, text string) string {
		return excerpt(fy, text, rules.ExcerptLength)
	}, "No critical auditor remarks found")
}

// CashFlowNotes quotes cash flow notes containing an irregularity keyword
func CashFlowNotes(stock *contracts.Stock, rules ruleconfig.Forensic) []string {
	return keywordScan(stock, contracts.MetricCashFlowAnomalies, rules.CashFlowKeywords, func(fy contracts.FiscalYear, text string) string {
		return excerpt(fy, text, rules.ExcerptLength)
	}, "No significant cash flow anomalies")
}

// RelatedParties flags related party disclosures containing a materiality keyword
func RelatedParties(stock *contracts.Stock, rules ruleconfig.Forensic) []string {
	return keywordScan(stock, contracts.MetricRelatedPartyTransactions, rules.RelatedPartyKeywords, func(fy contracts.FiscalYear, _ string) string {
		return fmt.Sprintf("%s: Suspicious transactions reported", fy)
	}, "No problematic related party transactions")
}

func keywordScan(stock *contracts.Stock, field string, keywords []string, describe func(contracts.FiscalYear, string) string, clean string) []string {
	var out []string
	for _, fy := range chronological(stock) {
		text := stock.Years[fy].Text(field)
		if text == "" {
			continue
		}
		if containsAny(strings.ToLower(text), keywords) {
			out = append(out, describe(fy, text))
		}
	}
	if len(out) == 0 {
		return []string{clean}
	}
	return out
}

func excerpt(fy contracts.FiscalYear, text string, n int) string {
	return fmt.Sprintf("%s: %s...", fy, render.Truncate(text, n))
}

// containsAny expects lowercase keywords
func containsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if kw != "" && strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// chronological returns fiscal years oldest first
func chronological(stock *contracts.Stock) []contracts.FiscalYear {
	years := stock.FiscalYears()
	for i, j := 0, len(years)-1; i < j; i, j = i+1, j-1 {
		years[i], years[j] = years[j], years[i]
	}
	return years
}
