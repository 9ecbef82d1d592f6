package router

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/opsatya/ved/internal/contracts"
)

var (
	yearPattern     = regexp.MustCompile(`(?i)(20\d{2}-\d{2})|(FY\s?\d{4})|(20\d{2})`)
	sincePattern    = regexp.MustCompile(`(?i)since\s*(\d{4})`)
	greetingPattern = regexp.MustCompile(`\b(hi|hello|hey|howdy|hola)\b`)
	orderPattern    = regexp.MustCompile(`place (buy|sell) order for (\d+) shares of (.+)`)
)

// metricAliases are tried in order; the first alias found in the query wins
var metricAliases = []struct {
	alias  string
	metric string
}{
	{"revenue", contracts.MetricRevenueGrowth},
	{"ebitda", contracts.MetricEBITDAGrowth},
	{"debt", contracts.MetricDebtToEquity},
	{"debt ratio", contracts.MetricDebtToEquity},
	{"profit", contracts.MetricNetProfitMargin},
	{"recommendation", contracts.MetricVerdict},
	{"advice", contracts.MetricVerdict},
	{"cash reserve", contracts.MetricCashReserve},
	{"cash", contracts.MetricCashReserve},
}

// ExtractMetric maps the first metric alias in query to a metric name, "" when none
func ExtractMetric(query string) string {
	lower := strings.ToLower(query)
	for _, m := range metricAliases {
		if strings.Contains(lower, m.alias) {
			return m.metric
		}
	}
	return ""
}

// ExtractFiscalYear finds the first year token and returns its canonical
// "YYYY-YY" key. "FY 2024", "FY2024" and "2024" all become "2024-25".
func ExtractFiscalYear(query string) (contracts.FiscalYear, bool) {
	m := yearPattern.FindStringSubmatch(query)
	if m == nil {
		return "", false
	}

	switch {
	case m[1] != "":
		return contracts.FiscalYear(m[1]), true
	case m[2] != "":
		digits := m[2][len(m[2])-2:]
		yy, _ := strconv.Atoi(digits)
		return contracts.NewFiscalYear(2000 + yy), true
	default:
		start, _ := strconv.Atoi(m[3])
		return contracts.NewFiscalYear(start), true
	}
}

// ExtractSinceYear reads a "since YYYY" lower bound, 0 when absent
func ExtractSinceYear(query string) int {
	m := sincePattern.FindStringSubmatch(query)
	if m == nil {
		return 0
	}
	year, _ := strconv.Atoi(m[1])
	return year
}

// StripYears removes every year token and trims the result
func StripYears(query string) string {
	return strings.TrimSpace(yearPattern.ReplaceAllString(query, ""))
}

// OrderCommand is a parsed "place buy|sell order" request
type OrderCommand struct {
	Side     contracts.OrderSide
	Quantity int
	Stock    string
}

// ParseOrder matches "place buy|sell order for N shares of X" in a lowercase query.
// A matched query always yields a command; Quantity is 0 when N does not fit an int.
func ParseOrder(lower string) (OrderCommand, bool) {
	m := orderPattern.FindStringSubmatch(lower)
	if m == nil {
		return OrderCommand{}, false
	}
	qty, err := strconv.Atoi(m[2])
	if err != nil {
		qty = 0
	}

	side := contracts.OrderSideBuy
	if m[1] == "sell" {
		side = contracts.OrderSideSell
	}
	return OrderCommand{Side: side, Quantity: qty, Stock: strings.TrimSpace(m[3])}, true
}

// IsGreeting reports a short query containing a greeting word
func IsGreeting(query string) bool {
	return len(strings.Fields(query)) <= 3 && greetingPattern.MatchString(strings.ToLower(query))
}

func containsAny(text string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(text, term) {
			return true
		}
	}
	return false
}
