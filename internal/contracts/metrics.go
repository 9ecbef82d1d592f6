package contracts

import (
	"fmt"
	"sort"
)

// Metric names used in YearRecord
const (
	MetricRevenueGrowth            = "RevenueGrowth"
	MetricEBITDAGrowth             = "EBITDAGrowth"
	MetricNetProfitMargin          = "NetProfitMargin"
	MetricDebtToEquity             = "DebtToEquity"
	MetricInterestCoverage         = "InterestCoverage"
	MetricPromoterHolding          = "PromoterHolding"
	MetricROCE                     = "ROCE"
	MetricEPSGrowth                = "EPSGrowth"
	MetricCashReserve              = "CashReserve"
	MetricRevenue                  = "Revenue"
	MetricAccountsReceivableDays   = "AccountsReceivableDays"
	MetricAuditorRemarks           = "AuditorRemarks"
	MetricCashFlowAnomalies        = "CashFlowAnomalies"
	MetricRelatedPartyTransactions = "RelatedPartyTransactions"
	MetricIndustryRanking          = "IndustryRanking"

	// MetricVerdict is not a YearRecord key; it selects Stock.Verdict
	MetricVerdict = "Verdict"
)

// NumericMetrics are coerced by YearRecord.NormalizeNumeric
var NumericMetrics = []string{
	MetricRevenueGrowth,
	MetricEBITDAGrowth,
	MetricNetProfitMargin,
	MetricDebtToEquity,
	MetricInterestCoverage,
	MetricPromoterHolding,
	MetricIndustryRanking,
	MetricEPSGrowth,
}

// YearRecord maps metric names to raw values for one fiscal year.
// Values are whatever the loader produced: float64, string, or nil.
type YearRecord map[string]any

// Has reports whether metric is present with a non-null value
func (r YearRecord) Has(metric string) bool {
	v, ok := r[metric]
	return ok && v != nil
}

// Float coerces metric with SafeFloat, defaulting to zero
func (r YearRecord) Float(metric string) float64 {
	return SafeFloat(r[metric], 0)
}

// Truthy reports a present value that is not zero, empty, or false
func (r YearRecord) Truthy(metric string) bool {
	switch v := r[metric].(type) {
	case nil:
		return false
	case string:
		return v != ""
	case bool:
		return v
	default:
		return SafeFloat(v, 0) != 0
	}
}

// Text returns the metric as display text, "" when absent
func (r YearRecord) Text(metric string) string {
	switch v := r[metric].(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return FormatNumber(v)
	default:
		return fmt.Sprint(v)
	}
}

// NormalizeNumeric coerces the numeric vocabulary in place
func (r YearRecord) NormalizeNumeric() {
	for _, metric := range NumericMetrics {
		if _, ok := r[metric]; ok {
			r[metric] = SafeFloat(r[metric], 0)
		}
	}
}

// Keys returns metric names in a stable order
func (r YearRecord) Keys() []string {
	keys := make([]string, 0, len(r))
	for k := range r {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
