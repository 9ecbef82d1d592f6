package contracts

import (
	"errors"
	"strings"
)

// ErrNoTicker is returned when a stock record carries no exchange ticker
var ErrNoTicker = errors.New("no ticker available")

// Stock is one company's record in the metric store
// ⭐ SSOT: JSON field names follow the stock data files
type Stock struct {
	Name          string                    `json:"Stock"`
	Ticker        string                    `json:"Ticker,omitempty"`
	Years         map[FiscalYear]YearRecord `json:"years"`
	InsiderTrades []Trade                   `json:"InsiderTrades,omitempty"`
	Verdict       string                    `json:"Verdict,omitempty"`
}

// FiscalYears returns the record's year keys, newest first
func (s *Stock) FiscalYears() []FiscalYear {
	years := make([]FiscalYear, 0, len(s.Years))
	for fy := range s.Years {
		years = append(years, fy)
	}
	SortDesc(years)
	return years
}

// LatestYear returns the newest fiscal year key
func (s *Stock) LatestYear() (FiscalYear, bool) {
	years := s.FiscalYears()
	if len(years) == 0 {
		return "", false
	}
	return years[0], true
}

// Record returns the metrics for one fiscal year
func (s *Stock) Record(fy FiscalYear) (YearRecord, bool) {
	rec, ok := s.Years[fy]
	return rec, ok
}

// Symbol returns the exchange ticker or ErrNoTicker
func (s *Stock) Symbol() (string, error) {
	if s.Ticker == "" {
		return "", ErrNoTicker
	}
	return s.Ticker, nil
}

// Trade is one insider transaction
type Trade struct {
	Date   string  `json:"date"`
	Type   string  `json:"type"`
	Shares FlexInt `json:"shares"`
}

// IsSell reports a sell-side trade, case-insensitively
func (t Trade) IsSell() bool {
	return strings.EqualFold(strings.TrimSpace(t.Type), "sell")
}
