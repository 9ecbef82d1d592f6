package ruleconfig

import "fmt"

// ValidationError names the offending field
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks all required constraints
func Validate(r *Rules) error {
	// === Meta ===
	if r.Meta.RulesID == "" {
		return ValidationError{"meta.rules_id", "required"}
	}

	// === Risk ===
	for i, p := range r.Risk.SectorPenalties {
		field := fmt.Sprintf("risk.sector_penalties[%d]", i)
		if p.Keyword == "" {
			return ValidationError{field + ".keyword", "required"}
		}
		if p.Label == "" {
			return ValidationError{field + ".label", "required"}
		}
		if p.Points >= 0 {
			return ValidationError{field + ".points", "must be < 0"}
		}
	}
	if r.Risk.DebtToEquityMax <= 0 {
		return ValidationError{"risk.debt_to_equity_max", "must be > 0"}
	}
	if r.Risk.DebtPenalty > 0 {
		return ValidationError{"risk.debt_penalty", "must be <= 0"}
	}
	if r.Risk.GrowthPenalty > 0 {
		return ValidationError{"risk.growth_penalty", "must be <= 0"}
	}

	// === Resolution ===
	if err := validateAliases("resolution.abbreviations", r.Resolution.Abbreviations); err != nil {
		return err
	}
	if err := validateAliases("resolution.aliases", r.Resolution.Aliases); err != nil {
		return err
	}
	if r.Resolution.SuggestThreshold <= 0 || r.Resolution.SuggestThreshold >= 1 {
		return ValidationError{"resolution.suggest_threshold", "must be in (0, 1)"}
	}
	if r.Resolution.SuggestLimit < 1 {
		return ValidationError{"resolution.suggest_limit", "must be >= 1"}
	}

	// === Forensic ===
	f := r.Forensic
	if f.BenfordTolerancePct <= 0 {
		return ValidationError{"forensic.benford_tolerance_pct", "must be > 0"}
	}
	if f.SellRatioMax <= 0 || f.SellRatioMax > 1 {
		return ValidationError{"forensic.sell_ratio_max", "must be in (0, 1]"}
	}
	if f.BlockTradeShares <= 0 {
		return ValidationError{"forensic.block_trade_shares", "must be > 0"}
	}
	if f.RevenueDropPct >= f.RevenueSurgePct {
		return ValidationError{"forensic.revenue_drop_pct", "must be below revenue_surge_pct"}
	}
	if f.ReceivableDaysLow >= f.ReceivableDaysHigh {
		return ValidationError{"forensic.receivable_days_low", "must be below receivable_days_high"}
	}
	if f.EBITDACollapsePct >= 0 {
		return ValidationError{"forensic.ebitda_collapse_pct", "must be < 0"}
	}
	if f.ExcerptLength < 1 {
		return ValidationError{"forensic.excerpt_length", "must be >= 1"}
	}
	if err := validateKeywords("forensic.auditor_keywords", f.AuditorKeywords); err != nil {
		return err
	}
	if err := validateKeywords("forensic.cash_flow_keywords", f.CashFlowKeywords); err != nil {
		return err
	}
	if err := validateKeywords("forensic.related_party_keywords", f.RelatedPartyKeywords); err != nil {
		return err
	}

	return nil
}

func validateAliases(field string, aliases []Alias) error {
	seen := make(map[string]bool, len(aliases))
	for i, a := range aliases {
		if a.Key == "" || a.Name == "" {
			return ValidationError{fmt.Sprintf("%s[%d]", field, i), "key and name are required"}
		}
		if seen[a.Key] {
			return ValidationError{fmt.Sprintf("%s[%d]", field, i), fmt.Sprintf("duplicate key %q", a.Key)}
		}
		seen[a.Key] = true
	}
	return nil
}

func validateKeywords(field string, keywords []string) error {
	if len(keywords) == 0 {
		return ValidationError{field, "at least one keyword required"}
	}
	for i, kw := range keywords {
		if kw == "" {
			return ValidationError{fmt.Sprintf("%s[%d]", field, i), "empty keyword"}
		}
	}
	return nil
}
