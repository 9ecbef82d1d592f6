package ruleconfig

// Rules holds the tunable heuristics of the chatbot
// ⭐ SSOT: every keyword list and threshold used by scoring, resolution and forensics
type Rules struct {
	Meta       Meta       `yaml:"meta" json:"meta"`
	Risk       Risk       `yaml:"risk" json:"risk"`
	Resolution Resolution `yaml:"resolution" json:"resolution"`
	Forensic   Forensic   `yaml:"forensic" json:"forensic"`
}

// Meta identifies a rules file
type Meta struct {
	RulesID string `yaml:"rules_id" json:"rules_id"`
	Version string `yaml:"version" json:"version"`
}

// Risk drives the scoring risk adjustment
type Risk struct {
	SectorPenalties []SectorPenalty `yaml:"sector_penalties" json:"sector_penalties"`

	DebtToEquityMax  float64 `yaml:"debt_to_equity_max" json:"debt_to_equity_max"` // penalty when above
	DebtPenalty      int     `yaml:"debt_penalty" json:"debt_penalty"`
	RevenueGrowthMin float64 `yaml:"revenue_growth_min" json:"revenue_growth_min"` // penalty when below
	GrowthPenalty    int     `yaml:"growth_penalty" json:"growth_penalty"`
}

// SectorPenalty applies when the stock name contains Keyword
type SectorPenalty struct {
	Keyword string `yaml:"keyword" json:"keyword"`
	Label   string `yaml:"label" json:"label"`
	Points  int    `yaml:"points" json:"points"`
}

// Resolution drives stock name matching
type Resolution struct {
	// Abbreviations are substring matches tried after token overlap, in order
	Abbreviations []Alias `yaml:"abbreviations" json:"abbreviations"`
	// Aliases match the whole query only
	Aliases   []Alias  `yaml:"aliases" json:"aliases"`
	StopWords []string `yaml:"stop_words" json:"stop_words"`

	SuggestThreshold float64 `yaml:"suggest_threshold" json:"suggest_threshold"`
	SuggestLimit     int     `yaml:"suggest_limit" json:"suggest_limit"`
}

// Alias maps a short key to a full stock name
type Alias struct {
	Key  string `yaml:"key" json:"key"`
	Name string `yaml:"name" json:"name"`
}

// Forensic holds detector thresholds and keyword lists
type Forensic struct {
	BenfordTolerancePct float64 `yaml:"benford_tolerance_pct" json:"benford_tolerance_pct"`

	SellRatioMax     float64 `yaml:"sell_ratio_max" json:"sell_ratio_max"`
	BlockTradeShares int64   `yaml:"block_trade_shares" json:"block_trade_shares"`

	RevenueSurgePct    float64 `yaml:"revenue_surge_pct" json:"revenue_surge_pct"`
	ReceivableDaysHigh float64 `yaml:"receivable_days_high" json:"receivable_days_high"`
	RevenueDropPct     float64 `yaml:"revenue_drop_pct" json:"revenue_drop_pct"`
	ReceivableDaysLow  float64 `yaml:"receivable_days_low" json:"receivable_days_low"`

	EBITDACollapsePct       float64 `yaml:"ebitda_collapse_pct" json:"ebitda_collapse_pct"`
	ExpenseRevenueGrowthMin float64 `yaml:"expense_revenue_growth_min" json:"expense_revenue_growth_min"`

	ExcerptLength        int      `yaml:"excerpt_length" json:"excerpt_length"`
	AuditorKeywords      []string `yaml:"auditor_keywords" json:"auditor_keywords"`
	CashFlowKeywords     []string `yaml:"cash_flow_keywords" json:"cash_flow_keywords"`
	RelatedPartyKeywords []string `yaml:"related_party_keywords" json:"related_party_keywords"`
}
