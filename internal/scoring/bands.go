// Package scoring turns one fiscal year of metrics into points, risk
// penalties and a recommendation bucket.
package scoring

// Band is the points awarded for one metric and how they are shown
type Band struct {
	Points  int    `json:"points"`
	Display string `json:"display"`
}

// RevenueGrowth scores year-on-year revenue growth in percent
func RevenueGrowth(v float64) Band {
	switch {
	case v > 15:
		return Band{10, "++10 (＞15%)"}
	case v > 10:
		return Band{8, "+8 (10-15%)"}
	case v > 5:
		return Band{5, "+5 (5-10%)"}
	default:
		return Band{2, "+2 (＜5%)"}
	}
}

// EBITDAGrowth scores year-on-year EBITDA growth in percent
func EBITDAGrowth(v float64) Band {
	switch {
	case v > 20:
		return Band{15, "++15 (＞20%)"}
	case v > 15:
		return Band{12, "+12 (15-20%)"}
	case v > 10:
		return Band{5, "+5 (10-15%)"}
	default:
		return Band{2, "+2 (＜10%)"}
	}
}

// NetProfitMargin scores net margin in percent
func NetProfitMargin(v float64) Band {
	switch {
	case v > 20:
		return Band{10, "++10 (＞20%)"}
	case v > 15:
		return Band{7, "+7 (15-20%)"}
	case v > 10:
		return Band{5, "+5 (10-15%)"}
	default:
		return Band{3, "+3 (＜10%)"}
	}
}

// DebtToEquity rewards the 1.5–3 range
func DebtToEquity(v float64) Band {
	switch {
	case v >= 1.5 && v <= 3:
		return Band{5, "+5 (Optimal 1.5-3)"}
	case v < 1.5:
		return Band{3, "+3 (Low <1.5)"}
	default:
		return Band{-2, "-2 (High >3)"}
	}
}

// PromoterHolding rewards the 40–60% range
func PromoterHolding(v float64) Band {
	switch {
	case v >= 40 && v <= 60:
		return Band{5, "+5 (40-60%)"}
	case v > 60:
		return Band{3, "+3 (>60%)"}
	default:
		return Band{-1, "-1 (<40%)"}
	}
}

// MaxPoints is the best attainable sum of the five bands
const MaxPoints = 10 + 15 + 10 + 5 + 5
