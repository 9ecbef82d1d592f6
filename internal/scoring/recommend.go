package scoring

// Recommendation is a fixed bucket for an aggregate score
type Recommendation struct {
	Text    string   `json:"text"`
	Reasons []string `json:"reasons"`
	Outlook string   `json:"outlook"`
}

var (
	strongBuy = Recommendation{
		Text:    "✅ Strong Buy",
		Reasons: []string{"Excellent fundamentals", "Strong growth trajectory"},
		Outlook: "High growth potential with strong fundamentals",
	}
	buy = Recommendation{
		Text:    "🟢 Buy",
		Reasons: []string{"Good financial metrics", "Stable growth"},
		Outlook: "Positive outlook with moderate growth",
	}
	hold = Recommendation{
		Text:    "🟡 Hold",
		Reasons: []string{"Mixed performance", "Moderate risks"},
		Outlook: "Wait for improved fundamentals",
	}
	risky = Recommendation{
		Text:    "🔴 Risky - Consider Exit",
		Reasons: []string{"Weak metrics", "High risk profile"},
		Outlook: "Caution advised - monitor closely",
	}

	// NoRecommendation is returned for scores outside 0..100
	NoRecommendation = Recommendation{
		Text:    "⚠️ No Recommendation",
		Reasons: []string{"Insufficient data"},
		Outlook: "Cannot determine",
	}
)

// Recommend maps 80..100 to Strong Buy, 60..79 to Buy, 40..59 to Hold and 0..39 to Risky
func Recommend(score int) Recommendation {
	switch {
	case score >= 80 && score <= 100:
		return strongBuy
	case score >= 60 && score < 80:
		return buy
	case score >= 40 && score < 60:
		return hold
	case score >= 0 && score < 40:
		return risky
	default:
		return NoRecommendation
	}
}
