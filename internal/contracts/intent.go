package contracts

// Intent is the classified purpose of a query
type Intent int

const (
	IntentDecline Intent = iota
	IntentAnalyze
	IntentGreeting
	IntentDeploy
	IntentForensic
	IntentOrder
	IntentForecast
	IntentSummary
	IntentCashTimeline
	IntentHealthTimeline
	IntentTrend
	IntentPrice
	IntentScoring
)

var intentNames = map[Intent]string{
	IntentDecline:        "decline",
	IntentAnalyze:        "analyze",
	IntentGreeting:       "greeting",
	IntentDeploy:         "deploy",
	IntentForensic:       "forensic",
	IntentOrder:          "order",
	IntentForecast:       "forecast",
	IntentSummary:        "summary",
	IntentCashTimeline:   "cash_timeline",
	IntentHealthTimeline: "health_timeline",
	IntentTrend:          "trend",
	IntentPrice:          "price",
	IntentScoring:        "scoring",
}

func (i Intent) String() string {
	if name, ok := intentNames[i]; ok {
		return name
	}
	return "unknown"
}
