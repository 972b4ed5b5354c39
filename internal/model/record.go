package model

// RunMode selects which task a one-shot invocation executes.
type RunMode string

const (
	ModeSummary  RunMode = "summary"
	ModeAlerts   RunMode = "alerts"
	ModePump     RunMode = "pump"
	ModeStickers RunMode = "stickers"
	ModeInvest   RunMode = "invest"
)

// Record is one tradeable item's observation for a single run.
// Identity is stable across runs (name + condition).
type Record struct {
	Identity     string
	Item         string
	Condition    string
	Quantity     float64
	BuyPrice     float64
	CurrentPrice float64
	ExplicitROI  *float64 // feed-supplied ROI %, nil when absent or unparsable
}

// RankedItem is a gainers/losers list entry.
type RankedItem struct {
	Item         string
	Condition    string
	ROIPercent   float64
	CurrentPrice float64
}

// Summary aggregates the whole portfolio for one run.
type Summary struct {
	TotalCurrentValue float64
	TotalCostBasis    float64
	Unrealized        float64
	ROIPct            float64
	Gainers           []RankedItem
	Losers            []RankedItem
}

// Alert is a threshold crossing of an item's price versus the prior run.
type Alert struct {
	Identity      string
	PreviousValue float64
	CurrentValue  float64
	PercentChange float64 // already multiplied by 100
}
