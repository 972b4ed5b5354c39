package alert

import (
	"github.com/rintaro796/cs2-discord-alerts/internal/model"
)

// Evaluator decides which items crossed their price-change thresholds
// since the previous run. Both bounds are inclusive.
type Evaluator struct {
	UpThreshold   float64 // e.g. 0.10 for +10%
	DownThreshold float64 // e.g. -0.10 for -10%
}

// NewEvaluator creates an Evaluator with the given signed thresholds.
func NewEvaluator(up, down float64) *Evaluator {
	return &Evaluator{UpThreshold: up, DownThreshold: down}
}

// Evaluate compares each record's current price against the prior snapshot
// and returns the alerts plus the next snapshot. The next snapshot always
// records the current price for every identity seen this run, whether or not
// it alerted, so each run diffs against the immediately preceding one and the
// same move can never re-alert. Identities missing from the prior snapshot
// (or with a non-positive prior) only seed the baseline.
//
// When a run carries two rows with the same identity the last row wins, in
// both the snapshot and the alert comparison; alerts keep the order in which
// identities first appeared in the feed.
func (e *Evaluator) Evaluate(records []model.Record, prior map[string]float64) ([]model.Alert, map[string]float64) {
	next := make(map[string]float64, len(records))
	order := make([]string, 0, len(records))
	latest := make(map[string]model.Record, len(records))

	for _, r := range records {
		if _, seen := latest[r.Identity]; !seen {
			order = append(order, r.Identity)
		}
		latest[r.Identity] = r
		next[r.Identity] = r.CurrentPrice
	}

	alerts := make([]model.Alert, 0)
	for _, id := range order {
		r := latest[id]
		prev, ok := prior[id]
		if !ok || prev <= 0 {
			continue
		}
		pct := (r.CurrentPrice - prev) / prev
		if pct >= e.UpThreshold || pct <= e.DownThreshold {
			alerts = append(alerts, model.Alert{
				Identity:      id,
				PreviousValue: prev,
				CurrentValue:  r.CurrentPrice,
				PercentChange: pct * 100,
			})
		}
	}
	return alerts, next
}
