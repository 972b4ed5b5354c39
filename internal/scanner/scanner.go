package scanner

import "github.com/rintaro796/cs2-discord-alerts/internal/model"

// MaxPumpRows caps how many flagged moves one report carries.
const MaxPumpRows = 12

// MaxCandidates caps how many investment-grade candidates one report carries.
const MaxCandidates = 10

// FlagPumps returns the items whose feed-reported 24h or 72h change meets
// either threshold. These feeds carry their own deltas, so every run is
// evaluated from scratch with no cross-run state.
func FlagPumps(items []model.PumpItem, thresh24, thresh72 float64) []model.PumpItem {
	flagged := make([]model.PumpItem, 0)
	for _, x := range items {
		if x.Pct24 >= thresh24 || x.Pct72 >= thresh72 {
			flagged = append(flagged, x)
		}
	}
	if len(flagged) > MaxPumpRows {
		flagged = flagged[:MaxPumpRows]
	}
	return flagged
}

// SplitMovers buckets sticker/patch items by their feed-supplied direction
// tags. An item tagged UP in one window and DOWN in another lands in both
// buckets.
func SplitMovers(items []model.StickerItem) (up, down []model.StickerItem) {
	for _, x := range items {
		if x.Direction24 == "UP" || x.Direction72 == "UP" || x.Direction7d == "UP" {
			up = append(up, x)
		}
		if x.Direction24 == "DOWN" || x.Direction72 == "DOWN" || x.Direction7d == "DOWN" {
			down = append(down, x)
		}
	}
	return up, down
}

// TopCandidates trims the investment-grade feed to the report cap.
func TopCandidates(items []model.CandidateItem) []model.CandidateItem {
	if len(items) > MaxCandidates {
		items = items[:MaxCandidates]
	}
	return items
}
