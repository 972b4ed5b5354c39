package portfolio

import (
	"sort"

	"github.com/rintaro796/cs2-discord-alerts/internal/model"
)

// TopN is how many gainers/losers the summary carries.
const TopN = 5

// ROIPercent returns the record's return on investment in percent.
// A feed-supplied ROI takes precedence; otherwise it is derived from
// buy/current price. Records with no buy price and no explicit ROI
// score 0 rather than dividing by zero.
func ROIPercent(r model.Record) float64 {
	if r.ExplicitROI != nil {
		return *r.ExplicitROI
	}
	if r.BuyPrice > 0 {
		return (r.CurrentPrice - r.BuyPrice) / r.BuyPrice * 100
	}
	return 0
}

// Summarize aggregates all records of one run into a portfolio summary.
func Summarize(records []model.Record) model.Summary {
	var sum model.Summary

	ranked := make([]model.RankedItem, 0, len(records))
	for _, r := range records {
		sum.TotalCurrentValue += r.Quantity * r.CurrentPrice
		sum.TotalCostBasis += r.Quantity * r.BuyPrice
		ranked = append(ranked, model.RankedItem{
			Item:         r.Item,
			Condition:    r.Condition,
			ROIPercent:   ROIPercent(r),
			CurrentPrice: r.CurrentPrice,
		})
	}

	sum.Unrealized = sum.TotalCurrentValue - sum.TotalCostBasis
	if sum.TotalCostBasis > 0 {
		sum.ROIPct = sum.Unrealized / sum.TotalCostBasis * 100
	}

	// Stable sorts keep feed order on ROI ties.
	gainers := make([]model.RankedItem, len(ranked))
	copy(gainers, ranked)
	sort.SliceStable(gainers, func(i, j int) bool { return gainers[i].ROIPercent > gainers[j].ROIPercent })
	sum.Gainers = topN(gainers, TopN)

	losers := make([]model.RankedItem, len(ranked))
	copy(losers, ranked)
	sort.SliceStable(losers, func(i, j int) bool { return losers[i].ROIPercent < losers[j].ROIPercent })
	sum.Losers = topN(losers, TopN)

	return sum
}

func topN(items []model.RankedItem, n int) []model.RankedItem {
	if len(items) > n {
		items = items[:n]
	}
	return items
}
