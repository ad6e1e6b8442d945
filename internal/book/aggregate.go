// Package book derives analyzable views from canonical snapshots:
// cumulative depth, spread, mid price and bid/ask imbalance. Every
// function here is pure and safe for concurrent use.
package book

import "depth_go/internal/domain"

// Imbalance classification thresholds. Fixed policy, not configurable.
const (
	buyThreshold        = 1.1
	sellThreshold       = 0.9
	strongBuyThreshold  = 1.5
	strongSellThreshold = 0.5
)

// AggregatedView is a snapshot enriched with cumulative totals per
// level and the derived scalars the presentation layer renders.
// Spread and mid price are zero when either side is empty.
type AggregatedView struct {
	Bids []domain.PriceLevel `json:"bids"`
	Asks []domain.PriceLevel `json:"asks"`

	SpreadAbsolute float64 `json:"spread_absolute"`
	SpreadPercent  float64 `json:"spread_percent"`
	MidPrice       float64 `json:"mid_price"`

	TotalBidSize float64 `json:"total_bid_size"`
	TotalAskSize float64 `json:"total_ask_size"`
	TotalVolume  float64 `json:"total_volume"`

	Imbalance domain.Imbalance `json:"imbalance"`
}

// Aggregate computes the full derived view for one snapshot. The input
// snapshot is not modified; level slices are copied.
func Aggregate(snap *domain.OrderbookSnapshot) AggregatedView {
	view := AggregatedView{
		Bids: withCumulativeTotals(snap.Bids),
		Asks: withCumulativeTotals(snap.Asks),
	}
	for _, lv := range view.Bids {
		view.TotalBidSize += lv.Size
	}
	for _, lv := range view.Asks {
		view.TotalAskSize += lv.Size
	}
	view.TotalVolume = view.TotalBidSize + view.TotalAskSize

	bestBid, hasBid := snap.BestBid()
	bestAsk, hasAsk := snap.BestAsk()
	if hasBid && hasAsk {
		view.SpreadAbsolute = bestAsk.Price - bestBid.Price
		if bestAsk.Price != 0 {
			view.SpreadPercent = view.SpreadAbsolute / bestAsk.Price * 100
		}
		view.MidPrice = (bestAsk.Price + bestBid.Price) / 2
		view.Imbalance = classifyRatio(view.TotalBidSize, view.TotalAskSize)
	} else {
		view.Imbalance = domain.Imbalance{Direction: domain.ImbalanceNeutral, Strength: domain.StrengthWeak}
	}
	return view
}

// withCumulativeTotals copies one side, filling CumulativeTotal as the
// running sum of size from the best price outward.
func withCumulativeTotals(levels []domain.PriceLevel) []domain.PriceLevel {
	out := make([]domain.PriceLevel, len(levels))
	var running float64
	for i, lv := range levels {
		running += lv.Size
		lv.CumulativeTotal = running
		out[i] = lv
	}
	return out
}

func classifyRatio(totalBidSize, totalAskSize float64) domain.Imbalance {
	if totalAskSize == 0 {
		// No ask liquidity: report neutral rather than an infinite ratio.
		return domain.Imbalance{Direction: domain.ImbalanceNeutral, Strength: domain.StrengthWeak}
	}
	return Classify(totalBidSize / totalAskSize)
}

// Classify maps a bid/ask size ratio onto direction and strength using
// the fixed thresholds. Boundary values stay in the weaker class:
// ratio 1.1 is neutral, ratio 1.5 is buy/moderate.
func Classify(ratio float64) domain.Imbalance {
	imb := domain.Imbalance{Ratio: ratio, Direction: domain.ImbalanceNeutral, Strength: domain.StrengthWeak}
	switch {
	case ratio > buyThreshold:
		imb.Direction = domain.ImbalanceBuy
		if ratio > strongBuyThreshold {
			imb.Strength = domain.StrengthStrong
		} else {
			imb.Strength = domain.StrengthModerate
		}
	case ratio < sellThreshold:
		imb.Direction = domain.ImbalanceSell
		if ratio < strongSellThreshold {
			imb.Strength = domain.StrengthStrong
		} else {
			imb.Strength = domain.StrengthModerate
		}
	}
	return imb
}
