// Package sim rehearses hypothetical orders against a single order-book
// snapshot. All computations are synchronous, bounded by book depth and
// never mutate the snapshot they read.
package sim

import (
	"math"
	"math/rand"
	"time"

	"depth_go/internal/domain"

	"github.com/google/uuid"
)

const (
	// partialFillPenaltySeconds is added to the fill-time estimate of a
	// limit order that cannot fill completely against current depth.
	partialFillPenaltySeconds = 30.0

	// fillNoiseSeconds bounds the uniform random term standing in for
	// unmodeled market activity: drawn from [0, fillNoiseSeconds).
	fillNoiseSeconds = 10.0

	// marketOrderLevel is the queue level reported for market orders,
	// which never rest in the book.
	marketOrderLevel = -1
)

// Engine computes order simulations. The zero value is not usable;
// use New, or fill the fields directly in tests to pin down the
// random term, the clock and the id sequence.
type Engine struct {
	RandFloat func() float64   // uniform in [0, 1)
	Now       func() time.Time // creation timestamps
	NewID     func() string    // simulated order ids
}

// New returns an engine with production sources: math/rand noise,
// wall-clock time and UUID order ids.
func New() *Engine {
	return &Engine{
		RandFloat: rand.Float64,
		Now:       time.Now,
		NewID:     func() string { return uuid.NewString() },
	}
}

// QueuePosition locates the order in the opposing side of the book:
// the insertion index of the limit price scanning in book order, or
// the side's length when no level qualifies. Market orders report
// level -1 and always count as resting at an existing level.
func (e *Engine) QueuePosition(snap *domain.OrderbookSnapshot, req domain.OrderRequest) domain.QueuePosition {
	if req.IsMarket() {
		return domain.QueuePosition{Level: marketOrderLevel, IsAtExistingLevel: true}
	}
	if req.Side == domain.SideBuy {
		for i, ask := range snap.Asks {
			if ask.Price >= req.LimitPrice {
				return domain.QueuePosition{Level: i, IsAtExistingLevel: ask.Price == req.LimitPrice}
			}
		}
		return domain.QueuePosition{Level: len(snap.Asks)}
	}
	for i, bid := range snap.Bids {
		if bid.Price <= req.LimitPrice {
			return domain.QueuePosition{Level: i, IsAtExistingLevel: bid.Price == req.LimitPrice}
		}
	}
	return domain.QueuePosition{Level: len(snap.Bids)}
}

// EstimatedFill returns the percentage of the requested quantity that
// matches opposing liquidity priced at least as favorably as the limit
// price. Market orders are defined as 100% filled. The walk stops at
// the first unfavorable level; if depth runs out, the fill is whatever
// matched.
func (e *Engine) EstimatedFill(snap *domain.OrderbookSnapshot, req domain.OrderRequest) float64 {
	if req.IsMarket() {
		return 100
	}
	var filled float64
	remaining := req.Quantity
	if req.Side == domain.SideBuy {
		for _, ask := range snap.Asks {
			if ask.Price > req.LimitPrice || remaining <= 0 {
				break
			}
			take := math.Min(remaining, ask.Size)
			filled += take
			remaining -= take
		}
	} else {
		for _, bid := range snap.Bids {
			if bid.Price < req.LimitPrice || remaining <= 0 {
				break
			}
			take := math.Min(remaining, bid.Size)
			filled += take
			remaining -= take
		}
	}
	return filled / req.Quantity * 100
}

// MarketImpact returns the relative deviation of the sweep's
// volume-weighted average price from the best opposing price, in
// percent. Limit orders are assumed to have no impact. Market orders
// are assumed to execute the full quantity regardless of depth.
func (e *Engine) MarketImpact(snap *domain.OrderbookSnapshot, req domain.OrderRequest) float64 {
	if !req.IsMarket() {
		return 0
	}
	opposing := snap.Asks
	if req.Side == domain.SideSell {
		opposing = snap.Bids
	}
	if len(opposing) == 0 {
		return 0
	}
	var totalCost float64
	remaining := req.Quantity
	for _, lv := range opposing {
		if remaining <= 0 {
			break
		}
		take := math.Min(remaining, lv.Size)
		totalCost += take * lv.Price
		remaining -= take
	}
	averagePrice := totalCost / req.Quantity
	bestPrice := opposing[0].Price
	return (averagePrice - bestPrice) / bestPrice * 100
}

// Slippage returns the relative deviation of the order's reference
// price from the best opposing price, in percent. Depth consumed does
// not matter here; limit orders report zero.
func (e *Engine) Slippage(snap *domain.OrderbookSnapshot, req domain.OrderRequest) float64 {
	if !req.IsMarket() {
		return 0
	}
	opposing := snap.Asks
	if req.Side == domain.SideSell {
		opposing = snap.Bids
	}
	if len(opposing) == 0 {
		return 0
	}
	bestPrice := opposing[0].Price
	return (req.LimitPrice - bestPrice) / bestPrice * 100
}

// TimeToFill estimates seconds until execution. Market orders execute
// right after the requested delay. Limit orders add a fixed penalty for
// partial fills plus the uniform noise term.
func (e *Engine) TimeToFill(snap *domain.OrderbookSnapshot, req domain.OrderRequest) float64 {
	if req.IsMarket() {
		return req.DelaySeconds
	}
	estimate := req.DelaySeconds
	if e.EstimatedFill(snap, req) < 100 {
		estimate += partialFillPenaltySeconds
	}
	return estimate + e.RandFloat()*fillNoiseSeconds
}

// Simulate bundles all estimates into one SimulatedOrder, stamping an
// id and creation time. The snapshot is read, never written.
func (e *Engine) Simulate(snap *domain.OrderbookSnapshot, req domain.OrderRequest) domain.SimulatedOrder {
	return domain.SimulatedOrder{
		ID:                   e.NewID(),
		Kind:                 req.Kind,
		Side:                 req.Side,
		LimitPrice:           req.LimitPrice,
		Quantity:             req.Quantity,
		DelaySeconds:         req.DelaySeconds,
		CreatedAtMillis:      e.Now().UnixMilli(),
		EstimatedFillPercent: e.EstimatedFill(snap, req),
		MarketImpactPercent:  e.MarketImpact(snap, req),
		SlippagePercent:      e.Slippage(snap, req),
		TimeToFillSeconds:    e.TimeToFill(snap, req),
		QueuePosition:        e.QueuePosition(snap, req),
	}
}
