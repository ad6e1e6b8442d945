package sim

import (
	"fmt"
	"math"
	"testing"
	"time"

	"depth_go/internal/domain"
)

func testEngine() *Engine {
	ids := 0
	return &Engine{
		RandFloat: func() float64 { return 0.5 },
		Now:       func() time.Time { return time.UnixMilli(1700000000000) },
		NewID: func() string {
			ids++
			return fmt.Sprintf("order-%d", ids)
		},
	}
}

func testSnapshot() *domain.OrderbookSnapshot {
	return &domain.OrderbookSnapshot{
		Bids: []domain.PriceLevel{
			{Price: 99.0, Size: 5.0},
		},
		Asks: []domain.PriceLevel{
			{Price: 100.0, Size: 2.0},
			{Price: 101.0, Size: 3.0},
		},
		InstrumentSymbol: "BTC-USDT",
	}
}

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func TestQueuePosition_MarketOrder(t *testing.T) {
	e := testEngine()
	pos := e.QueuePosition(testSnapshot(), domain.OrderRequest{Kind: domain.OrderKindMarket, Side: domain.SideBuy, Quantity: 1})

	if pos.Level != -1 {
		t.Errorf("Market order level = %d, want -1", pos.Level)
	}
	if !pos.IsAtExistingLevel {
		t.Error("Market orders always count as at an existing level")
	}
}

func TestQueuePosition_LimitOrders(t *testing.T) {
	tests := []struct {
		name    string
		side    string
		price   float64
		level   int
		atLevel bool
	}{
		{"buy below all asks", domain.SideBuy, 99.5, 0, false},
		{"buy exactly at best ask", domain.SideBuy, 100.0, 0, true},
		{"buy between ask levels", domain.SideBuy, 100.5, 1, false},
		{"buy at second ask", domain.SideBuy, 101.0, 1, true},
		{"buy above all asks", domain.SideBuy, 102.0, 2, false},
		{"sell above best bid", domain.SideSell, 99.5, 0, false},
		{"sell exactly at best bid", domain.SideSell, 99.0, 0, true},
		{"sell below all bids lands past the end", domain.SideSell, 98.5, 1, false},
	}

	e := testEngine()
	snap := testSnapshot()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pos := e.QueuePosition(snap, domain.OrderRequest{Kind: domain.OrderKindLimit, Side: tt.side, LimitPrice: tt.price, Quantity: 1})
			if pos.Level != tt.level || pos.IsAtExistingLevel != tt.atLevel {
				t.Errorf("QueuePosition = {%d %v}, want {%d %v}", pos.Level, pos.IsAtExistingLevel, tt.level, tt.atLevel)
			}
		})
	}
}

func TestQueuePosition_SellPastAllBids(t *testing.T) {
	e := testEngine()
	snap := &domain.OrderbookSnapshot{
		Bids: []domain.PriceLevel{{Price: 99.0, Size: 1}, {Price: 98.0, Size: 1}},
	}
	// A sell priced above every bid never finds a qualifying level and
	// lands past the end of the side.
	pos := e.QueuePosition(snap, domain.OrderRequest{Kind: domain.OrderKindLimit, Side: domain.SideSell, LimitPrice: 99.5, Quantity: 1})
	if pos.Level != 0 {
		// first bid (99.0) <= 99.5, insertion point is 0
		t.Errorf("Level = %d, want 0", pos.Level)
	}

	pos = e.QueuePosition(&domain.OrderbookSnapshot{}, domain.OrderRequest{Kind: domain.OrderKindLimit, Side: domain.SideSell, LimitPrice: 99.5, Quantity: 1})
	if pos.Level != 0 || pos.IsAtExistingLevel {
		t.Errorf("Empty book position = %+v, want level 0, not at level", pos)
	}
}

func TestEstimatedFill(t *testing.T) {
	tests := []struct {
		name string
		req  domain.OrderRequest
		want float64
	}{
		{"market order always 100", domain.OrderRequest{Kind: domain.OrderKindMarket, Side: domain.SideBuy, Quantity: 50}, 100},
		{"crossing buy within best level", domain.OrderRequest{Kind: domain.OrderKindLimit, Side: domain.SideBuy, LimitPrice: 100.5, Quantity: 2}, 100},
		{"crossing buy across two levels", domain.OrderRequest{Kind: domain.OrderKindLimit, Side: domain.SideBuy, LimitPrice: 101.0, Quantity: 4}, 100},
		{"partial fill at first level", domain.OrderRequest{Kind: domain.OrderKindLimit, Side: domain.SideBuy, LimitPrice: 100.0, Quantity: 4}, 50},
		{"depth exhausted", domain.OrderRequest{Kind: domain.OrderKindLimit, Side: domain.SideBuy, LimitPrice: 101.0, Quantity: 10}, 50},
		{"non-crossing buy", domain.OrderRequest{Kind: domain.OrderKindLimit, Side: domain.SideBuy, LimitPrice: 98.0, Quantity: 1}, 0},
		{"crossing sell", domain.OrderRequest{Kind: domain.OrderKindLimit, Side: domain.SideSell, LimitPrice: 99.0, Quantity: 5}, 100},
		{"non-crossing sell", domain.OrderRequest{Kind: domain.OrderKindLimit, Side: domain.SideSell, LimitPrice: 99.5, Quantity: 1}, 0},
	}

	e := testEngine()
	snap := testSnapshot()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.EstimatedFill(snap, tt.req)
			if !almostEqual(got, tt.want) {
				t.Errorf("EstimatedFill = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestMarketImpact_SweepsMultipleLevels(t *testing.T) {
	// Market buy of 4 sweeps 2 @ 100 and 2 @ 101: average 100.5 against
	// best ask 100 is 0.5% impact.
	e := testEngine()
	got := e.MarketImpact(testSnapshot(), domain.OrderRequest{Kind: domain.OrderKindMarket, Side: domain.SideBuy, Quantity: 4})
	if !almostEqual(got, 0.5) {
		t.Errorf("MarketImpact = %f, want 0.5", got)
	}
}

func TestMarketImpact_LimitAndEmptyBook(t *testing.T) {
	e := testEngine()
	if got := e.MarketImpact(testSnapshot(), domain.OrderRequest{Kind: domain.OrderKindLimit, Side: domain.SideBuy, LimitPrice: 100, Quantity: 4}); got != 0 {
		t.Errorf("Limit order impact = %f, want 0", got)
	}
	if got := e.MarketImpact(&domain.OrderbookSnapshot{}, domain.OrderRequest{Kind: domain.OrderKindMarket, Side: domain.SideSell, Quantity: 4}); got != 0 {
		t.Errorf("Empty book impact = %f, want 0", got)
	}
}

func TestSlippage(t *testing.T) {
	e := testEngine()
	snap := testSnapshot()

	// Reference price 100.5 against best ask 100.
	got := e.Slippage(snap, domain.OrderRequest{Kind: domain.OrderKindMarket, Side: domain.SideBuy, LimitPrice: 100.5, Quantity: 1})
	if !almostEqual(got, 0.5) {
		t.Errorf("Slippage = %f, want 0.5", got)
	}

	if got := e.Slippage(snap, domain.OrderRequest{Kind: domain.OrderKindLimit, Side: domain.SideBuy, LimitPrice: 100.5, Quantity: 1}); got != 0 {
		t.Errorf("Limit order slippage = %f, want 0", got)
	}
	if got := e.Slippage(&domain.OrderbookSnapshot{}, domain.OrderRequest{Kind: domain.OrderKindMarket, Side: domain.SideBuy, LimitPrice: 100.5, Quantity: 1}); got != 0 {
		t.Errorf("Empty book slippage = %f, want 0", got)
	}
}

func TestTimeToFill(t *testing.T) {
	e := testEngine() // RandFloat pinned to 0.5, noise term = 5s
	snap := testSnapshot()

	tests := []struct {
		name string
		req  domain.OrderRequest
		want float64
	}{
		{"market returns delay unchanged", domain.OrderRequest{Kind: domain.OrderKindMarket, Side: domain.SideBuy, Quantity: 1, DelaySeconds: 7}, 7},
		{"full limit fill adds only noise", domain.OrderRequest{Kind: domain.OrderKindLimit, Side: domain.SideBuy, LimitPrice: 100.5, Quantity: 2, DelaySeconds: 3}, 8},
		{"partial fill adds penalty", domain.OrderRequest{Kind: domain.OrderKindLimit, Side: domain.SideBuy, LimitPrice: 98.0, Quantity: 1, DelaySeconds: 3}, 38},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.TimeToFill(snap, tt.req)
			if !almostEqual(got, tt.want) {
				t.Errorf("TimeToFill = %f, want %f", got, tt.want)
			}
		})
	}
}

func TestSimulate_BundlesEverything(t *testing.T) {
	e := testEngine()
	snap := testSnapshot()

	order := e.Simulate(snap, domain.OrderRequest{
		Kind:         domain.OrderKindMarket,
		Side:         domain.SideBuy,
		LimitPrice:   100.5,
		Quantity:     4,
		DelaySeconds: 2,
	})

	if order.ID != "order-1" {
		t.Errorf("ID = %s, want order-1", order.ID)
	}
	if order.CreatedAtMillis != 1700000000000 {
		t.Errorf("CreatedAtMillis = %d", order.CreatedAtMillis)
	}
	if order.EstimatedFillPercent != 100 {
		t.Errorf("EstimatedFillPercent = %f, want 100", order.EstimatedFillPercent)
	}
	if !almostEqual(order.MarketImpactPercent, 0.5) {
		t.Errorf("MarketImpactPercent = %f, want 0.5", order.MarketImpactPercent)
	}
	if !almostEqual(order.SlippagePercent, 0.5) {
		t.Errorf("SlippagePercent = %f, want 0.5", order.SlippagePercent)
	}
	if order.TimeToFillSeconds != 2 {
		t.Errorf("TimeToFillSeconds = %f, want 2", order.TimeToFillSeconds)
	}
	if order.QueuePosition.Level != -1 {
		t.Errorf("QueuePosition.Level = %d, want -1", order.QueuePosition.Level)
	}

	// The snapshot is read-only for the engine.
	if snap.Asks[0].Size != 2.0 {
		t.Error("Simulate must not consume snapshot liquidity")
	}
}
