package domain

const (
	SideBuy  = "buy"
	SideSell = "sell"

	OrderKindLimit  = "limit"
	OrderKindMarket = "market"
)

// OrderRequest is a validated, user-supplied hypothetical order.
// Callers are expected to reject non-positive price/quantity and
// negative delay before the request reaches the simulation engine.
type OrderRequest struct {
	Kind         string  `json:"type"`  // OrderKindLimit or OrderKindMarket
	Side         string  `json:"side"`  // SideBuy or SideSell
	LimitPrice   float64 `json:"price"` // reference price for market orders
	Quantity     float64 `json:"quantity"`
	DelaySeconds float64 `json:"delay"`
}

// IsMarket reports whether the request sweeps the book immediately.
func (r OrderRequest) IsMarket() bool {
	return r.Kind == OrderKindMarket
}

// QueuePosition locates a limit order inside the opposing side of the
// book. Level is -1 for market orders. IsAtExistingLevel is true only
// when the order price exactly equals the price at that level.
type QueuePosition struct {
	Level             int  `json:"level"`
	IsAtExistingLevel bool `json:"at_existing_level"`
}

// SimulatedOrder is the outcome of rehearsing one order against one
// snapshot. Immutable after creation; it never touches real liquidity.
type SimulatedOrder struct {
	ID                   string        `json:"id"`
	Kind                 string        `json:"type"`
	Side                 string        `json:"side"`
	LimitPrice           float64       `json:"price"`
	Quantity             float64       `json:"quantity"`
	DelaySeconds         float64       `json:"delay"`
	CreatedAtMillis      int64         `json:"created_at"`
	EstimatedFillPercent float64       `json:"estimated_fill"`
	MarketImpactPercent  float64       `json:"market_impact"`
	SlippagePercent      float64       `json:"slippage"`
	TimeToFillSeconds    float64       `json:"time_to_fill"`
	QueuePosition        QueuePosition `json:"position"`
}
