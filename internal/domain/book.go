package domain

// MaxDepthLevels is the fixed per-side depth retained after normalization.
const MaxDepthLevels = 15

// PriceLevel is a single (price, size) pair on one side of the book.
// CumulativeTotal is derived by the aggregator; adapters leave it zero.
type PriceLevel struct {
	Price           float64 `json:"price"`
	Size            float64 `json:"size"`
	CumulativeTotal float64 `json:"total"`
}

// OrderbookSnapshot is one immutable view of a venue's order book.
// Bids are strictly price-descending, asks strictly price-ascending,
// each side truncated to MaxDepthLevels. A new snapshot supersedes the
// previous one wholesale; snapshots are never patched in place.
type OrderbookSnapshot struct {
	Bids             []PriceLevel `json:"bids"`
	Asks             []PriceLevel `json:"asks"`
	CapturedAtMillis int64        `json:"captured_at"`
	InstrumentSymbol string       `json:"symbol"`
}

// BestBid returns the highest bid, or false when the side is empty.
func (s *OrderbookSnapshot) BestBid() (PriceLevel, bool) {
	if len(s.Bids) == 0 {
		return PriceLevel{}, false
	}
	return s.Bids[0], true
}

// BestAsk returns the lowest ask, or false when the side is empty.
func (s *OrderbookSnapshot) BestAsk() (PriceLevel, bool) {
	if len(s.Asks) == 0 {
		return PriceLevel{}, false
	}
	return s.Asks[0], true
}

// Venue describes one supported exchange. Static after load; the feed
// and poll endpoints are opaque to everything but the connection layer.
type Venue struct {
	ID               string `json:"id" yaml:"id" gorm:"primaryKey;column:id"`
	DisplayName      string `json:"name" yaml:"name" gorm:"column:display_name"`
	FeedEndpoint     string `json:"ws_url" yaml:"ws_url" gorm:"column:feed_endpoint"`
	PollEndpoint     string `json:"rest_url" yaml:"rest_url" gorm:"column:poll_endpoint"`
	InstrumentSymbol string `json:"symbol" yaml:"symbol" gorm:"column:instrument_symbol"`
}

// ConnectionState is the lifecycle state of one venue's feed.
type ConnectionState string

const (
	StateDisconnected ConnectionState = "disconnected"
	StateConnecting   ConnectionState = "connecting"
	StateConnected    ConnectionState = "connected"
	StateError        ConnectionState = "error"
)

// Imbalance is the directional skew between aggregate bid and ask size.
type Imbalance struct {
	Ratio     float64 `json:"ratio"`
	Direction string  `json:"direction"` // "buy", "sell", "neutral"
	Strength  string  `json:"strength"`  // "weak", "moderate", "strong"
}

const (
	ImbalanceBuy     = "buy"
	ImbalanceSell    = "sell"
	ImbalanceNeutral = "neutral"

	StrengthWeak     = "weak"
	StrengthModerate = "moderate"
	StrengthStrong   = "strong"
)
