package adapter

import (
	"fmt"
	"sort"
	"time"

	"depth_go/internal/domain"

	"github.com/shopspring/decimal"
)

// timeNow is swapped in tests to make capture timestamps deterministic.
var timeNow = time.Now

// Adapter turns one venue's wire format into canonical snapshots.
// Implementations are pure: no I/O, no retained state. A nil snapshot
// with a nil error means the message carried no book data (e.g. a
// subscription acknowledgement) and should be discarded silently.
type Adapter interface {
	VenueID() string

	// SubscribeMessage builds the venue's outbound subscribe payload for
	// the given instrument. Sent once per connection, right after open.
	SubscribeMessage(symbol string) any

	// Normalize parses a live feed message into a snapshot.
	Normalize(raw []byte) (*domain.OrderbookSnapshot, error)

	// PollURL builds the venue's REST order-book request URL for the
	// given instrument, asking for the fixed depth.
	PollURL(baseURL, symbol string) string

	// ParsePoll parses the venue's REST order-book response. Used by the
	// polling fallback; shares all level handling with Normalize.
	ParsePoll(raw []byte) (*domain.OrderbookSnapshot, error)
}

// Registry is the closed set of supported venue adapters. Adding a
// venue means registering one more adapter, never editing another.
type Registry struct {
	adapters map[string]Adapter
}

// NewRegistry returns a registry with all built-in venue adapters.
func NewRegistry() *Registry {
	r := &Registry{adapters: make(map[string]Adapter)}
	r.Register(NewOKX())
	r.Register(NewBybit())
	r.Register(NewDeribit())
	return r
}

// Register adds an adapter, replacing any prior one for the same id.
func (r *Registry) Register(a Adapter) {
	r.adapters[a.VenueID()] = a
}

// Lookup returns the adapter for a venue id.
func (r *Registry) Lookup(venueID string) (Adapter, error) {
	a, ok := r.adapters[venueID]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrUnknownVenue, venueID)
	}
	return a, nil
}

// VenueIDs lists the registered venue ids in sorted order.
func (r *Registry) VenueIDs() []string {
	ids := make([]string, 0, len(r.adapters))
	for id := range r.adapters {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// parseStringLevel parses a [price, size, ...] entry of string-encoded
// decimals. Malformed or negative entries are skipped, not fatal.
func parseStringLevel(entry []string) (domain.PriceLevel, bool) {
	if len(entry) < 2 {
		return domain.PriceLevel{}, false
	}
	price, err := decimal.NewFromString(entry[0])
	if err != nil {
		return domain.PriceLevel{}, false
	}
	size, err := decimal.NewFromString(entry[1])
	if err != nil {
		return domain.PriceLevel{}, false
	}
	if price.IsNegative() || size.IsNegative() {
		return domain.PriceLevel{}, false
	}
	return domain.PriceLevel{Price: price.InexactFloat64(), Size: size.InexactFloat64()}, true
}

// parseNumericLevel parses a [price, size, ...] entry whose elements are
// native JSON numbers. Entries with non-numeric members are skipped.
func parseNumericLevel(entry []any) (domain.PriceLevel, bool) {
	if len(entry) < 2 {
		return domain.PriceLevel{}, false
	}
	price, ok := entry[0].(float64)
	if !ok {
		return domain.PriceLevel{}, false
	}
	size, ok := entry[1].(float64)
	if !ok {
		return domain.PriceLevel{}, false
	}
	if price < 0 || size < 0 {
		return domain.PriceLevel{}, false
	}
	return domain.PriceLevel{Price: price, Size: size}, true
}

// newSnapshot finalizes parsed levels into a canonical snapshot: last
// write per price wins, bids sorted descending, asks ascending, each
// side truncated to the fixed depth, capture time stamped locally.
func newSnapshot(symbol string, bids, asks []domain.PriceLevel) *domain.OrderbookSnapshot {
	return &domain.OrderbookSnapshot{
		Bids:             sortSide(bids, true),
		Asks:             sortSide(asks, false),
		CapturedAtMillis: timeNow().UnixMilli(),
		InstrumentSymbol: symbol,
	}
}

func sortSide(levels []domain.PriceLevel, descending bool) []domain.PriceLevel {
	byPrice := make(map[float64]domain.PriceLevel, len(levels))
	for _, lv := range levels {
		byPrice[lv.Price] = lv
	}
	out := make([]domain.PriceLevel, 0, len(byPrice))
	for _, lv := range byPrice {
		out = append(out, lv)
	}
	sort.Slice(out, func(i, j int) bool {
		if descending {
			return out[i].Price > out[j].Price
		}
		return out[i].Price < out[j].Price
	})
	if len(out) > domain.MaxDepthLevels {
		out = out[:domain.MaxDepthLevels]
	}
	return out
}
