package adapter

import (
	"encoding/json"
	"fmt"
	"strings"

	"depth_go/internal/domain"
)

// Bybit v5 spot order-book topic ("orderbook.1.<symbol>") and
// /v5/market/orderbook REST shape. String-encoded prices and sizes.

type bybitSubscribeRequest struct {
	Op   string   `json:"op"`
	Args []string `json:"args"`
}

type bybitBookData struct {
	Symbol string     `json:"s"`
	Bids   [][]string `json:"b"`
	Asks   [][]string `json:"a"`
}

type bybitFeedMessage struct {
	Topic string         `json:"topic"`
	Data  *bybitBookData `json:"data"`
}

type bybitPollResponse struct {
	RetCode int            `json:"retCode"`
	RetMsg  string         `json:"retMsg"`
	Result  *bybitBookData `json:"result"`
}

// Bybit normalizes Bybit v5 public feed and REST order-book payloads.
type Bybit struct{}

// NewBybit creates the Bybit adapter.
func NewBybit() *Bybit { return &Bybit{} }

func (a *Bybit) VenueID() string { return "bybit" }

func (a *Bybit) SubscribeMessage(symbol string) any {
	return bybitSubscribeRequest{
		Op:   "subscribe",
		Args: []string{"orderbook.1." + symbol},
	}
}

func (a *Bybit) PollURL(baseURL, symbol string) string {
	return fmt.Sprintf("%s?category=spot&symbol=%s&limit=%d", baseURL, symbol, domain.MaxDepthLevels)
}

func (a *Bybit) Normalize(raw []byte) (*domain.OrderbookSnapshot, error) {
	var msg bybitFeedMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("bybit: malformed feed message: %w", err)
	}
	if !strings.Contains(msg.Topic, "orderbook") || msg.Data == nil {
		return nil, nil // subscription ack, pong, or unrelated topic
	}
	return bybitSnapshot(*msg.Data), nil
}

func (a *Bybit) ParsePoll(raw []byte) (*domain.OrderbookSnapshot, error) {
	var resp bybitPollResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("bybit: malformed poll response: %w", err)
	}
	if resp.RetCode != 0 {
		return nil, fmt.Errorf("bybit: poll error code %d: %s", resp.RetCode, resp.RetMsg)
	}
	if resp.Result == nil {
		return nil, domain.ErrNotBookUpdate
	}
	return bybitSnapshot(*resp.Result), nil
}

func bybitSnapshot(data bybitBookData) *domain.OrderbookSnapshot {
	bids := make([]domain.PriceLevel, 0, len(data.Bids))
	for _, entry := range data.Bids {
		if lv, ok := parseStringLevel(entry); ok {
			bids = append(bids, lv)
		}
	}
	asks := make([]domain.PriceLevel, 0, len(data.Asks))
	for _, entry := range data.Asks {
		if lv, ok := parseStringLevel(entry); ok {
			asks = append(asks, lv)
		}
	}
	return newSnapshot(data.Symbol, bids, asks)
}
