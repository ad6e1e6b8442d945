package adapter

import (
	"encoding/json"
	"fmt"

	"depth_go/internal/domain"
)

// Deribit JSON-RPC book channel ("book.<instrument>.100ms") and
// /api/v2/public/get_order_book REST shape. Prices and sizes are
// native JSON numbers, unlike the string encodings of OKX and Bybit.

const deribitDefaultInstrument = "BTC-PERPETUAL"

type deribitSubscribeParams struct {
	Channels []string `json:"channels"`
}

type deribitSubscribeRequest struct {
	Method string                 `json:"method"`
	Params deribitSubscribeParams `json:"params"`
}

type deribitBookData struct {
	InstrumentName string  `json:"instrument_name"`
	Bids           [][]any `json:"bids"`
	Asks           [][]any `json:"asks"`
}

type deribitFeedMessage struct {
	Method string `json:"method"` // "subscription" on data frames
	Params struct {
		Data *deribitBookData `json:"data"`
	} `json:"params"`
}

type deribitPollResponse struct {
	Result *deribitBookData `json:"result"`
}

// Deribit normalizes Deribit public feed and REST order-book payloads.
type Deribit struct{}

// NewDeribit creates the Deribit adapter.
func NewDeribit() *Deribit { return &Deribit{} }

func (a *Deribit) VenueID() string { return "deribit" }

func (a *Deribit) SubscribeMessage(symbol string) any {
	return deribitSubscribeRequest{
		Method: "public/subscribe",
		Params: deribitSubscribeParams{Channels: []string{"book." + symbol + ".100ms"}},
	}
}

func (a *Deribit) PollURL(baseURL, symbol string) string {
	return fmt.Sprintf("%s?instrument_name=%s&depth=%d", baseURL, symbol, domain.MaxDepthLevels)
}

func (a *Deribit) Normalize(raw []byte) (*domain.OrderbookSnapshot, error) {
	var msg deribitFeedMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("deribit: malformed feed message: %w", err)
	}
	if msg.Method != "subscription" || msg.Params.Data == nil {
		return nil, nil // RPC ack or heartbeat
	}
	data := msg.Params.Data
	if data.Bids == nil || data.Asks == nil {
		return nil, fmt.Errorf("deribit: book notification missing sides")
	}
	return deribitSnapshot(*data), nil
}

func (a *Deribit) ParsePoll(raw []byte) (*domain.OrderbookSnapshot, error) {
	var resp deribitPollResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("deribit: malformed poll response: %w", err)
	}
	if resp.Result == nil {
		return nil, domain.ErrNotBookUpdate
	}
	return deribitSnapshot(*resp.Result), nil
}

func deribitSnapshot(data deribitBookData) *domain.OrderbookSnapshot {
	bids := make([]domain.PriceLevel, 0, len(data.Bids))
	for _, entry := range data.Bids {
		if lv, ok := parseNumericLevel(entry); ok {
			bids = append(bids, lv)
		}
	}
	asks := make([]domain.PriceLevel, 0, len(data.Asks))
	for _, entry := range data.Asks {
		if lv, ok := parseNumericLevel(entry); ok {
			asks = append(asks, lv)
		}
	}
	symbol := data.InstrumentName
	if symbol == "" {
		symbol = deribitDefaultInstrument
	}
	return newSnapshot(symbol, bids, asks)
}
