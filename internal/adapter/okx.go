package adapter

import (
	"encoding/json"
	"fmt"

	"depth_go/internal/domain"
)

// OKX order-book channel ("books") and /api/v5/market/books REST shape.
// Prices and sizes arrive as string-encoded decimals.

type okxSubscribeArg struct {
	Channel string `json:"channel"`
	InstID  string `json:"instId"`
}

type okxSubscribeRequest struct {
	Op   string            `json:"op"`
	Args []okxSubscribeArg `json:"args"`
}

type okxBookData struct {
	InstID string     `json:"instId"`
	Bids   [][]string `json:"bids"`
	Asks   [][]string `json:"asks"`
	Ts     string     `json:"ts"`
}

type okxFeedMessage struct {
	Event string        `json:"event"` // "subscribe" / "error" on control frames
	Data  []okxBookData `json:"data"`
}

type okxPollResponse struct {
	Code string        `json:"code"`
	Msg  string        `json:"msg"`
	Data []okxBookData `json:"data"`
}

// OKX normalizes OKX public feed and REST order-book payloads.
type OKX struct{}

// NewOKX creates the OKX adapter.
func NewOKX() *OKX { return &OKX{} }

func (a *OKX) VenueID() string { return "okx" }

func (a *OKX) SubscribeMessage(symbol string) any {
	return okxSubscribeRequest{
		Op:   "subscribe",
		Args: []okxSubscribeArg{{Channel: "books", InstID: symbol}},
	}
}

func (a *OKX) PollURL(baseURL, symbol string) string {
	return fmt.Sprintf("%s?instId=%s&sz=%d", baseURL, symbol, domain.MaxDepthLevels)
}

func (a *OKX) Normalize(raw []byte) (*domain.OrderbookSnapshot, error) {
	var msg okxFeedMessage
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, fmt.Errorf("okx: malformed feed message: %w", err)
	}
	if msg.Event != "" || len(msg.Data) == 0 {
		return nil, nil // subscription ack or empty push
	}
	return okxSnapshot(msg.Data[0]), nil
}

func (a *OKX) ParsePoll(raw []byte) (*domain.OrderbookSnapshot, error) {
	var resp okxPollResponse
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("okx: malformed poll response: %w", err)
	}
	if resp.Code != "0" {
		return nil, fmt.Errorf("okx: poll error code %s: %s", resp.Code, resp.Msg)
	}
	if len(resp.Data) == 0 {
		return nil, domain.ErrNotBookUpdate
	}
	return okxSnapshot(resp.Data[0]), nil
}

func okxSnapshot(data okxBookData) *domain.OrderbookSnapshot {
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
	return newSnapshot(data.InstID, bids, asks)
}
