package infra

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"depth_go/internal/adapter"
	"depth_go/internal/domain"
	"depth_go/internal/store"
)

// Poller is the REST fallback for order-book data. While the selected
// venue's feed is not connected, it fetches the venue's poll endpoint
// on a fixed interval and records the normalized snapshot, so the
// depth view keeps moving even with the websocket down.
type Poller struct {
	cfg        *Config
	registry   *adapter.Registry
	state      *store.MarketState
	httpClient *http.Client
	interval   time.Duration
	cancel     context.CancelFunc
	wg         sync.WaitGroup
}

// NewPoller creates a poller using the configured interval.
func NewPoller(cfg *Config, registry *adapter.Registry, state *store.MarketState) *Poller {
	return &Poller{
		cfg:      cfg,
		registry: registry,
		state:    state,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		interval: time.Duration(cfg.Poll.IntervalMS) * time.Millisecond,
	}
}

// Start begins polling in the background until Stop or ctx cancel.
func (p *Poller) Start(ctx context.Context) {
	ctx, p.cancel = context.WithCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		ticker := time.NewTicker(p.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				p.tick(ctx)
			}
		}
	}()
}

// Stop halts polling and waits for the in-flight request to finish.
func (p *Poller) Stop() {
	if p.cancel != nil {
		p.cancel()
		p.wg.Wait()
	}
}

func (p *Poller) tick(ctx context.Context) {
	venueID := p.state.SelectedVenue()
	if venueID == "" {
		return
	}
	if p.state.ConnectionState(venueID) == domain.StateConnected {
		return // live feed is serving this venue
	}
	venue, ok := p.cfg.Venue(venueID)
	if !ok {
		return
	}
	if err := p.pollOnce(ctx, venue); err != nil {
		slog.Warn("orderbook poll failed", slog.String("venue", venue.ID), slog.Any("error", err))
	}
}

func (p *Poller) pollOnce(ctx context.Context, venue domain.Venue) error {
	ad, err := p.registry.Lookup(venue.ID)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ad.PollURL(venue.PollEndpoint, venue.InstrumentSymbol), nil)
	if err != nil {
		return err
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return domain.NewNetworkError("poll", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	snap, err := ad.ParsePoll(body)
	if err != nil {
		return err
	}
	if snap.InstrumentSymbol == "" {
		snap.InstrumentSymbol = venue.InstrumentSymbol
	}
	p.state.RecordSnapshot(venue.ID, snap)
	GlobalMetrics.RecordPoll()
	return nil
}
