// Package feed drives one live websocket per venue: connect, subscribe,
// pump messages through the venue adapter into the market state, and
// reconnect after a fixed delay when the transport drops.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"depth_go/internal/adapter"
	"depth_go/internal/domain"
	"depth_go/internal/infra"
	"depth_go/internal/store"
)

// ReconnectDelay is the fixed wait before the single automatic
// reconnect attempt. No backoff, no retry cap.
const ReconnectDelay = 5 * time.Second

// Manager owns every venue connection. At most one live transport and
// one pending reconnect timer exist per venue; message handling is
// strictly sequential within a venue and independent across venues.
type Manager struct {
	dialer         Dialer
	registry       *adapter.Registry
	state          *store.MarketState
	reconnectDelay time.Duration

	mu    sync.Mutex
	conns map[string]*venueConn
}

// venueConn tracks one venue's transport. gen increments on every
// connect/disconnect so handlers of a torn-down transport can detect
// they are stale and stop mutating state for the wrong connection.
type venueConn struct {
	venue domain.Venue
	phase domain.ConnectionState
	gen   uint64
	conn  Conn
	retry retryTask
}

// NewManager creates a connection manager writing into state.
func NewManager(dialer Dialer, registry *adapter.Registry, state *store.MarketState) *Manager {
	return &Manager{
		dialer:         dialer,
		registry:       registry,
		state:          state,
		reconnectDelay: ReconnectDelay,
		conns:          make(map[string]*venueConn),
	}
}

// Connect opens the venue's feed. A no-op while the venue is already
// connecting or connected. Any pending reconnect timer is replaced by
// this attempt.
func (m *Manager) Connect(ctx context.Context, venue domain.Venue) {
	m.mu.Lock()
	vc := m.conns[venue.ID]
	if vc == nil {
		vc = &venueConn{venue: venue}
		m.conns[venue.ID] = vc
	}
	if vc.phase == domain.StateConnecting || vc.phase == domain.StateConnected {
		m.mu.Unlock()
		return
	}
	vc.venue = venue
	vc.retry.Cancel()
	vc.gen++
	gen := vc.gen
	vc.phase = domain.StateConnecting
	m.state.RecordConnectionState(venue.ID, domain.StateConnecting)
	m.mu.Unlock()

	go m.run(ctx, vc, gen)
}

// Disconnect tears the venue's transport down and cancels the pending
// reconnect, suppressing the automatic retry.
func (m *Manager) Disconnect(venueID string) {
	m.mu.Lock()
	vc := m.conns[venueID]
	if vc == nil {
		m.mu.Unlock()
		return
	}
	vc.gen++
	vc.retry.Cancel()
	conn := vc.conn
	vc.conn = nil
	vc.phase = domain.StateDisconnected
	m.state.RecordConnectionState(venueID, domain.StateDisconnected)
	m.mu.Unlock()

	if conn != nil {
		_ = conn.Close()
	}
	slog.Info("venue feed disconnected", slog.String("venue", venueID))
}

func (m *Manager) run(ctx context.Context, vc *venueConn, gen uint64) {
	venue := vc.venue
	ad, err := m.registry.Lookup(venue.ID)
	if err != nil {
		m.fail(ctx, vc, gen, err)
		return
	}

	conn, err := m.dialer.Dial(ctx, venue.FeedEndpoint)
	if err != nil {
		m.fail(ctx, vc, gen, domain.NewNetworkError("dial", err))
		return
	}

	m.mu.Lock()
	if vc.gen != gen {
		m.mu.Unlock()
		_ = conn.Close()
		return
	}
	vc.conn = conn
	m.mu.Unlock()

	if err := conn.WriteJSON(ad.SubscribeMessage(venue.InstrumentSymbol)); err != nil {
		_ = conn.Close()
		m.fail(ctx, vc, gen, domain.NewNetworkError("subscribe", err))
		return
	}

	if !m.setPhase(vc, gen, domain.StateConnected) {
		_ = conn.Close()
		return
	}
	m.state.ClearError()
	infra.GlobalMetrics.IncrementConnections()
	slog.Info("venue feed connected", slog.String("venue", venue.ID), slog.String("symbol", venue.InstrumentSymbol))

	m.readLoop(ctx, vc, gen, ad, conn)
}

func (m *Manager) readLoop(ctx context.Context, vc *venueConn, gen uint64, ad adapter.Adapter, conn Conn) {
	defer infra.GlobalMetrics.DecrementConnections()
	for {
		select {
		case <-ctx.Done():
			_ = conn.Close()
			m.setPhase(vc, gen, domain.StateDisconnected)
			return
		default:
		}

		raw, err := conn.ReadMessage()
		if err != nil {
			_ = conn.Close()
			if !m.setPhase(vc, gen, domain.StateDisconnected) {
				return // superseded by Disconnect or a newer Connect
			}
			slog.Warn("venue feed closed", slog.String("venue", vc.venue.ID), slog.Any("error", err))
			m.scheduleReconnect(ctx, vc, gen)
			return
		}
		m.handleMessage(ad, vc.venue, raw)
	}
}

func (m *Manager) handleMessage(ad adapter.Adapter, venue domain.Venue, raw []byte) {
	start := time.Now()
	snap, err := ad.Normalize(raw)
	if err != nil {
		infra.GlobalMetrics.RecordParseFailure()
		slog.Warn("discarding malformed feed message", slog.String("venue", venue.ID), slog.Any("error", err))
		return
	}
	if snap == nil {
		return // control message, nothing to record
	}
	if snap.InstrumentSymbol == "" {
		snap.InstrumentSymbol = venue.InstrumentSymbol
	}
	m.state.RecordSnapshot(venue.ID, snap)
	infra.GlobalMetrics.RecordSnapshot(time.Since(start).Nanoseconds())
}

// fail records the error state plus a user-visible message, then arms
// the same fixed-delay reconnect used for a plain close.
func (m *Manager) fail(ctx context.Context, vc *venueConn, gen uint64, err error) {
	if !m.setPhase(vc, gen, domain.StateError) {
		return
	}
	m.state.RecordError(fmt.Sprintf("connection error for %s: %v", vc.venue.ID, err))
	slog.Error("venue feed error", slog.String("venue", vc.venue.ID), slog.Any("error", err))
	m.scheduleReconnect(ctx, vc, gen)
}

// scheduleReconnect arms exactly one retry for this connection
// generation. The timer is armed while still holding the lock, so a
// concurrent Disconnect either cancels it or bumps the generation
// before it is armed; the callback re-checks the generation for the
// case where the timer fired before the cancel landed.
func (m *Manager) scheduleReconnect(ctx context.Context, vc *venueConn, gen uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if vc.gen != gen {
		return
	}

	vc.retry.Schedule(m.reconnectDelay, func() {
		if ctx.Err() != nil {
			return
		}
		m.mu.Lock()
		if vc.gen != gen {
			m.mu.Unlock()
			return
		}
		venue := vc.venue
		m.mu.Unlock()

		infra.GlobalMetrics.RecordReconnect()
		m.Connect(ctx, venue)
	})
}

// setPhase advances the state machine if this goroutine still owns the
// connection. Returns false when the generation has moved on. The
// store write happens under the lock so a superseding transition can
// never be overwritten by a stale one.
func (m *Manager) setPhase(vc *venueConn, gen uint64, phase domain.ConnectionState) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if vc.gen != gen {
		return false
	}
	vc.phase = phase
	m.state.RecordConnectionState(vc.venue.ID, phase)
	return true
}
