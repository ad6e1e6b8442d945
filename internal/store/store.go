package store

import (
	"sync"

	"depth_go/internal/domain"
)

// MarketState is the single source of truth read by every consumer:
// latest snapshot per venue, connection state per venue, the simulated
// order history, the selected venue and the most recent error message.
// Each field is written under the lock independently; readers see a
// consistent value per field, which is sufficient because the
// aggregator and the simulation engine re-derive from a single
// snapshot read. Construct one instance per process (or per test).
type MarketState struct {
	mu sync.RWMutex

	snapshots       map[string]*domain.OrderbookSnapshot
	connections     map[string]domain.ConnectionState
	simulatedOrders []domain.SimulatedOrder
	selectedVenue   string
	lastError       string
}

// New creates an empty market state container.
func New() *MarketState {
	return &MarketState{
		snapshots:   make(map[string]*domain.OrderbookSnapshot),
		connections: make(map[string]domain.ConnectionState),
	}
}

// RecordSnapshot replaces the venue's snapshot wholesale.
func (s *MarketState) RecordSnapshot(venueID string, snap *domain.OrderbookSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshots[venueID] = snap
}

// Snapshot returns the latest snapshot for a venue, if one has arrived.
func (s *MarketState) Snapshot(venueID string) (*domain.OrderbookSnapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.snapshots[venueID]
	return snap, ok
}

// Snapshots returns a copy of the venue → snapshot mapping.
func (s *MarketState) Snapshots() map[string]*domain.OrderbookSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]*domain.OrderbookSnapshot, len(s.snapshots))
	for id, snap := range s.snapshots {
		out[id] = snap
	}
	return out
}

// RecordConnectionState sets the venue's connection state.
func (s *MarketState) RecordConnectionState(venueID string, state domain.ConnectionState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.connections[venueID] = state
}

// ConnectionState returns the venue's connection state, defaulting to
// disconnected for venues never touched by the connection manager.
func (s *MarketState) ConnectionState(venueID string) domain.ConnectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if state, ok := s.connections[venueID]; ok {
		return state
	}
	return domain.StateDisconnected
}

// ConnectionStates returns a copy of the venue → state mapping.
func (s *MarketState) ConnectionStates() map[string]domain.ConnectionState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[string]domain.ConnectionState, len(s.connections))
	for id, state := range s.connections {
		out[id] = state
	}
	return out
}

// RecordError stores the most recent user-visible error message.
// There is no error history; each message replaces the previous one.
func (s *MarketState) RecordError(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = message
}

// ClearError removes the stored error message.
func (s *MarketState) ClearError() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastError = ""
}

// Err returns the current error message, with ok=false when none is set.
func (s *MarketState) Err() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastError, s.lastError != ""
}

// AppendSimulatedOrder appends to the order history. Append-only, no
// dedup, no cap; bounding growth is the caller's concern.
func (s *MarketState) AppendSimulatedOrder(order domain.SimulatedOrder) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.simulatedOrders = append(s.simulatedOrders, order)
}

// RemoveSimulatedOrder deletes the order with the given id, preserving
// the order of the remaining entries.
func (s *MarketState) RemoveSimulatedOrder(orderID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.simulatedOrders[:0]
	for _, o := range s.simulatedOrders {
		if o.ID != orderID {
			kept = append(kept, o)
		}
	}
	s.simulatedOrders = kept
}

// SimulatedOrders returns a copy of the order history in insertion order.
func (s *MarketState) SimulatedOrders() []domain.SimulatedOrder {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.SimulatedOrder, len(s.simulatedOrders))
	copy(out, s.simulatedOrders)
	return out
}

// SelectVenue records the venue the user is looking at. Selection does
// not drive connections; the orchestration layer observes it and calls
// the connection manager itself.
func (s *MarketState) SelectVenue(venueID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.selectedVenue = venueID
}

// SelectedVenue returns the currently selected venue id.
func (s *MarketState) SelectedVenue() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selectedVenue
}
