package app

import (
	"fmt"

	"depth_go/internal/domain"
	"depth_go/internal/sim"
	"depth_go/internal/store"
)

// Service is the surface the presentation layer drives: it reads the
// market state and runs simulations against the currently stored
// snapshot, appending the result to the order history.
type Service struct {
	State  *store.MarketState
	Engine *sim.Engine
}

// NewService creates a service over the given state.
func NewService(state *store.MarketState) *Service {
	return &Service{State: state, Engine: sim.New()}
}

// SimulateOrder rehearses the request against the venue's latest
// snapshot and records the outcome. The request is assumed validated
// (positive price and quantity, non-negative delay).
func (s *Service) SimulateOrder(venueID string, req domain.OrderRequest) (domain.SimulatedOrder, error) {
	snap, ok := s.State.Snapshot(venueID)
	if !ok {
		return domain.SimulatedOrder{}, fmt.Errorf("%w: %s", domain.ErrNoSnapshot, venueID)
	}
	order := s.Engine.Simulate(snap, req)
	s.State.AppendSimulatedOrder(order)
	return order, nil
}
