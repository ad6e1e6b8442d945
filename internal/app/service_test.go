package app

import (
	"errors"
	"testing"

	"depth_go/internal/domain"
	"depth_go/internal/store"
)

func TestService_SimulateOrder(t *testing.T) {
	state := store.New()
	state.RecordSnapshot("okx", &domain.OrderbookSnapshot{
		Bids:             []domain.PriceLevel{{Price: 99, Size: 5}},
		Asks:             []domain.PriceLevel{{Price: 100, Size: 2}},
		InstrumentSymbol: "BTC-USDT",
	})
	svc := NewService(state)

	order, err := svc.SimulateOrder("okx", domain.OrderRequest{
		Kind:       domain.OrderKindMarket,
		Side:       domain.SideBuy,
		LimitPrice: 100,
		Quantity:   1,
	})
	if err != nil {
		t.Fatalf("SimulateOrder failed: %v", err)
	}
	if order.ID == "" {
		t.Error("Order should carry a generated id")
	}
	if order.EstimatedFillPercent != 100 {
		t.Errorf("EstimatedFillPercent = %f, want 100", order.EstimatedFillPercent)
	}

	history := state.SimulatedOrders()
	if len(history) != 1 || history[0].ID != order.ID {
		t.Errorf("Order should be appended to the history: %+v", history)
	}
}

func TestService_SimulateOrder_NoSnapshot(t *testing.T) {
	svc := NewService(store.New())

	_, err := svc.SimulateOrder("okx", domain.OrderRequest{Kind: domain.OrderKindMarket, Side: domain.SideBuy, Quantity: 1})
	if !errors.Is(err, domain.ErrNoSnapshot) {
		t.Errorf("Expected ErrNoSnapshot, got %v", err)
	}
	if len(svc.State.SimulatedOrders()) != 0 {
		t.Error("No order should be recorded without a snapshot")
	}
}
