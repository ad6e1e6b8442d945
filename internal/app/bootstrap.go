package app

import (
	"log/slog"

	"depth_go/internal/adapter"
	"depth_go/internal/feed"
	"depth_go/internal/infra"
	"depth_go/internal/infra/storage"
	"depth_go/internal/store"
)

// Bootstrap orchestrates the application startup sequence.
type Bootstrap struct {
	Config   *infra.Config
	Storage  *storage.Storage
	Registry *adapter.Registry
	State    *store.MarketState
	Feeds    *feed.Manager
	Poller   *infra.Poller
}

// NewBootstrap creates a new Bootstrap instance.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{}
}

// Initialize wires the whole system: config, logger, venue registry
// persistence, market state, connection manager and poll fallback.
func (b *Bootstrap) Initialize(configPath string) error {
	cfg, err := infra.LoadConfig(configPath)
	if err != nil {
		return err // let main handle the error
	}
	b.Config = cfg

	logger := infra.NewLogger(cfg)
	slog.SetDefault(logger)

	db, err := storage.NewStorage()
	if err != nil {
		return err
	}
	b.Storage = db
	if err := db.SeedVenues(cfg.Venues); err != nil {
		return err
	}
	slog.Info("venue registry ready", slog.Int("venues", len(cfg.Venues)))

	b.Registry = adapter.NewRegistry()
	b.State = store.New()
	if cfg.DefaultVenue != "" {
		b.State.SelectVenue(cfg.DefaultVenue)
	} else {
		b.State.SelectVenue(cfg.Venues[0].ID)
	}

	b.Feeds = feed.NewManager(feed.NewWebsocketDialer(), b.Registry, b.State)
	b.Poller = infra.NewPoller(cfg, b.Registry, b.State)

	return nil
}
