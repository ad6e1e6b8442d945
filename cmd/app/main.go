package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"depth_go/internal/app"

	_ "net/http/pprof" // For pprof profiling
)

func main() {
	// Pprof server, localhost only
	go func() {
		if err := http.ListenAndServe("localhost:6060", nil); err != nil {
			slog.Error("pprof server failed", slog.Any("error", err))
		}
	}()

	bootstrap := app.NewBootstrap()
	if err := bootstrap.Initialize("configs/config.yaml"); err != nil {
		slog.Error("bootstrapping failed", slog.Any("error", err))
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	state := bootstrap.State
	selected := state.SelectedVenue()
	venue, ok := bootstrap.Config.Venue(selected)
	if !ok {
		slog.Error("selected venue missing from catalog", slog.String("venue", selected))
		os.Exit(1)
	}

	bootstrap.Feeds.Connect(ctx, venue)
	defer bootstrap.Feeds.Disconnect(venue.ID)
	slog.Info("feed manager started", slog.String("venue", venue.ID))

	bootstrap.Poller.Start(ctx)
	defer bootstrap.Poller.Stop()

	<-ctx.Done()
	slog.Info("shutting down")
}
