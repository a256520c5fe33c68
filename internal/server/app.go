// Package server owns the authoritative side of the stream: the tick loop
// that advances the simulation, the hub that fans snapshots out, and one
// session per connected observer.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"EvoScope/internal/sim"
)

// StartApp wires the world, hub and HTTP server together and blocks until
// the process is signalled to stop.
func StartApp(cfg Config) error {
	log := newLogger(cfg.LogLevel)
	registerMetrics()

	world := sim.NewWorld(cfg.Seed)
	sim.Populate(world, sim.GenOptions{Organisms: cfg.Organisms, Plants: cfg.Plants})
	log.Info("world generated",
		"seed", cfg.Seed,
		"organisms", cfg.Organisms,
		"plants", cfg.Plants,
		"tick_hz", sim.SimHz)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	hub := NewHub(log, cfg.MaxSessions, cfg.QueueDepth)
	go hub.Run(ctx, world)

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: newRouter(ctx, hub, log),
	}
	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	log.Info("listening", "addr", cfg.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		lvl = slog.LevelInfo
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}
