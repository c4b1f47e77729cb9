package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/sententia/internal/analysis"
	"github.com/dgallion1/sententia/internal/api"
	"github.com/dgallion1/sententia/internal/config"
	"github.com/dgallion1/sententia/internal/lookup"
	"github.com/dgallion1/sententia/internal/store"
)

func main() {
	cfg, err := config.Load()
	log := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.Level()}))
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize clients.
	lk, err := lookup.Open(cfg, log)
	if err != nil {
		log.Error("lookup setup failed", "error", err)
		os.Exit(1)
	}
	saved, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Error("saved analyses unavailable", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}

	// Initialize pipeline.
	orch := analysis.NewOrchestrator(cfg, lk, log)
	if err := orch.Start(ctx); err != nil {
		log.Error("pipeline start failed", "error", err)
		os.Exit(1)
	}

	// Initialize HTTP server.
	srv := api.NewServer(orch, saved, log, cfg, api.WithLookupStats(lk.Latency, lk.Cache))

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
		saved.Close()
		lk.Close()
	}()

	log.Info("starting sententia", "port", cfg.Port, "workers", cfg.WorkerCount)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
