package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/dgallion1/sententia/internal/analysis"
	"github.com/dgallion1/sententia/internal/api"
	"github.com/dgallion1/sententia/internal/config"
	"github.com/dgallion1/sententia/internal/lookup"
	"github.com/dgallion1/sententia/internal/store"
	"github.com/dgallion1/sententia/internal/tools"
)

const version = "0.1.0"

func main() {
	cfg, err := config.Load()
	// stdout carries the stdio transport, so logs go to stderr.
	log := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.Level()}))
	if err != nil {
		log.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}
	if err := cfg.ValidateMCP(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	lk, err := lookup.Open(cfg, log)
	if err != nil {
		log.Error("lookup setup failed", "error", err)
		os.Exit(1)
	}
	defer lk.Close()
	saved, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Error("saved analyses unavailable", "path", cfg.DBPath, "error", err)
		os.Exit(1)
	}
	defer saved.Close()

	orch := analysis.NewOrchestrator(cfg, lk, log)
	if err := orch.Start(ctx); err != nil {
		log.Error("pipeline start failed", "error", err)
		os.Exit(1)
	}
	defer orch.Stop()

	srv := tools.NewServer(&tools.AnalysisTools{Analyses: orch, Saved: saved}, version)

	switch cfg.MCPTransport {
	case "stdio":
		log.Info("sententia MCP server starting (stdio)")
		if err := srv.Run(ctx, &mcp.StdioTransport{}); err != nil && !errors.Is(err, context.Canceled) {
			log.Error("server error", "error", err)
		}
	case "http":
		handler := mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
			return srv
		}, nil)
		httpServer := &http.Server{
			Addr:    cfg.MCPAddr,
			Handler: api.AuthMiddleware(cfg.APIKey, log)(api.RequestLogger(log)(handler)),
		}
		go func() {
			<-ctx.Done()
			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer shutdownCancel()
			httpServer.Shutdown(shutdownCtx)
		}()
		log.Info("sententia MCP server listening", "addr", cfg.MCPAddr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("HTTP server error", "error", err)
		}
	}
}
