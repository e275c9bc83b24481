// ABOUTME: Entry point for the panel planner backend service
// ABOUTME: Serves controller selection, bill of quantities and selection hand-off over HTTP

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/asman100/BMS-SELECTION-KING/backend/config"
	"github.com/asman100/BMS-SELECTION-KING/backend/handlers"
	"github.com/asman100/BMS-SELECTION-KING/backend/logger"
	"github.com/asman100/BMS-SELECTION-KING/backend/metrics"
	"github.com/asman100/BMS-SELECTION-KING/backend/services"
)

const shutdownTimeout = 15 * time.Second

func main() {
	// Initialize structured logging
	logger.Init()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg)
	stop()
	if err != nil {
		slog.Error("Backend stopped", "error", err)
		os.Exit(1)
	}
}

// run serves until ctx is cancelled or the listener fails. Deferred cleanup
// of the publisher and the handler cache runs on every return path.
func run(ctx context.Context, cfg *config.Config) error {
	slog.Info("Starting Panel Planner Backend",
		"workers", cfg.OptimizerWorkers,
		"default_spare_pct", cfg.DefaultSparePct,
		"cache_ttl", time.Duration(cfg.CacheTTL)*time.Second,
	)

	var m *metrics.Metrics
	if cfg.MetricsEnabled {
		m = metrics.New()
	}

	publisher, err := services.NewSelectionPublisher(services.PublisherConfig{
		Brokers: cfg.KafkaBrokers,
		Topic:   cfg.KafkaSelectionsTopic,
	}, slog.Default())
	if err != nil {
		return fmt.Errorf("configure selections publisher: %w", err)
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			slog.Error("Failed to close selections publisher", "error", err)
		}
	}()

	h := handlers.NewHandler(cfg, m, publisher)
	defer h.Close()

	if cfg.CatalogPath != "" {
		catalog, err := services.LoadCatalogFile(cfg.CatalogPath)
		if err != nil {
			return fmt.Errorf("load catalog %s: %w", cfg.CatalogPath, err)
		}
		h.SetCatalog(catalog)
	} else {
		slog.Warn("CATALOG_PATH not set, waiting for PUT /api/v1/catalog")
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           newRouter(cfg, h, m),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Server listening", "addr", srv.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	case <-ctx.Done():
		slog.Info("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("Graceful shutdown failed", "error", err)
		}
		return nil
	}
}
