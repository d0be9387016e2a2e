package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	httpapi "github.com/i474232898/weather-history-dashboard/internal/api/http"
	"github.com/i474232898/weather-history-dashboard/internal/config"
	"github.com/i474232898/weather-history-dashboard/internal/dashboard"
	"github.com/i474232898/weather-history-dashboard/internal/logger"
	"github.com/i474232898/weather-history-dashboard/internal/metrics"
	"github.com/i474232898/weather-history-dashboard/internal/scheduler"
	"github.com/i474232898/weather-history-dashboard/internal/store"
	"github.com/i474232898/weather-history-dashboard/internal/weather"
	"github.com/i474232898/weather-history-dashboard/internal/weather/providers"
)

func main() {
	// Load configuration.
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	lg := logger.New(cfg.LogLevel)

	if err := run(cfg, lg); err != nil {
		lg.Error("weather service stopped", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.AppConfig, lg *slog.Logger) error {
	m, err := metrics.New()
	if err != nil {
		return err
	}

	// Record store, acquired once and released on shutdown.
	recordStore, err := store.Open(cfg.StoreDriver, cfg.StoreDSN)
	if err != nil {
		return err
	}
	defer func() {
		if err := recordStore.Close(); err != nil {
			lg.Error("error closing store", "error", err)
		}
	}()
	lg.Info("store opened", "driver", cfg.StoreDriver)

	// Shared HTTP client for outbound provider calls.
	httpClient := &http.Client{
		Timeout: cfg.ProviderTimeout,
	}

	provider, err := providers.New(cfg.Provider, httpClient, cfg.ProviderAPIKey())
	if err != nil {
		return err
	}
	if cfg.ProviderAPIKey() == "" {
		lg.Error("provider api key is not configured; submits will fail", "provider", provider.Name())
	}

	// Core service context passed to every handler.
	service := weather.NewService(recordStore, provider,
		weather.WithProviderTimeout(cfg.ProviderTimeout),
		weather.WithLogger(lg),
		weather.WithMetrics(m),
	)

	// Background store probe backing /health.
	sched := scheduler.New(service, cfg.StoreProbeInterval, lg, m.SetStoreUp)
	if err := sched.Start(); err != nil {
		return err
	}
	defer sched.Stop()

	handler := httpapi.NewHandler(service, lg, m, sched)
	app := httpapi.NewApp(handler, httpapi.AppOptions{
		AllowOrigins: cfg.FrontendURL,
		AccessLog:    true,
	})

	// Browser dashboard talks to the API over HTTP like any other client.
	dashboard.NewWeb(dashboard.NewHTTPClient(cfg.ServiceURL, nil), lg).Register(app)

	errCh := make(chan error, 1)
	go func() {
		lg.Info("server running", "port", cfg.Port, "provider", provider.Name())
		errCh <- app.Listen(":" + cfg.Port)
	}()

	// Wait for termination signal
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		lg.Error("error during shutdown", "error", err)
	}
	return nil
}
