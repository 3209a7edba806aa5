package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/mabrurgoods/storefront/api/routes"
	"github.com/mabrurgoods/storefront/internal/catalog"
	"github.com/mabrurgoods/storefront/internal/checkout"
	"github.com/mabrurgoods/storefront/internal/session"
	"github.com/mabrurgoods/storefront/pkg/config"
	"github.com/mabrurgoods/storefront/pkg/kvstore"
	"github.com/mabrurgoods/storefront/pkg/logger"
	"github.com/mabrurgoods/storefront/pkg/metrics"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err = run(ctx, cfg, logg)
	stop()
	if err != nil {
		logg.Error(context.Background(), "storefront host failed", err)
		os.Exit(1)
	}
}

// run serves until ctx is cancelled. Every resource it opens is closed before it returns.
func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	storage, err := kvstore.Open(ctx, cfg, logg)
	if err != nil {
		return fmt.Errorf("open guest storage: %w", err)
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logg.Error(context.Background(), "error closing guest storage", err)
		}
	}()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	sessionMetrics := metrics.NewSessionMetrics(reg)

	guestID := uuid.NewString()
	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"addr":    cfg.App.Addr(),
		"storage": storage.Driver(),
	})
	guest := session.New(logg.WithGuestSession(ctx, guestID), storage, session.Options{
		ID:      guestID,
		Logger:  logg,
		Metrics: sessionMetrics,
	})

	products, err := catalog.Open(ctx, cfg.Catalog, logg)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Cart:        guest,
		Catalog:     products,
		Encoder:     checkout.NewEncoder(cfg.Checkout),
		Concurrency: cfg.Catalog.PrefetchConcurrency,
		Logger:      logg,
		Metrics:     sessionMetrics,
	})
	if err != nil {
		return fmt.Errorf("create checkout service: %w", err)
	}

	server := &http.Server{
		Addr:              cfg.App.Addr(),
		Handler:           routes.NewRouter(cfg, logg, storage, guest, checkoutService, reg),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logg.Info(ctx, "starting storefront host")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("storefront host stopped unexpectedly: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown: %w", err)
	}
	logg.Info(shutdownCtx, "storefront host stopped")
	return nil
}
