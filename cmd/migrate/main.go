package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/mabrurgoods/storefront/internal/session"
	"github.com/mabrurgoods/storefront/pkg/config"
	"github.com/mabrurgoods/storefront/pkg/kvstore"
	"github.com/mabrurgoods/storefront/pkg/logger"
)

var guestKeys = []string{session.CartStorageKey, session.WishlistStorageKey}

func main() {
	ctx := context.Background()
	// bootstrap logger early (then re-init after config load)
	logg := logger.New(logger.Options{ServiceName: "migrate"})

	_ = godotenv.Load()

	cmd := flag.String("cmd", "up", "storage command: up|status|purge")
	flag.Parse()

	cfg, err := config.Load()
	requireResource(ctx, logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "migrate",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx = logg.WithFields(context.Background(), map[string]any{
		"env":     cfg.App.Env,
		"cmd":     *cmd,
		"storage": cfg.Storage.Driver,
	})

	if err := run(ctx, cfg, logg, *cmd, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run executes cmd against the configured guest storage and closes it before returning.
func run(ctx context.Context, cfg *config.Config, logg *logger.Logger, cmd string, stdout io.Writer) error {
	switch cmd {
	case "up", "status", "purge":
	default:
		return fmt.Errorf("unknown -cmd value: %s", cmd)
	}

	// sqlite and postgres backends create the guest storage table while opening.
	storage, err := kvstore.Open(ctx, cfg, logg)
	if err != nil {
		return fmt.Errorf("resource not working: guest storage: %w", err)
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logg.Error(ctx, "error closing guest storage", err)
		}
	}()

	logg.Info(ctx, "migrate ready")

	switch cmd {
	case "up":
		fmt.Fprintf(stdout, "guest storage ready (driver=%s)\n", storage.Driver())

	case "status":
		if err := storage.Ping(ctx); err != nil {
			return fmt.Errorf("guest storage unreachable: %w", err)
		}
		for _, key := range guestKeys {
			_, found, err := storage.Get(ctx, key)
			if err != nil {
				return fmt.Errorf("read %s failed: %w", key, err)
			}
			fmt.Fprintf(stdout, "%s: stored=%t\n", key, found)
		}

	case "purge":
		for _, key := range guestKeys {
			if err := storage.Delete(ctx, key); err != nil {
				return fmt.Errorf("purge %s failed: %w", key, err)
			}
		}
		fmt.Fprintln(stdout, "guest storage purged")
	}
	return nil
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
