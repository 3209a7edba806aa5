package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joho/godotenv"

	"github.com/mabrurgoods/storefront/internal/catalog"
	"github.com/mabrurgoods/storefront/internal/checkout"
	"github.com/mabrurgoods/storefront/internal/navigation"
	"github.com/mabrurgoods/storefront/internal/session"
	"github.com/mabrurgoods/storefront/pkg/config"
	"github.com/mabrurgoods/storefront/pkg/kvstore"
	"github.com/mabrurgoods/storefront/pkg/logger"
)

const sessionID = "guestctl"

func main() {
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

type options struct {
	cmd       string
	productID string
	size      string
	color     string
	qty       int64
	address   string
	back      int
	addresses []string
}

func parseFlags(args []string, stderr io.Writer) (options, error) {
	var opts options
	fs := flag.NewFlagSet("guestctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.cmd, "cmd", "cart", "command: cart|add|set|remove|clear|wishlist|like|unlike|clear-wishlist|nav|summary|handoff|checkout")
	fs.StringVar(&opts.productID, "product", "", "product id")
	fs.StringVar(&opts.size, "size", "", "variant size")
	fs.StringVar(&opts.color, "color", "", "variant color")
	fs.Int64Var(&opts.qty, "qty", 1, "quantity (for add and set)")
	fs.StringVar(&opts.address, "address", "", "storefront address (for nav); further addresses may follow as arguments")
	fs.IntVar(&opts.back, "back", 0, "history entries to walk back after navigating (for nav)")
	if err := fs.Parse(args); err != nil {
		return options{}, err
	}
	if opts.address != "" {
		opts.addresses = append(opts.addresses, opts.address)
	}
	opts.addresses = append(opts.addresses, fs.Args()...)
	return opts, nil
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	// bootstrap logger early (then re-init after config load)
	logg := logger.New(logger.Options{ServiceName: "guestctl", Output: stderr})

	opts, err := parseFlags(args, stderr)
	if err != nil {
		return err
	}

	// Commands that do NOT require storage
	if opts.cmd == "nav" {
		return walkAddresses(ctx, logg, opts, stdout)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("resource not working: config: %w", err)
	}

	logg = logger.New(logger.Options{
		ServiceName: "guestctl",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
		Output:      stderr,
	})

	ctx = logg.WithFields(ctx, map[string]any{
		"env":     cfg.App.Env,
		"cmd":     opts.cmd,
		"storage": cfg.Storage.Driver,
	})
	if cfg.Storage.Driver == config.StorageDriverMemory {
		logg.Warn(ctx, "memory storage does not outlive this command")
	}

	storage, err := kvstore.Open(ctx, cfg, logg)
	if err != nil {
		return fmt.Errorf("resource not working: guest storage: %w", err)
	}
	defer func() {
		if err := storage.Close(); err != nil {
			logg.Error(ctx, "error closing guest storage", err)
		}
	}()

	guest := session.New(logg.WithGuestSession(ctx, sessionID), storage, session.Options{ID: sessionID, Logger: logg})

	switch opts.cmd {
	case "cart":
		return printCart(stdout, guest)

	case "add":
		line := session.CartLine{ProductID: opts.productID, Size: opts.size, Color: opts.color, Quantity: opts.qty}
		if err := guest.AddToCart(ctx, line); err != nil {
			return fmt.Errorf("add to cart failed: %w", err)
		}
		return printCart(stdout, guest)

	case "set":
		if err := guest.SetQuantity(ctx, opts.productID, opts.size, opts.color, opts.qty); err != nil {
			return fmt.Errorf("set quantity failed: %w", err)
		}
		return printCart(stdout, guest)

	case "remove":
		removed := guest.RemoveFromCart(ctx, opts.productID)
		return printJSON(stdout, map[string]any{"removed": removed, "lines": guest.Cart(), "count": guest.CartCount()})

	case "clear":
		guest.ClearCart(ctx)
		return printCart(stdout, guest)

	case "wishlist":
		return printWishlist(stdout, guest)

	case "like":
		if err := guest.AddToWishlist(ctx, opts.productID); err != nil {
			return fmt.Errorf("add to wishlist failed: %w", err)
		}
		return printWishlist(stdout, guest)

	case "unlike":
		guest.RemoveFromWishlist(ctx, opts.productID)
		return printWishlist(stdout, guest)

	case "clear-wishlist":
		guest.ClearWishlist(ctx)
		return printWishlist(stdout, guest)

	case "summary", "handoff", "checkout":
		return runCheckout(ctx, cfg, logg, guest, opts.cmd, stdout)
	}
	return fmt.Errorf("unknown -cmd value: %s", opts.cmd)
}

func runCheckout(ctx context.Context, cfg *config.Config, logg *logger.Logger, guest *session.Store, cmd string, stdout io.Writer) error {
	products, err := catalog.Open(ctx, cfg.Catalog, logg)
	if err != nil {
		return fmt.Errorf("resource not working: catalog: %w", err)
	}

	svc, err := checkout.NewService(checkout.ServiceParams{
		Cart:        guest,
		Catalog:     products,
		Encoder:     checkout.NewEncoder(cfg.Checkout),
		Concurrency: cfg.Catalog.PrefetchConcurrency,
		Logger:      logg,
	})
	if err != nil {
		return fmt.Errorf("resource not working: checkout service: %w", err)
	}

	switch cmd {
	case "summary":
		summary, err := svc.Summary(ctx)
		if err != nil {
			return fmt.Errorf("summarize cart failed: %w", err)
		}
		return printJSON(stdout, summary)
	case "handoff":
		handoff, err := svc.Handoff(ctx)
		if err != nil {
			return fmt.Errorf("build handoff link failed: %w", err)
		}
		return printJSON(stdout, handoff)
	}
	handoff, err := svc.Complete(ctx)
	if err != nil {
		return fmt.Errorf("complete checkout failed: %w", err)
	}
	return printJSON(stdout, handoff)
}

type navStep struct {
	Address    string           `json:"address"`
	Canonical  string           `json:"canonical"`
	Recognized bool             `json:"recognized"`
	State      navigation.State `json:"state"`
}

// walkAddresses navigates to each address in turn on a fresh history, then walks back
// opts.back entries, the way the shell drives the navigator.
func walkAddresses(ctx context.Context, logg *logger.Logger, opts options, stdout io.Writer) error {
	history := navigation.NewMemoryHistory("/")
	nav := navigation.NewNavigator(history, navigation.NavigatorOptions{Logger: logg})
	nav.Load(ctx)

	addresses := opts.addresses
	if len(addresses) == 0 {
		addresses = []string{"/"}
	}

	steps := make([]navStep, 0, len(addresses))
	for _, address := range addresses {
		target, recognized := navigation.Resolve(address)
		state, err := nav.Navigate(ctx, target)
		if err != nil {
			return fmt.Errorf("navigate to %q failed: %w", address, err)
		}
		steps = append(steps, navStep{
			Address:    address,
			Canonical:  history.Current(),
			Recognized: recognized,
			State:      state,
		})
	}

	for i := 0; i < opts.back; i++ {
		if _, ok := nav.Back(ctx); !ok {
			break
		}
	}

	return printJSON(stdout, map[string]any{
		"steps":   steps,
		"address": history.Current(),
		"state":   nav.State(),
		"entries": history.Len(),
	})
}

func printCart(w io.Writer, guest *session.Store) error {
	return printJSON(w, map[string]any{"lines": guest.Cart(), "count": guest.CartCount()})
}

func printWishlist(w io.Writer, guest *session.Store) error {
	return printJSON(w, map[string]any{"items": guest.Wishlist(), "count": guest.WishlistCount()})
}

func printJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	_, err = fmt.Fprintln(w, string(out))
	return err
}
