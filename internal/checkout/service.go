package checkout

import (
	"context"
	"fmt"

	"github.com/mabrurgoods/storefront/internal/catalog"
	"github.com/mabrurgoods/storefront/internal/order"
	"github.com/mabrurgoods/storefront/internal/session"
	pkgerrors "github.com/mabrurgoods/storefront/pkg/errors"
	"github.com/mabrurgoods/storefront/pkg/logger"
	"github.com/mabrurgoods/storefront/pkg/metrics"
)

type cartReader interface {
	Cart() []session.CartLine
	ClearCart(ctx context.Context)
}

// Handoff is a built checkout link together with the summary it was built from.
type Handoff struct {
	Link    string        `json:"link"`
	Summary order.Summary `json:"summary"`
}

// Service runs the checkout page flow: price the cart, build the handoff link and,
// on completion, clear the cart.
type Service interface {
	Summary(ctx context.Context) (order.Summary, error)
	Handoff(ctx context.Context) (*Handoff, error)
	Complete(ctx context.Context) (*Handoff, error)
}

type ServiceParams struct {
	Cart        cartReader
	Catalog     catalog.Source
	Encoder     *Encoder
	Concurrency int
	Logger      *logger.Logger
	Metrics     *metrics.SessionMetrics
}

type service struct {
	cart        cartReader
	catalog     catalog.Source
	encoder     *Encoder
	concurrency int
	logg        *logger.Logger
	metrics     *metrics.SessionMetrics
}

// NewService builds the checkout service.
func NewService(params ServiceParams) (Service, error) {
	if params.Cart == nil {
		return nil, fmt.Errorf("cart required")
	}
	if params.Catalog == nil {
		return nil, fmt.Errorf("catalog source required")
	}
	if params.Encoder == nil {
		return nil, fmt.Errorf("handoff encoder required")
	}
	logg := params.Logger
	if logg == nil {
		logg = logger.Nop()
	}
	return &service{
		cart:        params.Cart,
		catalog:     params.Catalog,
		encoder:     params.Encoder,
		concurrency: params.Concurrency,
		logg:        logg,
		metrics:     params.Metrics,
	}, nil
}

// Summary prefetches the products in the cart and prices every line.
func (s *service) Summary(ctx context.Context) (order.Summary, error) {
	return s.summarize(ctx, s.cart.Cart())
}

func (s *service) summarize(ctx context.Context, lines []session.CartLine) (order.Summary, error) {
	ids := make([]string, 0, len(lines))
	for _, line := range lines {
		ids = append(ids, line.ProductID)
	}
	snapshot, err := catalog.Prefetch(ctx, s.catalog, ids, s.concurrency)
	if err != nil {
		return order.Summary{}, err
	}
	summary := order.Summarize(lines, snapshot)
	order.LogUnresolved(ctx, s.logg, summary)
	return summary, nil
}

// Handoff builds the outbound link without touching the cart.
func (s *service) Handoff(ctx context.Context) (*Handoff, error) {
	lines := s.cart.Cart()
	if len(lines) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}
	summary, err := s.summarize(ctx, lines)
	if err != nil {
		return nil, err
	}

	link := s.encoder.BuildHandoffLink(summary.Lines, summary.Subtotal)
	s.metrics.IncHandoff()
	s.logg.Info(s.logg.WithFields(ctx, map[string]any{
		"item_count": summary.ItemCount,
		"subtotal":   summary.Subtotal,
	}), "checkout.handoff_built")

	return &Handoff{Link: link, Summary: summary}, nil
}

// Complete builds the link and clears the cart. The cart is left untouched when the
// link cannot be built.
func (s *service) Complete(ctx context.Context) (*Handoff, error) {
	handoff, err := s.Handoff(ctx)
	if err != nil {
		return nil, err
	}
	s.cart.ClearCart(ctx)
	s.logg.Info(ctx, "checkout.completed")
	return handoff, nil
}
