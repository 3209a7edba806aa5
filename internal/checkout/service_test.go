package checkout

import (
	"context"
	"errors"
	"net/url"
	"testing"

	"github.com/mabrurgoods/storefront/internal/catalog"
	"github.com/mabrurgoods/storefront/internal/session"
	pkgerrors "github.com/mabrurgoods/storefront/pkg/errors"
	"github.com/mabrurgoods/storefront/pkg/kvstore"
	"github.com/mabrurgoods/storefront/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingSource struct{}

func (failingSource) FetchProduct(context.Context, string) (catalog.Product, bool, error) {
	return catalog.Product{}, false, errors.New("catalog offline")
}

func newTestService(t *testing.T, src catalog.Source, reg prometheus.Registerer) (Service, *session.Store) {
	t.Helper()
	store := session.New(context.Background(), kvstore.NewMemory(), session.Options{ID: "guest-checkout"})
	svc, err := NewService(ServiceParams{
		Cart:    store,
		Catalog: src,
		Encoder: NewEncoder(testCheckoutConfig()),
		Metrics: metrics.NewSessionMetrics(reg),
	})
	require.NoError(t, err)
	return svc, store
}

func testCatalog() *catalog.Snapshot {
	return catalog.NewSnapshot([]catalog.Product{{ID: "p1", Name: "Ihram Towel Set", Price: 150000}})
}

func TestServiceSummary(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, testCatalog(), nil)
	require.NoError(t, store.AddToCart(ctx, session.CartLine{ProductID: "p1", Size: "M", Color: "Black", Quantity: 2}))
	require.NoError(t, store.AddToCart(ctx, session.CartLine{ProductID: "gone", Size: "L", Color: "White", Quantity: 1}))

	summary, err := svc.Summary(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 300000, summary.Subtotal)
	assert.EqualValues(t, 3, summary.ItemCount)
	assert.Len(t, summary.Lines, 2)
}

func TestServiceHandoffKeepsCart(t *testing.T) {
	ctx := context.Background()
	reg := prometheus.NewRegistry()
	svc, store := newTestService(t, testCatalog(), reg)
	require.NoError(t, store.AddToCart(ctx, session.CartLine{ProductID: "p1", Size: "M", Color: "Black", Quantity: 2}))

	handoff, err := svc.Handoff(ctx)
	require.NoError(t, err)

	parsed, err := url.Parse(handoff.Link)
	require.NoError(t, err)
	assert.Contains(t, parsed.Query().Get("text"), "Total: Rp 300.000")
	assert.Len(t, store.Cart(), 1)

	mfs, err := reg.Gather()
	require.NoError(t, err)
	var built float64
	for _, mf := range mfs {
		if mf.GetName() == "checkout_handoff_links_total" {
			built = mf.GetMetric()[0].GetCounter().GetValue()
		}
	}
	assert.Equal(t, float64(1), built)
}

func TestServiceCompleteClearsCart(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, testCatalog(), nil)
	require.NoError(t, store.AddToCart(ctx, session.CartLine{ProductID: "p1", Size: "M", Color: "Black", Quantity: 1}))

	handoff, err := svc.Complete(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 150000, handoff.Summary.Subtotal)
	assert.Empty(t, store.Cart())
}

func TestServiceRejectsEmptyCart(t *testing.T) {
	svc, _ := newTestService(t, testCatalog(), nil)

	_, err := svc.Complete(context.Background())
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeValidation))
}

func TestServiceCatalogFailureLeavesCart(t *testing.T) {
	ctx := context.Background()
	svc, store := newTestService(t, failingSource{}, nil)
	require.NoError(t, store.AddToCart(ctx, session.CartLine{ProductID: "p1", Quantity: 1}))

	_, err := svc.Complete(ctx)
	assert.True(t, pkgerrors.HasCode(err, pkgerrors.CodeDependency))
	assert.Len(t, store.Cart(), 1)
}

func TestNewServiceRequiresCollaborators(t *testing.T) {
	_, err := NewService(ServiceParams{})
	assert.Error(t, err)

	store := session.New(context.Background(), kvstore.NewMemory(), session.Options{})
	_, err = NewService(ServiceParams{Cart: store, Catalog: testCatalog()})
	assert.Error(t, err, "encoder is required")
}
