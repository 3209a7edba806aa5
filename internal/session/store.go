// Package session owns the guest shopping state: a cart of deduplicated variant lines
// and a wishlist of product ids, both written through to local storage on every mutation.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/mabrurgoods/storefront/internal/codec"
	pkgerrors "github.com/mabrurgoods/storefront/pkg/errors"
	"github.com/mabrurgoods/storefront/pkg/kvstore"
	"github.com/mabrurgoods/storefront/pkg/logger"
	"github.com/mabrurgoods/storefront/pkg/metrics"
	"github.com/mabrurgoods/storefront/pkg/validate"
)

const (
	CartStorageKey     = "guest-cart"
	WishlistStorageKey = "guest-wishlist"

	collectionCart     = "cart"
	collectionWishlist = "wishlist"
)

// Options carries the optional collaborators of a Store.
type Options struct {
	ID      string
	Logger  *logger.Logger
	Metrics *metrics.SessionMetrics
}

// Store is the guest session. In-memory state is authoritative; storage failures are
// logged and the session keeps working without persistence.
type Store struct {
	mu       sync.Mutex
	id       string
	cart     []CartLine
	wishlist []string

	cartCodec     *codec.Codec[[]CartLine]
	wishlistCodec *codec.Codec[[]string]

	logg    *logger.Logger
	metrics *metrics.SessionMetrics
}

// New builds the session and hydrates it once from storage.
func New(ctx context.Context, storage kvstore.Store, opts Options) *Store {
	s := &Store{
		id:            opts.ID,
		cartCodec:     codec.New(storage, CartStorageKey, codec.SchemaVersion, cartToWire, cartFromWire),
		wishlistCodec: codec.New(storage, WishlistStorageKey, codec.SchemaVersion, wishlistToWire, wishlistFromWire),
		logg:          opts.Logger,
		metrics:       opts.Metrics,
	}
	if s.id == "" {
		s.id = uuid.NewString()
	}
	if s.logg == nil {
		s.logg = logger.Nop()
	}
	s.hydrate(ctx)
	return s
}

// ID identifies the session in logs.
func (s *Store) ID() string {
	return s.id
}

func (s *Store) hydrate(ctx context.Context) {
	ctx = s.logg.WithGuestSession(ctx, s.id)

	lines, outcome, err := s.cartCodec.Load(ctx)
	s.observeLoad(ctx, collectionCart, outcome, err)
	s.cart = s.normalizeCart(ctx, lines)

	ids, outcome, err := s.wishlistCodec.Load(ctx)
	s.observeLoad(ctx, collectionWishlist, outcome, err)
	s.wishlist = s.normalizeWishlist(ids)
}

func (s *Store) observeLoad(ctx context.Context, collection string, outcome codec.Outcome, err error) {
	ctx = s.logg.WithFields(ctx, map[string]any{
		"collection": collection,
		"outcome":    outcome.String(),
	})
	if err != nil {
		s.metrics.IncStorageFailure("read")
		s.logg.Error(ctx, "guest_session.hydrate_failed", pkgerrors.Wrap(pkgerrors.CodeStorage, err, "hydrate "+collection))
	}
	switch outcome {
	case codec.Stale:
		s.metrics.IncSchemaReset(collection)
		s.logg.Warn(ctx, "guest_session.schema_reset")
	case codec.Malformed:
		s.logg.Warn(ctx, "guest_session.malformed_envelope")
	}
}

// normalizeCart re-applies the cart invariants to stored lines: no blank product ids,
// positive quantities, one line per key.
func (s *Store) normalizeCart(ctx context.Context, stored []CartLine) []CartLine {
	lines := make([]CartLine, 0, len(stored))
	dropped := 0
	for _, line := range stored {
		line = normalizeLine(line)
		if line.ProductID == "" || line.Quantity < 1 {
			dropped++
			continue
		}
		merged, err := mergeLine(lines, line)
		if err != nil {
			dropped++
			continue
		}
		lines = merged
	}
	if dropped > 0 {
		s.logg.Warn(s.logg.WithField(ctx, "dropped_lines", dropped), "guest_session.cart_lines_dropped")
	}
	return lines
}

func (s *Store) normalizeWishlist(stored []string) []string {
	ids := make([]string, 0, len(stored))
	for _, id := range stored {
		id = strings.TrimSpace(id)
		if id == "" || indexOfID(ids, id) >= 0 {
			continue
		}
		ids = append(ids, id)
	}
	return ids
}

// AddToCart merges line into the cart: an existing (productId, size, color) line gets
// its quantity increased, otherwise the line is appended.
func (s *Store) AddToCart(ctx context.Context, line CartLine) error {
	line = normalizeLine(line)
	if err := validate.Struct(line); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	merged, err := mergeLine(s.cart, line)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "quantity too large").
			WithDetails(map[string]string{"quantity": "exceeds the maximum cart quantity"})
	}
	s.cart = merged
	s.metrics.IncMutation(collectionCart, "add")
	s.persistCart(ctx)
	return nil
}

// SetQuantity replaces the quantity of the line with the given key. A quantity of zero
// or less removes the line.
func (s *Store) SetQuantity(ctx context.Context, productID, size, color string, quantity int64) error {
	key := normalizeLine(CartLine{ProductID: productID, Size: size, Color: color}).Key()
	if key.ProductID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"productId": "is required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOfLine(s.cart, key)
	if idx < 0 {
		if quantity <= 0 {
			return nil
		}
		return pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found").
			WithDetails(map[string]string{"productId": key.ProductID, "size": key.Size, "color": key.Color})
	}
	if quantity <= 0 {
		s.cart = append(s.cart[:idx], s.cart[idx+1:]...)
		s.metrics.IncMutation(collectionCart, "remove_line")
	} else {
		s.cart[idx].Quantity = quantity
		s.metrics.IncMutation(collectionCart, "set_quantity")
	}
	s.persistCart(ctx)
	return nil
}

// RemoveFromCart drops every line of productID, across all sizes and colors, and
// returns how many lines were removed.
func (s *Store) RemoveFromCart(ctx context.Context, productID string) int {
	productID = strings.TrimSpace(productID)

	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.cart[:0]
	removed := 0
	for _, line := range s.cart {
		if line.ProductID == productID {
			removed++
			continue
		}
		kept = append(kept, line)
	}
	s.cart = kept
	if removed == 0 {
		return 0
	}
	s.metrics.IncMutation(collectionCart, "remove")
	s.persistCart(ctx)
	return removed
}

// ClearCart empties the cart and purges its stored envelope.
func (s *Store) ClearCart(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cart = nil
	s.metrics.IncMutation(collectionCart, "clear")
	if err := s.cartCodec.Purge(ctx); err != nil {
		s.storageFailed(ctx, collectionCart, "purge", err)
	}
}

// Cart returns a copy of the cart lines in insertion order.
func (s *Store) Cart() []CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]CartLine, len(s.cart))
	copy(out, s.cart)
	return out
}

// CartCount is the cart badge value: the sum of all line quantities.
func (s *Store) CartCount() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total int64
	for _, line := range s.cart {
		total += line.Quantity
	}
	return total
}

// AddToWishlist inserts productID; adding a present id is a no-op.
func (s *Store) AddToWishlist(ctx context.Context, productID string) error {
	productID = strings.TrimSpace(productID)
	if productID == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "validation failed").
			WithDetails(map[string]string{"productId": "is required"})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if indexOfID(s.wishlist, productID) >= 0 {
		return nil
	}
	s.wishlist = append(s.wishlist, productID)
	s.metrics.IncMutation(collectionWishlist, "add")
	s.persistWishlist(ctx)
	return nil
}

// RemoveFromWishlist deletes productID; removing an absent id is a no-op.
func (s *Store) RemoveFromWishlist(ctx context.Context, productID string) {
	productID = strings.TrimSpace(productID)

	s.mu.Lock()
	defer s.mu.Unlock()

	idx := indexOfID(s.wishlist, productID)
	if idx < 0 {
		return
	}
	s.wishlist = append(s.wishlist[:idx], s.wishlist[idx+1:]...)
	s.metrics.IncMutation(collectionWishlist, "remove")
	s.persistWishlist(ctx)
}

// ToggleWishlist flips membership of productID and reports whether it is now present.
func (s *Store) ToggleWishlist(ctx context.Context, productID string) (bool, error) {
	if s.InWishlist(productID) {
		s.RemoveFromWishlist(ctx, productID)
		return false, nil
	}
	if err := s.AddToWishlist(ctx, productID); err != nil {
		return false, err
	}
	return true, nil
}

// ClearWishlist empties the wishlist and purges its stored envelope.
func (s *Store) ClearWishlist(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.wishlist = nil
	s.metrics.IncMutation(collectionWishlist, "clear")
	if err := s.wishlistCodec.Purge(ctx); err != nil {
		s.storageFailed(ctx, collectionWishlist, "purge", err)
	}
}

// Wishlist returns a copy of the wishlisted ids in insertion order.
func (s *Store) Wishlist() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, len(s.wishlist))
	copy(out, s.wishlist)
	return out
}

func (s *Store) InWishlist(productID string) bool {
	productID = strings.TrimSpace(productID)

	s.mu.Lock()
	defer s.mu.Unlock()

	return indexOfID(s.wishlist, productID) >= 0
}

func (s *Store) WishlistCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return len(s.wishlist)
}

// persistCart must be called with s.mu held.
func (s *Store) persistCart(ctx context.Context) {
	if err := s.cartCodec.Save(ctx, s.cart); err != nil {
		s.storageFailed(ctx, collectionCart, "write", err)
	}
}

// persistWishlist must be called with s.mu held.
func (s *Store) persistWishlist(ctx context.Context) {
	if err := s.wishlistCodec.Save(ctx, s.wishlist); err != nil {
		s.storageFailed(ctx, collectionWishlist, "write", err)
	}
}

func (s *Store) storageFailed(ctx context.Context, collection, op string, err error) {
	s.metrics.IncStorageFailure(op)
	ctx = s.logg.WithGuestSession(ctx, s.id)
	ctx = s.logg.WithFields(ctx, map[string]any{"collection": collection, "op": op})
	s.logg.Error(ctx, "guest_session.persist_failed", pkgerrors.Wrap(pkgerrors.CodeStorage, err, op+" "+collection))
}
