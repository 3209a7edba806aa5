package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mabrurgoods/storefront/api/responses"
	pkgerrors "github.com/mabrurgoods/storefront/pkg/errors"
	"github.com/mabrurgoods/storefront/pkg/logger"
)

// GuestWishlist is the wishlist half of the guest session.
type GuestWishlist interface {
	Wishlist() []string
	WishlistCount() int
	AddToWishlist(ctx context.Context, productID string) error
	RemoveFromWishlist(ctx context.Context, productID string)
	ClearWishlist(ctx context.Context)
}

type wishlistView struct {
	Items []string `json:"items"`
	Count int      `json:"count"`
}

func viewWishlist(wishlist GuestWishlist) wishlistView {
	return wishlistView{Items: wishlist.Wishlist(), Count: wishlist.WishlistCount()}
}

func WishlistGet(wishlist GuestWishlist, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if wishlist == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest session unavailable"))
			return
		}
		responses.WriteSuccess(w, viewWishlist(wishlist))
	}
}

// WishlistAdd is idempotent: liking a liked product returns the unchanged list.
func WishlistAdd(wishlist GuestWishlist, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if wishlist == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest session unavailable"))
			return
		}
		if err := wishlist.AddToWishlist(ctx, chi.URLParam(r, "productId")); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewWishlist(wishlist))
	}
}

func WishlistRemove(wishlist GuestWishlist, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if wishlist == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest session unavailable"))
			return
		}
		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "productId is required"))
			return
		}
		wishlist.RemoveFromWishlist(ctx, productID)
		responses.WriteSuccess(w, viewWishlist(wishlist))
	}
}

func WishlistClear(wishlist GuestWishlist, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if wishlist == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest session unavailable"))
			return
		}
		wishlist.ClearWishlist(ctx)
		responses.WriteSuccess(w, viewWishlist(wishlist))
	}
}
