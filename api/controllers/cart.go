package controllers

import (
	"context"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/mabrurgoods/storefront/api/responses"
	"github.com/mabrurgoods/storefront/api/validators"
	"github.com/mabrurgoods/storefront/internal/session"
	pkgerrors "github.com/mabrurgoods/storefront/pkg/errors"
	"github.com/mabrurgoods/storefront/pkg/logger"
)

// GuestCart is the cart half of the guest session.
type GuestCart interface {
	Cart() []session.CartLine
	CartCount() int64
	AddToCart(ctx context.Context, line session.CartLine) error
	SetQuantity(ctx context.Context, productID, size, color string, quantity int64) error
	RemoveFromCart(ctx context.Context, productID string) int
	ClearCart(ctx context.Context)
}

type cartView struct {
	Lines []session.CartLine `json:"lines"`
	Count int64              `json:"count"`
}

type addCartItemPayload struct {
	ProductID string `json:"productId" validate:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int64  `json:"quantity" validate:"min=1"`
}

type setCartQuantityPayload struct {
	ProductID string `json:"productId" validate:"required"`
	Size      string `json:"size"`
	Color     string `json:"color"`
	Quantity  int64  `json:"quantity" validate:"min=0"`
}

func viewCart(cart GuestCart) cartView {
	return cartView{Lines: cart.Cart(), Count: cart.CartCount()}
}

// CartGet returns the cart lines and the badge count.
func CartGet(cart GuestCart, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if cart == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest session unavailable"))
			return
		}
		responses.WriteSuccess(w, viewCart(cart))
	}
}

// CartAddItem merges a line into the cart.
func CartAddItem(cart GuestCart, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if cart == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest session unavailable"))
			return
		}

		var payload addCartItemPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		line := session.CartLine{
			ProductID: payload.ProductID,
			Size:      payload.Size,
			Color:     payload.Color,
			Quantity:  payload.Quantity,
		}
		if err := cart.AddToCart(ctx, line); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, viewCart(cart))
	}
}

// CartSetQuantity replaces the quantity of one variant line; zero removes it.
func CartSetQuantity(cart GuestCart, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if cart == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest session unavailable"))
			return
		}

		var payload setCartQuantityPayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		if err := cart.SetQuantity(ctx, payload.ProductID, payload.Size, payload.Color, payload.Quantity); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, viewCart(cart))
	}
}

// CartRemoveProduct drops every variant of the product in the path.
func CartRemoveProduct(cart GuestCart, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if cart == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest session unavailable"))
			return
		}

		productID := strings.TrimSpace(chi.URLParam(r, "productId"))
		if productID == "" {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeValidation, "productId is required"))
			return
		}

		removed := cart.RemoveFromCart(ctx, productID)
		responses.WriteSuccess(w, map[string]any{
			"removed": removed,
			"cart":    viewCart(cart),
		})
	}
}

func CartClear(cart GuestCart, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if cart == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "guest session unavailable"))
			return
		}
		cart.ClearCart(ctx)
		responses.WriteSuccess(w, viewCart(cart))
	}
}
