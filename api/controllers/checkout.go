package controllers

import (
	"net/http"

	"github.com/mabrurgoods/storefront/api/responses"
	"github.com/mabrurgoods/storefront/internal/checkout"
	pkgerrors "github.com/mabrurgoods/storefront/pkg/errors"
	"github.com/mabrurgoods/storefront/pkg/logger"
)

func CheckoutSummary(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		summary, err := svc.Summary(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, summary)
	}
}

// CheckoutHandoff returns the messaging link without clearing the cart.
func CheckoutHandoff(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		handoff, err := svc.Handoff(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, handoff)
	}
}

// CheckoutComplete returns the messaging link and clears the cart.
func CheckoutComplete(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		if svc == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}
		handoff, err := svc.Complete(ctx)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, handoff)
	}
}
