package controllers

import (
	"net/http"

	"github.com/mabrurgoods/storefront/api/responses"
	"github.com/mabrurgoods/storefront/api/validators"
	"github.com/mabrurgoods/storefront/internal/navigation"
	pkgerrors "github.com/mabrurgoods/storefront/pkg/errors"
	"github.com/mabrurgoods/storefront/pkg/logger"
)

const maxAddressLength = 2048

type resolvedAddress struct {
	State      navigation.State `json:"state"`
	Canonical  string           `json:"canonical"`
	Recognized bool             `json:"recognized"`
}

type encodeStatePayload struct {
	Page      navigation.Page           `json:"page" validate:"required"`
	ProductID string                    `json:"productId"`
	Filter    *navigation.CatalogFilter `json:"filter"`
}

// NavigationResolve maps ?address= to the page state the shell should render.
func NavigationResolve(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		address := validators.SanitizeString(r.URL.Query().Get("address"), maxAddressLength)
		if address == "" {
			address = "/"
		}

		state, recognized := navigation.Resolve(address)
		if !recognized && logg != nil {
			logg.Debug(logg.WithFields(ctx, map[string]any{
				"code":    string(pkgerrors.CodeUnknownAddress),
				"address": address,
			}), "navigation.unrecognized_address")
		}

		canonical, err := navigation.EncodeAddress(state)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, resolvedAddress{State: state, Canonical: canonical, Recognized: recognized})
	}
}

// NavigationEncode builds the canonical address for a requested page state.
func NavigationEncode(logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		var payload encodeStatePayload
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		state := navigation.State{Page: payload.Page, ProductID: payload.ProductID, Filter: payload.Filter}
		address, err := navigation.EncodeAddress(state)
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]any{
			"address": address,
			"state":   navigation.ParseAddress(address),
		})
	}
}
