package controllers

import (
	"context"
	"net/http"

	"github.com/mabrurgoods/storefront/api/responses"
	"github.com/mabrurgoods/storefront/pkg/config"
	pkgerrors "github.com/mabrurgoods/storefront/pkg/errors"
	"github.com/mabrurgoods/storefront/pkg/logger"
)

// Pinger reports whether a backing resource is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

func HealthLive(cfg *config.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		responses.WriteSuccess(w, map[string]string{"status": "live"})
	}
}

// HealthReady pings guest storage. The session keeps working in memory when storage is
// down, so this only tells the shell that changes are not being persisted.
func HealthReady(cfg *config.Config, logg *logger.Logger, storage Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		w.Header().Set("X-Storefront-Env", cfg.App.Env)
		if storage == nil {
			responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeStorage, "storage not configured"))
			return
		}
		if err := storage.Ping(ctx); err != nil {
			responses.WriteError(ctx, logg, w, pkgerrors.Wrap(pkgerrors.CodeStorage, err, "storage ping failed"))
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "ready", "storage": cfg.Storage.Driver})
	}
}
