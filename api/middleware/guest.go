package middleware

import (
	"net/http"

	"github.com/mabrurgoods/storefront/pkg/logger"
)

const guestSessionHeader = "X-Guest-Session"

// GuestSession tags every request with the id of the process's single guest session.
func GuestSession(sessionID string, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(guestSessionHeader, sessionID)

			ctx := WithGuestSession(r.Context(), sessionID)
			if logg != nil {
				ctx = logg.WithGuestSession(ctx, sessionID)
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
