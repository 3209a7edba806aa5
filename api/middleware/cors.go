package middleware

import (
	"net/http"

	"github.com/go-chi/cors"
)

var defaultCORSOrigins = []string{
	"http://localhost:5173", // shell dev server
	"http://127.0.0.1:5173",
}

// CORS allows the local storefront shell to call the host from its own origin.
func CORS(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		origins = defaultCORSOrigins
	}
	return cors.New(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Guest-Session"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler
}
