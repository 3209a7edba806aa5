package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mabrurgoods/storefront/api/controllers"
	"github.com/mabrurgoods/storefront/api/middleware"
	"github.com/mabrurgoods/storefront/internal/checkout"
	"github.com/mabrurgoods/storefront/pkg/config"
	"github.com/mabrurgoods/storefront/pkg/logger"
)

// GuestSession is the single guest session the host serves.
type GuestSession interface {
	controllers.GuestCart
	controllers.GuestWishlist
	ID() string
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	storage controllers.Pinger,
	guest GuestSession,
	checkoutService checkout.Service,
	gatherer prometheus.Gatherer,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.CORS(cfg.App.CORSOrigins),
		middleware.RequestID(logg),
		middleware.GuestSession(guest.ID(), logg),
		middleware.Logging(logg),
	)

	r.Route("/healthz", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, storage))
	})

	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/navigation", func(r chi.Router) {
			r.Get("/resolve", controllers.NavigationResolve(logg))
			r.Post("/encode", controllers.NavigationEncode(logg))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartGet(guest, logg))
			r.Delete("/", controllers.CartClear(guest, logg))
			r.Post("/items", controllers.CartAddItem(guest, logg))
			r.Patch("/items", controllers.CartSetQuantity(guest, logg))
			r.Delete("/items/{productId}", controllers.CartRemoveProduct(guest, logg))
		})

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistGet(guest, logg))
			r.Delete("/", controllers.WishlistClear(guest, logg))
			r.Put("/{productId}", controllers.WishlistAdd(guest, logg))
			r.Delete("/{productId}", controllers.WishlistRemove(guest, logg))
		})

		r.Route("/checkout", func(r chi.Router) {
			r.Get("/summary", controllers.CheckoutSummary(checkoutService, logg))
			r.Post("/handoff", controllers.CheckoutHandoff(checkoutService, logg))
			r.Post("/complete", controllers.CheckoutComplete(checkoutService, logg))
		})
	})

	return r
}
