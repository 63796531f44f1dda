package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/farmbasket-app/farmbasket-backend/api/controllers"
	cartcontrollers "github.com/farmbasket-app/farmbasket-backend/api/controllers/cart"
	"github.com/farmbasket-app/farmbasket-backend/api/middleware"
	cartsvc "github.com/farmbasket-app/farmbasket-backend/internal/cart"
	"github.com/farmbasket-app/farmbasket-backend/internal/catalog"
	checkoutsvc "github.com/farmbasket-app/farmbasket-backend/internal/checkout"
	"github.com/farmbasket-app/farmbasket-backend/pkg/config"
	"github.com/farmbasket-app/farmbasket-backend/pkg/db"
	"github.com/farmbasket-app/farmbasket-backend/pkg/logger"
	"github.com/farmbasket-app/farmbasket-backend/pkg/redis"
)

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	catalogService catalog.Service,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, dbP, redisClient))
	})

	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductsList(catalogService, logg))
			r.Get("/{productID}", controllers.ProductDetail(catalogService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Session())

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartcontrollers.CartFetch(cartService, logg))
				r.Delete("/", cartcontrollers.CartClear(cartService, logg))
				r.Get("/summary", cartcontrollers.CartSummary(cartService, logg))
				r.Post("/items", cartcontrollers.CartProposeAdd(cartService, catalogService, logg))
				r.Patch("/items/{productID}", cartcontrollers.CartSetQuantity(cartService, logg))
				r.Delete("/items/{productID}", cartcontrollers.CartRemoveItem(cartService, logg))
				r.Post("/proposals/{proposalID}", cartcontrollers.CartConfirmSwitch(cartService, logg))
			})

			r.Post("/checkout", controllers.CheckoutDraft(checkoutService, logg))
		})
	})

	return r
}
