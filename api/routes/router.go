package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/davidhuanca/mayorista-backend/api/controllers"
	"github.com/davidhuanca/mayorista-backend/api/middleware"
	"github.com/davidhuanca/mayorista-backend/internal/catalog"
	"github.com/davidhuanca/mayorista-backend/internal/orders"
	"github.com/davidhuanca/mayorista-backend/pkg/config"
	"github.com/davidhuanca/mayorista-backend/pkg/logger"
	redisclient "github.com/davidhuanca/mayorista-backend/pkg/redis"
)

// RouterParams collects everything the HTTP surface needs.
type RouterParams struct {
	Config       *config.Config
	Logger       *logger.Logger
	DB           controllers.Pinger
	Redis        *redisclient.Client
	Catalog      catalog.Repository
	Orders       orders.Service
	PromGatherer prometheus.Gatherer
}

// NewRouter builds the chi handler with the public catalog, guest checkout
// and the authenticated order surface.
func NewRouter(params RouterParams) http.Handler {
	cfg := params.Config
	logg := params.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		deps := map[string]controllers.Pinger{"db": params.DB}
		if params.Redis != nil {
			deps["redis"] = params.Redis
		}
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps))
	})

	if params.PromGatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(params.PromGatherer, promhttp.HandlerOpts{}))
	}

	guestPolicy := middleware.GuestRateLimitPolicy{
		Window:  cfg.RateLimit.GuestOrderWindow,
		IPLimit: cfg.RateLimit.GuestOrderIPLimit,
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/productos", func(r chi.Router) {
			r.Get("/", controllers.ProductList(params.Catalog, logg))
			r.Get("/{productID}", controllers.ProductDetail(params.Catalog, logg))
		})

		guestOrder := controllers.PlaceGuestOrder(params.Orders, logg)
		if params.Redis != nil {
			r.With(middleware.GuestRateLimit(guestPolicy, params.Redis, logg)).
				Post("/pedidos/guest", guestOrder)
		} else {
			r.Post("/pedidos/guest", guestOrder)
		}

		r.Route("/pedidos", func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, logg))
			r.Post("/", controllers.PlaceOrder(params.Orders, logg))
			r.Get("/", controllers.OrderList(params.Orders, logg))
			r.Get("/{orderID}", controllers.OrderDetail(params.Orders, logg))
			r.With(middleware.RequireStaff(logg)).
				Patch("/{orderID}/estado", controllers.UpdateOrderStatus(params.Orders, logg))
		})
	})

	return r
}
