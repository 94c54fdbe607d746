package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/omexsoft/b2b-backend/api/controllers"
	"github.com/omexsoft/b2b-backend/api/middleware"
	"github.com/omexsoft/b2b-backend/internal/catalog"
	"github.com/omexsoft/b2b-backend/internal/groups"
	"github.com/omexsoft/b2b-backend/internal/ordervalidation"
	"github.com/omexsoft/b2b-backend/internal/pricing"
	"github.com/omexsoft/b2b-backend/internal/purchaseorders"
	"github.com/omexsoft/b2b-backend/internal/quotes"
	"github.com/omexsoft/b2b-backend/pkg/config"
	"github.com/omexsoft/b2b-backend/pkg/db"
	"github.com/omexsoft/b2b-backend/pkg/logger"
	"github.com/omexsoft/b2b-backend/pkg/metrics"
	"github.com/omexsoft/b2b-backend/pkg/redis"
)

// Deps carries everything the router wires into handlers.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	DB          db.Pinger
	Redis       *redis.Client
	HTTPMetrics *metrics.HTTPMetrics

	Catalog        catalog.Reader
	Calculator     *pricing.Calculator
	Validator      *ordervalidation.Validator
	Groups         groups.Service
	Quotes         quotes.Service
	PurchaseOrders purchaseorders.Service
}

func NewRouter(d Deps) http.Handler {
	cfg, logg := d.Config, d.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(d.HTTPMetrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, d.DB, d.Redis, logg))
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if d.Redis != nil {
			r.Use(middleware.Idempotency(d.Redis, logg))
		}

		r.Route("/pricing", func(r chi.Router) {
			r.Post("/resolve", controllers.ResolvePrice(d.Catalog, logg))
			r.Post("/calculate", controllers.CalculatePricing(d.Calculator, logg))
		})

		r.Post("/orders/validate", controllers.ValidateOrder(d.Validator, logg))

		r.Route("/quotes", func(r chi.Router) {
			r.Post("/", controllers.CreateQuote(d.Quotes, logg))
			r.Get("/{quoteId}", controllers.GetQuote(d.Quotes, logg))
			r.Post("/{quoteId}/status", controllers.UpdateQuoteStatus(d.Quotes, logg))
		})

		r.Route("/purchase-orders", func(r chi.Router) {
			r.Post("/", controllers.CreatePurchaseOrder(d.PurchaseOrders, logg))
			r.Get("/{poId}", controllers.GetPurchaseOrder(d.PurchaseOrders, logg))
			r.Post("/{poId}/status", controllers.UpdatePurchaseOrderStatus(d.PurchaseOrders, logg))
		})

		r.Route("/customers/{customerId}", func(r chi.Router) {
			r.Get("/quotes", controllers.ListCustomerQuotes(d.Quotes, logg))
			r.Get("/purchase-orders", controllers.ListCustomerPurchaseOrders(d.PurchaseOrders, logg))
		})

		r.Route("/customer-groups", func(r chi.Router) {
			r.Post("/", controllers.CreateCustomerGroup(d.Groups, logg))
			r.Get("/", controllers.ListCustomerGroups(d.Groups, logg))
			r.Get("/{groupId}", controllers.GetCustomerGroup(d.Groups, logg))
		})
	})

	return r
}
