package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/eleven-jw/ecom-lab/pkg/health"
	"github.com/eleven-jw/ecom-lab/pkg/middleware"

	"github.com/eleven-jw/ecom-lab/internal/client"
	"github.com/eleven-jw/ecom-lab/internal/gateway"
	"github.com/eleven-jw/ecom-lab/internal/service"
)

// RouterDeps bundles everything the router needs.
type RouterDeps struct {
	Sessions      *service.SessionManager
	Cart          *service.CartService
	Addresses     *service.AddressService
	Orders        *service.OrderService
	AfterSale     *service.AfterSaleService
	Checkout      *service.CheckoutService
	Gateway       *gateway.Gateway
	Catalog       *client.CatalogClient
	HealthHandler *health.Handler
	Logger        *slog.Logger
	Environment   string
	CORSOrigins   []string
	PprofCIDRs    []string
}

// NewRouter creates a chi router with all routes registered.
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: deps.CORSOrigins,
		ExposedHeaders: []string{"X-Correlation-ID"},
		Environment:    deps.Environment,
	}))
	r.Use(middleware.Recovery(deps.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(deps.Logger))
	r.Use(middleware.PrometheusMetrics("storecore"))
	r.Use(middleware.Tracing("storecore"))
	r.Use(middleware.RequestLogger(deps.Logger))

	// Health check endpoints
	r.Get("/health/live", deps.HealthHandler.LivenessHandler())
	r.Get("/health/ready", deps.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	// Pprof debug endpoints with IP allowlist.
	middleware.RegisterPprof(r, deps.PprofCIDRs, deps.Logger)

	authHandler := NewAuthHandler(deps.Sessions, deps.Gateway, deps.Logger)
	cartHandler := NewCartHandler(deps.Cart, deps.Logger)
	addressHandler := NewAddressHandler(deps.Addresses, deps.Logger)
	orderHandler := NewOrderHandler(deps.Orders, deps.Checkout, deps.Logger)
	afterSaleHandler := NewAfterSaleHandler(deps.AfterSale, deps.Orders, deps.Logger)
	catalogHandler := NewCatalogHandler(deps.Catalog, deps.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/auth", func(r chi.Router) {
			r.Post("/login", authHandler.Login)
			r.Post("/register", authHandler.Register)
			r.Post("/refresh", authHandler.Refresh)
			r.Post("/logout", authHandler.Logout)

			r.Group(func(r chi.Router) {
				r.Use(RequireSession(deps.Sessions))
				r.Get("/profile", authHandler.GetProfile)
				r.Put("/profile", authHandler.UpdateProfile)
			})
		})

		// Read-only catalog passthrough; no session required. Responses
		// are cacheable for a short window.
		r.Route("/catalog", func(r chi.Router) {
			r.Use(middleware.CacheControl(300))
			r.Get("/banners", catalogHandler.Banners)
			r.Get("/categories", catalogHandler.Categories)
			r.Get("/products", catalogHandler.Products)
			r.Get("/products/{id}", catalogHandler.Product)
		})

		// Ledger commands require a bearer matching the active session.
		r.Group(func(r chi.Router) {
			r.Use(RequireSession(deps.Sessions))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Patch("/items/{id}", cartHandler.SetQuantity)
				r.Delete("/items/{id}", cartHandler.RemoveItem)
			})

			r.Route("/addresses", func(r chi.Router) {
				r.Get("/", addressHandler.List)
				r.Post("/", addressHandler.Add)
				r.Put("/{id}", addressHandler.Update)
				r.Delete("/{id}", addressHandler.Remove)
				r.Post("/{id}/default", addressHandler.SetDefault)
				r.Post("/{id}/select", addressHandler.Select)
			})

			r.Post("/checkout", orderHandler.Checkout)

			r.Route("/orders", func(r chi.Router) {
				r.Get("/", orderHandler.List)
				r.Get("/{id}", orderHandler.Get)
				r.Post("/{id}/status", orderHandler.AdvanceStatus)
				r.Post("/{id}/cancel", orderHandler.Cancel)
			})

			r.Route("/aftersale", func(r chi.Router) {
				r.Get("/", afterSaleHandler.List)
				r.Post("/", afterSaleHandler.Submit)
				r.Post("/{id}/status", afterSaleHandler.AdvanceStatus)
			})
		})
	})

	return r
}
