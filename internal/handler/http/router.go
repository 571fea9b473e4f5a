package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/catalog"
	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/domain"
	"github.com/shaha-expressitbd/shoppingbd-sub000/internal/service"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/health"
	"github.com/shaha-expressitbd/shoppingbd-sub000/pkg/middleware"
)

// RouterConfig carries the handler dependencies and knobs for NewRouter.
type RouterConfig struct {
	CartService     *service.CartService
	WishlistService *service.WishlistService
	CheckoutService *service.CheckoutService
	CatalogService  *catalog.Service
	HealthHandler   *health.Handler
	Logger          *slog.Logger

	AllowedOrigins []string
	Environment    string
	CheckoutRPS    int
	CheckoutBurst  int
}

// NewRouter creates a chi router with all storefront routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Environment:    cfg.Environment,
	}))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("storefront"))
	r.Use(middleware.Tracing("storefront"))

	// Health check endpoints
	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	catalogHandler := NewCatalogHandler(cfg.CatalogService, cfg.Logger)
	cartHandler := NewCartHandler(cfg.CartService, domain.CartKindRegular, cfg.Logger)
	preorderHandler := NewCartHandler(cfg.CartService, domain.CartKindPreorder, cfg.Logger)
	wishlistHandler := NewWishlistHandler(cfg.WishlistService, cfg.Logger)
	checkoutHandler := NewCheckoutHandler(cfg.CheckoutService, cfg.Logger)

	r.Route("/api/v1", func(r chi.Router) {
		// Catalog reads need no session.
		r.Get("/products", catalogHandler.ListProducts)
		r.Get("/products/{id}", catalogHandler.GetProduct)
		r.Get("/deals", catalogHandler.FlashDeals)

		// Session-scoped state
		r.Group(func(r chi.Router) {
			r.Use(middleware.Session())
			r.Use(middleware.RequestLogger(cfg.Logger))

			mountCart := func(r chi.Router, h *CartHandler) {
				r.Get("/", h.Get)
				r.Delete("/", h.Clear)
				r.Post("/items", h.AddItem)
				r.Put("/items/{productId}/{variantId}", h.UpdateQuantity)
				r.Delete("/items/{productId}/{variantId}", h.RemoveItem)
			}
			r.Route("/cart", func(r chi.Router) { mountCart(r, cartHandler) })
			r.Route("/preorder", func(r chi.Router) { mountCart(r, preorderHandler) })

			r.Route("/wishlist", func(r chi.Router) {
				r.Get("/", wishlistHandler.Get)
				r.Post("/items", wishlistHandler.SaveItem)
				r.Delete("/items/{productId}", wishlistHandler.RemoveItem)
			})

			r.Group(func(r chi.Router) {
				r.Use(middleware.RateLimit(cfg.CheckoutRPS, cfg.CheckoutBurst, cfg.Logger))
				r.Post("/checkout", checkoutHandler.Submit)
			})
		})
	})

	return r
}
