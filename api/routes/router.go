package routes

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/catalog-backend/api/controllers"
	"github.com/angelmondragon/catalog-backend/api/middleware"
	"github.com/angelmondragon/catalog-backend/internal/auth"
	"github.com/angelmondragon/catalog-backend/internal/bulkload"
	"github.com/angelmondragon/catalog-backend/internal/interactions"
	products "github.com/angelmondragon/catalog-backend/internal/products"
	"github.com/angelmondragon/catalog-backend/pkg/config"
	"github.com/angelmondragon/catalog-backend/pkg/enums"
	"github.com/angelmondragon/catalog-backend/pkg/logger"
	"github.com/angelmondragon/catalog-backend/pkg/metrics"
)

// RateLimiter backs the auth endpoint throttling; *redis.Client satisfies it.
type RateLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RouterParams lists everything the HTTP surface is built from.
type RouterParams struct {
	Config             *config.Config
	Logger             *logger.Logger
	DB                 controllers.Pinger
	Redis              controllers.Pinger
	RateLimiter        RateLimiter
	Registry           *prometheus.Registry
	AuthService        auth.Service
	RegisterService    auth.RegisterService
	ProductService     products.Service
	InteractionService interactions.Service
	BulkLoadService    bulkload.Service
}

func NewRouter(p RouterParams) http.Handler {
	cfg, logg := p.Config, p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.CORSAllowedOrigins),
	)
	if p.Registry != nil {
		r.Use(middleware.Metrics(metrics.NewHTTPMetrics(p.Registry)))
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, map[string]controllers.Pinger{
			"database": p.DB,
			"redis":    p.Redis,
		}))
	})

	loginPolicy := middleware.LoginPolicy(cfg.AuthRateLimit)
	registerPolicy := middleware.RegisterPolicy(cfg.AuthRateLimit)

	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.AuthService, logg))

		r.Route("/auth", func(r chi.Router) {
			r.With(middleware.AuthRateLimit(loginPolicy, p.RateLimiter, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
			r.With(middleware.AuthRateLimit(registerPolicy, p.RateLimiter, logg)).Post("/register", controllers.AuthRegister(p.RegisterService, logg))
		})

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(p.ProductService, logg))
			r.Get("/{id}", controllers.GetProduct(p.ProductService, logg))
			r.Get("/name/{name}", controllers.ProductsByName(p.ProductService, logg))

			r.Group(func(r chi.Router) {
				r.Use(middleware.RequireUser(logg))
				r.Post("/", controllers.CreateProduct(p.ProductService, logg))
				r.Put("/{id}", controllers.UpdateProduct(p.ProductService, logg))
				r.Delete("/{id}", controllers.DeleteProduct(p.ProductService, logg))
				r.Post("/{id}/like", controllers.LikeProduct(p.InteractionService, logg))
				r.Post("/{id}/dislike", controllers.DislikeProduct(p.InteractionService, logg))
			})

			r.With(middleware.RequireRole(logg, enums.RoleAdmin)).
				Post("/loading/products", controllers.BulkLoadProducts(p.BulkLoadService, logg))
		})
	})

	return r
}
