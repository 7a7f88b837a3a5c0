// Package router assembles the HTTP routes and middleware chain.
package router

import (
	"log/slog"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/cashcard/cashcard/internal/handler"
	"github.com/cashcard/cashcard/internal/middleware"
)

// Deps holds everything the router mounts.
type Deps struct {
	Logger   *slog.Logger
	Root     *handler.Handler
	Health   *handler.HealthHandler
	Metrics  *handler.MetricsHandler
	CashCard *handler.CashCardHandler

	Security  middleware.SecurityConfig
	CORS      middleware.CORSConfig
	RateLimit middleware.RateLimitConfig
}

// New configures the chi router with all routes and middleware.
func New(d Deps) *chi.Mux {
	logger := d.Logger
	if logger == nil {
		logger = slog.Default()
	}
	root := d.Root
	if root == nil {
		root = handler.New()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(d.Security))
	r.Use(middleware.CORS(d.CORS))

	// 404 and 405 handlers, set before subrouters are mounted
	r.NotFound(root.NotFound)
	r.MethodNotAllowed(root.MethodNotAllowed)

	// Health endpoints
	if d.Health != nil {
		r.Get("/healthz", d.Health.Healthz)
		r.Get("/readyz", d.Health.Readyz)
	}
	if d.Metrics != nil {
		r.Get("/metrics", d.Metrics.Metrics)
	}

	// Root info endpoint
	r.Get("/", root.Info)

	r.Route("/cashcards", func(r chi.Router) {
		r.Use(middleware.RateLimitIP(d.RateLimit))
		if d.Security.MaxRequestBodySize > 0 {
			r.Use(middleware.MaxBodySize(d.Security.MaxRequestBodySize))
		}
		d.CashCard.Routes(r)
	})

	return r
}
