// Package http wires the EnviroLens HTTP surface: chi routing, middleware and
// the server lifecycle.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/turtacn/EnviroLens/internal/config"
	"github.com/turtacn/EnviroLens/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/EnviroLens/internal/infrastructure/monitoring/prometheus"
	"github.com/turtacn/EnviroLens/internal/interfaces/http/handlers"
	"github.com/turtacn/EnviroLens/internal/interfaces/http/middleware"
)

// RouterConfig holds everything NewRouter mounts.  Nil handlers are skipped.
type RouterConfig struct {
	DataHandler   *handlers.DataHandler
	HealthHandler *handlers.HealthHandler
	StaticHandler *handlers.StaticHandler
	Version       string

	CORS    *middleware.CORSConfig
	Logging middleware.LoggingConfig
	// RefreshLimiter throttles ?refresh requests on the data routes.
	RefreshLimiter middleware.RateLimiter

	Metrics          *prometheus.AppMetrics
	MetricsCollector prometheus.MetricsCollector
	MetricsPath      string

	Logger logging.Logger
}

// NewRouter builds the route tree.  Middleware order, outermost first:
// RealIP, RequestID, Recoverer, Metrics, RequestLogging, CORS.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := logging.OrDefault(cfg.Logger)
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Metrics(cfg.Metrics))
	r.Use(middleware.RequestLogging(logger, cfg.Logging))
	if cfg.CORS != nil {
		r.Use(middleware.CORS(*cfg.CORS))
	}

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	if cfg.HealthHandler != nil {
		cfg.HealthHandler.RegisterRoutes(r)
	}
	if cfg.MetricsCollector != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = config.DefaultMetricsPath
		}
		r.Handle(path, cfg.MetricsCollector.Handler())
	}
	if cfg.StaticHandler != nil {
		cfg.StaticHandler.RegisterRoutes(r)
	}

	r.Get("/api/vercel", handlers.Status(cfg.Version))

	if cfg.DataHandler != nil {
		r.Group(func(api chi.Router) {
			if cfg.RefreshLimiter != nil {
				api.Use(middleware.RateLimit(cfg.RefreshLimiter, middleware.RefreshOnly()))
			}
			cfg.DataHandler.RegisterRoutes(api)
		})
	}

	return r
}

//Personal.AI order the ending
