package handler

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Palgie/luxury-beauty-app/internal/devproxy/config"
	"github.com/Palgie/luxury-beauty-app/internal/devproxy/proxy"
	"github.com/Palgie/luxury-beauty-app/pkg/health"
	pkgmiddleware "github.com/Palgie/luxury-beauty-app/pkg/middleware"
)

// NewRouter creates a chi router with global middleware, health and
// metrics endpoints, and the GraphQL proxy route.
func NewRouter(cfg *config.Config, up *proxy.UpstreamProxy, healthHandler *health.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	// Global middleware stack (applied in order).
	r.Use(pkgmiddleware.CORS(pkgmiddleware.CORSConfig{
		AllowedOrigins: cfg.CORSAllowedOrigins,
	}))
	r.Use(pkgmiddleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(cfg.UpstreamTimeout + 5*time.Second))
	r.Use(pkgmiddleware.RequestLogging(logger))
	r.Use(pkgmiddleware.PrometheusMetrics("devproxy"))

	// Health check endpoints.
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())

	// Metrics endpoint. The proxy only listens on localhost during
	// development, so no allowlist is applied.
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	// GraphQL proxy route.
	r.Handle("/graphql", up)
	r.Handle("/graphql/*", up)

	return r
}
