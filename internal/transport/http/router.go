package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	alertshandler "curbside/internal/alerts/handler"
	"curbside/internal/platform/health"
	"curbside/internal/platform/middleware"
)

// NewRouter wires all public endpoints with middleware.
func NewRouter(alerts *alertshandler.Handler, healthHandler *health.Handler, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(logger))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Timeout(30 * time.Second))

	alerts.Register(r)
	healthHandler.Register(r)

	r.Handle("/metrics", promhttp.Handler())

	return r
}
