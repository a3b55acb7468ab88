package httpapi

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/syla/execution-service/internal/metrics"
)

// NewRouter builds the chi router with the standard middleware stack
// (request id, real ip, structured request logging, panic recovery,
// request timeout), matching divitsinghall-Vortex/vortex-api's chi setup.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	h.RegisterRoutes(r)
	r.Handle("/metrics", metrics.Handler())

	return r
}
