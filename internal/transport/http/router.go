// Package httptransport assembles the HTTP surface: public commerce routes,
// the admin rule API, and the operational endpoints.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	catalogHandler "greenlane/internal/catalog/handler"
	complianceHandler "greenlane/internal/compliance/handler"
	orderHandler "greenlane/internal/order/handler"
	"greenlane/internal/platform/middleware"
	rulesHandler "greenlane/internal/rules/handler"
)

// Handlers carries every route group the router mounts.
type Handlers struct {
	Compliance *complianceHandler.Handler
	Orders     *orderHandler.Handler
	Catalog    *catalogHandler.Handler
	Rules      *rulesHandler.Handler
}

// Options carries router-level settings.
type Options struct {
	// AdminAuth guards the /admin subtree. A nil value leaves admin routes
	// open, which is only acceptable in local development.
	AdminAuth func(http.Handler) http.Handler
}

// NewRouter wires the middleware stack and all route groups. Every request
// gets a request ID and a pinned request time before reaching a handler.
func NewRouter(h Handlers, opts Options) http.Handler {
	r := chi.NewRouter()
	r.Use(
		chimiddleware.RequestID,
		chimiddleware.RealIP,
		chimiddleware.Recoverer,
		middleware.RequestID,
		middleware.RequestTime,
	)

	r.Route("/api/v1", func(r chi.Router) {
		h.Compliance.Register(r)
		h.Orders.Register(r)
		h.Catalog.Register(r)

		r.Route("/admin", func(r chi.Router) {
			if opts.AdminAuth != nil {
				r.Use(opts.AdminAuth)
			}
			h.Rules.Register(r)
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	return r
}
