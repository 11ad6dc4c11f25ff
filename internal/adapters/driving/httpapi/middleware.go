package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foliolabs/folio/internal/core/ports/driven"
)

// statusRecorder captures the status code written by the downstream
// handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// metricsMiddleware records one event per handled request, labelled with
// the chi route pattern rather than the raw path so user ids and other
// parameters do not explode the label space.
func metricsMiddleware(collector driven.MetricsCollector) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r)

			path := r.URL.Path
			if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
				if pattern := routeCtx.RoutePattern(); pattern != "" {
					path = pattern
				}
			}
			collector.HTTPRequest(r.Method, path, rec.status)
		})
	}
}
