// Package httpapi exposes the task API, the authorization endpoints and
// the operational endpoints over HTTP.
package httpapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/foliolabs/folio/internal/core/ports/driven"
	"github.com/foliolabs/folio/internal/core/ports/driving"
	"github.com/foliolabs/folio/internal/metrics"
)

// Errors for missing required dependencies.
var (
	ErrMissingTaskService       = errors.New("httpapi: task service is required")
	ErrMissingCredentialService = errors.New("httpapi: credential service is required")
)

// RouterDeps aggregates everything the HTTP layer needs. This provides a
// single injection point for dependency injection.
type RouterDeps struct {
	// Tasks dispatches task requests.
	Tasks driving.TaskService

	// Credentials drives the authorization flow and user management.
	Credentials driving.CredentialService

	// Metrics receives per-request telemetry. Optional; nil disables it.
	Metrics driven.MetricsCollector

	// Gatherer backs the /metrics endpoint. Optional; nil disables the
	// endpoint.
	Gatherer prometheus.Gatherer

	// Logger is used for request-level events. Nil falls back to the
	// default logger.
	Logger *slog.Logger
}

// Validate ensures all required dependencies are set.
func (d *RouterDeps) Validate() error {
	if d.Tasks == nil {
		return ErrMissingTaskService
	}
	if d.Credentials == nil {
		return ErrMissingCredentialService
	}
	return nil
}

// handler carries the wired dependencies behind the route functions.
type handler struct {
	tasks  driving.TaskService
	creds  driving.CredentialService
	logger *slog.Logger
}

// NewRouter builds the HTTP handler for all Folio endpoints.
func NewRouter(deps *RouterDeps) (http.Handler, error) {
	if err := deps.Validate(); err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	h := &handler{
		tasks:  deps.Tasks,
		creds:  deps.Credentials,
		logger: logger,
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.Recoverer)
	if deps.Metrics != nil {
		r.Use(metricsMiddleware(deps.Metrics))
	}

	r.Post("/tasks", h.dispatchTask)

	r.Route("/auth/google", func(r chi.Router) {
		r.Get("/", h.startAuthorization)
		r.Get("/callback", h.completeAuthorization)
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", h.listUsers)
		r.Delete("/{userID}", h.removeUser)
	})

	r.Get("/capabilities", h.listCapabilities)
	r.Get("/healthz", h.health)

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	return r, nil
}

// health reports liveness.
func (h *handler) health(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
