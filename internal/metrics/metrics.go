// Package metrics collects and exposes Prometheus metrics for Folio.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/foliolabs/folio/internal/core/ports/driven"
)

// Ensure both collectors satisfy the port.
var (
	_ driven.MetricsCollector = (*Collector)(nil)
	_ driven.MetricsCollector = (*NoopCollector)(nil)
)

// Collector records Folio telemetry into Prometheus metrics.
type Collector struct {
	tasksTotal   *prometheus.CounterVec
	taskDuration prometheus.Histogram
	refreshTotal *prometheus.CounterVec
	httpTotal    *prometheus.CounterVec
}

// NewCollector creates a Collector and registers its metrics with reg.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		tasksTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_tasks_total",
			Help: "Dispatched tasks by type and terminal status.",
		}, []string{"type", "status"}),
		taskDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "folio_task_duration_seconds",
			Help:    "Wall-clock task execution time in seconds.",
			Buckets: prometheus.DefBuckets,
		}),
		refreshTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_token_refresh_total",
			Help: "Access token refresh attempts by outcome.",
		}, []string{"outcome"}),
		httpTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "folio_http_requests_total",
			Help: "Handled HTTP requests by method, route and status code.",
		}, []string{"method", "path", "status_code"}),
	}

	reg.MustRegister(
		c.tasksTotal,
		c.taskDuration,
		c.refreshTotal,
		c.httpTotal,
	)

	return c
}

// TaskProcessed records one task reaching a terminal state.
func (c *Collector) TaskProcessed(taskType, status string, duration time.Duration) {
	c.tasksTotal.WithLabelValues(taskType, status).Inc()
	c.taskDuration.Observe(duration.Seconds())
}

// TokenRefreshed records one token refresh attempt.
func (c *Collector) TokenRefreshed(outcome string) {
	c.refreshTotal.WithLabelValues(outcome).Inc()
}

// HTTPRequest records one handled HTTP request.
func (c *Collector) HTTPRequest(method, path string, status int) {
	c.httpTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
}

// Handler returns the HTTP handler serving the Prometheus scrape endpoint.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// NoopCollector discards all telemetry. Used in tests and when metrics
// are not wired.
type NoopCollector struct{}

// TaskProcessed discards the event.
func (NoopCollector) TaskProcessed(string, string, time.Duration) {}

// TokenRefreshed discards the event.
func (NoopCollector) TokenRefreshed(string) {}

// HTTPRequest discards the event.
func (NoopCollector) HTTPRequest(string, string, int) {}
