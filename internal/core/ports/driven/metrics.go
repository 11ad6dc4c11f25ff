package driven

import "time"

// MetricsCollector receives telemetry events from the core. Emission is
// fire-and-forget; implementations must never block or fail the caller.
type MetricsCollector interface {
	// TaskProcessed records one dispatched task reaching a terminal state.
	TaskProcessed(taskType, status string, duration time.Duration)

	// TokenRefreshed records one token refresh attempt. outcome is
	// "ok" or "error".
	TokenRefreshed(outcome string)

	// HTTPRequest records one handled HTTP request.
	HTTPRequest(method, path string, status int)
}
