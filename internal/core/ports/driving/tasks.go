package driving

import (
	"context"

	"github.com/foliolabs/folio/internal/core/domain"
)

// TaskService routes task requests to capability handlers and normalizes
// every outcome into a TaskResponse. Dispatch never returns an error:
// rejections, timeouts, and handler failures are all terminal statuses on
// the response.
type TaskService interface {
	// Dispatch resolves the request to a capability, enforces the timeout
	// budget, and returns the normalized outcome.
	Dispatch(ctx context.Context, req domain.TaskRequest) domain.TaskResponse

	// Capabilities lists the registered capability set.
	Capabilities() []domain.CapabilityInfo

	// TasksProcessed returns the number of tasks this process has
	// dispatched to a terminal state.
	TasksProcessed() uint64
}
