package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/foliolabs/folio/internal/core/domain"
	"github.com/foliolabs/folio/internal/core/ports/driven"
	"github.com/foliolabs/folio/internal/core/ports/driving"
)

// Ensure DispatchService implements the interface.
var _ driving.TaskService = (*DispatchService)(nil)

// Task-type namespace prefixes eligible for the conversational fallback.
// A delegating caller can send a loosely-typed task under either prefix and
// still get a best-effort natural-language response instead of a rejection.
const (
	resourcePrefix    = "google:"
	genericTaskPrefix = "task:"
)

// DispatchService routes task requests to capability handlers, enforces the
// timeout budget, and normalizes every outcome into one TaskResponse shape.
// Handler failures never escape as errors; they become terminal statuses.
type DispatchService struct {
	registry *CapabilityRegistry
	clients  driving.ClientService
	metrics  driven.MetricsCollector
	logger   *slog.Logger

	defaultTimeout time.Duration
	processed      atomic.Uint64
}

// NewDispatchService creates the task dispatcher. defaultTimeout bounds
// handlers when a request carries no timeout; non-positive values fall back
// to the built-in default. metrics may be nil.
func NewDispatchService(
	registry *CapabilityRegistry,
	clients driving.ClientService,
	defaultTimeout time.Duration,
	metrics driven.MetricsCollector,
	logger *slog.Logger,
) *DispatchService {
	if defaultTimeout <= 0 {
		defaultTimeout = domain.DefaultTaskTimeoutMs * time.Millisecond
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &DispatchService{
		registry:       registry,
		clients:        clients,
		metrics:        metrics,
		logger:         logger,
		defaultTimeout: defaultTimeout,
	}
}

// handlerResult carries one handler outcome across the timeout race.
type handlerResult struct {
	output map[string]any
	err    error
}

// Dispatch resolves the request to a capability and executes it against the
// acting user's client, racing the handler against the timeout budget. Every
// path produces exactly one response, one counter increment and one summary
// log event.
//
// The state machine is: received, resolving-capability, then rejected or
// executing, then completed, failed or timeout.
func (s *DispatchService) Dispatch(ctx context.Context, req domain.TaskRequest) domain.TaskResponse {
	start := time.Now()
	s.fillDefaults(&req)

	handle, ok := s.registry.Resolve(req.Type)
	if !ok {
		if !fallbackEligible(req.Type) {
			return s.finish(start, req, domain.TaskResponse{
				TaskID: req.TaskID,
				Status: domain.TaskStatusRejected,
				Error: &domain.TaskError{
					Code: domain.ErrorCodeUnknownTaskType,
					Message: fmt.Sprintf("no capability registered for %q; registered: %s",
						req.Type, strings.Join(s.registry.Types(), ", ")),
				},
			})
		}
		// Loosely-typed task under a known prefix: hand it to the
		// conversational capability with the description merged in.
		handle, _ = s.registry.Resolve(domain.TaskTypeChat)
		if req.Description != "" && inputString(req.Input, "message") == "" {
			if req.Input == nil {
				req.Input = make(map[string]any, 1)
			}
			req.Input["message"] = req.Description
		}
	}

	client, resp := s.resolveClient(ctx, req)
	if resp != nil {
		return s.finish(start, req, *resp)
	}

	timeout := time.Duration(req.TimeoutMs) * time.Millisecond
	execCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	// Buffered so the losing handler can deliver its result after the
	// deadline without leaking a goroutine blocked on send.
	results := make(chan handlerResult, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				results <- handlerResult{err: fmt.Errorf("handler panic: %v", r)}
			}
		}()
		output, err := handle(execCtx, client, req)
		results <- handlerResult{output: output, err: err}
	}()

	select {
	case <-execCtx.Done():
		// The handler keeps running in the background; its result is
		// discarded. The underlying network call is not cancelled beyond
		// the context the handler chooses to honor.
		return s.finish(start, req, domain.TaskResponse{
			TaskID: req.TaskID,
			Status: domain.TaskStatusTimeout,
			Error: &domain.TaskError{
				Code:    domain.ErrorCodeTimeout,
				Message: fmt.Sprintf("task did not complete within %dms", req.TimeoutMs),
			},
		})
	case res := <-results:
		if res.err != nil {
			return s.finish(start, req, normalizeFailure(req.TaskID, res.err))
		}
		return s.finish(start, req, domain.TaskResponse{
			TaskID: req.TaskID,
			Status: domain.TaskStatusCompleted,
			Output: res.output,
		})
	}
}

// fillDefaults applies the request defaults: a generated task id, the
// conversational capability for a missing type, the description as the
// message payload when input is absent, and the timeout budget.
func (s *DispatchService) fillDefaults(req *domain.TaskRequest) {
	if req.TaskID == "" {
		req.TaskID = uuid.New().String()
	}
	if req.Type == "" {
		req.Type = domain.TaskTypeChat
	}
	if len(req.Input) == 0 && req.Description != "" {
		req.Input = map[string]any{"message": req.Description}
	}
	if req.TimeoutMs <= 0 {
		req.TimeoutMs = s.defaultTimeout.Milliseconds()
	}
}

// resolveClient resolves the acting user's document client. It returns a
// terminal response instead of a client when the user is missing, unknown,
// or resolution fails.
func (s *DispatchService) resolveClient(ctx context.Context, req domain.TaskRequest) (driven.DocsClient, *domain.TaskResponse) {
	var (
		client driven.DocsClient
		ok     bool
		err    error
	)
	switch {
	case req.UserID() != "":
		client, ok, err = s.clients.GetForUser(ctx, req.UserID())
	case req.UserEmail() != "":
		client, ok, err = s.clients.GetForEmail(ctx, req.UserEmail())
	default:
		return nil, &domain.TaskResponse{
			TaskID: req.TaskID,
			Status: domain.TaskStatusRejected,
			Error: &domain.TaskError{
				Code:    domain.ErrorCodeUserNotAuthorized,
				Message: "no acting user: set user_id or user_email in the task context",
			},
		}
	}
	if err != nil {
		return nil, &domain.TaskResponse{
			TaskID: req.TaskID,
			Status: domain.TaskStatusFailed,
			Error: &domain.TaskError{
				Code:    domain.ErrorCodeExecutionError,
				Message: fmt.Sprintf("resolving client: %v", err),
			},
		}
	}
	if !ok {
		return nil, &domain.TaskResponse{
			TaskID: req.TaskID,
			Status: domain.TaskStatusRejected,
			Error: &domain.TaskError{
				Code:    domain.ErrorCodeUserNotAuthorized,
				Message: "user has not authorized this agent; complete the authorization flow first",
			},
		}
	}
	return client, nil
}

// normalizeFailure maps a handler error onto a terminal response. Failures
// whose message mentions a timeout are classified as timeouts regardless of
// where they came from, so a deadline hit inside a network call reports the
// same status as the dispatcher's own timer.
func normalizeFailure(taskID string, err error) domain.TaskResponse {
	status := domain.TaskStatusFailed
	code := domain.ErrorCodeExecutionError
	if strings.Contains(strings.ToLower(err.Error()), "timeout") {
		status = domain.TaskStatusTimeout
		code = domain.ErrorCodeTimeout
	}
	return domain.TaskResponse{
		TaskID: taskID,
		Status: status,
		Error:  &domain.TaskError{Code: code, Message: err.Error()},
	}
}

// finish stamps the execution time, counts the task, and emits the summary
// event. Every dispatch path funnels through here exactly once.
func (s *DispatchService) finish(start time.Time, req domain.TaskRequest, resp domain.TaskResponse) domain.TaskResponse {
	elapsed := time.Since(start)
	resp.ExecutionTimeMs = elapsed.Milliseconds()
	s.processed.Add(1)

	if s.metrics != nil {
		s.metrics.TaskProcessed(req.Type, string(resp.Status), elapsed)
	}
	s.logger.Info("task processed",
		slog.String("task_id", resp.TaskID),
		slog.String("type", req.Type),
		slog.String("status", string(resp.Status)),
		slog.Int64("duration_ms", resp.ExecutionTimeMs))

	return resp
}

// Capabilities lists the registered capability set.
func (s *DispatchService) Capabilities() []domain.CapabilityInfo {
	return s.registry.List()
}

// TasksProcessed returns how many tasks reached a terminal state since the
// process started.
func (s *DispatchService) TasksProcessed() uint64 {
	return s.processed.Load()
}

// fallbackEligible reports whether an unregistered task type may fall back
// to the conversational capability.
func fallbackEligible(taskType string) bool {
	return strings.HasPrefix(taskType, resourcePrefix) ||
		strings.HasPrefix(taskType, genericTaskPrefix)
}
