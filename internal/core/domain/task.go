package domain

// Task type keys for the fixed capability set.
const (
	TaskTypeDocsCreate  = "google:docs:create"
	TaskTypeDocsRead    = "google:docs:read"
	TaskTypeDocsUpdate  = "google:docs:update"
	TaskTypeDocsAppend  = "google:docs:append"
	TaskTypeDocsList    = "google:docs:list"
	TaskTypeDriveSearch = "google:drive:search"
	TaskTypeChat        = "conversational"
)

// DefaultTaskTimeoutMs is applied when a request carries no timeout
// or a non-positive one.
const DefaultTaskTimeoutMs = 30000

// TaskStatus is the terminal state of a dispatched task.
type TaskStatus string

// Task statuses.
const (
	// TaskStatusCompleted means the handler returned a result.
	TaskStatusCompleted TaskStatus = "completed"
	// TaskStatusFailed means the handler returned an error.
	TaskStatusFailed TaskStatus = "failed"
	// TaskStatusTimeout means the handler did not finish within budget.
	TaskStatusTimeout TaskStatus = "timeout"
	// TaskStatusRejected means the task never started executing.
	TaskStatusRejected TaskStatus = "rejected"
)

// Wire error codes carried in TaskError and HTTP error bodies.
const (
	ErrorCodeUnknownTaskType     = "unknown_task_type"
	ErrorCodeTimeout             = "timeout"
	ErrorCodeExecutionError      = "execution_error"
	ErrorCodeUserNotAuthorized   = "user_not_authorized"
	ErrorCodeMissingRefreshToken = "missing_refresh_token"
	ErrorCodeMissingCode         = "missing_code"
	ErrorCodeOAuthError          = "oauth_error"
	ErrorCodeInvalidState        = "invalid_state"
	ErrorCodeTokenExchange       = "token_exchange_failed"
	ErrorCodeInvalidRequest      = "invalid_request"
	ErrorCodeInternal            = "internal_error"
)

// Context keys recognized inside TaskRequest.Context.
const (
	ContextKeyUserID    = "user_id"
	ContextKeyUserEmail = "user_email"
)

// TaskRequest is one unit of dispatchable work.
type TaskRequest struct {
	// TaskID is client-supplied; one is generated when absent.
	TaskID string `json:"task_id,omitempty"`

	// Type is the capability key, dot/colon-namespaced.
	// Defaults to the conversational capability when absent.
	Type string `json:"type,omitempty"`

	// Description is free-form text describing the work. It seeds the
	// input payload when no input is supplied.
	Description string `json:"description,omitempty"`

	// Input is the opaque payload handed to the capability handler.
	Input map[string]any `json:"input,omitempty"`

	// Context carries request metadata, including the acting user's
	// identity under "user_id" or "user_email".
	Context map[string]any `json:"context,omitempty"`

	// TimeoutMs bounds handler execution. Non-positive values fall back
	// to DefaultTaskTimeoutMs.
	TimeoutMs int64 `json:"timeout_ms,omitempty"`

	// FromAgent identifies a delegating caller. Passed through unchanged.
	FromAgent string `json:"from_agent,omitempty"`

	// DelegationChain records the delegation path. Passed through unchanged.
	DelegationChain []string `json:"delegation_chain,omitempty"`
}

// UserID returns the acting user id from the request context, if any.
func (r *TaskRequest) UserID() string {
	return contextString(r.Context, ContextKeyUserID)
}

// UserEmail returns the acting user email from the request context, if any.
func (r *TaskRequest) UserEmail() string {
	return contextString(r.Context, ContextKeyUserEmail)
}

// IsEmpty reports whether the request carries none of the fields that
// identify work to do.
func (r *TaskRequest) IsEmpty() bool {
	return r.TaskID == "" && r.Type == "" && r.Description == ""
}

func contextString(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

// TaskError describes why a task did not complete.
type TaskError struct {
	// Code is a stable machine-readable identifier.
	Code string `json:"code"`
	// Message is a human-readable explanation.
	Message string `json:"message"`
}

// TaskResponse is the normalized outcome of one dispatched task.
// Every dispatch produces exactly one, regardless of how it ended.
type TaskResponse struct {
	// TaskID echoes the request id, generated or not.
	TaskID string `json:"task_id"`

	// Status is the terminal state.
	Status TaskStatus `json:"status"`

	// Output is the handler result. Present only on completion.
	Output map[string]any `json:"output,omitempty"`

	// Error is set for every non-completed status.
	Error *TaskError `json:"error,omitempty"`

	// ExecutionTimeMs is wall-clock time from dispatch entry to
	// response construction.
	ExecutionTimeMs int64 `json:"execution_time_ms"`
}
