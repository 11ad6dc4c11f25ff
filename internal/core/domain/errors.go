package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrLLMUnavailable indicates no language model collaborator is configured.
	// Free-form conversational tasks degrade to pattern matching without one.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// Authorization Errors.

	// ErrMissingRefreshToken indicates a code exchange returned no refresh token.
	// The user must revoke the app's access and authorize again so consent is
	// re-prompted and a refresh token is issued.
	ErrMissingRefreshToken = errors.New("authorization yielded no refresh token")

	// ErrUserNotAuthorized indicates no stored credential exists for the user.
	ErrUserNotAuthorized = errors.New("user not authorized")

	// ErrMissingCode indicates an authorization callback carried no code.
	ErrMissingCode = errors.New("authorization code missing")

	// ErrOAuthDenied indicates the authorization server reported an error,
	// typically because the user denied consent.
	ErrOAuthDenied = errors.New("authorization denied")

	// ErrInvalidState indicates the callback state did not match a pending
	// authorization. The flow must be restarted.
	ErrInvalidState = errors.New("authorization state invalid or expired")

	// ErrTokenExchangeFailed indicates the code-for-token exchange call failed.
	ErrTokenExchangeFailed = errors.New("token exchange failed")

	// ErrTokenRefreshFailed indicates token refresh operation failed.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// Task Errors.

	// ErrUnknownTaskType indicates no capability is registered for a task type
	// and the type is not eligible for the conversational fallback.
	ErrUnknownTaskType = errors.New("unknown task type")

	// ErrTaskTimeout indicates a task handler did not complete within budget.
	ErrTaskTimeout = errors.New("task timed out")

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")
)
