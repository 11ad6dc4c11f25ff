// Package mcp provides an MCP (Model Context Protocol) server adapter for
// Folio. It lets AI assistants act on users' documents through the same
// core services the task API uses.
package mcp

import "errors"

// Errors for missing required ports and bad tool arguments.
var (
	ErrMissingClientService = errors.New("mcp: client service is required")
	ErrMissingUserRef       = errors.New("mcp: user_id or user_email is required")
	ErrUserNotConnected     = errors.New("mcp: user has not connected an account")
)
