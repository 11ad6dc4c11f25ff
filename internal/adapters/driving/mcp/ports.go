package mcp

import (
	"github.com/foliolabs/folio/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Clients resolves per-user document-service clients.
	Clients driving.ClientService

	// Credentials backs the connected-users resource. Optional; the
	// resource answers an empty list when nil.
	Credentials driving.CredentialService
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Clients == nil {
		return ErrMissingClientService
	}
	return nil
}
