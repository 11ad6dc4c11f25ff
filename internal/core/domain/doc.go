// Package domain defines the core business entities for Folio.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - UserCredential: Per-user OAuth tokens and account identity
//   - TaskRequest/TaskResponse: One unit of dispatchable work and its outcome
//   - CapabilityInfo: A registered operation tasks can be routed to
//   - Document/DriveFile: Typed results of document-service calls
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
