// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - KVStore: Credential and pending-authorization persistence
//   - TokenExchanger: Authorization-code exchange and token refresh
//   - IdentityClient: Account identity behind an access token
//   - DocsClientFactory: Per-user document-service client construction
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Free-form conversational handling. Without it, the
//     conversational capability falls back to keyword pattern matching.
//   - MetricsCollector: Telemetry emission. A no-op collector is used
//     when none is configured.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or connector package
package driven
