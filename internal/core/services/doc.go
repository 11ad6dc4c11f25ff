// Package services implements the driving port interfaces.
// Services contain the core business logic and orchestrate
// calls to driven ports (adapters).
//
// Services depend on the port interfaces only; infrastructure stays
// behind the adapters that implement them.
package services
