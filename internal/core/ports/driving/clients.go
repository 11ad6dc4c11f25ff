package driving

import (
	"context"

	"github.com/foliolabs/folio/internal/core/ports/driven"
)

// ClientService caches ready-to-call document-service clients per user id.
// Email lookups resolve to the user id first, so the id-keyed cache is the
// single source of truth with exactly one entry per user.
//
// Concurrent first-time lookups for the same user may both construct a
// client; that duplicate work is harmless and the cache keeps one of them.
type ClientService interface {
	// GetForUser returns the client for a user id, constructing and
	// caching one on first use. Returns (nil, false, nil) when the user
	// has no stored credential.
	GetForUser(ctx context.Context, userID string) (driven.DocsClient, bool, error)

	// GetForEmail resolves the email to a user id and delegates to
	// GetForUser. Returns (nil, false, nil) when the email is unknown.
	GetForEmail(ctx context.Context, email string) (driven.DocsClient, bool, error)

	// Invalidate drops the cached client for a user id. Called after
	// re-authorization and removal so a stale client is never reused.
	Invalidate(userID string)
}
