package driving

import (
	"context"

	"github.com/foliolabs/folio/internal/core/domain"
)

// CredentialService owns the per-user OAuth credential lifecycle: the
// authorization-code exchange, token persistence, silent refresh, and
// removal. Absence of a credential is reported as a boolean, not an error;
// "not yet authorized" is a normal state.
type CredentialService interface {
	// BuildAuthorizationURL returns the provider consent URL for the given
	// state. It is deterministic for a fixed configuration and always
	// requests offline access with forced consent, so a refresh token is
	// issued even for users who granted access before.
	BuildAuthorizationURL(state string) string

	// BeginAuthorization starts a flow: it generates a state value and a
	// PKCE verifier, persists them as a pending authorization with a TTL,
	// and returns the consent URL to redirect the user to.
	BeginAuthorization(ctx context.Context) (authURL, state string, err error)

	// CompleteAuthorization exchanges the one-time code for tokens,
	// resolves the account identity, and persists the credential under
	// both the primary key and the email index.
	//
	// Fails with domain.ErrMissingRefreshToken, persisting nothing, when
	// the exchange yields no refresh token.
	CompleteAuthorization(ctx context.Context, code, state string) (*domain.UserCredential, error)

	// Credential loads the stored credential for a user id.
	// Returns (nil, false, nil) when none exists.
	Credential(ctx context.Context, userID string) (*domain.UserCredential, bool, error)

	// ResolveEmail maps an email to a user id via the index.
	// Returns ("", false, nil) when the index has no entry.
	ResolveEmail(ctx context.Context, email string) (string, bool, error)

	// HasUser reports whether a credential exists for the user id.
	HasUser(ctx context.Context, userID string) (bool, error)

	// HasUserByEmail reports whether the email index resolves to a user.
	HasUserByEmail(ctx context.Context, email string) (bool, error)

	// RemoveUser deletes the credential and its email index entry and
	// evicts any cached client. Removing an unknown user is not an error.
	RemoveUser(ctx context.Context, userID string) error

	// ListUsers returns all stored credentials.
	ListUsers(ctx context.Context) ([]domain.UserCredential, error)

	// AccessToken returns a live access token for the user, refreshing
	// and re-persisting the credential first when it is expired or about
	// to expire. Returns domain.ErrUserNotAuthorized when no credential
	// exists.
	AccessToken(ctx context.Context, userID string) (string, error)
}
