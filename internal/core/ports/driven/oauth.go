package driven

import (
	"context"

	"github.com/foliolabs/folio/internal/core/domain"
)

// TokenExchanger performs the network legs of the authorization-code flow
// against the provider's token endpoint.
type TokenExchanger interface {
	// Exchange trades a one-time authorization code for tokens.
	// codeVerifier is the PKCE verifier; empty disables PKCE.
	Exchange(ctx context.Context, code, codeVerifier string) (*domain.TokenSet, error)

	// Refresh obtains a new access token using a refresh token.
	// The returned set usually carries no refresh token; the stored
	// one remains valid.
	Refresh(ctx context.Context, refreshToken string) (*domain.TokenSet, error)
}

// IdentityClient resolves the account behind an access token.
type IdentityClient interface {
	// FetchUserInfo returns the stable user id and email for the token.
	FetchUserInfo(ctx context.Context, accessToken string) (*domain.UserInfo, error)
}
