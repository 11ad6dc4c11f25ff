package google

import (
	"context"

	"golang.org/x/oauth2"
)

// TokenProvider supplies a live access token for one user, refreshing the
// stored credential first when needed. The credential service implements
// this.
type TokenProvider interface {
	AccessToken(ctx context.Context, userID string) (string, error)
}

// userTokenSource adapts a TokenProvider to oauth2.TokenSource for one
// user id. Google API clients call Token before each request, which routes
// every call through the credential service's refresh-and-persist path.
type userTokenSource struct {
	provider TokenProvider
	userID   string
	ctx      context.Context
}

// NewTokenSource creates an oauth2.TokenSource bound to one user. The
// returned TokenSource can be used with option.WithTokenSource() when
// creating Google API services.
func NewTokenSource(ctx context.Context, provider TokenProvider, userID string) oauth2.TokenSource {
	return &userTokenSource{
		provider: provider,
		userID:   userID,
		ctx:      ctx,
	}
}

// Token implements oauth2.TokenSource.
func (t *userTokenSource) Token() (*oauth2.Token, error) {
	accessToken, err := t.provider.AccessToken(t.ctx, t.userID)
	if err != nil {
		return nil, err
	}

	return &oauth2.Token{
		AccessToken: accessToken,
		TokenType:   "Bearer",
	}, nil
}
