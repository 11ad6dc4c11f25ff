package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/foliolabs/folio/internal/core/domain"
	"github.com/foliolabs/folio/internal/core/ports/driven"
)

// Ensure IdentityClient implements the interface.
var _ driven.IdentityClient = (*IdentityClient)(nil)

// IdentityClient resolves the account behind an access token via the
// provider's userinfo endpoint.
type IdentityClient struct {
	userInfoURL string
	client      *http.Client
}

// NewIdentityClient creates an identity client for the given userinfo
// endpoint.
func NewIdentityClient(userInfoURL string) *IdentityClient {
	return &IdentityClient{
		userInfoURL: userInfoURL,
		client:      &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchUserInfo returns the stable user id and email for the token.
func (c *IdentityClient) FetchUserInfo(ctx context.Context, accessToken string) (*domain.UserInfo, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.userInfoURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch user info: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("user info request failed with status %d", resp.StatusCode)
	}

	var info domain.UserInfo
	if err := json.NewDecoder(resp.Body).Decode(&info); err != nil {
		return nil, fmt.Errorf("decode user info: %w", err)
	}

	return &info, nil
}
