// Package oauth implements the token exchange and identity contracts
// against an OAuth 2.0 provider's HTTP endpoints.
package oauth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/foliolabs/folio/internal/core/domain"
	"github.com/foliolabs/folio/internal/core/ports/driven"
)

// Ensure Exchanger implements the interface.
var _ driven.TokenExchanger = (*Exchanger)(nil)

// requestTimeout bounds each token endpoint round trip.
const requestTimeout = 30 * time.Second

// Config holds the settings for the provider's token endpoint.
type Config struct {
	// TokenURL is the provider's token endpoint.
	TokenURL string
	// ClientID and ClientSecret identify the OAuth application.
	ClientID     string
	ClientSecret string
	// RedirectURI must match the one used to obtain the code.
	RedirectURI string
}

// Exchanger trades authorization codes and refresh tokens for access
// tokens at the provider's token endpoint.
type Exchanger struct {
	cfg    Config
	client *http.Client
}

// NewExchanger creates a token exchanger for the configured endpoint.
func NewExchanger(cfg Config) *Exchanger {
	return &Exchanger{
		cfg:    cfg,
		client: &http.Client{Timeout: requestTimeout},
	}
}

// tokenResponse is the provider's token endpoint response format.
type tokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	Scope        string `json:"scope"`
}

// Exchange trades a one-time authorization code for tokens.
// codeVerifier is the PKCE verifier; empty disables PKCE.
func (e *Exchanger) Exchange(ctx context.Context, code, codeVerifier string) (*domain.TokenSet, error) {
	data := url.Values{}
	data.Set("grant_type", "authorization_code")
	data.Set("client_id", e.cfg.ClientID)
	data.Set("client_secret", e.cfg.ClientSecret)
	data.Set("code", code)
	data.Set("redirect_uri", e.cfg.RedirectURI)
	if codeVerifier != "" {
		data.Set("code_verifier", codeVerifier)
	}
	return e.post(ctx, data)
}

// Refresh obtains a new access token using a refresh token. The response
// usually carries no refresh token; the stored one remains valid.
func (e *Exchanger) Refresh(ctx context.Context, refreshToken string) (*domain.TokenSet, error) {
	data := url.Values{}
	data.Set("grant_type", "refresh_token")
	data.Set("client_id", e.cfg.ClientID)
	data.Set("client_secret", e.cfg.ClientSecret)
	data.Set("refresh_token", refreshToken)
	return e.post(ctx, data)
}

func (e *Exchanger) post(ctx context.Context, data url.Values) (*domain.TokenSet, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.cfg.TokenURL, strings.NewReader(data.Encode()))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("token request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		var errResp struct {
			Error       string `json:"error"`
			Description string `json:"error_description"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&errResp); err == nil && errResp.Error != "" {
			return nil, fmt.Errorf("token error: %s - %s", errResp.Error, errResp.Description)
		}
		return nil, fmt.Errorf("token request failed with status %d", resp.StatusCode)
	}

	var tokenResp tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tokenResp); err != nil {
		return nil, fmt.Errorf("decode token response: %w", err)
	}

	set := &domain.TokenSet{
		AccessToken:  tokenResp.AccessToken,
		RefreshToken: tokenResp.RefreshToken,
		TokenType:    tokenResp.TokenType,
	}
	if tokenResp.ExpiresIn > 0 {
		set.Expiry = time.Now().Add(time.Duration(tokenResp.ExpiresIn) * time.Second)
	}
	if tokenResp.Scope != "" {
		set.Scopes = strings.Fields(tokenResp.Scope)
	}

	return set, nil
}
