package domain

import "time"

// UserCredential stores the OAuth tokens for one external user who has
// authorized the agent. One record exists per user, keyed by the provider's
// stable user id, with a secondary email index for email-based lookups.
type UserCredential struct {
	// UserID is the provider's stable identifier for the account.
	UserID string `json:"user_id"`

	// Email is the account email, used as a secondary lookup key.
	Email string `json:"email"`

	// AccessToken is the short-lived bearer token for API access.
	AccessToken string `json:"access_token"`

	// RefreshToken is the long-lived token used to obtain new access tokens.
	// It is issued once per authorization and never changes on refresh.
	RefreshToken string `json:"refresh_token"`

	// ExpiresAt is the access token expiry in epoch milliseconds.
	// Zero means the expiry is unknown.
	ExpiresAt int64 `json:"expires_at,omitempty"`

	// Scopes are the permission strings granted by the user.
	Scopes []string `json:"scopes,omitempty"`

	// CreatedAt is when the authorization was completed.
	CreatedAt time.Time `json:"created_at"`
	// UpdatedAt is when the tokens were last written.
	UpdatedAt time.Time `json:"updated_at"`
}

// Expiry returns the access token expiry as a time.Time.
// The zero time is returned when the expiry is unknown.
func (c *UserCredential) Expiry() time.Time {
	if c.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.UnixMilli(c.ExpiresAt)
}

// IsExpired returns true if the access token expires within the given buffer.
// An unknown expiry is treated as expired so callers refresh before use.
func (c *UserCredential) IsExpired(buffer time.Duration) bool {
	if c.AccessToken == "" {
		return true
	}
	if c.ExpiresAt == 0 {
		return true
	}
	return time.Until(c.Expiry()) < buffer
}

// HasRefreshToken returns true if a refresh token is available.
func (c *UserCredential) HasRefreshToken() bool {
	return c.RefreshToken != ""
}

// Sanitized returns a copy with token material blanked, safe for listing
// surfaces and logs.
func (c *UserCredential) Sanitized() UserCredential {
	out := *c
	out.AccessToken = ""
	out.RefreshToken = ""
	return out
}

// TokenSet is the result of an authorization-code exchange or a token
// refresh, before it is folded into a UserCredential.
type TokenSet struct {
	// AccessToken is the new bearer token.
	AccessToken string
	// RefreshToken is set only when the authorization server issued one,
	// which for code exchanges requires offline access with forced consent.
	RefreshToken string
	// TokenType is typically "Bearer".
	TokenType string
	// Scopes are the granted permission strings.
	Scopes []string
	// Expiry is when the access token expires.
	Expiry time.Time
}

// UserInfo identifies the account behind an access token.
type UserInfo struct {
	// ID is the provider's stable user identifier.
	ID string `json:"id"`
	// Email is the account email address.
	Email string `json:"email"`
	// VerifiedEmail indicates whether the provider verified the address.
	VerifiedEmail bool `json:"verified_email"`
	// Name is the display name.
	Name string `json:"name"`
	// Picture is the avatar URL.
	Picture string `json:"picture"`
}

// PendingAuthorization is the short-lived record created when an
// authorization flow starts. It binds the state parameter to the PKCE
// verifier and expires if the user never completes the flow.
type PendingAuthorization struct {
	// State is the opaque anti-forgery value carried through the redirect.
	State string `json:"state"`
	// CodeVerifier is the PKCE verifier whose challenge was sent along.
	CodeVerifier string `json:"code_verifier"`
	// CreatedAt is when the flow was started.
	CreatedAt time.Time `json:"created_at"`
}
