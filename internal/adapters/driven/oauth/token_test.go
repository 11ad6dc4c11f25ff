package oauth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTokenEndpoint returns a stub token endpoint recording the last form
// values it received.
func newTokenEndpoint(t *testing.T, status int, body map[string]any) (*httptest.Server, *map[string][]string) {
	t.Helper()
	var seen map[string][]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		seen = r.PostForm
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		require.NoError(t, json.NewEncoder(w).Encode(body))
	}))
	t.Cleanup(srv.Close)
	return srv, &seen
}

func TestExchanger_Exchange(t *testing.T) {
	srv, seen := newTokenEndpoint(t, http.StatusOK, map[string]any{
		"access_token":  "at-1",
		"refresh_token": "rt-1",
		"token_type":    "Bearer",
		"expires_in":    3600,
		"scope":         "docs drive",
	})

	ex := NewExchanger(Config{
		TokenURL:     srv.URL,
		ClientID:     "cid",
		ClientSecret: "secret",
		RedirectURI:  "http://localhost/callback",
	})

	set, err := ex.Exchange(context.Background(), "one-time-code", "verifier-42")
	require.NoError(t, err)

	assert.Equal(t, "at-1", set.AccessToken)
	assert.Equal(t, "rt-1", set.RefreshToken)
	assert.Equal(t, "Bearer", set.TokenType)
	assert.Equal(t, []string{"docs", "drive"}, set.Scopes)
	assert.WithinDuration(t, time.Now().Add(time.Hour), set.Expiry, 5*time.Second)

	form := *seen
	assert.Equal(t, "authorization_code", form["grant_type"][0])
	assert.Equal(t, "one-time-code", form["code"][0])
	assert.Equal(t, "verifier-42", form["code_verifier"][0])
	assert.Equal(t, "http://localhost/callback", form["redirect_uri"][0])
}

func TestExchanger_Exchange_NoPKCE(t *testing.T) {
	srv, seen := newTokenEndpoint(t, http.StatusOK, map[string]any{
		"access_token": "at-1",
	})

	ex := NewExchanger(Config{TokenURL: srv.URL, ClientID: "cid", ClientSecret: "s"})
	_, err := ex.Exchange(context.Background(), "code", "")
	require.NoError(t, err)

	_, present := (*seen)["code_verifier"]
	assert.False(t, present)
}

func TestExchanger_Refresh(t *testing.T) {
	srv, seen := newTokenEndpoint(t, http.StatusOK, map[string]any{
		"access_token": "at-2",
		"expires_in":   1800,
	})

	ex := NewExchanger(Config{TokenURL: srv.URL, ClientID: "cid", ClientSecret: "s"})
	set, err := ex.Refresh(context.Background(), "rt-1")
	require.NoError(t, err)

	assert.Equal(t, "at-2", set.AccessToken)
	// No refresh token in the refresh response; the stored one stays valid.
	assert.Empty(t, set.RefreshToken)

	form := *seen
	assert.Equal(t, "refresh_token", form["grant_type"][0])
	assert.Equal(t, "rt-1", form["refresh_token"][0])
}

func TestExchanger_ProviderError(t *testing.T) {
	srv, _ := newTokenEndpoint(t, http.StatusBadRequest, map[string]any{
		"error":             "invalid_grant",
		"error_description": "code already redeemed",
	})

	ex := NewExchanger(Config{TokenURL: srv.URL, ClientID: "cid", ClientSecret: "s"})
	_, err := ex.Exchange(context.Background(), "stale-code", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid_grant")
	assert.Contains(t, err.Error(), "code already redeemed")
}

func TestExchanger_NonJSONError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "backend down", http.StatusBadGateway)
	}))
	defer srv.Close()

	ex := NewExchanger(Config{TokenURL: srv.URL, ClientID: "cid", ClientSecret: "s"})
	_, err := ex.Exchange(context.Background(), "code", "")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 502")
}

func TestIdentityClient_FetchUserInfo(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer at-1", r.Header.Get("Authorization"))
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(map[string]any{
			"id":             "u1",
			"email":          "a@x.com",
			"verified_email": true,
			"name":           "Ada",
		})
	}))
	defer srv.Close()

	client := NewIdentityClient(srv.URL)
	info, err := client.FetchUserInfo(context.Background(), "at-1")
	require.NoError(t, err)

	assert.Equal(t, "u1", info.ID)
	assert.Equal(t, "a@x.com", info.Email)
	assert.True(t, info.VerifiedEmail)
}

func TestIdentityClient_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	client := NewIdentityClient(srv.URL)
	_, err := client.FetchUserInfo(context.Background(), "expired")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 401")
}
