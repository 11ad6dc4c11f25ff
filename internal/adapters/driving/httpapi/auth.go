package httpapi

import (
	"errors"
	"fmt"
	"html"
	"log/slog"
	"net/http"
	"time"

	"github.com/foliolabs/folio/internal/core/domain"
)

// stateCookieName holds the pending state for CSRF comparison on the
// callback. The pending-authorization record in the store is the source of
// truth; the cookie adds a browser-bound check on top.
const stateCookieName = "folio_oauth_state"

// stateCookieTTL matches the pending-authorization TTL.
const stateCookieTTL = 10 * time.Minute

// startAuthorization handles GET /auth/google: it begins a flow and
// redirects the user to the provider's consent page.
func (h *handler) startAuthorization(w http.ResponseWriter, r *http.Request) {
	authURL, state, err := h.creds.BeginAuthorization(r.Context())
	if err != nil {
		h.logger.Error("starting authorization", slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, domain.ErrorCodeInternal,
			"starting authorization failed")
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/auth/google",
		MaxAge:   int(stateCookieTTL.Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, authURL, http.StatusFound)
}

// completeAuthorization handles GET /auth/google/callback.
func (h *handler) completeAuthorization(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	if errParam := query.Get("error"); errParam != "" {
		respondError(w, http.StatusBadRequest, domain.ErrorCodeOAuthError,
			fmt.Sprintf("authorization denied: %s", errParam))
		return
	}

	code := query.Get("code")
	if code == "" {
		respondError(w, http.StatusBadRequest, domain.ErrorCodeMissingCode,
			"callback carried no authorization code")
		return
	}

	state := query.Get("state")
	if cookie, err := r.Cookie(stateCookieName); err == nil && cookie.Value != state {
		respondError(w, http.StatusBadRequest, domain.ErrorCodeInvalidState,
			"state does not match this browser's pending authorization")
		return
	}

	cred, err := h.creds.CompleteAuthorization(r.Context(), code, state)
	if err != nil {
		h.respondAuthorizationError(w, err)
		return
	}

	// Clear the state cookie; the flow is done.
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookieName,
		Path:   "/auth/google",
		MaxAge: -1,
	})

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, confirmationHTML(cred.Email))
}

func (h *handler) respondAuthorizationError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrMissingRefreshToken):
		respondError(w, http.StatusConflict, domain.ErrorCodeMissingRefreshToken,
			"authorization yielded no refresh token; revoke this app's access "+
				"at https://myaccount.google.com/permissions and authorize again")
	case errors.Is(err, domain.ErrInvalidState):
		respondError(w, http.StatusBadRequest, domain.ErrorCodeInvalidState,
			"authorization state is invalid or expired; restart the flow")
	case errors.Is(err, domain.ErrMissingCode):
		respondError(w, http.StatusBadRequest, domain.ErrorCodeMissingCode,
			"callback carried no authorization code")
	case errors.Is(err, domain.ErrTokenExchangeFailed):
		h.logger.Error("token exchange failed", slog.String("error", err.Error()))
		respondError(w, http.StatusBadGateway, domain.ErrorCodeTokenExchange,
			"exchanging the authorization code failed")
	default:
		h.logger.Error("completing authorization", slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, domain.ErrorCodeInternal,
			"completing authorization failed")
	}
}

func confirmationHTML(email string) string {
	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head><title>Folio - Connected</title></head>
<body style="font-family: sans-serif; text-align: center; padding-top: 4em;">
  <h1>Account connected</h1>
  <p>%s is now linked to Folio. You can close this window.</p>
</body>
</html>`, html.EscapeString(email))
}
