package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/foliolabs/folio/internal/core/domain"
)

// listUsers handles GET /users. Token material is blanked before the
// records leave the process.
func (h *handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.creds.ListUsers(r.Context())
	if err != nil {
		h.logger.Error("listing users", slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, domain.ErrorCodeInternal,
			"listing users failed")
		return
	}

	sanitized := make([]domain.UserCredential, 0, len(users))
	for i := range users {
		sanitized = append(sanitized, users[i].Sanitized())
	}
	respondJSON(w, http.StatusOK, map[string]any{
		"users": sanitized,
		"count": len(sanitized),
	})
}

// removeUser handles DELETE /users/{userID}. Removal is idempotent, so an
// unknown user id still answers 204.
func (h *handler) removeUser(w http.ResponseWriter, r *http.Request) {
	userID := chi.URLParam(r, "userID")
	if err := h.creds.RemoveUser(r.Context(), userID); err != nil {
		h.logger.Error("removing user",
			slog.String("user_id", userID),
			slog.String("error", err.Error()))
		respondError(w, http.StatusInternalServerError, domain.ErrorCodeInternal,
			"removing user failed")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
