package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/foliolabs/folio/internal/core/domain"
)

// dispatchTask handles POST /tasks. Every dispatch outcome, including
// rejections and timeouts, is a 200 with the normalized response; only a
// request the dispatcher never saw maps to an error status.
func (h *handler) dispatchTask(w http.ResponseWriter, r *http.Request) {
	var req domain.TaskRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, domain.ErrorCodeInvalidRequest,
			"request body is not valid JSON: "+err.Error())
		return
	}

	if req.IsEmpty() {
		respondError(w, http.StatusBadRequest, domain.ErrorCodeInvalidRequest,
			"request carries none of task_id, type or description")
		return
	}

	resp := h.tasks.Dispatch(r.Context(), req)

	status := http.StatusOK
	if resp.Error != nil && resp.Error.Code == domain.ErrorCodeUserNotAuthorized {
		status = http.StatusUnauthorized
	}

	respondJSON(w, status, resp)
}

// listCapabilities handles GET /capabilities.
func (h *handler) listCapabilities(w http.ResponseWriter, _ *http.Request) {
	capabilities := h.tasks.Capabilities()
	respondJSON(w, http.StatusOK, map[string]any{
		"capabilities": capabilities,
		"count":        len(capabilities),
	})
}
