package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/foliolabs/folio/internal/core/domain"
)

// errorBody is the uniform error response shape, mirroring TaskError.
type errorBody struct {
	Error domain.TaskError `json:"error"`
}

func respondJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorBody{Error: domain.TaskError{Code: code, Message: message}})
}
