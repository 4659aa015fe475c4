package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/julianrazif/kanban-mono-repo/internal/common"
)

const internalErrorMessage = "Internal server error"

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Message string `json:"message"`
}

// WriteJSON writes v as a JSON body with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// StatusFor maps err onto an HTTP status and a client-safe message.
func StatusFor(err error) (int, string) {
	var authErr *common.AuthenticationError
	if errors.As(err, &authErr) {
		return http.StatusUnauthorized, authErr.Error()
	}

	var status int
	switch {
	case errors.Is(err, common.ErrorValidation), errors.Is(err, common.ErrorBadCredentials):
		status = http.StatusBadRequest
	case errors.Is(err, common.ErrorAccessDenied):
		status = http.StatusForbidden
	case errors.Is(err, common.ErrorNotFound):
		status = http.StatusNotFound
	case errors.Is(err, common.ErrorConflict):
		status = http.StatusConflict
	case errors.Is(err, common.ErrorUnavailable):
		status = http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError, internalErrorMessage
	}

	var e *common.Error
	if errors.As(err, &e) {
		return status, e.Message
	}
	return status, http.StatusText(status)
}

// WriteError writes err as {"message": ...} with its mapped status.
func WriteError(w http.ResponseWriter, err error) {
	status, msg := StatusFor(err)
	WriteJSON(w, status, ErrorResponse{Message: msg})
}

// Unauthorized is the entry point for requests without a principal.
func Unauthorized(w http.ResponseWriter, _ *http.Request) {
	WriteJSON(w, http.StatusUnauthorized, ErrorResponse{Message: http.StatusText(http.StatusUnauthorized)})
}
