package shared

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

type errorBody struct {
	Error string `json:"error"`
}

// RespondJSON writes v as a JSON response with the given status.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Default().Warn("encode response", slog.Any("error", err))
	}
}

// RespondError maps the shared error kinds to HTTP status codes and writes a
// JSON error body.
func RespondError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, ErrUnauthenticated), errors.Is(err, ErrInvalidCredentials):
		status = http.StatusUnauthorized
	case errors.Is(err, ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, ErrConflict):
		status = http.StatusConflict
	case errors.Is(err, ErrValidation):
		status = http.StatusUnprocessableEntity
	case errors.Is(err, ErrCSRFTokenMissing), errors.Is(err, ErrCSRFTokenMismatch):
		status = http.StatusForbidden
	}
	RespondJSON(w, status, errorBody{Error: err.Error()})
}
