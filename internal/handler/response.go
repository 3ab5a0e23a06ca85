package handler

// RESPONSE HELPERS:
// Every handler sends JSON through these two functions, so every response —
// success or failure — has the same shape and headers. An error always
// looks like:
//
//	{"error": "not_found", "message": "snippet not found with id abc123"}
//
// and validation failures additionally name the rejected field:
//
//	{"error": "validation_error", "message": "unsupported language \"x\"", "field": "language"}

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/sakif/snippetbin/internal/apperror"
)

// ErrorResponse is the standard error format for all API endpoints.
type ErrorResponse struct {
	Error   string `json:"error"`           // machine-readable category
	Message string `json:"message"`         // human-readable description
	Field   string `json:"field,omitempty"` // for validation errors: which field
}

// writeJSON sends a JSON response with the given status code.
//
// Order matters: headers, then WriteHeader, then body. The first body byte
// flushes the headers — changes after that are silently dropped.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			// Headers are gone already; logging is all that's left.
			slog.Error("failed to encode JSON response", slog.String("error", err.Error()))
		}
	}
}

// writeError translates a domain error into an HTTP response.
//
// This is the ONLY place domain errors meet HTTP status codes. The service
// layer returns apperror values; errors.Is walks the wrapped chain to find
// the sentinel, errors.As extracts the message and field.
func writeError(w http.ResponseWriter, err error) {
	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status := http.StatusInternalServerError
		errorType := "internal_error"

		switch {
		case errors.Is(err, apperror.ErrValidation):
			status = http.StatusBadRequest
			errorType = "validation_error"
		case errors.Is(err, apperror.ErrNotFound):
			status = http.StatusNotFound
			errorType = "not_found"
		case errors.Is(err, apperror.ErrForbidden):
			status = http.StatusForbidden
			errorType = "forbidden"
		case errors.Is(err, apperror.ErrUnauthorized):
			status = http.StatusUnauthorized
			errorType = "unauthorized"
		case errors.Is(err, apperror.ErrConflict):
			status = http.StatusConflict
			errorType = "conflict"
		}

		writeJSON(w, status, ErrorResponse{
			Error:   errorType,
			Message: appErr.Message,
			Field:   appErr.Field,
		})
		return
	}

	// Unknown error → generic 500. The raw message stays out of the
	// response — it can contain SQL fragments or file paths.
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error:   "internal_error",
		Message: "An internal error occurred",
	})
}
