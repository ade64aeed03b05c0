// Package api holds the JSON envelope and error classification shared by
// the HTTP handlers.
package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/ayush/paper-studio/internal/llm"
	"github.com/ayush/paper-studio/internal/models"
	"github.com/ayush/paper-studio/internal/prompt"
	"github.com/ayush/paper-studio/internal/sections"
	"github.com/ayush/paper-studio/internal/store"
)

var (
	// ErrMissingParam marks a required request field that was absent or
	// blank.
	ErrMissingParam = errors.New("missing required parameter")

	// ErrInvalidParam marks a request field that was present but unusable.
	ErrInvalidParam = errors.New("invalid parameter")

	// ErrConflict marks a write that would clobber an existing resource.
	ErrConflict = errors.New("already exists")
)

// MissingParam reports that field was required but not supplied.
func MissingParam(field string) error {
	return fmt.Errorf("%w: %s", ErrMissingParam, field)
}

// InvalidParam reports that field could not be used.
func InvalidParam(field string, reason error) error {
	return fmt.Errorf("%w %s: %w", ErrInvalidParam, field, reason)
}

// StatusFor maps an error to its HTTP status.
func StatusFor(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrMissingParam),
		errors.Is(err, ErrInvalidParam),
		errors.Is(err, models.ErrInvalidNumber),
		errors.Is(err, store.ErrInvalidKey),
		errors.Is(err, prompt.ErrUnknownSection),
		errors.Is(err, prompt.ErrUnknownAction),
		errors.Is(err, prompt.ErrMissingInstruction),
		errors.Is(err, sections.ErrInvalidRegistry),
		errors.Is(err, llm.ErrMissingAPIKey):
		return http.StatusBadRequest
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// WriteJSON writes v as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Success writes {"status":"success"} merged with fields.
func Success(w http.ResponseWriter, fields map[string]any) {
	body := map[string]any{"status": "success"}
	for k, v := range fields {
		body[k] = v
	}
	WriteJSON(w, http.StatusOK, body)
}

// Error writes the error envelope with the status StatusFor picks.
// Server-side failures are logged; client errors are not.
func Error(w http.ResponseWriter, logger *zap.Logger, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logger.Error("request failed", zap.Error(err))
	}
	WriteJSON(w, status, map[string]string{
		"status":  "error",
		"message": err.Error(),
	})
}

// DecodeJSON reads a JSON request body into v.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return InvalidParam("request body", err)
	}
	return nil
}
