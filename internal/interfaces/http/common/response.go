package common

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/bizbranches/api/internal/application"
	"github.com/bizbranches/api/internal/domain"
)

// Every response carries an "ok" flag: true with the payload merged in on
// success, false with a human-readable "error" on failure.

// WriteJSON serializes payload to JSON with status and logs on failure.
func WriteJSON(logger *log.Logger, w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil && logger != nil {
		logger.Printf("failed to encode JSON response: %v", err)
	}
}

// OK writes a success envelope. The payload keys sit next to the ok flag
// rather than nested under a wrapper key.
func OK(logger *log.Logger, w http.ResponseWriter, status int, payload map[string]any) {
	body := map[string]any{"ok": true}
	for k, v := range payload {
		body[k] = v
	}
	WriteJSON(logger, w, status, body)
}

// Fail writes a failure envelope.
func Fail(logger *log.Logger, w http.ResponseWriter, status int, message string) {
	WriteJSON(logger, w, status, map[string]any{"ok": false, "error": message})
}

// Error maps application errors onto the envelope. Validation failures list
// every offending field; unexpected errors hide their message when the
// server runs in production.
func Error(logger *log.Logger, w http.ResponseWriter, err error, production bool) {
	var validation *domain.ValidationError
	if errors.As(err, &validation) {
		WriteJSON(logger, w, http.StatusBadRequest, map[string]any{
			"ok":      false,
			"error":   "Validation failed",
			"details": validation.Fields,
		})
		return
	}

	switch {
	case errors.Is(err, application.ErrNotFound):
		Fail(logger, w, http.StatusNotFound, "Not found")
	case errors.Is(err, application.ErrInvalidStatus):
		Fail(logger, w, http.StatusBadRequest, "Invalid status")
	case errors.Is(err, application.ErrEmailTaken):
		Fail(logger, w, http.StatusConflict, "Email already registered")
	case errors.Is(err, application.ErrInvalidCredentials):
		Fail(logger, w, http.StatusUnauthorized, "Invalid email or password")
	default:
		if logger != nil {
			logger.Printf("internal error: %v", err)
		}
		message := "Internal server error"
		if !production {
			message = err.Error()
		}
		Fail(logger, w, http.StatusInternalServerError, message)
	}
}
