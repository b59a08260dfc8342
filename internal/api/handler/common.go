package handler

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/bcnelson/stackex/internal/auth"
	"github.com/bcnelson/stackex/internal/domain"
	"github.com/bcnelson/stackex/internal/validation"
)

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		json.NewEncoder(w).Encode(data)
	}
}

// respondError writes a JSON error response.
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, &domain.ErrorResponse{Error: message})
}

// handleError converts domain errors to HTTP errors. fallback is the message
// shown for unexpected failures.
func handleError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		respondError(w, http.StatusNotFound, "not found")
	case errors.Is(err, domain.ErrInvalidInput):
		respondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		respondError(w, http.StatusUnauthorized, "sign in required")
	default:
		log.Printf("Request failed: %v", err)
		respondError(w, http.StatusInternalServerError, fallback)
	}
}

// decodeJSON decodes JSON from request body.
func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return err
		}
		return domain.ErrInvalidInput
	}
	return nil
}

// respondValidationErrors writes a JSON response for validation errors. The
// "error" field keeps the shape of every other API error.
func respondValidationErrors(w http.ResponseWriter, message string, errs validation.ValidationErrors) {
	respondJSON(w, http.StatusBadRequest, map[string]any{
		"error":  message,
		"errors": errs,
	})
}

// currentUserID returns the signed-in user id, or "" for anonymous requests.
func currentUserID(r *http.Request) string {
	if u, ok := auth.UserFromContext(r.Context()); ok {
		return u.ID
	}
	return ""
}
