package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"quartermaster/internal/dashboard"
	"quartermaster/internal/policy"
	"quartermaster/internal/store"
)

// jsonResponse writes a JSON response with the given status code.
func jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("encoding response", "error", err)
		}
	}
}

// jsonError writes a JSON error response.
func jsonError(w http.ResponseWriter, status int, message string) {
	jsonResponse(w, status, map[string]string{"error": message})
}

// writeDomainError maps the error taxonomy onto HTTP statuses: validation
// and precondition failures are the caller's fault (400), authorization
// failures are forbidden (403), anything else is internal.
func writeDomainError(w http.ResponseWriter, err error) {
	var ve *store.ValidationError
	if errors.As(err, &ve) {
		jsonError(w, http.StatusBadRequest, ve.Reason)
		return
	}
	var ae *policy.AuthorizationError
	if errors.As(err, &ae) {
		jsonError(w, http.StatusForbidden, ae.Reason)
		return
	}
	var pe *dashboard.PreconditionError
	if errors.As(err, &pe) {
		jsonError(w, http.StatusBadRequest, pe.Reason)
		return
	}
	slog.Error("internal error", "error", err)
	jsonError(w, http.StatusInternalServerError, "internal error")
}

// decodeJSON decodes a JSON request body into the given target.
func decodeJSON(r *http.Request, target any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(target)
}

// parseDate parses a calendar date, accepting date-only or RFC 3339 input.
func parseDate(s string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid date %q, want YYYY-MM-DD", s)
}
