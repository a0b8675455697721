package feedbackapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"wardops.org/internal/auth"
	"wardops.org/internal/httpapi"
)

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, code int, msg string) {
	payload := map[string]any{
		"error": msg,
	}
	if rid := httpapi.RequestIDFromContext(r.Context()); rid != "" {
		payload["request_id"] = rid
	}
	writeJSON(w, code, payload)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	reader := http.MaxBytesReader(w, r.Body, 1<<20)
	defer reader.Close()
	dec := json.NewDecoder(reader)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return errors.New("request body is required")
		}
		return err
	}
	return nil
}

// handleAuthError maps auth errors onto HTTP statuses. Same split as the
// auth service: authentication 401, authorization 403, infrastructure 500
// with a generic body.
func handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		writeError(w, r, http.StatusForbidden, "missing credentials")
	case errors.Is(err, auth.ErrInvalidScheme):
		writeError(w, r, http.StatusUnauthorized, "invalid authorization scheme")
	case errors.Is(err, auth.ErrTokenExpired):
		writeError(w, r, http.StatusUnauthorized, "token expired")
	case errors.Is(err, auth.ErrUsernameMismatch):
		writeError(w, r, http.StatusUnauthorized, "username mismatch")
	case errors.Is(err, auth.ErrInvalidToken):
		writeError(w, r, http.StatusUnauthorized, "invalid token")
	case errors.Is(err, auth.ErrUserInactive):
		writeError(w, r, http.StatusForbidden, "account locked")
	case errors.Is(err, auth.ErrInsufficientPermissions):
		writeError(w, r, http.StatusForbidden, "insufficient permissions")
	case errors.Is(err, auth.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, "invalid request")
	case errors.Is(err, auth.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, auth.ErrAuthServiceUnreachable), errors.Is(err, auth.ErrSchemaMismatch):
		writeError(w, r, http.StatusInternalServerError, "authorization backend unavailable")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
