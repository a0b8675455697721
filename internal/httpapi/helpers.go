package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"wardops.org/internal/auth"
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
	if rid := RequestIDFromContext(r.Context()); rid != "" {
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
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		if err == nil {
			return errors.New("unexpected data after JSON body")
		}
		return err
	}
	return nil
}

func methodNotAllowed(w http.ResponseWriter, r *http.Request, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
}

// handleAuthError maps the auth error taxonomy onto HTTP statuses.
// Authentication failures are 401, authorization failures 403, and
// infrastructure failures 500 with a generic message: internal error text
// never reaches the client.
func handleAuthError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, auth.ErrMissingCredentials):
		writeError(w, r, http.StatusForbidden, "missing credentials")
	case errors.Is(err, auth.ErrInvalidScheme):
		writeError(w, r, http.StatusUnauthorized, "invalid authorization scheme")
	case errors.Is(err, auth.ErrTokenExpired):
		writeError(w, r, http.StatusUnauthorized, "token expired")
	case errors.Is(err, auth.ErrInvalidSignature):
		writeError(w, r, http.StatusUnauthorized, "invalid token signature")
	case errors.Is(err, auth.ErrTokenRevoked):
		writeError(w, r, http.StatusUnauthorized, "token revoked")
	case errors.Is(err, auth.ErrWrongTokenKind):
		writeError(w, r, http.StatusUnauthorized, "wrong token kind")
	case errors.Is(err, auth.ErrMalformedToken),
		errors.Is(err, auth.ErrMissingSubject),
		errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrUserNotFound):
		writeError(w, r, http.StatusUnauthorized, "invalid token")
	case errors.Is(err, auth.ErrUsernameMismatch):
		writeError(w, r, http.StatusUnauthorized, "username mismatch")
	case errors.Is(err, auth.ErrInvalidCredentials):
		w.Header().Set("WWW-Authenticate", "Bearer")
		writeError(w, r, http.StatusUnauthorized, "incorrect username or password")
	case errors.Is(err, auth.ErrUserInactive):
		writeError(w, r, http.StatusForbidden, "account locked")
	case errors.Is(err, auth.ErrInsufficientPermissions):
		writeError(w, r, http.StatusForbidden, "insufficient permissions")
	case errors.Is(err, auth.ErrInvalidInput):
		writeError(w, r, http.StatusBadRequest, "invalid request")
	case errors.Is(err, auth.ErrAlreadyExists):
		writeError(w, r, http.StatusBadRequest, "already exists")
	case errors.Is(err, auth.ErrNotFound):
		writeError(w, r, http.StatusNotFound, "not found")
	case errors.Is(err, auth.ErrAuthServiceUnreachable), errors.Is(err, auth.ErrSchemaMismatch):
		writeError(w, r, http.StatusInternalServerError, "authorization backend unavailable")
	default:
		writeError(w, r, http.StatusInternalServerError, "internal error")
	}
}
