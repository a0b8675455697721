package feedbackapi

import (
	"errors"
	"net/http"
	"strings"

	"wardops.org/internal/auth"
	"wardops.org/internal/obs"
)

const (
	authHeader     = "Authorization"
	usernameHeader = "X-Username"
)

// gated wraps a handler with remote authorization. The caller must present
// both the bearer token and the X-Username header; the remote gate
// cross-checks the two at the auth service.
func (a *API) gated(accepted []auth.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		username := strings.TrimSpace(r.Header.Get(usernameHeader))
		if username == "" {
			writeError(w, r, http.StatusBadRequest, "X-Username header is required")
			return
		}
		token, err := auth.ExtractBearer(r.Header.Get(authHeader))
		if err != nil {
			obs.ObserveAuthDecision("remote", "deny")
			handleAuthError(w, r, err)
			return
		}

		ctx := auth.ContextWithClaimedUsername(r.Context(), username)
		user, err := a.gate.Authorize(ctx, token, accepted...)
		if err != nil {
			obs.ObserveAuthDecision("remote", gateOutcome(err))
			handleAuthError(w, r, err)
			return
		}
		obs.ObserveAuthDecision("remote", "allow")

		ctx = auth.ContextWithPrincipal(ctx, user)
		ctx = auth.ContextWithToken(ctx, token)
		next(w, r.WithContext(ctx))
	}
}

func gateOutcome(err error) string {
	switch {
	case err == nil:
		return "allow"
	case errors.Is(err, auth.ErrAuthServiceUnreachable), errors.Is(err, auth.ErrSchemaMismatch):
		return "error"
	default:
		return "deny"
	}
}
