package httpapi

import (
	"errors"
	"net/http"

	"wardops.org/internal/auth"
	"wardops.org/internal/obs"
)

const authHeader = "Authorization"

// gated wraps a handler with the authorization gate. The accepted roles are
// fixed here, at route registration time; the endpoint body never runs for
// a request that fails the gate.
func (a *API) gated(accepted []auth.Role, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.ExtractBearer(r.Header.Get(authHeader))
		if err != nil {
			obs.ObserveAuthDecision("local", "deny")
			handleAuthError(w, r, err)
			return
		}
		user, err := a.gate.Authorize(r.Context(), token, accepted...)
		if err != nil {
			obs.ObserveAuthDecision("local", gateOutcome(err))
			handleAuthError(w, r, err)
			return
		}
		obs.ObserveAuthDecision("local", "allow")

		ctx := auth.ContextWithPrincipal(r.Context(), user)
		ctx = auth.ContextWithToken(ctx, token)
		next(w, r.WithContext(ctx))
	}
}

// identified wraps a handler with token validation and identity resolution
// but no role filtering ("my own profile" endpoints).
func (a *API) identified(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token, err := auth.ExtractBearer(r.Header.Get(authHeader))
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		user, err := a.gate.Identify(r.Context(), token)
		if err != nil {
			handleAuthError(w, r, err)
			return
		}
		ctx := auth.ContextWithPrincipal(r.Context(), user)
		ctx = auth.ContextWithToken(ctx, token)
		next(w, r.WithContext(ctx))
	}
}

func gateOutcome(err error) string {
	switch {
	case err == nil:
		return "allow"
	case isInfraErr(err):
		return "error"
	default:
		return "deny"
	}
}

func isInfraErr(err error) bool {
	return err != nil && (errors.Is(err, auth.ErrAuthServiceUnreachable) || errors.Is(err, auth.ErrSchemaMismatch))
}
