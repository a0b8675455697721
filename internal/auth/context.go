package auth

import "context"

type principalContextKey struct{}
type tokenContextKey struct{}
type claimedUsernameContextKey struct{}

// ContextWithPrincipal attaches the authenticated user to the context.
func ContextWithPrincipal(ctx context.Context, user *User) context.Context {
	if user == nil {
		return ctx
	}
	cp := *user
	return context.WithValue(ctx, principalContextKey{}, &cp)
}

// PrincipalFromContext extracts the authenticated user from the context.
func PrincipalFromContext(ctx context.Context) (*User, bool) {
	if ctx == nil {
		return nil, false
	}
	v, ok := ctx.Value(principalContextKey{}).(*User)
	if !ok || v == nil {
		return nil, false
	}
	cp := *v
	return &cp, true
}

// ContextWithToken stores the raw bearer token inside the context.
func ContextWithToken(ctx context.Context, token string) context.Context {
	if token == "" {
		return ctx
	}
	return context.WithValue(ctx, tokenContextKey{}, token)
}

// TokenFromContext returns the bearer token if it was previously attached.
func TokenFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(tokenContextKey{}).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}

// ContextWithClaimedUsername stores the username the caller claims to be.
// The remote gate forwards it so the auth service can cross-check it against
// the token's resolved identity.
func ContextWithClaimedUsername(ctx context.Context, username string) context.Context {
	if username == "" {
		return ctx
	}
	return context.WithValue(ctx, claimedUsernameContextKey{}, username)
}

// ClaimedUsernameFromContext returns the caller-supplied username, if any.
func ClaimedUsernameFromContext(ctx context.Context) (string, bool) {
	if ctx == nil {
		return "", false
	}
	v, ok := ctx.Value(claimedUsernameContextKey{}).(string)
	if !ok || v == "" {
		return "", false
	}
	return v, true
}
