package auth

import "errors"

// Token and credential failures. Everything in this group maps to HTTP 401
// at the API boundary.
var (
	ErrInvalidScheme      = errors.New("auth: invalid authorization scheme")
	ErrTokenExpired       = errors.New("auth: token expired")
	ErrInvalidSignature   = errors.New("auth: invalid token signature")
	ErrMalformedToken     = errors.New("auth: malformed token")
	ErrTokenRevoked       = errors.New("auth: token revoked")
	ErrWrongTokenKind     = errors.New("auth: wrong token kind")
	ErrMissingSubject     = errors.New("auth: token subject missing")
	ErrInvalidToken       = errors.New("auth: invalid token")
	ErrUserNotFound       = errors.New("auth: user not found")
	ErrUsernameMismatch   = errors.New("auth: username mismatch")
	ErrInvalidCredentials = errors.New("auth: incorrect username or password")
)

// Authorization failures for a structurally valid identity. HTTP 403.
var (
	ErrMissingCredentials      = errors.New("auth: missing credentials")
	ErrUserInactive            = errors.New("auth: account locked")
	ErrInsufficientPermissions = errors.New("auth: insufficient permissions")
)

// Infrastructure failures. HTTP 500, with a generic message; the underlying
// error text never reaches the client.
var (
	ErrAuthServiceUnreachable = errors.New("auth: auth service unreachable")
	ErrSchemaMismatch         = errors.New("auth: unexpected auth service response")
)

// Store-level errors.
var (
	ErrNotFound      = errors.New("auth: not found")
	ErrAlreadyExists = errors.New("auth: already exists")
	ErrInvalidInput  = errors.New("auth: invalid input")
)
