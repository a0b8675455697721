package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind distinguishes access tokens from refresh tokens. The kind is
// embedded in the token itself and checked on every decode path, so a
// refresh token can never stand in for an access token (or vice versa).
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

const (
	defaultAccessTTL  = 30 * time.Minute
	defaultRefreshTTL = 7 * 24 * time.Hour
)

// Claims are the verified token claims. Tokens stay minimal: role and scope
// are re-resolved from the store on every request, never read from here.
type Claims struct {
	TokenKind TokenKind `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenService issues and validates signed, time-bounded tokens.
type TokenService struct {
	secret      []byte
	issuer      string
	accessTTL   time.Duration
	refreshTTL  time.Duration
	now         func() time.Time
	revocations RevocationList
}

// TokenOption configures TokenService behavior.
type TokenOption func(*TokenService) error

// WithIssuer overrides the token issuer claim.
func WithIssuer(issuer string) TokenOption {
	return func(s *TokenService) error {
		s.issuer = strings.TrimSpace(issuer)
		return nil
	}
}

// WithAccessTTL configures the default access token lifetime.
func WithAccessTTL(ttl time.Duration) TokenOption {
	return func(s *TokenService) error {
		if ttl > 0 {
			s.accessTTL = ttl
		}
		return nil
	}
}

// WithRefreshTTL configures the default refresh token lifetime.
func WithRefreshTTL(ttl time.Duration) TokenOption {
	return func(s *TokenService) error {
		if ttl > 0 {
			s.refreshTTL = ttl
		}
		return nil
	}
}

// WithClock overrides the time source (useful for tests).
func WithClock(fn func() time.Time) TokenOption {
	return func(s *TokenService) error {
		if fn != nil {
			s.now = fn
		}
		return nil
	}
}

// WithRevocationList enables logout-before-expiry: revoked token IDs are
// rejected during decode until their natural expiration.
func WithRevocationList(list RevocationList) TokenOption {
	return func(s *TokenService) error {
		s.revocations = list
		return nil
	}
}

// NewTokenService constructs a TokenService signing with HS256.
func NewTokenService(secret string, opts ...TokenOption) (*TokenService, error) {
	if strings.TrimSpace(secret) == "" {
		return nil, errors.New("auth: signing secret is required")
	}
	s := &TokenService{
		secret:     []byte(secret),
		issuer:     "wardops-auth",
		accessTTL:  defaultAccessTTL,
		refreshTTL: defaultRefreshTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Issue signs a token for the subject. ttl <= 0 uses the configured default
// for the kind.
func (s *TokenService) Issue(subjectID string, kind TokenKind, ttl time.Duration) (string, time.Time, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return "", time.Time{}, fmt.Errorf("%w: subject is required", ErrInvalidInput)
	}
	switch kind {
	case KindAccess:
		if ttl <= 0 {
			ttl = s.accessTTL
		}
	case KindRefresh:
		if ttl <= 0 {
			ttl = s.refreshTTL
		}
	default:
		return "", time.Time{}, fmt.Errorf("%w: unknown token kind %q", ErrInvalidInput, kind)
	}

	now := s.now().UTC()
	exp := now.Add(ttl)
	claims := Claims{
		TokenKind: kind,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.issuer,
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
			ID:        uuid.NewString(),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, exp, nil
}

// Decode verifies signature, expiry, issuer and subject, and consults the
// revocation list when one is configured.
func (s *TokenService) Decode(ctx context.Context, token string) (*Claims, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMalformedToken
	}
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(func() time.Time { return s.now().UTC() }),
		jwt.WithIssuer(s.issuer),
		jwt.WithIssuedAt(),
	)
	parsed, err := parser.ParseWithClaims(token, &Claims{}, func(*jwt.Token) (any, error) {
		return s.secret, nil
	})
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, ErrInvalidSignature
		default:
			return nil, ErrMalformedToken
		}
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrMalformedToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrMissingSubject
	}
	if s.revocations != nil && claims.ID != "" {
		revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
		if err != nil {
			return nil, fmt.Errorf("revocation lookup: %w", err)
		}
		if revoked {
			return nil, ErrTokenRevoked
		}
	}
	return claims, nil
}

// Refresh exchanges a valid refresh token for a fresh access token. The
// presented token must actually be of kind refresh; an access token replayed
// here is rejected instead of minting further access tokens.
func (s *TokenService) Refresh(ctx context.Context, refreshToken string) (string, time.Time, error) {
	claims, err := s.Decode(ctx, refreshToken)
	if err != nil {
		return "", time.Time{}, err
	}
	if claims.TokenKind != KindRefresh {
		return "", time.Time{}, ErrWrongTokenKind
	}
	return s.Issue(claims.Subject, KindAccess, 0)
}

// Revoke parks the token's ID in the revocation list until its natural
// expiry. Revoking an already expired token is a no-op. Without a configured
// revocation list this reports ErrNotFound so callers can surface the gap.
func (s *TokenService) Revoke(ctx context.Context, token string) error {
	if s.revocations == nil {
		return fmt.Errorf("%w: no revocation list configured", ErrNotFound)
	}
	claims, err := s.Decode(ctx, token)
	if errors.Is(err, ErrTokenExpired) {
		return nil
	}
	if err != nil {
		return err
	}
	if claims.ID == "" {
		return ErrMalformedToken
	}
	ttl := claims.ExpiresAt.Time.Sub(s.now().UTC())
	if ttl <= 0 {
		return nil
	}
	return s.revocations.Revoke(ctx, claims.ID, ttl)
}
