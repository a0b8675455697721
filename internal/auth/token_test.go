package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newTestTokens(t *testing.T, opts ...TokenOption) *TokenService {
	t.Helper()
	svc, err := NewTokenService("test-secret", opts...)
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}
	return svc
}

func TestTokenIssueAndDecode(t *testing.T) {
	svc := newTestTokens(t)

	token, exp, err := svc.Issue("user-42", KindAccess, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if time.Until(exp) <= 0 {
		t.Fatalf("expected future expiry, got %v", exp)
	}

	claims, err := svc.Decode(context.Background(), token)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Fatalf("unexpected subject %q", claims.Subject)
	}
	if claims.TokenKind != KindAccess {
		t.Fatalf("unexpected kind %q", claims.TokenKind)
	}
	if claims.ID == "" {
		t.Fatal("token ID missing")
	}
}

func TestTokenExpiry(t *testing.T) {
	now := time.Now()
	clock := &now
	svc := newTestTokens(t, WithClock(func() time.Time { return *clock }))

	token, _, err := svc.Issue("user-42", KindAccess, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Decode(context.Background(), token); err != nil {
		t.Fatalf("Decode before expiry: %v", err)
	}

	later := now.Add(2 * time.Minute)
	clock = &later
	if _, err := svc.Decode(context.Background(), token); !errors.Is(err, ErrTokenExpired) {
		t.Fatalf("expected ErrTokenExpired, got %v", err)
	}
}

func TestTokenWrongSecret(t *testing.T) {
	issuer := newTestTokens(t)
	verifier, err := NewTokenService("other-secret")
	if err != nil {
		t.Fatalf("NewTokenService: %v", err)
	}

	token, _, err := issuer.Issue("user-42", KindAccess, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := verifier.Decode(context.Background(), token); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestTokenGarbage(t *testing.T) {
	svc := newTestTokens(t)
	for _, raw := range []string{"", "garbage", "a.b.c", "eyJhbGciOiJIUzI1NiJ9"} {
		if _, err := svc.Decode(context.Background(), raw); !errors.Is(err, ErrMalformedToken) {
			t.Fatalf("token %q: expected ErrMalformedToken, got %v", raw, err)
		}
	}
}

func TestRefreshRoundTrip(t *testing.T) {
	svc := newTestTokens(t)

	refresh, refreshExp, err := svc.Issue("user-42", KindRefresh, 0)
	if err != nil {
		t.Fatalf("Issue refresh: %v", err)
	}
	access, accessExp, err := svc.Refresh(context.Background(), refresh)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	claims, err := svc.Decode(context.Background(), access)
	if err != nil {
		t.Fatalf("Decode new access: %v", err)
	}
	if claims.Subject != "user-42" {
		t.Fatalf("subject not preserved: %q", claims.Subject)
	}
	if claims.TokenKind != KindAccess {
		t.Fatalf("refresh minted kind %q", claims.TokenKind)
	}
	if !refreshExp.After(accessExp) {
		t.Fatalf("refresh should outlive access: refresh %v access %v", refreshExp, accessExp)
	}
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	svc := newTestTokens(t)

	access, _, err := svc.Issue("user-42", KindAccess, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, _, err := svc.Refresh(context.Background(), access); !errors.Is(err, ErrWrongTokenKind) {
		t.Fatalf("expected ErrWrongTokenKind, got %v", err)
	}
}

func TestRevocationListRedis(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	list := NewRedisRevocationList(client)

	svc := newTestTokens(t, WithRevocationList(list))
	ctx := context.Background()

	token, _, err := svc.Issue("user-42", KindAccess, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Decode(ctx, token); err != nil {
		t.Fatalf("Decode before revoke: %v", err)
	}
	if err := svc.Revoke(ctx, token); err != nil {
		t.Fatalf("Revoke: %v", err)
	}
	if _, err := svc.Decode(ctx, token); !errors.Is(err, ErrTokenRevoked) {
		t.Fatalf("expected ErrTokenRevoked, got %v", err)
	}

	// The second token is untouched.
	other, _, err := svc.Issue("user-42", KindAccess, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := svc.Decode(ctx, other); err != nil {
		t.Fatalf("unrevoked token rejected: %v", err)
	}
}

func TestRevokeExpiredTokenNoop(t *testing.T) {
	now := time.Now()
	clock := &now
	svc := newTestTokens(t,
		WithClock(func() time.Time { return *clock }),
		WithRevocationList(NewMemoryRevocationList()),
	)

	token, _, err := svc.Issue("user-42", KindAccess, time.Minute)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	later := now.Add(time.Hour)
	clock = &later
	if err := svc.Revoke(context.Background(), token); err != nil {
		t.Fatalf("revoking an expired token should be a no-op, got %v", err)
	}
}
