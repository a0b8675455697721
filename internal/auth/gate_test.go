package auth

import (
	"context"
	"errors"
	"testing"
)

func seedGate(t *testing.T, users ...*User) (*LocalGate, *TokenService, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore(users...)
	tokens := newTestTokens(t)
	gate := NewLocalGate(NewResolver(tokens, store))
	return gate, tokens, store
}

func issueFor(t *testing.T, tokens *TokenService, userID string) string {
	t.Helper()
	token, _, err := tokens.Issue(userID, KindAccess, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	return token
}

func TestLocalGateRoleEnforcement(t *testing.T) {
	admin := &User{ID: "u-admin", Username: "admin", Role: RoleAdmin, Active: true}
	citizen := &User{ID: "u-citizen", Username: "dan01", Role: RoleCitizen, Active: true}
	gate, tokens, _ := seedGate(t, admin, citizen)
	ctx := context.Background()

	got, err := gate.Authorize(ctx, issueFor(t, tokens, admin.ID), RoleAdmin)
	if err != nil {
		t.Fatalf("admin rejected: %v", err)
	}
	if got.ID != admin.ID {
		t.Fatalf("resolved wrong user %q", got.ID)
	}

	if _, err := gate.Authorize(ctx, issueFor(t, tokens, citizen.ID), RoleAdmin); !errors.Is(err, ErrInsufficientPermissions) {
		t.Fatalf("expected ErrInsufficientPermissions, got %v", err)
	}
}

func TestLocalGateEmptyAllowListAdmitsAnyRole(t *testing.T) {
	citizen := &User{ID: "u-citizen", Username: "dan01", Role: RoleCitizen, Active: true}
	gate, tokens, _ := seedGate(t, citizen)

	if _, err := gate.Authorize(context.Background(), issueFor(t, tokens, citizen.ID)); err != nil {
		t.Fatalf("empty allow-list should admit any valid identity: %v", err)
	}
}

func TestLocalGateLockedAccount(t *testing.T) {
	admin := &User{ID: "u-admin", Username: "admin", Role: RoleAdmin, Active: true}
	gate, tokens, store := seedGate(t, admin)
	ctx := context.Background()

	token := issueFor(t, tokens, admin.ID)
	if _, err := gate.Authorize(ctx, token, RoleAdmin); err != nil {
		t.Fatalf("Authorize before lock: %v", err)
	}

	// Lock after issuing. The still-valid token must stop working at once.
	if err := store.SetActive(ctx, admin.ID, false); err != nil {
		t.Fatalf("SetActive: %v", err)
	}
	if _, err := gate.Authorize(ctx, token, RoleAdmin); !errors.Is(err, ErrUserInactive) {
		t.Fatalf("expected ErrUserInactive, got %v", err)
	}
}

func TestLocalGateRejectsRefreshToken(t *testing.T) {
	admin := &User{ID: "u-admin", Username: "admin", Role: RoleAdmin, Active: true}
	gate, tokens, _ := seedGate(t, admin)

	refresh, _, err := tokens.Issue(admin.ID, KindRefresh, 0)
	if err != nil {
		t.Fatalf("Issue: %v", err)
	}
	if _, err := gate.Authorize(context.Background(), refresh, RoleAdmin); !errors.Is(err, ErrWrongTokenKind) {
		t.Fatalf("expected ErrWrongTokenKind, got %v", err)
	}
}

func TestLocalGateIdentifySkipsRoleCheck(t *testing.T) {
	citizen := &User{ID: "u-citizen", Username: "dan01", Role: RoleCitizen, Active: true}
	gate, tokens, _ := seedGate(t, citizen)

	got, err := gate.Identify(context.Background(), issueFor(t, tokens, citizen.ID))
	if err != nil {
		t.Fatalf("Identify: %v", err)
	}
	if got.Role != RoleCitizen {
		t.Fatalf("unexpected role %q", got.Role)
	}
}

func TestExtractBearer(t *testing.T) {
	cases := []struct {
		header  string
		want    string
		wantErr error
	}{
		{"Bearer abc.def.ghi", "abc.def.ghi", nil},
		{"bearer abc.def.ghi", "abc.def.ghi", nil},
		{"", "", ErrMissingCredentials},
		{"   ", "", ErrMissingCredentials},
		{"Basic dXNlcjpwYXNz", "", ErrInvalidScheme},
		{"abc.def.ghi", "", ErrInvalidScheme},
	}
	for _, tc := range cases {
		got, err := ExtractBearer(tc.header)
		if tc.wantErr != nil {
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("header %q: expected %v, got %v", tc.header, tc.wantErr, err)
			}
			continue
		}
		if err != nil {
			t.Fatalf("header %q: %v", tc.header, err)
		}
		if got != tc.want {
			t.Fatalf("header %q: got token %q", tc.header, got)
		}
	}
}
