package auth

import (
	"context"
	"errors"
)

// Resolver translates a validated access token into a live user record.
// Nothing is cached between calls: a role change or account lock is
// observed on the very next request.
type Resolver struct {
	tokens *TokenService
	users  UserStore
}

func NewResolver(tokens *TokenService, users UserStore) *Resolver {
	return &Resolver{tokens: tokens, users: users}
}

// Resolve decodes the token, loads the subject's record and enforces the
// active flag. Token failures propagate unchanged.
func (r *Resolver) Resolve(ctx context.Context, accessToken string) (*User, error) {
	claims, err := r.tokens.Decode(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenKind != KindAccess {
		return nil, ErrWrongTokenKind
	}
	user, err := r.users.Find(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	if !user.Active {
		return nil, ErrUserInactive
	}
	return user, nil
}
