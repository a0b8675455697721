package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"wardops.org/internal/audit"
)

// Audit action codes for privileged mutations on user records.
const (
	ActionCreateUser    = "CREATE_USER"
	ActionUpdateUser    = "UPDATE_USER"
	ActionResetPassword = "RESET_PASSWORD"
	ActionLockUser      = "LOCK_USER"
	ActionUnlockUser    = "UNLOCK_USER"
	ActionDeleteUser    = "DELETE_USER"

	auditEntityUser = "users"
)

const (
	usernameMinLen = 5
	usernameMaxLen = 25
	passwordMinLen = 8
	passwordMaxLen = 64
)

// Service is the high level authentication facade: credential checks, token
// issuance, identity validation for sibling services, and the audited user
// administration surface.
type Service struct {
	users    UserStore
	tokens   *TokenService
	resolver *Resolver
	recorder *audit.Recorder
}

func NewService(users UserStore, tokens *TokenService, recorder *audit.Recorder) *Service {
	return &Service{
		users:    users,
		tokens:   tokens,
		resolver: NewResolver(tokens, users),
		recorder: recorder,
	}
}

// Tokens exposes the underlying token service for gate construction.
func (s *Service) Tokens() *TokenService { return s.tokens }

// Resolver exposes the identity resolver for gate construction.
func (s *Service) Resolver() *Resolver { return s.resolver }

// Login authenticates the credentials and issues a fresh token pair.
// Locked accounts cannot log in.
func (s *Service) Login(ctx context.Context, username, password string) (TokenPair, *User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return TokenPair{}, nil, ErrInvalidCredentials
	}
	user, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return TokenPair{}, nil, ErrInvalidCredentials
		}
		return TokenPair{}, nil, err
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return TokenPair{}, nil, ErrInvalidCredentials
	}
	if !user.Active {
		return TokenPair{}, nil, ErrUserInactive
	}

	access, accessExp, err := s.tokens.Issue(user.ID, KindAccess, 0)
	if err != nil {
		return TokenPair{}, nil, err
	}
	refresh, refreshExp, err := s.tokens.Issue(user.ID, KindRefresh, 0)
	if err != nil {
		return TokenPair{}, nil, err
	}
	return TokenPair{
		AccessToken:      access,
		RefreshToken:     refresh,
		AccessExpiresAt:  accessExp,
		RefreshExpiresAt: refreshExp,
	}, user, nil
}

// Refresh exchanges a refresh token for a new access token.
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, error) {
	access, _, err := s.tokens.Refresh(ctx, refreshToken)
	return access, err
}

// Validate serves the cross-service /validate contract: it resolves the
// access token and cross-checks the caller-claimed username against the
// resolved identity.
func (s *Service) Validate(ctx context.Context, username, accessToken string) (*User, error) {
	user, err := s.resolver.Resolve(ctx, accessToken)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(strings.TrimSpace(username), user.Username) {
		return nil, ErrUsernameMismatch
	}
	return user, nil
}

// Logout revokes the presented token until its natural expiry.
func (s *Service) Logout(ctx context.Context, token string) error {
	return s.tokens.Revoke(ctx, token)
}

// CreateUser provisions an account. Admin only; enforced at the gate.
func (s *Service) CreateUser(ctx context.Context, form CreateUserForm) (*User, error) {
	form.Username = strings.TrimSpace(form.Username)
	if l := len(form.Username); l < usernameMinLen || l > usernameMaxLen {
		return nil, fmt.Errorf("%w: username must be %d-%d characters", ErrInvalidInput, usernameMinLen, usernameMaxLen)
	}
	if l := len(form.Password); l < passwordMinLen || l > passwordMaxLen {
		return nil, fmt.Errorf("%w: password must be %d-%d characters", ErrInvalidInput, passwordMinLen, passwordMaxLen)
	}
	if !form.Role.Valid() {
		return nil, fmt.Errorf("%w: unknown role %q", ErrInvalidInput, form.Role)
	}
	if _, err := s.users.FindByUsername(ctx, form.Username); err == nil {
		return nil, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	hash, err := HashPassword(form.Password)
	if err != nil {
		return nil, err
	}
	user := &User{
		Username:     form.Username,
		PasswordHash: hash,
		Role:         form.Role,
		ScopeID:      form.ScopeID,
		Active:       true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.recordMutation(ctx, ActionCreateUser, user.ID, nil, userSnapshot(user))
	return user, nil
}

// UpdateUser changes role and/or scope.
func (s *Service) UpdateUser(ctx context.Context, id string, upd UserUpdate) error {
	if upd.Role == nil && upd.ScopeID == nil {
		return fmt.Errorf("%w: empty update", ErrInvalidInput)
	}
	if upd.Role != nil && !upd.Role.Valid() {
		return fmt.Errorf("%w: unknown role %q", ErrInvalidInput, *upd.Role)
	}
	before, err := s.users.Find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Update(ctx, id, upd); err != nil {
		return err
	}
	after, err := s.users.Find(ctx, id)
	if err != nil {
		return err
	}
	s.recordMutation(ctx, ActionUpdateUser, id, userSnapshot(before), userSnapshot(after))
	return nil
}

// ResetPassword replaces the stored digest. The plaintext is hashed here
// and never logged or audited.
func (s *Service) ResetPassword(ctx context.Context, id, password string) error {
	if l := len(password); l < passwordMinLen || l > passwordMaxLen {
		return fmt.Errorf("%w: password must be %d-%d characters", ErrInvalidInput, passwordMinLen, passwordMaxLen)
	}
	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, id, hash); err != nil {
		return err
	}
	s.recordMutation(ctx, ActionResetPassword, id, nil, nil)
	return nil
}

// Lock deactivates an account. The lock takes effect on the user's very
// next request, since identity is re-resolved per request.
func (s *Service) Lock(ctx context.Context, id string) error {
	return s.setActive(ctx, id, false, ActionLockUser)
}

// Unlock reactivates an account.
func (s *Service) Unlock(ctx context.Context, id string) error {
	return s.setActive(ctx, id, true, ActionUnlockUser)
}

func (s *Service) setActive(ctx context.Context, id string, active bool, action string) error {
	before, err := s.users.Find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.SetActive(ctx, id, active); err != nil {
		return err
	}
	after, err := s.users.Find(ctx, id)
	if err != nil {
		return err
	}
	s.recordMutation(ctx, action, id, userSnapshot(before), userSnapshot(after))
	return nil
}

// DeleteUser removes an account permanently.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	before, err := s.users.Find(ctx, id)
	if err != nil {
		return err
	}
	if err := s.users.Delete(ctx, id); err != nil {
		return err
	}
	s.recordMutation(ctx, ActionDeleteUser, id, userSnapshot(before), nil)
	return nil
}

// GetUser loads one account.
func (s *Service) GetUser(ctx context.Context, id string) (*User, error) {
	return s.users.Find(ctx, id)
}

// ListUsers returns every account.
func (s *Service) ListUsers(ctx context.Context) ([]*User, error) {
	return s.users.List(ctx)
}

// recordMutation appends an audit entry for a privileged mutation. The
// actor is read from the request context; append failures never propagate
// to the caller.
func (s *Service) recordMutation(ctx context.Context, action, entityID string, before, after map[string]any) {
	if s.recorder == nil {
		return
	}
	var actorID string
	if actor, ok := PrincipalFromContext(ctx); ok {
		actorID = actor.ID
	}
	s.recorder.Record(ctx, audit.Entry{
		UserID:      actorID,
		Action:      action,
		EntityName:  auditEntityUser,
		EntityID:    entityID,
		BeforeState: before,
		AfterState:  after,
	})
}

// userSnapshot is the audited view of a user record. The password hash is
// deliberately excluded.
func userSnapshot(u *User) map[string]any {
	if u == nil {
		return nil
	}
	return map[string]any{
		"id":       u.ID,
		"username": u.Username,
		"role":     u.Role.String(),
		"scope_id": u.ScopeID,
		"active":   u.Active,
	}
}
