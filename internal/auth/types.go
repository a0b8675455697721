package auth

import "time"

// User is the authoritative identity record owned by the credential store.
// The password hash is never serialized outward.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         Role      `json:"role"`
	ScopeID      string    `json:"scope_id"`
	Active       bool      `json:"active"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// TokenPair holds freshly issued credentials along with their expirations.
type TokenPair struct {
	AccessToken      string
	RefreshToken     string
	AccessExpiresAt  time.Time
	RefreshExpiresAt time.Time
}

// CreateUserForm carries the fields required to provision an account.
type CreateUserForm struct {
	Username string
	Password string
	Role     Role
	ScopeID  string
}

// UserUpdate describes a partial update; nil fields are left untouched.
type UserUpdate struct {
	Role    *Role
	ScopeID *string
}
