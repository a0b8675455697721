package auth

import (
	"fmt"
	"strings"
)

// Role is the closed set of authorization levels. The wire values keep the
// codes used by the stored user records and by tokens issued before this
// service existed, so they must not be renamed.
type Role string

const (
	RoleAdmin        Role = "admin"
	RoleWardLeader   Role = "to_truong"
	RoleWardOfficial Role = "can_bo_phuong"
	RoleCitizen      Role = "nguoi_dan"
)

// Roles lists every valid role.
var Roles = []Role{RoleAdmin, RoleWardLeader, RoleWardOfficial, RoleCitizen}

// ParseRole normalizes a raw string into a Role. Raw strings are never
// compared against Role constants anywhere else; this is the single
// conversion point for every I/O edge.
func ParseRole(raw string) (Role, error) {
	r := Role(strings.TrimSpace(strings.ToLower(raw)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: unknown role %q", ErrInvalidInput, raw)
	}
	return r, nil
}

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleWardLeader, RoleWardOfficial, RoleCitizen:
		return true
	}
	return false
}

func (r Role) String() string { return string(r) }

// In reports membership of r in the accepted list.
func (r Role) In(accepted []Role) bool {
	for _, a := range accepted {
		if r == a {
			return true
		}
	}
	return false
}
