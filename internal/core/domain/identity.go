package domain

import (
	"errors"
	"time"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrInvalidRole = errors.New("invalid role")
var ErrIdentityNotFound = errors.New("identity not found")
var ErrIdentityExists = errors.New("identity already exists")
var ErrCorruptCredential = errors.New("corrupt credential record")
var ErrTooManyAttempts = errors.New("too many failed login attempts")

// Identity models a stored username/password-hash/roles record. Roles are a
// flat set of identifiers; there is no role entity with its own lifecycle.
type Identity struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Roles        []string  `json:"roles"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// HasRole reports whether the identity carries the given role.
func (i *Identity) HasRole(role string) bool {
	for _, r := range i.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// ValidRole reports whether a role name is one the system knows about.
func ValidRole(role string) bool {
	return role == RoleUser || role == RoleAdmin
}
