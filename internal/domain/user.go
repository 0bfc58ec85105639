package domain

import (
	"fmt"
	"time"
)

type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleCustomer Role = "CUSTOMER"
)

// ParseRole rejects anything outside the known role set so an invalid role
// can never reach the store.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleAdmin, RoleCustomer:
		return Role(s), nil
	default:
		return "", fmt.Errorf("unknown role %q", s)
	}
}

type User struct {
	ID           string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// IsAdmin is the authorization predicate used by every privileged operation.
// A nil user is an anonymous caller and is never an admin.
func (u *User) IsAdmin() bool {
	return u != nil && u.Role == RoleAdmin
}
