package entities

import "errors"

type Role string

const (
	RoleEmployee Role = "employee"
	RoleAdmin    Role = "admin"
)

// User is provisioned by the external auth provider; this service only
// reads it to stamp a sender on shipments and to gate the admin console.
type User struct {
	ID       int64
	Username string
	Email    string
	Address  string
	Role     Role
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)
