package domain

import (
	"errors"
	"time"
)

const (
	RoleViewer = "viewer"
	RoleUser   = "user"
	RoleAdmin  = "admin"
)

var ErrInvalidCredentials = errors.New("invalid credentials")
var ErrUserNotFound = errors.New("user not found")
var ErrUserExists = errors.New("user already exists")

// roleRanks defines the fixed total order viewer < user < admin.
var roleRanks = map[string]int{
	RoleViewer: 0,
	RoleUser:   1,
	RoleAdmin:  2,
}

// RoleRank returns the rank of a role; unknown roles rank lowest.
func RoleRank(role string) int {
	return roleRanks[role]
}

// ValidRole reports whether role is one of the three known roles.
func ValidRole(role string) bool {
	_, ok := roleRanks[role]
	return ok
}

// User models an authenticated actor in the system.
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
