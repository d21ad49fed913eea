package model

import (
	"fmt"
	"slices"
	"time"
)

// Role is a closed set of user roles.
type Role string

// Roles.
const (
	RoleAdmin     Role = "admin"     // full access across all bases
	RoleCommander Role = "commander" // base commander, read-only oversight of assigned bases
	RoleLogistics Role = "logistics" // logistics officer, records movements for assigned bases
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleCommander, RoleLogistics:
		return true
	}
	return false
}

// User represents an authenticated identity with its base authorizations.
type User struct {
	ID              string     `json:"id"`
	Username        string     `json:"username"`
	FullName        string     `json:"full_name"`
	PasswordHash    string     `json:"-"`
	Role            Role       `json:"role"`
	AuthorizedBases []string   `json:"authorized_bases"`
	CreatedAt       time.Time  `json:"created_at"`
	DeletedAt       *time.Time `json:"deleted_at,omitempty"`
}

// AuthorizedFor reports whether baseID is in the user's authorized set.
// Admins are authorized for every base.
func (u *User) AuthorizedFor(baseID string) bool {
	if u.Role == RoleAdmin {
		return true
	}
	return slices.Contains(u.AuthorizedBases, baseID)
}

// Ref returns the credential-free value-copy of the user that gets embedded
// in ledger records at append time.
func (u *User) Ref() UserRef {
	return UserRef{ID: u.ID, Username: u.Username, FullName: u.FullName, Role: u.Role}
}

// UserRef is the snapshot of a user embedded in a record. It never carries
// credentials.
type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     Role   `json:"role"`
}

// ValidatePassword checks minimum password requirements.
func ValidatePassword(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("password must be at least 8 characters")
	}
	return nil
}
