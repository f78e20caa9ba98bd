package models

import (
	"strings"

	"github.com/google/uuid"
)

// Role represents the access level stored on a profile record.
type Role string

const (
	RoleSuperadmin Role = "superadmin"
	RoleManager    Role = "manager"
)

// ParseRole converts a stored role string to a Role.
// Anything outside the closed set is rejected so callers deny instead of defaulting.
func ParseRole(s string) (Role, bool) {
	switch Role(strings.TrimSpace(s)) {
	case RoleSuperadmin:
		return RoleSuperadmin, true
	case RoleManager:
		return RoleManager, true
	default:
		return "", false
	}
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

// User is a profile record. Its ID matches the credential ID in the identity store.
type User struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Role  Role      `json:"role"`
}

// ManagerPublic is the projection returned by the manager list.
type ManagerPublic struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

// ToManagerPublic projects a profile to {id, email}.
func (u *User) ToManagerPublic() ManagerPublic {
	return ManagerPublic{ID: u.ID, Email: u.Email}
}

// NormalizeEmail trims and lower-cases an email for storage and lookup.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
