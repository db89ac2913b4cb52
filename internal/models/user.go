package models

import "strings"

// Role is the authorization level of a user
type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps a raw role string to a Role. Anything that is not a
// recognized role resolves to RoleUser.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// User represents the user model in the database. Identity is owned by
// Firebase; the row links a Firebase UID to the user's data.
type User struct {
	Base
	FirebaseUID string `gorm:"uniqueIndex;not null" json:"firebase_uid"`
	Email       string `gorm:"not null" json:"email"`
	DisplayName string `json:"display_name"`
	Role        Role   `gorm:"not null;default:'USER'" json:"role"`
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
