package model

import (
	"time"

	"github.com/google/uuid"
)

// Role classifies what a user is allowed to do. Admins moderate
// everything, authors write posts, plain users read and comment.
type Role string

const (
	RoleAdmin  Role = "Admin"
	RoleAuthor Role = "Author"
	RoleUser   Role = "User"
)

// ValidRole reports whether r is one of the three known roles.
func ValidRole(r Role) bool {
	return r == RoleAdmin || r == RoleAuthor || r == RoleUser
}

// User is a registered account as persisted in users.json. Username and
// email are each unique under case-insensitive comparison; the store
// layer does not enforce this, the user service does at registration
// and the admin handlers re-check it before edits.
type User struct {
	ID           uuid.UUID `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"password_hash"`
	Role         Role      `json:"role"`
	RegisteredAt time.Time `json:"registered_at"`
}
