package entity

import (
	"time"
)

// User is the aggregate root for the account domain.
// Passwords are stored as bcrypt hashes in PasswordHash and are derived
// exactly once, at registration or reset; they are never assigned from
// request input.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	Role         string
	Status       string
	AvatarURL    string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Roles. Authorization middleware gates admin routes on Role.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Account statuses. Status defaults to active at creation and is mutated
// only by admin moderation.
const (
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

// IsActive reports whether the account may log in.
func (u *User) IsActive() bool { return u.Status == StatusActive }
