package models

import "time"

// Role is the authorization role assigned to a user account.
type Role string

// Status is the lifecycle state of a user account.
type Status string

const (
	// RoleUser is the default role of a registered account.
	RoleUser Role = "user"

	// RoleAdmin marks an account with administrative privileges.
	RoleAdmin Role = "admin"
)

const (
	// StatusActive marks an account that may authenticate and hold sessions.
	StatusActive Status = "active"

	// StatusInactive marks a deactivated account. Token refresh is refused
	// for inactive accounts even when the session itself is still valid.
	StatusInactive Status = "inactive"

	// StatusSuspended marks an account blocked by an administrator.
	StatusSuspended Status = "suspended"
)

// User represents an account entity used for authentication and authorization.
// It contains identity attributes and credential-related data.
// Sensitive fields must never be exposed outside trusted boundaries.
type User struct {
	// UserID is the internal unique identifier of the user.
	// It is not exposed via JSON and is used only at the persistence layer.
	UserID int64 `json:"-"`

	// Email is the unique account identifier used during authentication.
	// Stored lowercased; uniqueness is enforced case-insensitively by the
	// database index.
	Email string `json:"email"`

	// Name is the display name of the user.
	// It is non-sensitive and may be shown in UI.
	Name string `json:"name"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This value MUST be a hash, never plaintext. It is populated by the
	// repository save path and never leaves the persistence boundary.
	PasswordHash string `json:"-"`

	// ProfileImage is an optional URL of the user's avatar.
	ProfileImage string `json:"profile_image,omitempty"`

	// Role determines the authorization level of the account.
	Role Role `json:"role"`

	// Status is the current lifecycle state of the account.
	Status Status `json:"status"`

	// FailedLogins counts consecutive failed credential verifications.
	// Reset to zero on a successful login.
	FailedLogins int `json:"-"`

	// LockUntil, when set and in the future, blocks all login attempts
	// regardless of password correctness.
	LockUntil *time.Time `json:"-"`

	// LastLogin is the timestamp of the most recent successful login.
	LastLogin *time.Time `json:"last_login,omitempty"`

	// LastActivity is the timestamp of the most recent authenticated request.
	LastActivity time.Time `json:"last_activity"`

	// CreatedAt is the timestamp when the user account was created.
	// Used for auditing and lifecycle management.
	CreatedAt time.Time `json:"created_at"`
}

// IsLocked reports whether the account is currently locked out of login
// attempts at the given instant.
func (u User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

// IsActive reports whether the account may authenticate at all.
func (u User) IsActive() bool {
	return u.Status == StatusActive
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}
