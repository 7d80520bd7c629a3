package models

import "time"

// Session represents one authenticated device or browser instance.
//
// A session is the unit of revocation: logout, password change and
// duplicate-device eviction all operate on sessions, never on tokens.
// Once IsValid is false (or ExpiresAt has passed) the session can never
// authorize a request again; there is no transition back to valid.
type Session struct {
	// SessionID is the unique identifier of the session (UUID string).
	SessionID string `json:"session_id"`

	// UserID is the owner of the session.
	UserID int64 `json:"-"`

	// IsValid is the validity flag. Flipped to false exactly once, by
	// logout, password change or bulk eviction.
	IsValid bool `json:"is_valid"`

	// UserAgent is the client's reported user agent at login time.
	UserAgent string `json:"user_agent"`

	// ClientIP is the remote address observed at login time.
	ClientIP string `json:"client_ip"`

	// CreatedAt is when the session was established.
	CreatedAt time.Time `json:"created_at"`

	// LastActivity is bumped on every validated access.
	LastActivity time.Time `json:"last_activity"`

	// ExpiresAt is the absolute expiry time. A session past this instant
	// never authorizes a request, regardless of IsValid or cache state.
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry time.
func (s Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

// TableName returns the name of the database table
// associated with the Session model.
func (s Session) TableName() string {
	return "sessions"
}

// ClientMeta carries transport-level client attributes captured at login
// or registration time and stored on the created session.
type ClientMeta struct {
	UserAgent string `json:"user_agent"`
	ClientIP  string `json:"client_ip"`
}
