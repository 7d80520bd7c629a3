package models

// Identity is the fixed, explicitly-typed authenticated-request context
// produced once by access-token verification and attached to the request
// context by the auth middleware.
//
// Handlers read identity fields from this struct instead of re-parsing the
// token or passing loosely-typed values between layers.
type Identity struct {
	// UserID is the authenticated user's identifier ("sub" claim).
	UserID int64

	// SessionID is the session the presented token is bound to.
	SessionID string

	// Role is the account role carried in the token.
	Role Role
}
