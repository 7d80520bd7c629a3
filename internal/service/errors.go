package service

import "errors"

var (
	// ErrInvalidDataProvided is returned when a request is missing required
	// fields before any storage call is made.
	ErrInvalidDataProvided = errors.New("invalid data provided")

	// ErrInvalidCredentials is returned uniformly for an unknown email and a
	// wrong password, so callers cannot probe which accounts exist.
	ErrInvalidCredentials = errors.New("invalid email or password")

	// ErrAccountLocked is returned while the lockout window is in effect,
	// regardless of password correctness.
	ErrAccountLocked = errors.New("account is temporarily locked")

	// ErrUserInactive is returned when the account status forbids
	// authentication or token refresh.
	ErrUserInactive = errors.New("account is not active")

	// ErrSessionInvalid is returned when the session referenced by a request
	// or token is missing, invalidated or expired.
	ErrSessionInvalid = errors.New("session is invalid")

	// ErrTokenExpired is returned for a structurally valid token past its
	// signed expiry.
	ErrTokenExpired = errors.New("token is expired")

	// ErrTokenMalformed is returned for every other token verification
	// failure: bad signature, wrong issuer, unparseable payload.
	ErrTokenMalformed = errors.New("token is malformed or invalid")

	// ErrTokenCreationFailed is returned when signing a new token fails.
	ErrTokenCreationFailed = errors.New("token creation failed")
)
