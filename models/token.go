package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// AccessClaims is the claim set embedded in access tokens.
//
// It extends [jwt.RegisteredClaims] (sub, exp, iat, iss) with the fields a
// request handler needs without a store round trip: the user's email and
// role, and the session the token is bound to. The "sub" claim holds the
// user ID in base-10 string form.
type AccessClaims struct {
	jwt.RegisteredClaims

	// Email is the account email at issuance time.
	Email string `json:"email"`

	// Role is the account role at issuance time.
	Role Role `json:"role"`

	// SessionID binds the token to the session it was minted for.
	SessionID string `json:"sid"`
}

// RefreshClaims is the claim set embedded in refresh tokens.
//
// Deliberately minimal: user id in "sub" plus the bound session. A refresh
// token is only ever exchanged against the session store, so role and email
// are re-read from the database at refresh time, never trusted from the
// long-lived token.
type RefreshClaims struct {
	jwt.RegisteredClaims

	// SessionID binds the token to the session it was minted for.
	SessionID string `json:"sid"`
}

// TokenPair is the ephemeral result of a successful login or registration.
// Neither token is persisted server-side; the session record is the durable
// source of truth for revocation.
type TokenPair struct {
	// AccessToken is the short-lived bearer credential (compact JWS).
	AccessToken string `json:"access_token"`

	// RefreshToken is the long-lived credential exchanged for new access
	// tokens, bound to one session.
	RefreshToken string `json:"refresh_token"`
}
