// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package models

// AuthResult is the payload returned by registration and login.
// User contains only safe fields (the password hash is never serialized).
type AuthResult struct {
	User      User      `json:"user"`
	Tokens    TokenPair `json:"tokens"`
	SessionID string    `json:"session_id"`
}

// RefreshResult is the payload returned by a successful token refresh.
// Only a new access token is minted; the refresh token is not rotated.
type RefreshResult struct {
	AccessToken string `json:"access_token"`
}

// LogoutOthersResult reports a bulk logout of the caller's other sessions.
type LogoutOthersResult struct {
	Status              string   `json:"status"`
	InvalidatedCount    int      `json:"invalidated_count"`
	InvalidatedSessions []string `json:"invalidated_sessions"`
}

// StatusResponse is a minimal success/message envelope for operations
// without a richer payload (logout, password change, account deletion).
type StatusResponse struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}
