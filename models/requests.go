package models

// RegisterRequest is the parsed body of a registration call.
// Validation of shape (email format, password length) happens upstream;
// the core only normalizes the email casing.
type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// LoginRequest is the parsed body of a login call.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RefreshRequest carries the refresh token and its bound session id.
// Either may arrive via body or header; the core treats both as strings.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
	SessionID    string `json:"session_id"`
}

// UpdateProfileRequest carries mutable profile fields. Nil pointers mean
// "leave unchanged"; an empty ProfileImage clears the avatar.
type UpdateProfileRequest struct {
	Name         *string `json:"name,omitempty"`
	ProfileImage *string `json:"profile_image,omitempty"`
}

// ChangePasswordRequest carries the current and the replacement password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
}

// DeleteAccountRequest requires the account password as confirmation.
type DeleteAccountRequest struct {
	Password string `json:"password"`
}
