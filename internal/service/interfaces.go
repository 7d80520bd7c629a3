package service

import (
	"context"

	"github.com/MKhiriev/go-auth-keeper/models"
)

// AuthService orchestrates registration, login, logout and token lifecycle
// across the credential store, the session store, the invalidation cache and
// the token issuer.
type AuthService interface {
	Register(ctx context.Context, req models.RegisterRequest, meta models.ClientMeta) (models.AuthResult, error)
	Login(ctx context.Context, req models.LoginRequest, meta models.ClientMeta) (models.AuthResult, error)
	Logout(ctx context.Context, identity models.Identity) error
	RefreshToken(ctx context.Context, refreshToken, sessionID string) (models.RefreshResult, error)
	LogoutOtherSessions(ctx context.Context, identity models.Identity) ([]string, error)
	VerifyAccess(ctx context.Context, tokenString string) (models.Identity, error)
}

// UserService covers account self-management for an authenticated user.
type UserService interface {
	Profile(ctx context.Context, userID int64) (models.User, error)
	UpdateProfile(ctx context.Context, userID int64, req models.UpdateProfileRequest) (models.User, error)
	ChangePassword(ctx context.Context, identity models.Identity, req models.ChangePasswordRequest) error
	DeleteAccount(ctx context.Context, identity models.Identity, password string) error
	ActiveSessions(ctx context.Context, userID int64) ([]models.Session, error)
}

// TokenIssuer mints and verifies the signed token pair bound to a session.
// Verification fails closed: expiry surfaces as [ErrTokenExpired], every
// other failure as [ErrTokenMalformed].
type TokenIssuer interface {
	IssuePair(ctx context.Context, user models.User, sessionID string) (models.TokenPair, error)
	IssueAccess(ctx context.Context, user models.User, sessionID string) (string, error)
	VerifyAccessToken(ctx context.Context, tokenString string) (models.AccessClaims, int64, error)
	VerifyRefreshToken(ctx context.Context, tokenString string) (models.RefreshClaims, int64, error)
}
