package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-auth-keeper/internal/config"
	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/utils"
	"github.com/MKhiriev/go-auth-keeper/models"
)

// tokenIssuer is the concrete implementation of [TokenIssuer]. Tokens are
// HMAC-SHA256 signed with a process-wide key and carry the configured issuer
// claim; a token signed for another deployment never verifies here.
type tokenIssuer struct {
	// tokenSignKey is the HMAC secret used to sign and verify both tokens.
	tokenSignKey string

	// tokenIssuer is the "iss" claim embedded in every issued token.
	// Tokens whose issuer does not match this value are rejected during parsing.
	tokenIssuer string

	// accessDuration controls the short-lived access token's validity window.
	accessDuration time.Duration

	// refreshDuration controls the long-lived refresh token's validity window.
	refreshDuration time.Duration

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewTokenIssuer constructs a [TokenIssuer] populated with the security
// parameters from cfg.
//
// The returned issuer is safe for concurrent use; all state is read-only
// after construction.
func NewTokenIssuer(cfg config.App, logger *logger.Logger) TokenIssuer {
	return &tokenIssuer{
		tokenSignKey:    cfg.TokenSignKey,
		tokenIssuer:     cfg.TokenIssuer,
		accessDuration:  cfg.AccessTokenDuration,
		refreshDuration: cfg.RefreshTokenDuration,
		logger:          logger,
	}
}

// IssuePair mints an access and a refresh token bound to the same session.
func (t *tokenIssuer) IssuePair(ctx context.Context, user models.User, sessionID string) (models.TokenPair, error) {
	accessToken, err := t.IssueAccess(ctx, user, sessionID)
	if err != nil {
		return models.TokenPair{}, err
	}

	refreshToken, err := utils.GenerateRefreshToken(t.tokenIssuer, user.UserID, sessionID, t.refreshDuration, t.tokenSignKey)
	if err != nil {
		return models.TokenPair{}, fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return models.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// IssueAccess mints a fresh access token only. Used by the refresh flow,
// which never rotates the refresh token.
func (t *tokenIssuer) IssueAccess(ctx context.Context, user models.User, sessionID string) (string, error) {
	accessToken, err := utils.GenerateAccessToken(t.tokenIssuer, user, sessionID, t.accessDuration, t.tokenSignKey)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrTokenCreationFailed, err)
	}

	return accessToken, nil
}

// VerifyAccessToken validates the signature, issuer and expiry of an access
// token and returns its claims together with the user id from the subject.
func (t *tokenIssuer) VerifyAccessToken(ctx context.Context, tokenString string) (models.AccessClaims, int64, error) {
	claims, userID, err := utils.ParseAccessToken(tokenString, t.tokenSignKey, t.tokenIssuer)
	if err != nil {
		return models.AccessClaims{}, 0, t.classifyTokenError(ctx, err)
	}

	return claims, userID, nil
}

// VerifyRefreshToken validates a refresh token the same way
// [tokenIssuer.VerifyAccessToken] validates an access token.
func (t *tokenIssuer) VerifyRefreshToken(ctx context.Context, tokenString string) (models.RefreshClaims, int64, error) {
	claims, userID, err := utils.ParseRefreshToken(tokenString, t.tokenSignKey, t.tokenIssuer)
	if err != nil {
		return models.RefreshClaims{}, 0, t.classifyTokenError(ctx, err)
	}

	return claims, userID, nil
}

// classifyTokenError collapses the low-level parsing failure into the two
// errors callers distinguish: expiry and everything else. The raw token is
// never logged.
func (t *tokenIssuer) classifyTokenError(ctx context.Context, err error) error {
	log := logger.FromContext(ctx)

	if utils.IsTokenExpired(err) {
		return ErrTokenExpired
	}

	log.Debug().Err(err).Msg("token verification failed")
	return ErrTokenMalformed
}
