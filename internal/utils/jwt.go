package utils

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/MKhiriev/go-auth-keeper/models"
	"github.com/golang-jwt/jwt/v5"
)

// GenerateAccessToken creates a signed HMAC-SHA256 access token bound to the
// given user and session.
//
// The token includes the following claims:
//   - Issuer    (iss): identifies the service that issued the token
//   - Subject   (sub): the user ID encoded as a string
//   - IssuedAt  (iat): the current time
//   - ExpiresAt (exp): the current time plus tokenDuration
//   - email, role:     account attributes at issuance time
//   - sid:             the session the token is bound to
//
// All parameters are required. Returns an error if any of them are empty or zero.
func GenerateAccessToken(issuer string, user models.User, sessionID string, tokenDuration time.Duration, signKey string) (string, error) {
	if issuer == "" || sessionID == "" || tokenDuration == 0 || signKey == "" {
		return "", errors.New("invalid params for generating JWT Token")
	}

	now := time.Now()
	claims := &models.AccessClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(user.UserID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		Email:     user.Email,
		Role:      user.Role,
		SessionID: sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return tokenString, nil
}

// GenerateRefreshToken creates a signed HMAC-SHA256 refresh token bound to
// the given user and session.
//
// The claim set is deliberately minimal (sub, sid, iss, iat, exp): role and
// email are re-read from the store at refresh time, never trusted from the
// long-lived token.
func GenerateRefreshToken(issuer string, userID int64, sessionID string, tokenDuration time.Duration, signKey string) (string, error) {
	if issuer == "" || sessionID == "" || tokenDuration == 0 || signKey == "" {
		return "", errors.New("invalid params for generating JWT Token")
	}

	now := time.Now()
	claims := &models.RefreshClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   strconv.FormatInt(userID, 10),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenDuration)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
		SessionID: sessionID,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString([]byte(signKey))
	if err != nil {
		return "", fmt.Errorf("error occurred during signing JWT token: %w", err)
	}

	return tokenString, nil
}

// ParseAccessToken validates the given access token string and extracts its
// claims.
//
// Validation includes:
//   - Signature verification using the provided sign key
//   - Issuer (iss) claim check against the provided tokenIssuer
//   - Expiration (exp) claim check
//   - Subject (sub) claim presence and conversion to int64 user ID
//
// Verification fails closed: jwt.ErrTokenExpired is returned for an expired
// token so callers can distinguish expiry from every other failure mode.
func ParseAccessToken(tokenString, tokenSignKey, tokenIssuer string) (models.AccessClaims, int64, error) {
	var claims models.AccessClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.AccessClaims{}, 0, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	userID, err := subjectUserID(&claims.RegisteredClaims)
	if err != nil {
		return models.AccessClaims{}, 0, err
	}

	return claims, userID, nil
}

// ParseRefreshToken validates the given refresh token string and extracts
// its claims. Validation mirrors [ParseAccessToken].
func ParseRefreshToken(tokenString, tokenSignKey, tokenIssuer string) (models.RefreshClaims, int64, error) {
	var claims models.RefreshClaims
	_, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		return []byte(tokenSignKey), nil
	}, jwt.WithIssuer(tokenIssuer), jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return models.RefreshClaims{}, 0, fmt.Errorf("error occurred validating and parsing token: %w", err)
	}

	userID, err := subjectUserID(&claims.RegisteredClaims)
	if err != nil {
		return models.RefreshClaims{}, 0, err
	}

	return claims, userID, nil
}

// IsTokenExpired reports whether err (possibly wrapped) is the JWT expiry
// validation failure.
func IsTokenExpired(err error) bool {
	return errors.Is(err, jwt.ErrTokenExpired)
}

func subjectUserID(claims *jwt.RegisteredClaims) (int64, error) {
	userIDStr, err := claims.GetSubject()
	if err != nil {
		return 0, fmt.Errorf("error occurred during getting subject from token: %w", err)
	}
	if userIDStr == "" {
		return 0, errors.New("empty subject error")
	}

	userID, err := strconv.ParseInt(userIDStr, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("error occurred during converting subject to user ID: %w", err)
	}

	return userID, nil
}
