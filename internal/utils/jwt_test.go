package utils

import (
	"testing"
	"time"

	"github.com/MKhiriev/go-auth-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testIssuer  = "go-auth-keeper-test"
	testSignKey = "test-sign-key"
)

var tokenUser = models.User{
	UserID: 42,
	Email:  "alice@example.com",
	Role:   models.RoleUser,
}

func TestGenerateAccessToken_RoundTrip(t *testing.T) {
	tokenString, err := GenerateAccessToken(testIssuer, tokenUser, "session-1", time.Hour, testSignKey)
	require.NoError(t, err)
	require.NotEmpty(t, tokenString)

	claims, userID, err := ParseAccessToken(tokenString, testSignKey, testIssuer)
	require.NoError(t, err)

	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "alice@example.com", claims.Email)
	assert.Equal(t, models.RoleUser, claims.Role)
	assert.Equal(t, "session-1", claims.SessionID)
}

func TestGenerateRefreshToken_RoundTrip(t *testing.T) {
	tokenString, err := GenerateRefreshToken(testIssuer, 42, "session-1", time.Hour, testSignKey)
	require.NoError(t, err)

	claims, userID, err := ParseRefreshToken(tokenString, testSignKey, testIssuer)
	require.NoError(t, err)

	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "session-1", claims.SessionID)
}

func TestGenerateAccessToken_InvalidParams(t *testing.T) {
	_, err := GenerateAccessToken("", tokenUser, "session-1", time.Hour, testSignKey)
	assert.Error(t, err)

	_, err = GenerateAccessToken(testIssuer, tokenUser, "", time.Hour, testSignKey)
	assert.Error(t, err)

	_, err = GenerateAccessToken(testIssuer, tokenUser, "session-1", 0, testSignKey)
	assert.Error(t, err)

	_, err = GenerateAccessToken(testIssuer, tokenUser, "session-1", time.Hour, "")
	assert.Error(t, err)
}

func TestParseAccessToken_Expired(t *testing.T) {
	// a negative duration mints an already-expired token
	tokenString, err := GenerateAccessToken(testIssuer, tokenUser, "session-1", -time.Minute, testSignKey)
	require.NoError(t, err)

	_, _, err = ParseAccessToken(tokenString, testSignKey, testIssuer)
	require.Error(t, err)
	assert.True(t, IsTokenExpired(err))
}

func TestParseAccessToken_WrongKey(t *testing.T) {
	tokenString, err := GenerateAccessToken(testIssuer, tokenUser, "session-1", time.Hour, testSignKey)
	require.NoError(t, err)

	_, _, err = ParseAccessToken(tokenString, "other-key", testIssuer)
	require.Error(t, err)
	assert.False(t, IsTokenExpired(err))
}

func TestParseAccessToken_WrongIssuer(t *testing.T) {
	tokenString, err := GenerateAccessToken("other-issuer", tokenUser, "session-1", time.Hour, testSignKey)
	require.NoError(t, err)

	_, _, err = ParseAccessToken(tokenString, testSignKey, testIssuer)
	assert.Error(t, err)
}

func TestParseAccessToken_Malformed(t *testing.T) {
	_, _, err := ParseAccessToken("not.a.token", testSignKey, testIssuer)
	require.Error(t, err)
	assert.False(t, IsTokenExpired(err))
}

func TestParseRefreshToken_AccessTokenRejectedGracefully(t *testing.T) {
	// a refresh parse of an access token still yields the shared claims;
	// the service layer decides on claim semantics, parsing only checks
	// signature, issuer, and expiry
	tokenString, err := GenerateAccessToken(testIssuer, tokenUser, "session-1", time.Hour, testSignKey)
	require.NoError(t, err)

	claims, userID, err := ParseRefreshToken(tokenString, testSignKey, testIssuer)
	require.NoError(t, err)
	assert.Equal(t, int64(42), userID)
	assert.Equal(t, "session-1", claims.SessionID)
}
