package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-auth-keeper/internal/cache"
	"github.com/MKhiriev/go-auth-keeper/internal/config"
	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/store"
	"github.com/MKhiriev/go-auth-keeper/models"
	"golang.org/x/crypto/bcrypt"
)

// authService is the concrete implementation of [AuthService]. It coordinates
// the credential store, the session store, the invalidation cache and the
// token issuer; it owns no state of its own beyond configuration.
//
// Sessions move through a one-way state machine: created valid, flipped
// invalid exactly once (logout, password change, bulk eviction) or aged out
// by expiry. Nothing here ever revives a session.
type authService struct {
	userRepository    store.UserRepository
	sessionRepository store.SessionRepository
	invalidationCache cache.SessionInvalidationCache
	tokenIssuer       TokenIssuer

	// sessionTTL is the lifetime of a newly created session and the upper
	// bound for cache revocation markers.
	sessionTTL time.Duration

	logger *logger.Logger
}

// NewAuthService constructs an [AuthService] wired to the given storages,
// cache and token issuer.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(storages *store.Storages, invalidationCache cache.SessionInvalidationCache, tokenIssuer TokenIssuer, cfg config.App, logger *logger.Logger) AuthService {
	return &authService{
		userRepository:    storages.UserRepository,
		sessionRepository: storages.SessionRepository,
		invalidationCache: invalidationCache,
		tokenIssuer:       tokenIssuer,
		sessionTTL:        cfg.SessionTTL,
		logger:            logger,
	}
}

// Register creates a new account and immediately establishes its first
// session and token pair.
//
// Ordering matters: the user row is created first, so a duplicate email
// aborts before any session exists and no partial state is left behind.
//
// Returns [ErrInvalidDataProvided] on missing fields and passes
// [store.ErrEmailAlreadyExists] through for conflict mapping.
func (a *authService) Register(ctx context.Context, req models.RegisterRequest, meta models.ClientMeta) (models.AuthResult, error) {
	log := logger.FromContext(ctx)

	if req.Email == "" || req.Password == "" || req.Name == "" {
		log.Error().Str("email", req.Email).Msg("invalid registration data provided")
		return models.AuthResult{}, ErrInvalidDataProvided
	}

	user, err := a.userRepository.CreateUser(ctx, models.User{Email: req.Email, Name: req.Name}, req.Password)
	if err != nil {
		log.Err(err).Str("email", req.Email).Msg("user creation ended with error")
		return models.AuthResult{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	return a.openSession(ctx, user, meta)
}

// Login authenticates an existing user and establishes a new session.
// Concurrent sessions are allowed: logging in on a second device never
// evicts the first, eviction happens only via [authService.LogoutOtherSessions].
func (a *authService) Login(ctx context.Context, req models.LoginRequest, meta models.ClientMeta) (models.AuthResult, error) {
	log := logger.FromContext(ctx)

	if req.Email == "" || req.Password == "" {
		log.Error().Str("email", req.Email).Msg("invalid login data provided")
		return models.AuthResult{}, ErrInvalidDataProvided
	}

	user, err := a.verifyCredentials(ctx, req.Email, req.Password)
	if err != nil {
		return models.AuthResult{}, err
	}

	return a.openSession(ctx, user, meta)
}

// verifyCredentials checks the email/password pair against the stored hash
// under the lockout policy.
//
// An unknown email and a wrong password surface the same
// [ErrInvalidCredentials], so the response never leaks account existence.
// While the lockout window is in effect even a correct password is refused
// with [ErrAccountLocked].
func (a *authService) verifyCredentials(ctx context.Context, email, password string) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := a.userRepository.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.User{}, ErrInvalidCredentials
		}
		log.Err(err).Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if user.IsLocked(time.Now()) {
		log.Warn().Int64("id", user.UserID).Msg("login attempt on locked account")
		return models.User{}, ErrAccountLocked
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		if recordErr := a.userRepository.RecordFailedLogin(ctx, user.UserID); recordErr != nil {
			log.Err(recordErr).Int64("id", user.UserID).Msg("recording failed login attempt failed")
		}
		return models.User{}, ErrInvalidCredentials
	}

	if !user.IsActive() {
		log.Warn().Int64("id", user.UserID).Str("status", string(user.Status)).Msg("login attempt on non-active account")
		return models.User{}, ErrUserInactive
	}

	// success resets the failure counter and clears any stale lock
	if err := a.userRepository.RecordLogin(ctx, user.UserID); err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("recording successful login failed")
		return models.User{}, fmt.Errorf("recording successful login failed: %w", err)
	}

	return user, nil
}

// openSession creates a session for the verified user and mints its token
// pair. Shared tail of Register and Login.
func (a *authService) openSession(ctx context.Context, user models.User, meta models.ClientMeta) (models.AuthResult, error) {
	log := logger.FromContext(ctx)

	session, err := a.sessionRepository.Create(ctx, user.UserID, meta, a.sessionTTL)
	if err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("session creation ended with error")
		return models.AuthResult{}, fmt.Errorf("session creation ended with error: %w", err)
	}

	tokens, err := a.tokenIssuer.IssuePair(ctx, user, session.SessionID)
	if err != nil {
		log.Err(err).Int64("id", user.UserID).Msg("token pair creation ended with error")
		return models.AuthResult{}, err
	}

	return models.AuthResult{
		User:      user,
		Tokens:    tokens,
		SessionID: session.SessionID,
	}, nil
}

// Logout invalidates the caller's session and mirrors the revocation into
// the cache. Idempotent: logging out an already-invalid session succeeds,
// the observable outcome is the same.
func (a *authService) Logout(ctx context.Context, identity models.Identity) error {
	log := logger.FromContext(ctx)

	if err := a.sessionRepository.Invalidate(ctx, identity.SessionID, identity.UserID); err != nil {
		log.Err(err).Str("session_id", identity.SessionID).Msg("session invalidation ended with error")
		return fmt.Errorf("session invalidation ended with error: %w", err)
	}

	// advisory: a failed marker write only costs a store round trip later
	if err := a.invalidationCache.MarkInvalid(ctx, identity.UserID, identity.SessionID, a.sessionTTL); err != nil {
		log.Err(err).Str("session_id", identity.SessionID).Msg("revocation marker write failed")
	}

	return nil
}

// RefreshToken exchanges a valid refresh token for a new access token. The
// refresh token itself is not rotated.
//
// The embedded session must still be active in the store
// ([ErrSessionInvalid] otherwise) and the account must still be active
// ([ErrUserInactive] otherwise). When a session id accompanies the request
// it must match the token's claim.
func (a *authService) RefreshToken(ctx context.Context, refreshToken, sessionID string) (models.RefreshResult, error) {
	log := logger.FromContext(ctx)

	if refreshToken == "" {
		return models.RefreshResult{}, ErrInvalidDataProvided
	}

	claims, userID, err := a.tokenIssuer.VerifyRefreshToken(ctx, refreshToken)
	if err != nil {
		return models.RefreshResult{}, err
	}

	if sessionID != "" && sessionID != claims.SessionID {
		log.Warn().Int64("id", userID).Msg("refresh session id does not match token claims")
		return models.RefreshResult{}, ErrSessionInvalid
	}

	// cache short-circuit: a known-revoked session skips the store read
	if a.invalidationCache.IsKnownInvalid(ctx, userID, claims.SessionID) {
		return models.RefreshResult{}, ErrSessionInvalid
	}

	if _, err := a.sessionRepository.FindActive(ctx, claims.SessionID, userID); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return models.RefreshResult{}, ErrSessionInvalid
		}
		log.Err(err).Int64("id", userID).Msg("session lookup ended with error")
		return models.RefreshResult{}, fmt.Errorf("session lookup ended with error: %w", err)
	}

	user, err := a.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.RefreshResult{}, ErrSessionInvalid
		}
		log.Err(err).Int64("id", userID).Msg("user lookup ended with error")
		return models.RefreshResult{}, fmt.Errorf("user lookup ended with error: %w", err)
	}
	if !user.IsActive() {
		return models.RefreshResult{}, ErrUserInactive
	}

	accessToken, err := a.tokenIssuer.IssueAccess(ctx, user, claims.SessionID)
	if err != nil {
		log.Err(err).Int64("id", userID).Msg("access token creation ended with error")
		return models.RefreshResult{}, err
	}

	return models.RefreshResult{AccessToken: accessToken}, nil
}

// LogoutOtherSessions invalidates every other session of the caller in one
// conditional statement and mirrors each revocation into the cache. Returns
// the ids that were invalidated.
//
// A session created concurrently, after the statement's snapshot, survives;
// the caller can simply invoke the operation again.
func (a *authService) LogoutOtherSessions(ctx context.Context, identity models.Identity) ([]string, error) {
	log := logger.FromContext(ctx)

	invalidated, err := a.sessionRepository.InvalidateAllExcept(ctx, identity.UserID, identity.SessionID)
	if err != nil {
		log.Err(err).Int64("id", identity.UserID).Msg("bulk session invalidation ended with error")
		return nil, fmt.Errorf("bulk session invalidation ended with error: %w", err)
	}

	for _, sessionID := range invalidated {
		if err := a.invalidationCache.MarkInvalid(ctx, identity.UserID, sessionID, a.sessionTTL); err != nil {
			log.Err(err).Str("session_id", sessionID).Msg("revocation marker write failed")
		}
	}

	return invalidated, nil
}

// VerifyAccess authenticates a request by its bearer token and produces the
// typed identity attached to the request context.
//
// The flow is: parse and verify the token, consult the invalidation cache
// for a fast rejection, then confirm against the session store, which stays
// the source of truth. A valid token whose session has been revoked fails
// with [ErrSessionInvalid].
func (a *authService) VerifyAccess(ctx context.Context, tokenString string) (models.Identity, error) {
	log := logger.FromContext(ctx)

	claims, userID, err := a.tokenIssuer.VerifyAccessToken(ctx, tokenString)
	if err != nil {
		return models.Identity{}, err
	}

	if a.invalidationCache.IsKnownInvalid(ctx, userID, claims.SessionID) {
		return models.Identity{}, ErrSessionInvalid
	}

	if _, err := a.sessionRepository.FindActive(ctx, claims.SessionID, userID); err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			return models.Identity{}, ErrSessionInvalid
		}
		log.Err(err).Int64("id", userID).Msg("session lookup ended with error")
		return models.Identity{}, fmt.Errorf("session lookup ended with error: %w", err)
	}

	if err := a.sessionRepository.Touch(ctx, claims.SessionID); err != nil {
		// activity stamping is best-effort, the request is already authorized
		log.Err(err).Str("session_id", claims.SessionID).Msg("session activity update failed")
	}

	return models.Identity{
		UserID:    userID,
		SessionID: claims.SessionID,
		Role:      claims.Role,
	}, nil
}
