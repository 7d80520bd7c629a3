package service

import (
	"context"
	"fmt"
	"time"

	"github.com/MKhiriev/go-auth-keeper/internal/cache"
	"github.com/MKhiriev/go-auth-keeper/internal/config"
	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/store"
	"github.com/MKhiriev/go-auth-keeper/models"
	"golang.org/x/crypto/bcrypt"
)

// userService is the concrete implementation of [UserService]. Operations
// that change credentials or destroy the account also revoke sessions, so
// the service holds both repositories and the cache.
type userService struct {
	userRepository    store.UserRepository
	sessionRepository store.SessionRepository
	invalidationCache cache.SessionInvalidationCache
	sessionTTL        time.Duration
	logger            *logger.Logger
}

// NewUserService constructs a [UserService] wired to the given storages and
// cache.
func NewUserService(storages *store.Storages, invalidationCache cache.SessionInvalidationCache, cfg config.App, logger *logger.Logger) UserService {
	return &userService{
		userRepository:    storages.UserRepository,
		sessionRepository: storages.SessionRepository,
		invalidationCache: invalidationCache,
		sessionTTL:        cfg.SessionTTL,
		logger:            logger,
	}
}

// Profile returns the caller's account record.
func (u *userService) Profile(ctx context.Context, userID int64) (models.User, error) {
	user, err := u.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("user lookup ended with error: %w", err)
	}

	return user, nil
}

// UpdateProfile applies the fields present in the request and returns the
// refreshed record. Absent fields keep their stored value.
func (u *userService) UpdateProfile(ctx context.Context, userID int64, req models.UpdateProfileRequest) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := u.userRepository.UpdateProfile(ctx, userID, req.Name, req.ProfileImage)
	if err != nil {
		log.Err(err).Int64("id", userID).Msg("profile update ended with error")
		return models.User{}, fmt.Errorf("profile update ended with error: %w", err)
	}

	return user, nil
}

// ChangePassword replaces the stored hash after re-verifying the current
// password, then invalidates every session of the user. Refresh tokens
// minted before the change die with their sessions; the caller must log in
// again on each device, this one included.
func (u *userService) ChangePassword(ctx context.Context, identity models.Identity, req models.ChangePasswordRequest) error {
	log := logger.FromContext(ctx)

	if req.CurrentPassword == "" || req.NewPassword == "" {
		return ErrInvalidDataProvided
	}

	if err := u.verifyPassword(ctx, identity.UserID, req.CurrentPassword); err != nil {
		return err
	}

	if err := u.userRepository.UpdatePassword(ctx, identity.UserID, req.NewPassword); err != nil {
		log.Err(err).Int64("id", identity.UserID).Msg("password update ended with error")
		return fmt.Errorf("password update ended with error: %w", err)
	}

	// the empty keep id matches no session, so every valid session goes
	invalidated, err := u.sessionRepository.InvalidateAllExcept(ctx, identity.UserID, "")
	if err != nil {
		log.Err(err).Int64("id", identity.UserID).Msg("bulk session invalidation ended with error")
		return fmt.Errorf("bulk session invalidation ended with error: %w", err)
	}

	for _, sessionID := range invalidated {
		if err := u.invalidationCache.MarkInvalid(ctx, identity.UserID, sessionID, u.sessionTTL); err != nil {
			log.Err(err).Str("session_id", sessionID).Msg("revocation marker write failed")
		}
	}

	return nil
}

// DeleteAccount destroys the account after re-verifying the password.
// Sessions are removed explicitly (the FK cascade is a backstop) and every
// cache marker of the user is dropped.
func (u *userService) DeleteAccount(ctx context.Context, identity models.Identity, password string) error {
	log := logger.FromContext(ctx)

	if password == "" {
		return ErrInvalidDataProvided
	}

	if err := u.verifyPassword(ctx, identity.UserID, password); err != nil {
		return err
	}

	if err := u.sessionRepository.DeleteAll(ctx, identity.UserID); err != nil {
		log.Err(err).Int64("id", identity.UserID).Msg("session removal ended with error")
		return fmt.Errorf("session removal ended with error: %w", err)
	}

	if err := u.userRepository.DeleteUser(ctx, identity.UserID); err != nil {
		log.Err(err).Int64("id", identity.UserID).Msg("account removal ended with error")
		return fmt.Errorf("account removal ended with error: %w", err)
	}

	// the sessions are gone from the store, markers have nothing to guard
	if err := u.invalidationCache.ClearForUser(ctx, identity.UserID, ""); err != nil {
		log.Err(err).Int64("id", identity.UserID).Msg("revocation marker cleanup failed")
	}

	return nil
}

// ActiveSessions lists the caller's valid, unexpired sessions, most recently
// active first.
func (u *userService) ActiveSessions(ctx context.Context, userID int64) ([]models.Session, error) {
	sessions, err := u.sessionRepository.ListActive(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("session listing ended with error: %w", err)
	}

	return sessions, nil
}

// verifyPassword re-checks the caller's password before a destructive
// operation. A mismatch surfaces as [ErrInvalidCredentials].
func (u *userService) verifyPassword(ctx context.Context, userID int64, password string) error {
	log := logger.FromContext(ctx)

	user, err := u.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		log.Err(err).Int64("id", userID).Msg("user lookup ended with error")
		return fmt.Errorf("user lookup ended with error: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return ErrInvalidCredentials
	}

	return nil
}
