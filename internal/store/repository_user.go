package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/models"
	"github.com/jackc/pgerrcode"
	"golang.org/x/crypto/bcrypt"
)

// bcryptCost is the work factor applied to every stored password hash.
const bcryptCost = 12

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles user account creation, lookup and credential state against the
// "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions.
type userRepository struct {
	db *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection.
func NewUserRepository(db *DB) UserRepository {
	db.logger.Debug().Msg("creating user repository")
	return &userRepository{db: db}
}

// CreateUser hashes the raw password and persists a new user record,
// returning the fully populated [models.User] with server-assigned fields
// (UserID, Role, Status, CreatedAt).
//
// Hashing happens here, on the save path: the raw password never reaches
// the database and is never stored on the returned struct. The email is
// lowercased before the insert so the stored value matches the
// case-insensitive unique index.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) on lower(email) → [ErrEmailAlreadyExists].
//   - Any other driver-level error → wrapped as "unexpected DB error".
//   - Scan failure → wrapped with [ErrScanningRow].
func (r *userRepository) CreateUser(ctx context.Context, user models.User, rawPassword string) (models.User, error) {
	log := logger.FromContext(ctx)

	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), bcryptCost)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: hashing password")
		return models.User{}, fmt.Errorf("error hashing password: %w", err)
	}

	row := r.db.QueryRowContext(ctx, createUser, strings.ToLower(user.Email), user.Name, string(hash))

	// create user in db
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: insert failed")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrEmailAlreadyExists
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	// scan saved user from db
	created, err := scanUserRow(row)
	if err != nil {
		// unique_violation can also surface at Scan time with database/sql
		if postgresError(err) == pgerrcode.UniqueViolation {
			return models.User{}, ErrEmailAlreadyExists
		}
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: scanning error")
		return models.User{}, errors.Join(ErrScanningRow, err)
	}

	return created, nil
}

// FindUserByEmail retrieves a user record by email, matched case-insensitively.
// Returns [ErrUserNotFound] when no account exists for the email.
// Transient driver failures are retried with backoff; the read is idempotent.
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	log := logger.FromContext(ctx)

	var found models.User
	err := r.db.withReadRetry(ctx, func() error {
		row := r.db.QueryRowContext(ctx, findUserByEmail, email)
		if err := row.Err(); err != nil {
			log.Err(err).Str("func", "*userRepository.FindUserByEmail").Msg("error: query failed")
			return fmt.Errorf("unexpected DB error: %w", err)
		}

		var scanErr error
		found, scanErr = scanUserRow(row)
		if scanErr != nil {
			if errors.Is(scanErr, sql.ErrNoRows) {
				return ErrUserNotFound
			}
			log.Err(scanErr).Str("func", "*userRepository.FindUserByEmail").Msg("error: scanning error")
			return errors.Join(ErrScanningRow, scanErr)
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	return found, nil
}

// FindUserByID retrieves a user record by its internal identifier.
// Returns [ErrUserNotFound] when the account does not exist.
// Transient driver failures are retried with backoff; the read is idempotent.
func (r *userRepository) FindUserByID(ctx context.Context, userID int64) (models.User, error) {
	log := logger.FromContext(ctx)

	var found models.User
	err := r.db.withReadRetry(ctx, func() error {
		row := r.db.QueryRowContext(ctx, findUserByID, userID)
		if err := row.Err(); err != nil {
			log.Err(err).Str("func", "*userRepository.FindUserByID").Msg("error: query failed")
			return fmt.Errorf("unexpected DB error: %w", err)
		}

		var scanErr error
		found, scanErr = scanUserRow(row)
		if scanErr != nil {
			if errors.Is(scanErr, sql.ErrNoRows) {
				return ErrUserNotFound
			}
			log.Err(scanErr).Str("func", "*userRepository.FindUserByID").Msg("error: scanning error")
			return errors.Join(ErrScanningRow, scanErr)
		}
		return nil
	})
	if err != nil {
		return models.User{}, err
	}

	return found, nil
}

// RecordFailedLogin increments the consecutive failure counter for the user.
// The lockout decision is part of the same UPDATE: when the incremented
// counter reaches the threshold, lock_until is set in that statement, so two
// racing failures cannot lose an increment or the lock.
func (r *userRepository) RecordFailedLogin(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, recordFailedLogin, userID)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.RecordFailedLogin").Msg("error: update failed")
		return errors.Join(ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Join(ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// RecordLogin resets the failure counter, clears any lock and stamps
// last_login / last_activity for a successful credential verification.
func (r *userRepository) RecordLogin(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, recordLogin, userID)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.RecordLogin").Msg("error: update failed")
		return errors.Join(ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Join(ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// UpdateProfile updates the profile fields present in the request and returns
// the refreshed record. Nil fields are left untouched.
func (r *userRepository) UpdateProfile(ctx context.Context, userID int64, name *string, profileImage *string) (models.User, error) {
	log := logger.FromContext(ctx)

	if name == nil && profileImage == nil {
		return r.FindUserByID(ctx, userID)
	}

	query, args, err := buildUpdateProfileQuery(userID, name, profileImage)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateProfile").Msg("error: building query")
		return models.User{}, errors.Join(ErrBuildingSQLQuery, err)
	}

	row := r.db.QueryRowContext(ctx, query, args...)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.UpdateProfile").Msg("error: update failed")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	updated, err := scanUserRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		log.Err(err).Str("func", "*userRepository.UpdateProfile").Msg("error: scanning error")
		return models.User{}, errors.Join(ErrScanningRow, err)
	}

	return updated, nil
}

// UpdatePassword hashes the new raw password and replaces the stored hash.
// Session invalidation on password change is the caller's responsibility.
func (r *userRepository) UpdatePassword(ctx context.Context, userID int64, newRawPassword string) error {
	log := logger.FromContext(ctx)

	hash, err := bcrypt.GenerateFromPassword([]byte(newRawPassword), bcryptCost)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdatePassword").Msg("error: hashing password")
		return fmt.Errorf("error hashing password: %w", err)
	}

	result, err := r.db.ExecContext(ctx, updatePassword, userID, string(hash))
	if err != nil {
		log.Err(err).Str("func", "*userRepository.UpdatePassword").Msg("error: update failed")
		return errors.Join(ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Join(ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

// DeleteUser removes the account row. Sessions go with it via the FK cascade;
// callers still clear the invalidation cache themselves.
func (r *userRepository) DeleteUser(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteUser, userID)
	if err != nil {
		log.Err(err).Str("func", "*userRepository.DeleteUser").Msg("error: delete failed")
		return errors.Join(ErrExecutingStatement, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return errors.Join(ErrExecutingStatement, err)
	}
	if affected == 0 {
		return ErrUserNotFound
	}

	return nil
}

func scanUserRow(row *sql.Row) (models.User, error) {
	var user models.User
	err := row.Scan(
		&user.UserID,
		&user.Email,
		&user.Name,
		&user.PasswordHash,
		&user.ProfileImage,
		&user.Role,
		&user.Status,
		&user.FailedLogins,
		&user.LockUntil,
		&user.LastLogin,
		&user.LastActivity,
		&user.CreatedAt,
	)
	if err != nil {
		return models.User{}, err
	}

	return user, nil
}
