package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/utils"
	"github.com/MKhiriev/go-auth-keeper/models"
)

// sessionRepository is the PostgreSQL-backed implementation of
// [SessionRepository] over the "sessions" table.
//
// Validity is enforced with conditional UPDATEs and read-time filters rather
// than in-process state, so multiple service instances can share the table
// without coordination.
type sessionRepository struct {
	db            *DB
	uuidGenerator *utils.UUIDGenerator
}

// NewSessionRepository constructs a [SessionRepository] backed by the
// provided database connection.
func NewSessionRepository(db *DB) SessionRepository {
	db.logger.Debug().Msg("creating session repository")
	return &sessionRepository{
		db:            db,
		uuidGenerator: utils.NewUUIDGenerator(),
	}
}

// Create inserts a new valid session for the user with a fresh UUID and an
// absolute expiry ttl from now, returning the stored record.
func (r *sessionRepository) Create(ctx context.Context, userID int64, meta models.ClientMeta, ttl time.Duration) (models.Session, error) {
	log := logger.FromContext(ctx)

	sessionID := r.uuidGenerator.Generate()
	expiresAt := time.Now().Add(ttl)

	row := r.db.QueryRowContext(ctx, createSession, sessionID, userID, meta.UserAgent, meta.ClientIP, expiresAt)
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*sessionRepository.Create").Msg("error: insert failed")
		return models.Session{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	created, err := scanSessionRow(row)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.Create").Msg("error: scanning error")
		return models.Session{}, errors.Join(ErrScanningRow, err)
	}

	return created, nil
}

// FindActive retrieves the session only while it is still usable: valid flag
// set and expiry in the future, both checked inside the query. A missing,
// invalidated or expired session all return [ErrSessionNotFound].
// Transient driver failures are retried with backoff; the read is idempotent.
func (r *sessionRepository) FindActive(ctx context.Context, sessionID string, userID int64) (models.Session, error) {
	log := logger.FromContext(ctx)

	var found models.Session
	err := r.db.withReadRetry(ctx, func() error {
		row := r.db.QueryRowContext(ctx, findActiveSession, sessionID, userID)
		if err := row.Err(); err != nil {
			log.Err(err).Str("func", "*sessionRepository.FindActive").Msg("error: query failed")
			return fmt.Errorf("unexpected DB error: %w", err)
		}

		var scanErr error
		found, scanErr = scanSessionRow(row)
		if scanErr != nil {
			if errors.Is(scanErr, sql.ErrNoRows) {
				return ErrSessionNotFound
			}
			log.Err(scanErr).Str("func", "*sessionRepository.FindActive").Msg("error: scanning error")
			return errors.Join(ErrScanningRow, scanErr)
		}
		return nil
	})
	if err != nil {
		return models.Session{}, err
	}

	return found, nil
}

// Touch bumps the session's last_activity stamp. Touching a missing session
// is not an error: the validating read has already decided the request.
func (r *sessionRepository) Touch(ctx context.Context, sessionID string) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, touchSession, sessionID); err != nil {
		log.Err(err).Str("func", "*sessionRepository.Touch").Msg("error: update failed")
		return errors.Join(ErrExecutingStatement, err)
	}

	return nil
}

// Invalidate flips the session's validity flag. The statement is conditional
// on is_valid = TRUE, so repeating a logout affects zero rows and succeeds:
// the observable outcome (session invalid) is identical either way.
func (r *sessionRepository) Invalidate(ctx context.Context, sessionID string, userID int64) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, invalidateSession, sessionID, userID); err != nil {
		log.Err(err).Str("func", "*sessionRepository.Invalidate").Msg("error: update failed")
		return errors.Join(ErrExecutingStatement, err)
	}

	return nil
}

// InvalidateAllExcept invalidates every valid session of the user other than
// keepSessionID in a single statement and returns the affected ids. A session
// created after the statement's snapshot is untouched, which is the intended
// semantics for "log out my other devices".
func (r *sessionRepository) InvalidateAllExcept(ctx context.Context, userID int64, keepSessionID string) ([]string, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildInvalidateAllExceptQuery(userID, keepSessionID)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.InvalidateAllExcept").Msg("error: building query")
		return nil, errors.Join(ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.InvalidateAllExcept").Msg("error: update failed")
		return nil, errors.Join(ErrExecutingQuery, err)
	}
	defer rows.Close()

	var invalidated []string
	for rows.Next() {
		var sessionID string
		if err := rows.Scan(&sessionID); err != nil {
			log.Err(err).Str("func", "*sessionRepository.InvalidateAllExcept").Msg("error: scanning error")
			return nil, errors.Join(ErrScanningRows, err)
		}
		invalidated = append(invalidated, sessionID)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrScanningRows, err)
	}

	return invalidated, nil
}

// ListActive returns the user's valid, unexpired sessions ordered by most
// recent activity.
func (r *sessionRepository) ListActive(ctx context.Context, userID int64) ([]models.Session, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildListActiveSessionsQuery(userID)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.ListActive").Msg("error: building query")
		return nil, errors.Join(ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.ListActive").Msg("error: query failed")
		return nil, errors.Join(ErrExecutingQuery, err)
	}
	defer rows.Close()

	var sessions []models.Session
	for rows.Next() {
		var session models.Session
		err := rows.Scan(
			&session.SessionID,
			&session.UserID,
			&session.IsValid,
			&session.UserAgent,
			&session.ClientIP,
			&session.CreatedAt,
			&session.LastActivity,
			&session.ExpiresAt,
		)
		if err != nil {
			log.Err(err).Str("func", "*sessionRepository.ListActive").Msg("error: scanning error")
			return nil, errors.Join(ErrScanningRows, err)
		}
		sessions = append(sessions, session)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Join(ErrScanningRows, err)
	}

	return sessions, nil
}

// DeleteAll removes every session row of the user, valid or not. Used by
// account deletion alongside the FK cascade.
func (r *sessionRepository) DeleteAll(ctx context.Context, userID int64) error {
	log := logger.FromContext(ctx)

	if _, err := r.db.ExecContext(ctx, deleteAllSessions, userID); err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteAll").Msg("error: delete failed")
		return errors.Join(ErrExecutingStatement, err)
	}

	return nil
}

// DeleteExpired garbage-collects sessions past their expiry time and reports
// how many rows were removed. Invoked periodically by the reaper worker.
func (r *sessionRepository) DeleteExpired(ctx context.Context) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, deleteExpiredSessions)
	if err != nil {
		log.Err(err).Str("func", "*sessionRepository.DeleteExpired").Msg("error: delete failed")
		return 0, errors.Join(ErrExecutingStatement, err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, errors.Join(ErrExecutingStatement, err)
	}

	return deleted, nil
}

func scanSessionRow(row *sql.Row) (models.Session, error) {
	var session models.Session
	err := row.Scan(
		&session.SessionID,
		&session.UserID,
		&session.IsValid,
		&session.UserAgent,
		&session.ClientIP,
		&session.CreatedAt,
		&session.LastActivity,
		&session.ExpiresAt,
	)
	if err != nil {
		return models.Session{}, err
	}

	return session, nil
}
