package store

import (
	"context"
	"time"

	"github.com/MKhiriev/go-auth-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// UserRepository persists user accounts and their credential state.
//
// CreateUser and UpdatePassword receive the raw password and hash it before
// the record is written; no method ever stores or returns plaintext.
type UserRepository interface {
	CreateUser(ctx context.Context, user models.User, rawPassword string) (models.User, error)
	FindUserByEmail(ctx context.Context, email string) (models.User, error)
	FindUserByID(ctx context.Context, userID int64) (models.User, error)
	// RecordFailedLogin increments the consecutive failure counter and, once
	// the lockout threshold is reached, sets lock_until in the same statement.
	RecordFailedLogin(ctx context.Context, userID int64) error
	// RecordLogin resets the failure counter, clears any lock and stamps
	// last_login / last_activity.
	RecordLogin(ctx context.Context, userID int64) error
	UpdateProfile(ctx context.Context, userID int64, name *string, profileImage *string) (models.User, error)
	UpdatePassword(ctx context.Context, userID int64, newRawPassword string) error
	DeleteUser(ctx context.Context, userID int64) error
}

// SessionRepository persists server-side sessions. Validity transitions are
// one-way: a session is created valid and can only be invalidated, never
// revived. All mutating methods use conditional UPDATEs so that concurrent
// callers on different instances cannot interleave a read-modify-write.
type SessionRepository interface {
	Create(ctx context.Context, userID int64, meta models.ClientMeta, ttl time.Duration) (models.Session, error)
	// FindActive returns ErrSessionNotFound for a missing, invalidated or
	// expired session alike; expiry is enforced in the query itself.
	FindActive(ctx context.Context, sessionID string, userID int64) (models.Session, error)
	Touch(ctx context.Context, sessionID string) error
	Invalidate(ctx context.Context, sessionID string, userID int64) error
	// InvalidateAllExcept invalidates every valid session of the user other
	// than keepSessionID and returns the ids it touched.
	InvalidateAllExcept(ctx context.Context, userID int64, keepSessionID string) ([]string, error)
	ListActive(ctx context.Context, userID int64) ([]models.Session, error)
	DeleteAll(ctx context.Context, userID int64) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// ErrorClassificator decides whether a failed database operation is worth
// retrying. Implemented by [PostgresErrorClassifier].
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}
