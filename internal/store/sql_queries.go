package store

import (
	"github.com/Masterminds/squirrel"
)

const (
	userColumns = `user_id, email, name, password_hash, profile_image, role, status, failed_logins, lock_until, last_login, last_activity, created_at`

	createUser = `INSERT INTO users (email, name, password_hash)
    VALUES ($1, $2, $3)
    RETURNING ` + userColumns + `;`

	findUserByEmail = `SELECT ` + userColumns + `
    FROM users
    WHERE lower(email) = lower($1);`

	findUserByID = `SELECT ` + userColumns + `
    FROM users
    WHERE user_id = $1;`

	// Lockout threshold and duration live in the statement itself so that the
	// counter increment and the lock decision are a single atomic write.
	recordFailedLogin = `UPDATE users
    SET failed_logins = failed_logins + 1,
        lock_until = CASE WHEN failed_logins + 1 >= 5 THEN now() + interval '30 minutes' ELSE lock_until END
    WHERE user_id = $1;`

	recordLogin = `UPDATE users
    SET failed_logins = 0, lock_until = NULL, last_login = now(), last_activity = now()
    WHERE user_id = $1;`

	updatePassword = `UPDATE users
    SET password_hash = $2
    WHERE user_id = $1;`

	deleteUser = `DELETE FROM users
    WHERE user_id = $1;`

	sessionColumns = `session_id, user_id, is_valid, user_agent, client_ip, created_at, last_activity, expires_at`

	createSession = `INSERT INTO sessions (session_id, user_id, user_agent, client_ip, expires_at)
    VALUES ($1, $2, $3, $4, $5)
    RETURNING ` + sessionColumns + `;`

	findActiveSession = `SELECT ` + sessionColumns + `
    FROM sessions
    WHERE session_id = $1 AND user_id = $2 AND is_valid = TRUE AND expires_at > now();`

	touchSession = `UPDATE sessions
    SET last_activity = now()
    WHERE session_id = $1;`

	invalidateSession = `UPDATE sessions
    SET is_valid = FALSE
    WHERE session_id = $1 AND user_id = $2 AND is_valid = TRUE;`

	deleteAllSessions = `DELETE FROM sessions
    WHERE user_id = $1;`

	deleteExpiredSessions = `DELETE FROM sessions
    WHERE expires_at <= now();`
)

// psql is the shared statement builder configured for PostgreSQL
// dollar-numbered placeholders.
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// buildUpdateProfileQuery dynamically builds an UPDATE for the profile fields
// that are actually present in the request. Nil fields keep their stored value.
func buildUpdateProfileQuery(userID int64, name *string, profileImage *string) (string, []any, error) {
	builder := psql.Update("users")

	if name != nil {
		builder = builder.Set("name", *name)
	}
	if profileImage != nil {
		builder = builder.Set("profile_image", *profileImage)
	}

	return builder.
		Where(squirrel.Eq{"user_id": userID}).
		Suffix("RETURNING " + userColumns).
		ToSql()
}

// buildInvalidateAllExceptQuery builds the bulk invalidation statement for
// every valid session of the user other than keepSessionID. The RETURNING
// clause yields the ids that were actually flipped, so the caller can mirror
// the invalidation into the cache.
func buildInvalidateAllExceptQuery(userID int64, keepSessionID string) (string, []any, error) {
	return psql.Update("sessions").
		Set("is_valid", false).
		Where(squirrel.Eq{"user_id": userID, "is_valid": true}).
		Where(squirrel.NotEq{"session_id": keepSessionID}).
		Suffix("RETURNING session_id").
		ToSql()
}

// buildListActiveSessionsQuery builds the select for the user's currently
// valid, unexpired sessions, most recently active first.
func buildListActiveSessionsQuery(userID int64) (string, []any, error) {
	return psql.Select(sessionColumns).
		From("sessions").
		Where(squirrel.Eq{"user_id": userID, "is_valid": true}).
		Where(squirrel.Expr("expires_at > now()")).
		OrderBy("last_activity DESC").
		ToSql()
}
