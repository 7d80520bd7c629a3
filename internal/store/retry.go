package store

import (
	"context"
	"errors"
	"time"
)

const (
	// maxReadAttempts bounds how many times an idempotent read is executed
	// before its last error is returned.
	maxReadAttempts = 3

	// readRetryBackoff is the delay before the first re-attempt; it doubles
	// for every further attempt.
	readRetryBackoff = 100 * time.Millisecond
)

// withReadRetry runs fn up to maxReadAttempts times, repeating only when the
// error classifier reports the failure as transient (connection loss,
// serialization failure, deadlock rollback). Only idempotent reads may go
// through here: the closure must be safe to execute again in full.
func (db *DB) withReadRetry(ctx context.Context, fn func() error) error {
	var err error

	for attempt := 1; attempt <= maxReadAttempts; attempt++ {
		if err = fn(); err == nil {
			return nil
		}

		if db.errorClassificator.Classify(err) != Retryable {
			return err
		}

		if attempt == maxReadAttempts {
			break
		}

		db.logger.Warn().Err(err).Int("attempt", attempt).Msg("transient DB error, retrying read")

		backoff := readRetryBackoff << (attempt - 1)
		select {
		case <-ctx.Done():
			return errors.Join(err, ctx.Err())
		case <-time.After(backoff):
		}
	}

	return err
}
