package workers

import (
	"context"
	"time"

	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/MKhiriev/go-auth-keeper/internal/store"
)

// sessionReaper periodically deletes expired session rows.
//
// Expiry is already enforced on every read, so the reaper never affects
// correctness: it only reclaims storage occupied by sessions that can no
// longer authorize anything.
type sessionReaper struct {
	sessionRepository store.SessionRepository
	interval          time.Duration
	logger            *logger.Logger
}

func newSessionReaper(sessionRepository store.SessionRepository, interval time.Duration, logger *logger.Logger) *sessionReaper {
	return &sessionReaper{
		sessionRepository: sessionRepository,
		interval:          interval,
		logger:            logger,
	}
}

// Run starts the reap loop in a background goroutine and returns.
func (r *sessionReaper) Run() {
	r.logger.Info().Dur("interval", r.interval).Msg("starting expired-session reaper")

	go func() {
		ticker := time.NewTicker(r.interval)
		defer ticker.Stop()

		for range ticker.C {
			r.reap(context.Background())
		}
	}()
}

// reap performs a single deletion pass.
func (r *sessionReaper) reap(ctx context.Context) {
	deleted, err := r.sessionRepository.DeleteExpired(ctx)
	if err != nil {
		r.logger.Error().Err(err).Str("func", "*sessionReaper.reap").Msg("error occurred during expired session cleanup")
		return
	}

	if deleted > 0 {
		r.logger.Info().Int64("deleted", deleted).Msg("expired sessions reclaimed")
	}
}
