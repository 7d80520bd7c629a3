package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/jackc/pgerrcode"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()
	return &DB{errorClassificator: NewPostgresErrorClassifier(), logger: logger.Nop()}
}

func TestWithReadRetry_SucceedsFirstAttempt(t *testing.T) {
	db := newTestDB(t)

	attempts := 0
	err := db.withReadRetry(context.Background(), func() error {
		attempts++
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt, got %d", attempts)
	}
}

func TestWithReadRetry_RecoversFromTransientError(t *testing.T) {
	db := newTestDB(t)

	attempts := 0
	err := db.withReadRetry(context.Background(), func() error {
		attempts++
		if attempts == 1 {
			return fmt.Errorf("unexpected DB error: %w", pgError(pgerrcode.SerializationFailure))
		}
		return nil
	})

	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Errorf("expected 2 attempts, got %d", attempts)
	}
}

func TestWithReadRetry_NonRetryableFailsFast(t *testing.T) {
	db := newTestDB(t)

	attempts := 0
	wantErr := fmt.Errorf("unexpected DB error: %w", pgError(pgerrcode.UniqueViolation))
	err := db.withReadRetry(context.Background(), func() error {
		attempts++
		return wantErr
	})

	if !errors.Is(err, wantErr) {
		t.Fatalf("expected %v, got %v", wantErr, err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt for non-retryable error, got %d", attempts)
	}
}

func TestWithReadRetry_ExhaustsBoundedAttempts(t *testing.T) {
	db := newTestDB(t)

	attempts := 0
	err := db.withReadRetry(context.Background(), func() error {
		attempts++
		return fmt.Errorf("unexpected DB error: %w", pgError(pgerrcode.CannotConnectNow))
	})

	if err == nil {
		t.Fatal("expected error after exhausting attempts")
	}
	if attempts != maxReadAttempts {
		t.Errorf("expected %d attempts, got %d", maxReadAttempts, attempts)
	}
}

func TestWithReadRetry_CanceledContextStopsRetrying(t *testing.T) {
	db := newTestDB(t)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	attempts := 0
	err := db.withReadRetry(ctx, func() error {
		attempts++
		return fmt.Errorf("unexpected DB error: %w", pgError(pgerrcode.CannotConnectNow))
	})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in error chain, got %v", err)
	}
	if attempts != 1 {
		t.Errorf("expected 1 attempt with a canceled context, got %d", attempts)
	}
}
