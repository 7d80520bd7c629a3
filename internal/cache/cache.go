// Package cache provides the Redis-backed session invalidation cache.
//
// The cache is strictly advisory. It remembers which sessions have been
// revoked so that token verification can reject them without a database
// round trip. It can never authorize a request: a cache miss, a connection
// failure or a disabled cache all degrade to "unknown" and the caller falls
// through to the session store, which remains the source of truth.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/MKhiriev/go-auth-keeper/internal/config"
	"github.com/MKhiriev/go-auth-keeper/internal/logger"
	"github.com/redis/go-redis/v9"
)

//go:generate mockgen -source=cache.go -destination=../mock/cache_mock.go -package=mock

// invalidMarker is the value stored under a revoked session's key. Only key
// presence matters; the value exists because Redis has no value-less SET.
const invalidMarker = "invalid"

// SessionInvalidationCache records revoked sessions for fast-path rejection
// during token verification.
type SessionInvalidationCache interface {
	// MarkInvalid remembers that the session has been revoked. ttl bounds the
	// marker's lifetime and should equal the session's remaining lifetime:
	// past expiry the store rejects the session on its own.
	MarkInvalid(ctx context.Context, userID int64, sessionID string, ttl time.Duration) error

	// IsKnownInvalid reports whether the session is recorded as revoked.
	// false means "unknown", never "valid".
	IsKnownInvalid(ctx context.Context, userID int64, sessionID string) bool

	// ClearForUser removes every revocation marker of the user except the one
	// for keepSessionID. Used after bulk operations to reset stale markers.
	ClearForUser(ctx context.Context, userID int64, keepSessionID string) error
}

// redisCache is the go-redis implementation of [SessionInvalidationCache].
type redisCache struct {
	client *redis.Client
	logger *logger.Logger
}

// NewRedisCache connects to Redis using the provided configuration. An empty
// address disables the cache: a [NopCache] is returned and every lookup
// degrades to the session store.
func NewRedisCache(ctx context.Context, cfg config.Cache, log *logger.Logger) (SessionInvalidationCache, error) {
	if cfg.Addr == "" {
		log.Info().Str("func", "NewRedisCache").Msg("cache address is empty, session invalidation cache disabled")
		return NopCache{}, nil
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		log.Err(err).Str("func", "NewRedisCache").Msg("error connecting to redis (ping)")
		return nil, fmt.Errorf("error connecting to redis: %w", err)
	}
	log.Info().Str("func", "NewRedisCache").Msg("connected to redis successfully")

	return &redisCache{client: client, logger: log}, nil
}

// sessionKey builds the per-session revocation key, namespaced by user so
// that ClearForUser can scan one user's markers without touching others.
func sessionKey(userID int64, sessionID string) string {
	return fmt.Sprintf("session:%d:%s", userID, sessionID)
}

func userKeyPattern(userID int64) string {
	return fmt.Sprintf("session:%d:*", userID)
}

func (c *redisCache) MarkInvalid(ctx context.Context, userID int64, sessionID string, ttl time.Duration) error {
	log := logger.FromContext(ctx)

	if ttl <= 0 {
		// session already past expiry, the store rejects it without help
		return nil
	}

	if err := c.client.Set(ctx, sessionKey(userID, sessionID), invalidMarker, ttl).Err(); err != nil {
		log.Err(err).Str("func", "*redisCache.MarkInvalid").Msg("error writing revocation marker")
		return fmt.Errorf("error writing revocation marker: %w", err)
	}

	return nil
}

func (c *redisCache) IsKnownInvalid(ctx context.Context, userID int64, sessionID string) bool {
	log := logger.FromContext(ctx)

	_, err := c.client.Get(ctx, sessionKey(userID, sessionID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			// degrade to "unknown", the store decides
			log.Err(err).Str("func", "*redisCache.IsKnownInvalid").Msg("error reading revocation marker")
		}
		return false
	}

	return true
}

func (c *redisCache) ClearForUser(ctx context.Context, userID int64, keepSessionID string) error {
	log := logger.FromContext(ctx)

	keep := sessionKey(userID, keepSessionID)

	iter := c.client.Scan(ctx, 0, userKeyPattern(userID), 0).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		if key == keep {
			continue
		}
		if err := c.client.Del(ctx, key).Err(); err != nil {
			log.Err(err).Str("func", "*redisCache.ClearForUser").Msg("error deleting revocation marker")
			return fmt.Errorf("error deleting revocation marker: %w", err)
		}
	}
	if err := iter.Err(); err != nil {
		log.Err(err).Str("func", "*redisCache.ClearForUser").Msg("error scanning revocation markers")
		return fmt.Errorf("error scanning revocation markers: %w", err)
	}

	return nil
}

// NopCache is the disabled-cache implementation: it remembers nothing and
// reports every session as unknown, so every check falls through to the
// session store.
type NopCache struct{}

func (NopCache) MarkInvalid(ctx context.Context, userID int64, sessionID string, ttl time.Duration) error {
	return nil
}

func (NopCache) IsKnownInvalid(ctx context.Context, userID int64, sessionID string) bool {
	return false
}

func (NopCache) ClearForUser(ctx context.Context, userID int64, keepSessionID string) error {
	return nil
}
