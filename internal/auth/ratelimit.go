package auth

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/vidorahq/vidora/backend/internal/apperr"
	"github.com/vidorahq/vidora/backend/internal/cache"
)

// RateLimiter enforces a fixed-window request quota per authenticated
// user, counted in Redis so the quota holds across instances. When the
// limiter backend is unreachable the request is rejected (fail-closed).
type RateLimiter struct {
	cache  cache.Service
	logger Logger
	config *Config
}

// NewRateLimiter creates a per-user rate limiter
func NewRateLimiter(cache cache.Service, logger Logger, config *Config) *RateLimiter {
	return &RateLimiter{
		cache:  cache,
		logger: logger,
		config: config,
	}
}

// Allow records one request for the user and returns a typed error when
// the quota is exhausted or the limiter cannot be consulted.
func (r *RateLimiter) Allow(ctx context.Context, userID uuid.UUID) error {
	key := fmt.Sprintf("ratelimit:%s", userID)

	count, err := r.cache.Incr(ctx, key, r.config.RateLimit.Window)
	if err != nil {
		r.logger.LogError(err, "rate limiter backend unavailable, rejecting request")
		return apperr.TooManyRequests("rate limit could not be verified")
	}

	if count > int64(r.config.RateLimit.Requests) {
		return apperr.TooManyRequests("rate limit exceeded")
	}
	return nil
}
