package ratelimit

import (
	"context"
	"time"

	"github.com/OPGLOL/opgl-profile-service/internal/repository"
	"github.com/rs/zerolog/log"
)

// RateLimitResult contains the result of a rate limit check
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetTime time.Time
}

// RateLimiter enforces per-API-key request quotas over fixed time windows.
// It protects the shared Riot API key of this service from a single noisy client.
type RateLimiter struct {
	apiKeyRepository repository.APIKeyRepository
	now              func() time.Time
}

// NewRateLimiter creates a new rate limiter instance
func NewRateLimiter(apiKeyRepository repository.APIKeyRepository) *RateLimiter {
	return &RateLimiter{
		apiKeyRepository: apiKeyRepository,
		now:              time.Now,
	}
}

// CheckRateLimit counts one request for apiKey and reports whether it is allowed.
// An unknown or revoked key yields Limit == 0.
func (rateLimiter *RateLimiter) CheckRateLimit(ctx context.Context, apiKey string) (*RateLimitResult, error) {
	now := rateLimiter.now()

	apiKeyRecord, err := rateLimiter.apiKeyRepository.GetByKeyHash(ctx, repository.HashAPIKey(apiKey))
	if err != nil {
		return nil, err
	}

	if apiKeyRecord == nil {
		return &RateLimitResult{ResetTime: now}, nil
	}

	windowDuration := time.Duration(apiKeyRecord.RateWindowSeconds) * time.Second
	windowStart := calculateWindowStart(now, windowDuration)
	resetTime := windowStart.Add(windowDuration)

	requestCount, err := rateLimiter.apiKeyRepository.IncrementRequestCount(ctx, apiKeyRecord.ID, windowStart)
	if err != nil {
		return nil, err
	}

	go func() {
		updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := rateLimiter.apiKeyRepository.UpdateLastUsed(updateCtx, apiKeyRecord.ID); err != nil {
			log.Warn().Err(err).Str("api_key_id", apiKeyRecord.ID.String()).Msg("Failed to update API key last use")
		}
	}()

	remaining := apiKeyRecord.RateLimit - requestCount
	if remaining < 0 {
		remaining = 0
	}

	return &RateLimitResult{
		Allowed:   requestCount <= apiKeyRecord.RateLimit,
		Limit:     apiKeyRecord.RateLimit,
		Remaining: remaining,
		ResetTime: resetTime,
	}, nil
}

// calculateWindowStart aligns currentTime down to a multiple of windowDuration
func calculateWindowStart(currentTime time.Time, windowDuration time.Duration) time.Time {
	windowSeconds := int64(windowDuration.Seconds())
	if windowSeconds <= 0 {
		windowSeconds = 60
	}
	windowStartUnix := (currentTime.Unix() / windowSeconds) * windowSeconds
	return time.Unix(windowStartUnix, 0).UTC()
}
