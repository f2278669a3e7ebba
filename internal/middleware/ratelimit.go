package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	apierrors "github.com/OPGLOL/opgl-profile-service/internal/errors"
	"github.com/OPGLOL/opgl-profile-service/internal/ratelimit"
	"github.com/rs/zerolog"
)

// APIKeyHeader carries the client API key
const APIKeyHeader = "X-API-Key"

// apiKeyQueryParam is accepted for WebSocket upgrades, where browsers cannot set headers
const apiKeyQueryParam = "apiKey"

// RateLimitChecker counts a request against an API key
type RateLimitChecker interface {
	CheckRateLimit(ctx context.Context, apiKey string) (*ratelimit.RateLimitResult, error)
}

// RateLimitMiddleware creates middleware that enforces rate limiting based on API keys
func RateLimitMiddleware(rateLimiter RateLimitChecker) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
			apiKey := request.Header.Get(APIKeyHeader)
			if apiKey == "" {
				apiKey = request.URL.Query().Get(apiKeyQueryParam)
			}

			if apiKey == "" {
				apierrors.WriteError(responseWriter, apierrors.NewAPIError(
					apierrors.ErrCodeMissingAPIKey,
					"API key is required. Include X-API-Key header in your request.",
					http.StatusUnauthorized,
				))
				return
			}

			rateLimitResult, err := rateLimiter.CheckRateLimit(request.Context(), apiKey)
			if err != nil {
				zerolog.Ctx(request.Context()).Error().Err(err).Msg("Rate limit check failed")
				apierrors.WriteError(responseWriter, apierrors.InternalError("Rate limit check failed"))
				return
			}

			// Invalid or revoked keys come back with a zero limit
			if rateLimitResult.Limit == 0 {
				apierrors.WriteError(responseWriter, apierrors.NewAPIError(
					apierrors.ErrCodeInvalidAPIKey,
					"Invalid or inactive API key.",
					http.StatusUnauthorized,
				))
				return
			}

			responseWriter.Header().Set("X-RateLimit-Limit", strconv.Itoa(rateLimitResult.Limit))
			responseWriter.Header().Set("X-RateLimit-Remaining", strconv.Itoa(rateLimitResult.Remaining))
			responseWriter.Header().Set("X-RateLimit-Reset", strconv.FormatInt(rateLimitResult.ResetTime.Unix(), 10))

			if !rateLimitResult.Allowed {
				retryAfter := rateLimitResult.ResetTime.Unix() - time.Now().Unix()
				if retryAfter < 1 {
					retryAfter = 1
				}
				responseWriter.Header().Set("Retry-After", strconv.FormatInt(retryAfter, 10))

				apierrors.WriteError(responseWriter, apierrors.NewAPIError(
					apierrors.ErrCodeRateLimitExceeded,
					fmt.Sprintf("Rate limit exceeded. Try again in %d seconds.", retryAfter),
					http.StatusTooManyRequests,
				))
				return
			}

			next.ServeHTTP(responseWriter, request)
		})
	}
}
