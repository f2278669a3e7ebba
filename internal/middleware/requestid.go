package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

type contextKey string

const RequestIDKey contextKey = "request_id"

// RequestID tags every request with an id and attaches a request-scoped logger to its context
func RequestID(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
			start := time.Now()

			requestID := request.Header.Get("X-Request-ID")
			if requestID == "" {
				requestID = uuid.New().String()
			}

			responseWriter.Header().Set("X-Request-ID", requestID)

			requestLogger := logger.With().Str("request_id", requestID).Logger()
			ctx := context.WithValue(request.Context(), RequestIDKey, requestID)
			ctx = requestLogger.WithContext(ctx)

			requestLogger.Debug().
				Str("method", request.Method).
				Str("path", request.URL.Path).
				Str("remote_addr", request.RemoteAddr).
				Msg("Request started")

			next.ServeHTTP(responseWriter, request.WithContext(ctx))

			requestLogger.Info().
				Str("method", request.Method).
				Str("path", request.URL.Path).
				Dur("duration", time.Since(start)).
				Msg("Request completed")
		})
	}
}

// GetRequestID returns the request id stored by RequestID, or ""
func GetRequestID(ctx context.Context) string {
	if id, ok := ctx.Value(RequestIDKey).(string); ok {
		return id
	}
	return ""
}
