package middleware

import (
	"net/http"
	"strings"

	apierrors "github.com/OPGLOL/opgl-profile-service/internal/errors"
	"github.com/rs/zerolog"
)

// TokenValidator validates admin bearer tokens
type TokenValidator interface {
	ValidateAdminToken(tokenString string) error
}

// AdminAuthMiddleware rejects requests without a valid admin bearer token
func AdminAuthMiddleware(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(responseWriter http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			if authHeader == "" {
				apierrors.WriteError(responseWriter, apierrors.NewAPIError(
					apierrors.ErrCodeUnauthorized,
					"Authorization header is required",
					http.StatusUnauthorized,
				))
				return
			}

			tokenString, found := strings.CutPrefix(authHeader, "Bearer ")
			if !found || tokenString == "" {
				apierrors.WriteError(responseWriter, apierrors.NewAPIError(
					apierrors.ErrCodeUnauthorized,
					"Invalid authorization format. Use: Bearer <token>",
					http.StatusUnauthorized,
				))
				return
			}

			if err := validator.ValidateAdminToken(tokenString); err != nil {
				zerolog.Ctx(request.Context()).Warn().Err(err).Msg("Rejected admin token")
				apierrors.WriteError(responseWriter, apierrors.NewAPIError(
					apierrors.ErrCodeInvalidToken,
					"Invalid or expired access token",
					http.StatusUnauthorized,
				))
				return
			}

			next.ServeHTTP(responseWriter, request)
		})
	}
}
