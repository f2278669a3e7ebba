package api

import (
	"encoding/json"
	"net/http"

	"github.com/OPGLOL/opgl-profile-service/internal/auth"
	apierrors "github.com/OPGLOL/opgl-profile-service/internal/errors"
	"github.com/rs/zerolog"
)

// AdminAuthenticator exchanges the admin password for an access token
type AdminAuthenticator interface {
	Login(password string) (*auth.AccessToken, bool, error)
}

// AuthHandler manages admin login
type AuthHandler struct {
	authenticator AdminAuthenticator
}

// NewAuthHandler creates a new AuthHandler instance
func NewAuthHandler(authenticator AdminAuthenticator) *AuthHandler {
	return &AuthHandler{
		authenticator: authenticator,
	}
}

// LoginRequest represents the request body for admin login
type LoginRequest struct {
	Password string `json:"password"`
}

// Login handles POST /api/v1/admin/login
func (authHandler *AuthHandler) Login(writer http.ResponseWriter, request *http.Request) {
	var loginRequest LoginRequest

	if err := json.NewDecoder(request.Body).Decode(&loginRequest); err != nil {
		apierrors.WriteError(writer, apierrors.InvalidRequestBody("Invalid JSON format"))
		return
	}

	if loginRequest.Password == "" {
		apierrors.WriteError(writer, apierrors.ValidationFailed("password is required"))
		return
	}

	accessToken, ok, err := authHandler.authenticator.Login(loginRequest.Password)
	if err != nil {
		zerolog.Ctx(request.Context()).Error().Err(err).Msg("Failed to issue admin token")
		apierrors.WriteError(writer, apierrors.InternalError("Failed to issue access token"))
		return
	}

	if !ok {
		zerolog.Ctx(request.Context()).Warn().Str("remote_addr", request.RemoteAddr).Msg("Rejected admin login")
		apierrors.WriteError(writer, apierrors.NewAPIError(
			apierrors.ErrCodeInvalidCredentials,
			"Invalid credentials",
			http.StatusUnauthorized,
		))
		return
	}

	writeJSON(writer, http.StatusOK, accessToken)
}
