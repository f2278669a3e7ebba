package api

import (
	"encoding/json"
	"net/http"
	"time"

	apierrors "github.com/OPGLOL/opgl-profile-service/internal/errors"
	"github.com/OPGLOL/opgl-profile-service/internal/repository"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
)

const (
	defaultRateLimit         = 60
	defaultRateWindowSeconds = 60
)

// AdminHandler manages API keys of the clients allowed to search profiles
type AdminHandler struct {
	apiKeyRepository repository.APIKeyRepository
	validate         *validator.Validate
}

// NewAdminHandler creates a new AdminHandler instance
func NewAdminHandler(apiKeyRepository repository.APIKeyRepository) *AdminHandler {
	return &AdminHandler{
		apiKeyRepository: apiKeyRepository,
		validate:         validator.New(),
	}
}

// CreateAPIKeyRequest represents the request body for creating an API key
type CreateAPIKeyRequest struct {
	Name              string `json:"name" validate:"required,max=255"`
	RateLimit         int    `json:"rateLimit" validate:"gte=0"`
	RateWindowSeconds int    `json:"rateWindowSeconds" validate:"gte=0,lte=86400"`
}

// CreateAPIKeyResponse carries the plain key, which is shown only once
type CreateAPIKeyResponse struct {
	ID                string `json:"id"`
	APIKey            string `json:"apiKey"`
	Name              string `json:"name"`
	RateLimit         int    `json:"rateLimit"`
	RateWindowSeconds int    `json:"rateWindowSeconds"`
}

// APIKeyListItem represents an API key in list responses (without the actual key)
type APIKeyListItem struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	RateLimit         int    `json:"rateLimit"`
	RateWindowSeconds int    `json:"rateWindowSeconds"`
	IsActive          bool   `json:"isActive"`
	CreatedAt         string `json:"createdAt"`
	LastUsedAt        string `json:"lastUsedAt,omitempty"`
}

// DeleteAPIKeyRequest represents the request body for deleting an API key
type DeleteAPIKeyRequest struct {
	ID string `json:"id"`
}

// CreateAPIKey handles POST /api/v1/admin/apikeys
func (adminHandler *AdminHandler) CreateAPIKey(writer http.ResponseWriter, request *http.Request) {
	var createRequest CreateAPIKeyRequest

	if err := json.NewDecoder(request.Body).Decode(&createRequest); err != nil {
		apierrors.WriteError(writer, apierrors.InvalidRequestBody("Invalid JSON format"))
		return
	}

	if err := adminHandler.validate.StructCtx(request.Context(), createRequest); err != nil {
		apierrors.WriteError(writer, apierrors.ValidationFailed(err.Error()))
		return
	}

	rateLimit := createRequest.RateLimit
	if rateLimit == 0 {
		rateLimit = defaultRateLimit
	}

	rateWindowSeconds := createRequest.RateWindowSeconds
	if rateWindowSeconds == 0 {
		rateWindowSeconds = defaultRateWindowSeconds
	}

	apiKey, err := repository.GenerateAPIKey()
	if err != nil {
		apierrors.WriteError(writer, apierrors.InternalError("Failed to generate API key"))
		return
	}

	apiKeyRecord, err := adminHandler.apiKeyRepository.Create(request.Context(), createRequest.Name, repository.HashAPIKey(apiKey), rateLimit, rateWindowSeconds)
	if err != nil {
		zerolog.Ctx(request.Context()).Error().Err(err).Msg("Failed to create API key")
		apierrors.WriteError(writer, apierrors.InternalError("Failed to create API key"))
		return
	}

	zerolog.Ctx(request.Context()).Info().
		Str("api_key_id", apiKeyRecord.ID.String()).
		Str("name", apiKeyRecord.Name).
		Msg("API key created")

	writeJSON(writer, http.StatusCreated, CreateAPIKeyResponse{
		ID:                apiKeyRecord.ID.String(),
		APIKey:            apiKey,
		Name:              apiKeyRecord.Name,
		RateLimit:         apiKeyRecord.RateLimit,
		RateWindowSeconds: apiKeyRecord.RateWindowSeconds,
	})
}

// ListAPIKeys handles POST /api/v1/admin/apikeys/list
func (adminHandler *AdminHandler) ListAPIKeys(writer http.ResponseWriter, request *http.Request) {
	apiKeys, err := adminHandler.apiKeyRepository.List(request.Context())
	if err != nil {
		zerolog.Ctx(request.Context()).Error().Err(err).Msg("Failed to list API keys")
		apierrors.WriteError(writer, apierrors.InternalError("Failed to list API keys"))
		return
	}

	responseItems := make([]APIKeyListItem, 0, len(apiKeys))
	for _, apiKey := range apiKeys {
		item := APIKeyListItem{
			ID:                apiKey.ID.String(),
			Name:              apiKey.Name,
			RateLimit:         apiKey.RateLimit,
			RateWindowSeconds: apiKey.RateWindowSeconds,
			IsActive:          apiKey.IsActive,
			CreatedAt:         apiKey.CreatedAt.Format(time.RFC3339),
		}
		if apiKey.LastUsedAt.Valid {
			item.LastUsedAt = apiKey.LastUsedAt.Time.Format(time.RFC3339)
		}
		responseItems = append(responseItems, item)
	}

	writeJSON(writer, http.StatusOK, responseItems)
}

// DeleteAPIKey handles POST /api/v1/admin/apikeys/delete and DELETE /api/v1/admin/apikeys/{id}
func (adminHandler *AdminHandler) DeleteAPIKey(writer http.ResponseWriter, request *http.Request) {
	idString := mux.Vars(request)["id"]

	if idString == "" {
		var deleteRequest DeleteAPIKeyRequest
		if err := json.NewDecoder(request.Body).Decode(&deleteRequest); err != nil {
			apierrors.WriteError(writer, apierrors.InvalidRequestBody("Invalid JSON format"))
			return
		}
		idString = deleteRequest.ID
	}

	if idString == "" {
		apierrors.WriteError(writer, apierrors.ValidationFailed("id is required"))
		return
	}

	id, err := uuid.Parse(idString)
	if err != nil {
		apierrors.WriteError(writer, apierrors.ValidationFailed("invalid id format"))
		return
	}

	if err := adminHandler.apiKeyRepository.Delete(request.Context(), id); err != nil {
		zerolog.Ctx(request.Context()).Error().Err(err).Str("api_key_id", idString).Msg("Failed to revoke API key")
		apierrors.WriteError(writer, apierrors.InternalError("Failed to delete API key"))
		return
	}

	writeJSON(writer, http.StatusOK, map[string]string{
		"message": "API key revoked successfully",
	})
}
