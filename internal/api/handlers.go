package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	apierrors "github.com/OPGLOL/opgl-profile-service/internal/errors"
	"github.com/OPGLOL/opgl-profile-service/internal/models"
	"github.com/OPGLOL/opgl-profile-service/internal/riot"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// ProfileService builds a player profile from a Riot ID
type ProfileService interface {
	FetchProfile(ctx context.Context, riotID string) (*models.PlayerProfile, error)
}

// Handler manages the public HTTP request handlers
type Handler struct {
	profileService   ProfileService
	staticData       riot.StaticDataInterface
	patchNotesLocale string
	searchTimeout    time.Duration
	validate         *validator.Validate
}

// NewHandler creates a new Handler instance
func NewHandler(profileService ProfileService, staticData riot.StaticDataInterface, patchNotesLocale string, searchTimeout time.Duration) *Handler {
	return &Handler{
		profileService:   profileService,
		staticData:       staticData,
		patchNotesLocale: patchNotesLocale,
		searchTimeout:    searchTimeout,
		validate:         validator.New(),
	}
}

// ProfileRequest is the body of a profile search
type ProfileRequest struct {
	RiotID string `json:"riotId" validate:"required,max=80"`
}

// PatchResponse describes the current game patch
type PatchResponse struct {
	Version       string `json:"version"`
	Major         string `json:"major"`
	Minor         string `json:"minor"`
	PatchNotesURL string `json:"patchNotesUrl"`
}

// HealthCheck handles health check requests
func (handler *Handler) HealthCheck(writer http.ResponseWriter, request *http.Request) {
	writeJSON(writer, http.StatusOK, map[string]string{
		"status":  "healthy",
		"service": "opgl-profile",
	})
}

// GetProfile handles POST /api/v1/profile
func (handler *Handler) GetProfile(writer http.ResponseWriter, request *http.Request) {
	var profileRequest ProfileRequest

	if err := json.NewDecoder(request.Body).Decode(&profileRequest); err != nil {
		apierrors.WriteError(writer, apierrors.InvalidRequestBody("Invalid JSON format"))
		return
	}

	if err := handler.validate.StructCtx(request.Context(), profileRequest); err != nil {
		apierrors.WriteError(writer, apierrors.ValidationFailed("riotId is required and must be at most 80 characters"))
		return
	}

	ctx, cancel := context.WithTimeout(request.Context(), handler.searchTimeout)
	defer cancel()

	playerProfile, err := handler.profileService.FetchProfile(ctx, profileRequest.RiotID)
	if err != nil {
		apiError := apierrors.FromError(err)
		zerolog.Ctx(request.Context()).Info().
			Str("riot_id", profileRequest.RiotID).
			Str("code", string(apiError.Code)).
			Msg("Profile search failed")
		apierrors.WriteError(writer, apiError)
		return
	}

	writeJSON(writer, http.StatusOK, playerProfile)
}

// GetPatch handles POST /api/v1/patch
func (handler *Handler) GetPatch(writer http.ResponseWriter, request *http.Request) {
	version := handler.staticData.LatestVersion(request.Context())

	writeJSON(writer, http.StatusOK, PatchResponse{
		Version:       version.Full,
		Major:         version.Major,
		Minor:         version.Minor,
		PatchNotesURL: handler.staticData.PatchNotesURL(version, handler.patchNotesLocale),
	})
}

func writeJSON(writer http.ResponseWriter, status int, body any) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	json.NewEncoder(writer).Encode(body)
}
