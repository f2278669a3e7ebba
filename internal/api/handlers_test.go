package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	apierrors "github.com/OPGLOL/opgl-profile-service/internal/errors"
	"github.com/OPGLOL/opgl-profile-service/internal/models"
)

// MockProfileService is a mock implementation of ProfileService for testing
type MockProfileService struct {
	FetchProfileFunc func(ctx context.Context, riotID string) (*models.PlayerProfile, error)
}

func (m *MockProfileService) FetchProfile(ctx context.Context, riotID string) (*models.PlayerProfile, error) {
	if m.FetchProfileFunc != nil {
		return m.FetchProfileFunc(ctx, riotID)
	}
	return nil, apierrors.ErrNotFound
}

// MockStaticData is a mock implementation of riot.StaticDataInterface for testing
type MockStaticData struct {
	Version models.GameVersion
}

func (m *MockStaticData) LatestVersion(ctx context.Context) models.GameVersion {
	return m.Version
}

func (m *MockStaticData) ChampionNames(ctx context.Context, version string) (map[int]string, error) {
	return map[int]string{}, nil
}

func (m *MockStaticData) ProfileIconURL(version string, iconID int) string {
	return fmt.Sprintf("icon/%s/%d", version, iconID)
}

func (m *MockStaticData) PatchNotesURL(version models.GameVersion, locale string) string {
	return fmt.Sprintf("notes/%s/%s-%s", locale, version.Major, version.Minor)
}

func newTestHandler(profileService ProfileService) *Handler {
	staticData := &MockStaticData{Version: models.GameVersion{Full: "15.3.1", Major: "15", Minor: "3"}}
	return NewHandler(profileService, staticData, "en-us", time.Second)
}

func decodeError(t *testing.T, recorder *httptest.ResponseRecorder) apierrors.ErrorResponse {
	t.Helper()
	var errorResponse apierrors.ErrorResponse
	if err := json.NewDecoder(recorder.Body).Decode(&errorResponse); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	return errorResponse
}

// TestHealthCheck tests the health check endpoint
func TestHealthCheck(t *testing.T) {
	handler := newTestHandler(&MockProfileService{})

	request := httptest.NewRequest(http.MethodPost, "/health", nil)
	responseRecorder := httptest.NewRecorder()
	handler.HealthCheck(responseRecorder, request)

	if responseRecorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, responseRecorder.Code)
	}

	if contentType := responseRecorder.Header().Get("Content-Type"); contentType != "application/json" {
		t.Errorf("Expected Content-Type 'application/json', got '%s'", contentType)
	}

	var response map[string]string
	if err := json.NewDecoder(responseRecorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if response["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got '%s'", response["status"])
	}

	if response["service"] != "opgl-profile" {
		t.Errorf("Expected service 'opgl-profile', got '%s'", response["service"])
	}
}

// TestGetProfile_Success tests that the profile is returned for a valid Riot ID
func TestGetProfile_Success(t *testing.T) {
	var receivedRiotID string
	var hadDeadline bool
	mockService := &MockProfileService{
		FetchProfileFunc: func(ctx context.Context, riotID string) (*models.PlayerProfile, error) {
			receivedRiotID = riotID
			_, hadDeadline = ctx.Deadline()
			return &models.PlayerProfile{
				Account:        models.Account{PUUID: "puuid-1", GameName: "Faker", TagLine: "KR1"},
				PlatformRegion: "kr",
				RoutingRegion:  "asia",
			}, nil
		},
	}
	handler := newTestHandler(mockService)

	body, _ := json.Marshal(ProfileRequest{RiotID: "Faker#KR1"})
	request := httptest.NewRequest(http.MethodPost, "/api/v1/profile", bytes.NewReader(body))
	responseRecorder := httptest.NewRecorder()
	handler.GetProfile(responseRecorder, request)

	if responseRecorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, responseRecorder.Code)
	}

	if receivedRiotID != "Faker#KR1" {
		t.Errorf("Expected riot id 'Faker#KR1', got '%s'", receivedRiotID)
	}

	if !hadDeadline {
		t.Error("Expected search context to carry a deadline")
	}

	var playerProfile models.PlayerProfile
	if err := json.NewDecoder(responseRecorder.Body).Decode(&playerProfile); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if playerProfile.Account.PUUID != "puuid-1" {
		t.Errorf("Expected puuid 'puuid-1', got '%s'", playerProfile.Account.PUUID)
	}

	if playerProfile.PlatformRegion != "kr" {
		t.Errorf("Expected platform 'kr', got '%s'", playerProfile.PlatformRegion)
	}
}

// TestGetProfile_Errors tests the error responses of the profile endpoint
func TestGetProfile_Errors(t *testing.T) {
	testCases := []struct {
		name           string
		body           string
		serviceErr     error
		expectedStatus int
		expectedCode   apierrors.ErrorCode
	}{
		{
			name:           "invalid json",
			body:           "not json",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apierrors.ErrCodeInvalidRequestBody,
		},
		{
			name:           "missing riot id",
			body:           `{}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apierrors.ErrCodeValidationFailed,
		},
		{
			name:           "riot id too long",
			body:           `{"riotId":"` + string(bytes.Repeat([]byte("a"), 81)) + `"}`,
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apierrors.ErrCodeValidationFailed,
		},
		{
			name:           "invalid riot id",
			body:           `{"riotId":"#KR1"}`,
			serviceErr:     apierrors.InvalidRiotID("gameName is required"),
			expectedStatus: http.StatusBadRequest,
			expectedCode:   apierrors.ErrCodeInvalidRiotID,
		},
		{
			name:           "player not found",
			body:           `{"riotId":"Nobody#000"}`,
			serviceErr:     apierrors.PlayerNotFound("Nobody", "000"),
			expectedStatus: http.StatusNotFound,
			expectedCode:   apierrors.ErrCodePlayerNotFound,
		},
		{
			name:           "bare not found",
			body:           `{"riotId":"Nobody#000"}`,
			serviceErr:     apierrors.ErrNotFound,
			expectedStatus: http.StatusNotFound,
			expectedCode:   apierrors.ErrCodePlayerNotFound,
		},
		{
			name:           "cancelled",
			body:           `{"riotId":"Faker#KR1"}`,
			serviceErr:     context.DeadlineExceeded,
			expectedStatus: http.StatusRequestTimeout,
			expectedCode:   apierrors.ErrCodeSearchCancelled,
		},
		{
			name:           "unexpected failure",
			body:           `{"riotId":"Faker#KR1"}`,
			serviceErr:     fmt.Errorf("boom"),
			expectedStatus: http.StatusInternalServerError,
			expectedCode:   apierrors.ErrCodeInternalError,
		},
	}

	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			mockService := &MockProfileService{
				FetchProfileFunc: func(ctx context.Context, riotID string) (*models.PlayerProfile, error) {
					return nil, testCase.serviceErr
				},
			}
			handler := newTestHandler(mockService)

			request := httptest.NewRequest(http.MethodPost, "/api/v1/profile", bytes.NewBufferString(testCase.body))
			responseRecorder := httptest.NewRecorder()
			handler.GetProfile(responseRecorder, request)

			if responseRecorder.Code != testCase.expectedStatus {
				t.Errorf("Expected status code %d, got %d", testCase.expectedStatus, responseRecorder.Code)
			}

			errorResponse := decodeError(t, responseRecorder)
			if errorResponse.Error.Code != testCase.expectedCode {
				t.Errorf("Expected error code '%s', got '%s'", testCase.expectedCode, errorResponse.Error.Code)
			}
		})
	}
}

// TestGetPatch tests the current patch endpoint
func TestGetPatch(t *testing.T) {
	handler := newTestHandler(&MockProfileService{})

	request := httptest.NewRequest(http.MethodPost, "/api/v1/patch", nil)
	responseRecorder := httptest.NewRecorder()
	handler.GetPatch(responseRecorder, request)

	if responseRecorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, responseRecorder.Code)
	}

	var patchResponse PatchResponse
	if err := json.NewDecoder(responseRecorder.Body).Decode(&patchResponse); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	expected := PatchResponse{
		Version:       "15.3.1",
		Major:         "15",
		Minor:         "3",
		PatchNotesURL: "notes/en-us/15-3",
	}
	if patchResponse != expected {
		t.Errorf("Expected %+v, got %+v", expected, patchResponse)
	}
}
