package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/OPGLOL/opgl-profile-service/internal/models"
	"github.com/OPGLOL/opgl-profile-service/internal/ratelimit"
)

// MockRateLimiter is a mock implementation of middleware.RateLimitChecker for testing
type MockRateLimiter struct {
	CheckRateLimitFunc func(ctx context.Context, apiKey string) (*ratelimit.RateLimitResult, error)
}

func (m *MockRateLimiter) CheckRateLimit(ctx context.Context, apiKey string) (*ratelimit.RateLimitResult, error) {
	if m.CheckRateLimitFunc != nil {
		return m.CheckRateLimitFunc(ctx, apiKey)
	}
	return &ratelimit.RateLimitResult{Allowed: true, Limit: 10, Remaining: 9, ResetTime: time.Now().Add(time.Minute)}, nil
}

// MockTokenValidator is a mock implementation of middleware.TokenValidator for testing
type MockTokenValidator struct {
	ValidToken string
}

func (m *MockTokenValidator) ValidateAdminToken(tokenString string) error {
	if tokenString != m.ValidToken {
		return errors.New("invalid token")
	}
	return nil
}

func newTestRouterConfig() *RouterConfig {
	handler := newTestHandler(&MockProfileService{
		FetchProfileFunc: func(ctx context.Context, riotID string) (*models.PlayerProfile, error) {
			return &models.PlayerProfile{Account: models.Account{PUUID: "puuid-1"}}, nil
		},
	})
	return &RouterConfig{
		Handler:      handler,
		SearchSocket: NewSearchSocket(handler, []string{"*"}),
	}
}

// TestRouterHealthEndpoint tests that the health endpoint is registered
func TestRouterHealthEndpoint(t *testing.T) {
	router := SetupRouter(newTestRouterConfig())

	request := httptest.NewRequest(http.MethodPost, "/health", nil)
	responseRecorder := httptest.NewRecorder()
	router.ServeHTTP(responseRecorder, request)

	if responseRecorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, responseRecorder.Code)
	}
}

// TestRouterHealthEndpointMethodNotAllowed tests that GET is not allowed for health
func TestRouterHealthEndpointMethodNotAllowed(t *testing.T) {
	router := SetupRouter(newTestRouterConfig())

	request := httptest.NewRequest(http.MethodGet, "/health", nil)
	responseRecorder := httptest.NewRecorder()
	router.ServeHTTP(responseRecorder, request)

	if responseRecorder.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status code %d for GET /health, got %d", http.StatusMethodNotAllowed, responseRecorder.Code)
	}
}

// TestRouterEndpoints tests that the public endpoints are registered with their methods
func TestRouterEndpoints(t *testing.T) {
	router := SetupRouter(newTestRouterConfig())

	testCases := []struct {
		method         string
		path           string
		body           string
		expectedStatus int
	}{
		{http.MethodPost, "/api/v1/profile", `{"riotId":"Faker#KR1"}`, http.StatusOK},
		{http.MethodGet, "/api/v1/profile", "", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/v1/patch", "", http.StatusOK},
		{http.MethodGet, "/api/v1/patch", "", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/v1/search/ws", "", http.StatusMethodNotAllowed},
		{http.MethodPost, "/api/v1/unknown", "", http.StatusNotFound},
		{http.MethodPost, "/api/v1/admin/login", `{"password":"x"}`, http.StatusNotFound},
	}

	for _, testCase := range testCases {
		t.Run(testCase.method+" "+testCase.path, func(t *testing.T) {
			request := httptest.NewRequest(testCase.method, testCase.path, bytes.NewBufferString(testCase.body))
			responseRecorder := httptest.NewRecorder()
			router.ServeHTTP(responseRecorder, request)

			if responseRecorder.Code != testCase.expectedStatus {
				t.Errorf("Expected status code %d, got %d", testCase.expectedStatus, responseRecorder.Code)
			}
		})
	}
}

// TestRouterRateLimitedEndpoints tests that /api/v1 requires an API key when rate limiting is enabled
func TestRouterRateLimitedEndpoints(t *testing.T) {
	var checkedKey string
	config := newTestRouterConfig()
	config.RateLimiter = &MockRateLimiter{
		CheckRateLimitFunc: func(ctx context.Context, apiKey string) (*ratelimit.RateLimitResult, error) {
			checkedKey = apiKey
			return &ratelimit.RateLimitResult{Allowed: true, Limit: 10, Remaining: 9, ResetTime: time.Now().Add(time.Minute)}, nil
		},
	}
	router := SetupRouter(config)

	request := httptest.NewRequest(http.MethodPost, "/api/v1/patch", nil)
	responseRecorder := httptest.NewRecorder()
	router.ServeHTTP(responseRecorder, request)

	if responseRecorder.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code %d without API key, got %d", http.StatusUnauthorized, responseRecorder.Code)
	}

	request = httptest.NewRequest(http.MethodPost, "/api/v1/patch", nil)
	request.Header.Set("X-API-Key", "opgl_test")
	responseRecorder = httptest.NewRecorder()
	router.ServeHTTP(responseRecorder, request)

	if responseRecorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d with API key, got %d", http.StatusOK, responseRecorder.Code)
	}

	if checkedKey != "opgl_test" {
		t.Errorf("Expected key 'opgl_test' to be checked, got '%s'", checkedKey)
	}

	if responseRecorder.Header().Get("X-RateLimit-Limit") != "10" {
		t.Errorf("Expected X-RateLimit-Limit '10', got '%s'", responseRecorder.Header().Get("X-RateLimit-Limit"))
	}

	request = httptest.NewRequest(http.MethodPost, "/health", nil)
	responseRecorder = httptest.NewRecorder()
	router.ServeHTTP(responseRecorder, request)

	if responseRecorder.Code != http.StatusOK {
		t.Errorf("Expected health to bypass rate limiting, got %d", responseRecorder.Code)
	}

	request = httptest.NewRequest(http.MethodGet, "/api/v1/search/ws", nil)
	responseRecorder = httptest.NewRecorder()
	router.ServeHTTP(responseRecorder, request)

	if responseRecorder.Code != http.StatusUnauthorized {
		t.Errorf("Expected search socket to require an API key, got %d", responseRecorder.Code)
	}

	request = httptest.NewRequest(http.MethodGet, "/api/v1/profile", nil)
	request.Header.Set("X-API-Key", "opgl_test")
	responseRecorder = httptest.NewRecorder()
	router.ServeHTTP(responseRecorder, request)

	if responseRecorder.Code != http.StatusMethodNotAllowed {
		t.Errorf("Expected status code %d for GET /api/v1/profile, got %d", http.StatusMethodNotAllowed, responseRecorder.Code)
	}

	if allow := responseRecorder.Header().Get("Allow"); allow != http.MethodPost {
		t.Errorf("Expected Allow 'POST', got '%s'", allow)
	}
}

// TestRouterAdminEndpoints tests that admin routes require a bearer token and skip rate limiting
func TestRouterAdminEndpoints(t *testing.T) {
	config := newTestRouterConfig()
	config.RateLimiter = &MockRateLimiter{
		CheckRateLimitFunc: func(ctx context.Context, apiKey string) (*ratelimit.RateLimitResult, error) {
			t.Error("Admin routes should not be rate limited")
			return nil, errors.New("unexpected")
		},
	}
	config.TokenValidator = &MockTokenValidator{ValidToken: "admin-token"}
	config.AdminHandler = NewAdminHandler(&MockAPIKeyRepository{})
	router := SetupRouter(config)

	request := httptest.NewRequest(http.MethodPost, "/api/v1/admin/apikeys/list", nil)
	responseRecorder := httptest.NewRecorder()
	router.ServeHTTP(responseRecorder, request)

	if responseRecorder.Code != http.StatusUnauthorized {
		t.Errorf("Expected status code %d without token, got %d", http.StatusUnauthorized, responseRecorder.Code)
	}

	request = httptest.NewRequest(http.MethodPost, "/api/v1/admin/apikeys/list", nil)
	request.Header.Set("Authorization", "Bearer admin-token")
	responseRecorder = httptest.NewRecorder()
	router.ServeHTTP(responseRecorder, request)

	if responseRecorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d with token, got %d", http.StatusOK, responseRecorder.Code)
	}
}
