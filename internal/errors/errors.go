package errors

import (
	"context"
	"encoding/json"
	stderrors "errors"
	"net/http"
)

// ErrNotFound is the expected "absent" outcome of an upstream lookup.
// Callers branch on it with errors.Is; it is never a hard failure on its own.
var ErrNotFound = stderrors.New("resource not found")

// ErrorCode represents a unique error code for client handling
type ErrorCode string

const (
	// Client errors (4xx)
	ErrCodeInvalidRequestBody ErrorCode = "INVALID_REQUEST_BODY"
	ErrCodeValidationFailed   ErrorCode = "VALIDATION_FAILED"
	ErrCodeInvalidRiotID      ErrorCode = "INVALID_RIOT_ID"
	ErrCodePlayerNotFound     ErrorCode = "PLAYER_NOT_FOUND"
	ErrCodeMissingAPIKey      ErrorCode = "MISSING_API_KEY"
	ErrCodeInvalidAPIKey      ErrorCode = "INVALID_API_KEY"
	ErrCodeRateLimitExceeded  ErrorCode = "RATE_LIMIT_EXCEEDED"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidToken       ErrorCode = "INVALID_TOKEN"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeSearchCancelled    ErrorCode = "SEARCH_CANCELLED"

	// Server errors (5xx)
	ErrCodeUpstreamError ErrorCode = "UPSTREAM_ERROR"
	ErrCodeInternalError ErrorCode = "INTERNAL_ERROR"
)

// APIError represents a structured error response
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Status  int       `json:"-"`
}

// Error implements the error interface
func (apiError *APIError) Error() string {
	return apiError.Message
}

// ErrorResponse is the JSON structure returned to clients
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ErrorDetail contains the error information
type ErrorDetail struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// NewAPIError creates a new APIError
func NewAPIError(code ErrorCode, message string, status int) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Status:  status,
	}
}

// Common error constructors for consistent error creation
func InvalidRequestBody(message string) *APIError {
	return NewAPIError(ErrCodeInvalidRequestBody, message, http.StatusBadRequest)
}

func ValidationFailed(message string) *APIError {
	return NewAPIError(ErrCodeValidationFailed, message, http.StatusBadRequest)
}

func InvalidRiotID(message string) *APIError {
	return NewAPIError(ErrCodeInvalidRiotID, message, http.StatusBadRequest)
}

func PlayerNotFound(gameName string, tagLine string) *APIError {
	return NewAPIError(ErrCodePlayerNotFound, "Player not found: "+gameName+"#"+tagLine, http.StatusNotFound)
}

func SearchCancelled() *APIError {
	return NewAPIError(ErrCodeSearchCancelled, "Search was cancelled", http.StatusRequestTimeout)
}

func UpstreamError(message string) *APIError {
	return NewAPIError(ErrCodeUpstreamError, message, http.StatusBadGateway)
}

func InternalError(message string) *APIError {
	return NewAPIError(ErrCodeInternalError, message, http.StatusInternalServerError)
}

// FromError normalises any error crossing the public boundary into an APIError.
// Context cancellation maps to SEARCH_CANCELLED, everything unknown to INTERNAL_ERROR.
func FromError(err error) *APIError {
	if err == nil {
		return nil
	}

	var apiError *APIError
	if stderrors.As(err, &apiError) {
		return apiError
	}

	if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
		return SearchCancelled()
	}

	if stderrors.Is(err, ErrNotFound) {
		return NewAPIError(ErrCodePlayerNotFound, "Player not found", http.StatusNotFound)
	}

	return InternalError("Failed to fetch player profile")
}

// WriteError writes a JSON error response to the http.ResponseWriter
func WriteError(writer http.ResponseWriter, apiError *APIError) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(apiError.Status)

	errorResponse := ErrorResponse{
		Error: ErrorDetail{
			Code:    apiError.Code,
			Message: apiError.Message,
		},
	}

	json.NewEncoder(writer).Encode(errorResponse)
}
