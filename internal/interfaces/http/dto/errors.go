package dto

import "net/http"

// Error codes mirror the domain error codes verbatim: the envelope carries
// whatever shared.DomainError says, and this table decides the HTTP status.

// General error codes
const (
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "INTERNAL_ERROR"
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "BAD_REQUEST"
	// ErrCodeValidation is used when request binding validation fails
	ErrCodeValidation = "VALIDATION_ERROR"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when a token is required but missing/invalid
	ErrCodeUnauthorized = "UNAUTHORIZED"
	// ErrCodeTokenExpired is used when the workspace token has expired
	ErrCodeTokenExpired = "TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the workspace token is malformed
	ErrCodeTokenInvalid = "INVALID_TOKEN"
	// ErrCodeTokenRevoked is used when the token was revoked by a workspace delete
	ErrCodeTokenRevoked = "TOKEN_REVOKED"
	// ErrCodeForbidden is used when access to a resource is denied
	ErrCodeForbidden = "FORBIDDEN"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ALREADY_EXISTS"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "CONCURRENCY_CONFLICT"
	// ErrCodeWorkspaceExpired is used when the workspace session has lapsed
	ErrCodeWorkspaceExpired = "WORKSPACE_EXPIRED"
)

// Business rule error codes
const (
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "INVALID_INPUT"
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "INVALID_STATE"
	// ErrCodeNoDataset is used when an operation needs data the workspace lacks
	ErrCodeNoDataset = "NO_DATASET"
)

// Workbook upload error codes
const (
	// ErrCodeMissingSheets is used when an upload lacks required sheets
	ErrCodeMissingSheets = "MISSING_SHEETS"
	// ErrCodeInvalidFile is used when an upload is not a readable workbook
	ErrCodeInvalidFile = "INVALID_FILE"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when the rate limit is exceeded
	ErrCodeRateLimited = "RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	// General errors
	ErrCodeInternal:   http.StatusInternalServerError,
	ErrCodeBadRequest: http.StatusBadRequest,
	ErrCodeValidation: http.StatusBadRequest,

	// Auth errors
	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,
	ErrCodeTokenRevoked: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,

	// Resource errors
	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	// An expired session is gone for good, not misplaced
	ErrCodeWorkspaceExpired: http.StatusGone,

	// Business rule errors -> 422 Unprocessable Entity
	ErrCodeInvalidState: http.StatusUnprocessableEntity,
	ErrCodeNoDataset:    http.StatusUnprocessableEntity,

	// Input errors -> 400 Bad Request
	ErrCodeInvalidInput:  http.StatusBadRequest,
	ErrCodeMissingSheets: http.StatusBadRequest,
	ErrCodeInvalidFile:   http.StatusBadRequest,

	// Rate limiting -> 429 Too Many Requests
	ErrCodeRateLimited: http.StatusTooManyRequests,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}
