package dto

import (
	"net/http"
	"strings"
)

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
	// ErrCodeUnavailable is used when a backing service (printer, storage) is down
	ErrCodeUnavailable = "ERR_UNAVAILABLE"
)

// Validation error codes
const (
	// ErrCodeValidation is the base code for validation errors
	ErrCodeValidation = "ERR_VALIDATION"
	// ErrCodeValidationRequired is used when a required field is missing
	ErrCodeValidationRequired = "ERR_VALIDATION_REQUIRED"
	// ErrCodeValidationFormat is used when a field has invalid format
	ErrCodeValidationFormat = "ERR_VALIDATION_FORMAT"
	// ErrCodeValidationRange is used when a value is out of range
	ErrCodeValidationRange = "ERR_VALIDATION_RANGE"
)

// Authentication error codes
const (
	// ErrCodeUnauthorized is used when authentication is required but missing/invalid
	ErrCodeUnauthorized = "ERR_UNAUTHORIZED"
	// ErrCodeForbidden is used when the user lacks permission or the account is blocked
	ErrCodeForbidden = "ERR_FORBIDDEN"
	// ErrCodeTokenExpired is used when the auth token has expired
	ErrCodeTokenExpired = "ERR_TOKEN_EXPIRED"
	// ErrCodeTokenInvalid is used when the auth token is invalid or revoked
	ErrCodeTokenInvalid = "ERR_TOKEN_INVALID"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
	// ErrCodeAlreadyExists is used when trying to create a duplicate resource
	ErrCodeAlreadyExists = "ERR_ALREADY_EXISTS"
	// ErrCodeConflict is used for general resource conflicts (slot overlap, serial reuse)
	ErrCodeConflict = "ERR_CONFLICT"
	// ErrCodeConcurrencyConflict is used when optimistic locking fails
	ErrCodeConcurrencyConflict = "ERR_CONCURRENCY_CONFLICT"
)

// Business rule error codes
const (
	// ErrCodeInvalidState is used when an operation is invalid for current state
	ErrCodeInvalidState = "ERR_INVALID_STATE"
	// ErrCodeBusinessRule is used for generic business rule violations
	ErrCodeBusinessRule = "ERR_BUSINESS_RULE"
	// ErrCodeInsufficientStock is used when no stock unit is available to reserve
	ErrCodeInsufficientStock = "ERR_INSUFFICIENT_STOCK"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
)

// Rate limiting error codes
const (
	// ErrCodeRateLimited is used when rate limit is exceeded
	ErrCodeRateLimited = "ERR_RATE_LIMITED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:     http.StatusInternalServerError,
	ErrCodeInternal:    http.StatusInternalServerError,
	ErrCodeUnavailable: http.StatusServiceUnavailable,

	ErrCodeValidation:         http.StatusBadRequest,
	ErrCodeValidationRequired: http.StatusBadRequest,
	ErrCodeValidationFormat:   http.StatusBadRequest,
	ErrCodeValidationRange:    http.StatusBadRequest,

	ErrCodeUnauthorized: http.StatusUnauthorized,
	ErrCodeForbidden:    http.StatusForbidden,
	ErrCodeTokenExpired: http.StatusUnauthorized,
	ErrCodeTokenInvalid: http.StatusUnauthorized,

	ErrCodeNotFound:            http.StatusNotFound,
	ErrCodeAlreadyExists:       http.StatusConflict,
	ErrCodeConflict:            http.StatusConflict,
	ErrCodeConcurrencyConflict: http.StatusConflict,

	ErrCodeInvalidState:      http.StatusUnprocessableEntity,
	ErrCodeBusinessRule:      http.StatusUnprocessableEntity,
	ErrCodeInsufficientStock: http.StatusUnprocessableEntity,

	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,

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

// domainErrorCodeMapping maps domain error codes to standardized codes.
// Codes not listed here fall through to the prefix/suffix rules in
// NormalizeErrorCode.
var domainErrorCodeMapping = map[string]string{
	// Lookups
	"NOT_FOUND":      ErrCodeNotFound,
	"USER_NOT_FOUND": ErrCodeNotFound,

	// Duplicates and conflicts
	"ALREADY_EXISTS":       ErrCodeAlreadyExists,
	"DEVICE_EXISTS":        ErrCodeAlreadyExists,
	"PLAN_EXISTS":          ErrCodeAlreadyExists,
	"DUPLICATE_RECEIPT":    ErrCodeAlreadyExists,
	"SLOT_CONFLICT":        ErrCodeConflict,
	"CONCURRENCY_CONFLICT": ErrCodeConcurrencyConflict,

	// Authentication and account state
	"UNAUTHORIZED":        ErrCodeUnauthorized,
	"INVALID_CREDENTIALS": ErrCodeUnauthorized,
	"TOKEN_EXPIRED":       ErrCodeTokenExpired,
	"TOKEN_INVALID":       ErrCodeTokenInvalid,
	"TOKEN_REVOKED":       ErrCodeTokenInvalid,
	"TOKEN_MAX_REFRESH":   ErrCodeTokenInvalid,
	"FORBIDDEN":           ErrCodeForbidden,
	"ACCOUNT_LOCKED":      ErrCodeForbidden,
	"ACCOUNT_INACTIVE":    ErrCodeForbidden,
	"ACCOUNT_PENDING":     ErrCodeForbidden,
	"ACCOUNT_DEACTIVATED": ErrCodeForbidden,
	"USER_DEACTIVATED":    ErrCodeForbidden,
	"TENANT_SUSPENDED":    ErrCodeForbidden,

	// State machine violations
	"INVALID_STATE":       ErrCodeInvalidState,
	"NO_ITEMS":            ErrCodeInvalidState,
	"EMPTY_INVOICE":       ErrCodeInvalidState,
	"OVERPAYMENT":         ErrCodeInvalidState,
	"NOT_LOCKED":          ErrCodeInvalidState,
	"NO_DOCUMENT":         ErrCodeInvalidState,
	"INVOICE_VOIDED":      ErrCodeInvalidState,
	"QUOTE_NOT_FINALIZED": ErrCodeInvalidState,
	"RECEIPT_EXPIRED":     ErrCodeInvalidState,
	"PATIENT_ARCHIVED":    ErrCodeInvalidState,
	"OUT_OF_STOCK":        ErrCodeInsufficientStock,

	// Input
	"VALIDATION_ERROR": ErrCodeValidation,
	"BAD_REQUEST":      ErrCodeBadRequest,
	"INVALID_INPUT":    ErrCodeInvalidInput,

	// Infrastructure
	"INTERNAL_ERROR":      ErrCodeInternal,
	"PASSWORD_HASH_ERROR": ErrCodeInternal,
	"TOKEN_ERROR":         ErrCodeInternal,
	"PRINTER_UNAVAILABLE": ErrCodeUnavailable,
	"STORAGE_UNAVAILABLE": ErrCodeUnavailable,
}

// NormalizeErrorCode converts a domain error code to the standardized format.
// Unmapped codes are classified by shape: INVALID_* is bad input, ALREADY_*
// is a state violation, *_IN_USE is a duplicate. Anything else passes
// through unchanged.
func NormalizeErrorCode(code string) string {
	if mapped, ok := domainErrorCodeMapping[code]; ok {
		return mapped
	}
	switch {
	case strings.HasPrefix(code, "ERR_"):
		return code
	case strings.HasPrefix(code, "INVALID_"):
		return ErrCodeInvalidInput
	case strings.HasPrefix(code, "ALREADY_"):
		return ErrCodeInvalidState
	case strings.HasSuffix(code, "_IN_USE"):
		return ErrCodeAlreadyExists
	}
	return code
}
