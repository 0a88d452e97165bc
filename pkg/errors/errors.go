package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode represents standardized error codes
type ErrorCode string

const (
	// Authentication errors
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"

	// Validation errors
	ErrCodeInvalidInput ErrorCode = "INVALID_INPUT"
	ErrCodeMissingField ErrorCode = "MISSING_FIELD"

	// Business logic errors
	ErrCodeNotFound       ErrorCode = "NOT_FOUND"
	ErrCodeDuplicateEntry ErrorCode = "DUPLICATE_ENTRY"

	// System errors
	ErrCodeUpstreamUnavailable ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodePersistenceFailure  ErrorCode = "PERSISTENCE_FAILURE"
	ErrCodeInternal            ErrorCode = "INTERNAL_ERROR"
	ErrCodeRateLimit           ErrorCode = "RATE_LIMIT_EXCEEDED"
)

// AppError represents a standardized application error
type AppError struct {
	Code       ErrorCode              `json:"code"`
	Message    string                 `json:"message"`
	Details    map[string]interface{} `json:"details,omitempty"`
	StatusCode int                    `json:"-"`
	cause      error
}

func (e *AppError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.cause
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: httpStatusFor(code),
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(err error, code ErrorCode, message string) *AppError {
	appErr := New(code, message)
	appErr.cause = err
	return appErr
}

// WithCause attaches an underlying error to e and returns e
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// AddDetail adds a detail to the error
func (e *AppError) AddDetail(key string, value interface{}) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// AsAppError extracts an *AppError from an error chain, if present
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HasCode reports whether err carries the given error code
func HasCode(err error, code ErrorCode) bool {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code == code
	}
	return false
}

// httpStatusFor maps error codes to HTTP status codes
func httpStatusFor(code ErrorCode) int {
	switch code {
	case ErrCodeUnauthorized, ErrCodeInvalidToken:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeInvalidInput, ErrCodeMissingField:
		return http.StatusBadRequest
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeDuplicateEntry:
		return http.StatusConflict
	case ErrCodeRateLimit:
		return http.StatusTooManyRequests
	case ErrCodeUpstreamUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// Common error constructors

func NotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

func InvalidInput(message string) *AppError {
	return New(ErrCodeInvalidInput, message)
}

func Unauthorized(message string) *AppError {
	return New(ErrCodeUnauthorized, message)
}

func DuplicateEntry(message string) *AppError {
	return New(ErrCodeDuplicateEntry, message)
}

func UpstreamUnavailable(service string) *AppError {
	return New(ErrCodeUpstreamUnavailable, fmt.Sprintf("%s unavailable", service))
}

func PersistenceFailure(err error) *AppError {
	return Wrap(err, ErrCodePersistenceFailure, "storage operation failed")
}

func Internal(message string) *AppError {
	return New(ErrCodeInternal, message)
}
