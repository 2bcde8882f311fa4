package pkg

import (
	"errors"
	"fmt"
	"net/http"
)

// Custom error types
var (
	// Authentication errors
	ErrInvalidCredentials = NewAppError("INVALID_CREDENTIALS", "Invalid username or password", http.StatusUnauthorized)
	ErrInvalidToken       = NewAppError("INVALID_TOKEN", "Invalid or expired token", http.StatusUnauthorized)
	ErrTokenExpired       = NewAppError("TOKEN_EXPIRED", "Token has expired", http.StatusUnauthorized)

	// Authorization errors. NotFoundOrDenied deliberately collapses "does not
	// exist" and "no grant" into one 404 so callers cannot probe for resource
	// existence. Forbidden and OwnerOnly are only returned to identities that
	// hold a grant and therefore already know the resource exists.
	ErrNotFoundOrDenied = NewAppError("NOT_FOUND", "Resource not found or access denied", http.StatusNotFound)
	ErrForbidden        = NewAppError("FORBIDDEN", "Insufficient permission", http.StatusForbidden)
	ErrOwnerOnly        = NewAppError("OWNER_ONLY", "Operation restricted to the resource owner", http.StatusForbidden)

	// User errors
	ErrUserNotFound         = NewAppError("USER_NOT_FOUND", "User not found", http.StatusNotFound)
	ErrUsernameAlreadyTaken = NewAppError("USERNAME_ALREADY_TAKEN", "Username already taken", http.StatusConflict)
	ErrEmailAlreadyTaken    = NewAppError("EMAIL_ALREADY_TAKEN", "Email address already taken", http.StatusConflict)

	// Hierarchy errors
	ErrInvalidParent = NewAppError("INVALID_PARENT", "Parent folder does not exist or belongs to a different project", http.StatusBadRequest)
	ErrCycleDetected = NewAppError("CYCLE_DETECTED", "Operation would make a folder its own ancestor", http.StatusBadRequest)

	// Sharing errors
	ErrUnknownUsernames = NewAppError("UNKNOWN_USERNAMES", "One or more usernames do not exist", http.StatusBadRequest)
	ErrSelfShare        = NewAppError("SELF_SHARE", "A project cannot be shared with its owner", http.StatusBadRequest)

	// Validation errors
	ErrValidationFailed = NewAppError("VALIDATION_FAILED", "Validation failed", http.StatusBadRequest)
	ErrInvalidInput     = NewAppError("INVALID_INPUT", "Invalid input data", http.StatusBadRequest)

	// State errors
	ErrConflict         = NewAppError("CONFLICT", "Resource was modified concurrently", http.StatusConflict)
	ErrProjectNotActive = NewAppError("PROJECT_NOT_ACTIVE", "Project is archived or deleted", http.StatusConflict)

	// External service errors
	ErrGenerationFailed = NewAppError("GENERATION_FAILED", "Text generation service error", http.StatusBadGateway)
	ErrStorageFailed    = NewAppError("STORAGE_FAILED", "Blob storage error", http.StatusInternalServerError)

	// System errors. DatabaseError is the one retryable category: transient
	// store failures, distinguished from deterministic authorization and
	// validation failures so callers do not resend requests that will fail
	// identically.
	ErrInternalServer = NewAppError("INTERNAL_SERVER_ERROR", "Internal server error", http.StatusInternalServerError)
	ErrDatabaseError  = NewAppError("DATABASE_ERROR", "Database error", http.StatusInternalServerError).Retryable()
	ErrRateLimited    = NewAppError("RATE_LIMIT_EXCEEDED", "Rate limit exceeded", http.StatusTooManyRequests)
)

// AppError represents an application-specific error
type AppError struct {
	Code       string                 `json:"code"`
	Message    string                 `json:"message"`
	StatusCode int                    `json:"status_code"`
	Transient  bool                   `json:"-"`
	Details    map[string]interface{} `json:"details,omitempty"`
	Cause      error                  `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %s)", e.Code, e.Message, e.Cause.Error())
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// WithDetails returns a copy of the error carrying details.
func (e *AppError) WithDetails(details map[string]interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

// WithCause returns a copy of the error carrying a cause.
func (e *AppError) WithCause(cause error) *AppError {
	clone := *e
	clone.Cause = cause
	return &clone
}

// Retryable marks the error as a transient failure worth retrying.
func (e *AppError) Retryable() *AppError {
	e.Transient = true
	return e
}

// Is lets errors.Is match on the error code, ignoring details and cause.
func (e *AppError) Is(target error) bool {
	var appErr *AppError
	if errors.As(target, &appErr) {
		return e.Code == appErr.Code
	}
	return false
}

// NewAppError creates a new application error
func NewAppError(code, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// ValidationError represents a single field validation failure
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", ve[0].Message)
}

// IsAppError checks if error is an AppError
func IsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// IsRetryable reports whether err is a transient failure the caller may retry.
func IsRetryable(err error) bool {
	if appErr, ok := IsAppError(err); ok {
		return appErr.Transient
	}
	return false
}
