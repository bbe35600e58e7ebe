package apperror

import (
	"errors"
	"net/http"
)

// AppError represents an application error with HTTP status code
type AppError struct {
	Code    int          `json:"code"`
	Message string       `json:"message"`
	Errors  []FieldError `json:"errors,omitempty"`
}

// FieldError represents a validation error for a specific field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *AppError) Error() string {
	return e.Message
}

// Common errors
var (
	ErrNotFound           = &AppError{Code: http.StatusNotFound, Message: "Resource not found"}
	ErrUnauthorized       = &AppError{Code: http.StatusUnauthorized, Message: "Unauthorized"}
	ErrBadRequest         = &AppError{Code: http.StatusBadRequest, Message: "Bad request"}
	ErrInternalServer     = &AppError{Code: http.StatusInternalServerError, Message: "Internal server error"}
	ErrInvalidCredentials = &AppError{Code: http.StatusUnauthorized, Message: "Invalid password"}
	ErrTokenExpired       = &AppError{Code: http.StatusUnauthorized, Message: "Session has expired"}
	ErrInvalidToken       = &AppError{Code: http.StatusUnauthorized, Message: "Invalid session token"}

	// ErrNotConfigured is returned when an operation requires the upstream API
	// token and merchant fiscal identity before it can run.
	ErrNotConfigured = &AppError{Code: http.StatusPreconditionFailed, Message: "API token and merchant configuration required"}

	// ErrEmptyReceipt is returned when issuing a receipt with no draft items.
	ErrEmptyReceipt = &AppError{Code: http.StatusUnprocessableEntity, Message: "Receipt has no items"}

	// ErrEmptySelection is returned when a refund selects no line items.
	ErrEmptySelection = &AppError{Code: http.StatusUnprocessableEntity, Message: "No items selected for refund"}

	// ErrInvalidStatus is returned when a receipt state transition is not allowed.
	ErrInvalidStatus = &AppError{Code: http.StatusConflict, Message: "Operation not allowed in the receipt's current status"}
)

// NewAppError creates a new application error
func NewAppError(code int, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// NewValidationError creates a new validation error
func NewValidationError(fieldErrors []FieldError) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  fieldErrors,
	}
}

// NewNotFoundError creates a not found error with a custom message
func NewNotFoundError(resource string) *AppError {
	return &AppError{
		Code:    http.StatusNotFound,
		Message: resource + " not found",
	}
}

// NewBadRequestError creates a bad request error with a custom message
func NewBadRequestError(message string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: message,
	}
}

// NewRemoteError wraps a failure reported by the upstream fiscal API. The
// detail is kept verbatim so it can be stored on the receipt record.
func NewRemoteError(detail string) *AppError {
	return &AppError{
		Code:    http.StatusBadGateway,
		Message: "Upstream API error: " + detail,
	}
}

// NewTranslationError marks a remote record that could not be mapped to the
// local receipt shape during reconciliation.
func NewTranslationError(detail string) *AppError {
	return &AppError{
		Code:    http.StatusUnprocessableEntity,
		Message: "Unparseable remote record: " + detail,
	}
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError converts an error to AppError if possible
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return &AppError{
		Code:    http.StatusInternalServerError,
		Message: err.Error(),
	}
}
