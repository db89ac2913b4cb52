// Package errors provides custom error types for the Finance4All API.
// All service-layer errors should use AppError to ensure consistent,
// secure error responses that never leak internal details to clients.
package errors

import (
	"errors"
	"net/http"
)

// GenericMessage replaces every error message returned to clients in production.
const GenericMessage = "An error occurred processing your request"

// FieldError describes a single invalid field in a request payload.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents a structured application error with an error code,
// human-readable message, HTTP status code, and optional internal error.
type AppError struct {
	Code       string       `json:"code"`
	Message    string       `json:"message"`
	Fields     []FieldError `json:"fields,omitempty"`
	StatusCode int          `json:"-"`
	Internal   error        `json:"-"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap returns the internal error for use with errors.Is/As.
func (e *AppError) Unwrap() error { return e.Internal }

// Extensions exposes the error code (and field errors) to GraphQL clients.
func (e *AppError) Extensions() map[string]interface{} {
	ext := map[string]interface{}{"code": e.Code}
	if len(e.Fields) > 0 {
		ext["fields"] = e.Fields
	}
	return ext
}

// Wrap creates a new AppError with the same code/message/status but wraps an internal error.
func Wrap(sentinel *AppError, internal error) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    sentinel.Message,
		StatusCode: sentinel.StatusCode,
		Internal:   internal,
	}
}

// WithMessage creates a new AppError with a custom message.
func WithMessage(sentinel *AppError, message string) *AppError {
	return &AppError{
		Code:       sentinel.Code,
		Message:    message,
		Fields:     sentinel.Fields,
		StatusCode: sentinel.StatusCode,
		Internal:   sentinel.Internal,
	}
}

// WithFields creates a validation error carrying field-level messages.
func WithFields(fields []FieldError) *AppError {
	return &AppError{
		Code:       ErrValidation.Code,
		Message:    ErrValidation.Message,
		Fields:     fields,
		StatusCode: ErrValidation.StatusCode,
	}
}

// HasCode reports whether err is an AppError with the given code.
func HasCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// Public converts any error into the AppError sent to clients. Unknown errors
// become internal errors. In production the message is replaced by
// GenericMessage while the code and field list are preserved.
func Public(err error, production bool) *AppError {
	var appErr *AppError
	if !errors.As(err, &appErr) {
		appErr = Wrap(ErrInternalServer, err)
	}

	out := &AppError{
		Code:       appErr.Code,
		Message:    appErr.Message,
		Fields:     appErr.Fields,
		StatusCode: appErr.StatusCode,
		Internal:   appErr.Internal,
	}
	if production {
		out.Message = GenericMessage
	}
	return out
}

// Authentication & authorization errors.
var (
	ErrUnauthenticated = &AppError{Code: "UNAUTHENTICATED", Message: "Authentication required", StatusCode: http.StatusUnauthorized}
	ErrForbidden       = &AppError{Code: "FORBIDDEN", Message: "Access denied", StatusCode: http.StatusForbidden}
	ErrInvalidAPIKey   = &AppError{Code: "INVALID_API_KEY", Message: "Invalid or missing API key", StatusCode: http.StatusUnauthorized}
	ErrPipelineOff     = &AppError{Code: "PIPELINE_NOT_CONFIGURED", Message: "Pipeline endpoints are not configured", StatusCode: http.StatusServiceUnavailable}
)

// General errors.
var (
	ErrValidation     = &AppError{Code: "BAD_USER_INPUT", Message: "Validation failed", StatusCode: http.StatusBadRequest}
	ErrInvalidInput   = &AppError{Code: "BAD_USER_INPUT", Message: "Invalid input", StatusCode: http.StatusBadRequest}
	ErrNotFound       = &AppError{Code: "NOT_FOUND", Message: "Resource not found", StatusCode: http.StatusNotFound}
	ErrConflict       = &AppError{Code: "CONFLICT", Message: "Resource already exists", StatusCode: http.StatusConflict}
	ErrInternalServer = &AppError{Code: "INTERNAL_SERVER_ERROR", Message: "An internal error occurred", StatusCode: http.StatusInternalServerError}
)

// User errors.
var (
	ErrUserNotFound      = &AppError{Code: "NOT_FOUND", Message: "User not found", StatusCode: http.StatusNotFound}
	ErrUserNotRegistered = &AppError{Code: "NOT_FOUND", Message: "User profile not found; register with createUser first", StatusCode: http.StatusNotFound}
	ErrUserExists        = &AppError{Code: "USER_ALREADY_EXISTS", Message: "A user is already registered for this identity", StatusCode: http.StatusConflict}
)

// Entity errors.
var (
	ErrAccountNotFound     = &AppError{Code: "NOT_FOUND", Message: "Account not found", StatusCode: http.StatusNotFound}
	ErrCategoryNotFound    = &AppError{Code: "NOT_FOUND", Message: "Category not found", StatusCode: http.StatusNotFound}
	ErrTransactionNotFound = &AppError{Code: "NOT_FOUND", Message: "Transaction not found", StatusCode: http.StatusNotFound}
	ErrBudgetNotFound      = &AppError{Code: "NOT_FOUND", Message: "Budget not found", StatusCode: http.StatusNotFound}
	ErrProjectionNotFound  = &AppError{Code: "NOT_FOUND", Message: "Projection not found", StatusCode: http.StatusNotFound}
)
