package apperror

import "fmt"

// Error codes for business rule failures surfaced to API callers
const (
	CodeNotFound          = "NOT_FOUND"
	CodeInvalidInput      = "INVALID_INPUT"
	CodeInvalidTransition = "INVALID_TRANSITION"
	CodeForbidden         = "FORBIDDEN"
	CodeInternal          = "INTERNAL_ERROR"
)

// AppError is a business error carrying a stable code and a human-readable message
type AppError struct {
	Code    string
	Message string
}

func (e *AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// New creates an AppError with the given code and formatted message
func New(code, format string, args ...interface{}) *AppError {
	return &AppError{Code: code, Message: fmt.Sprintf(format, args...)}
}

// NotFound creates a NOT_FOUND error
func NotFound(format string, args ...interface{}) *AppError {
	return New(CodeNotFound, format, args...)
}

// InvalidInput creates an INVALID_INPUT error
func InvalidInput(format string, args ...interface{}) *AppError {
	return New(CodeInvalidInput, format, args...)
}

// InvalidTransition creates an INVALID_TRANSITION error
func InvalidTransition(format string, args ...interface{}) *AppError {
	return New(CodeInvalidTransition, format, args...)
}

// Forbidden creates a FORBIDDEN error
func Forbidden(format string, args ...interface{}) *AppError {
	return New(CodeForbidden, format, args...)
}

// Internal creates an INTERNAL_ERROR error
func Internal(format string, args ...interface{}) *AppError {
	return New(CodeInternal, format, args...)
}
