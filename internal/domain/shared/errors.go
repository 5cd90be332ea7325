package shared

import "errors"

// Error codes shared by the reporting domain. The HTTP layer maps them to status codes.
const (
	CodeValidation   = "VALIDATION_ERROR"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNotFound     = "NOT_FOUND"
	CodeQueryFailed  = "QUERY_FAILED"
	CodeRenderFailed = "RENDER_FAILED"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	cause   error
}

// Error implements the error interface
func (e *DomainError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the underlying cause for errors.Is / errors.As
func (e *DomainError) Unwrap() error {
	return e.cause
}

// Is matches domain errors by code so sentinels work with errors.Is
func (e *DomainError) Is(target error) bool {
	var t *DomainError
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code && t.cause == nil
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// WrapDomainError creates a domain error carrying an internal cause.
// The cause is for operators only and never reaches API responses.
func WrapDomainError(code, message string, cause error) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// NewValidationError reports malformed or missing request parameters
func NewValidationError(message string) *DomainError {
	return NewDomainError(CodeValidation, message)
}

// NewUnauthorizedError reports a missing or unusable caller identity
func NewUnauthorizedError(message string) *DomainError {
	return NewDomainError(CodeUnauthorized, message)
}

// NewQueryError wraps a failure of the underlying data source
func NewQueryError(cause error) *DomainError {
	return WrapDomainError(CodeQueryFailed, "Failed to load report data", cause)
}

// NewRenderError wraps a failure while producing an export document
func NewRenderError(cause error) *DomainError {
	return WrapDomainError(CodeRenderFailed, "Failed to generate report document", cause)
}

// Common domain errors
var (
	ErrNotFound     = NewDomainError(CodeNotFound, "Resource not found")
	ErrInvalidInput = NewDomainError(CodeValidation, "Invalid input provided")
	ErrUnauthorized = NewDomainError(CodeUnauthorized, "Authentication required")
	ErrForbidden    = NewDomainError(CodeForbidden, "Access to this resource is forbidden")
	ErrQueryFailed  = NewDomainError(CodeQueryFailed, "Failed to load report data")
	ErrRenderFailed = NewDomainError(CodeRenderFailed, "Failed to generate report document")
)

// IsValidation reports whether err is a validation failure
func IsValidation(err error) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == CodeValidation
}
