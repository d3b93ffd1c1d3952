package errors

import (
	stderrors "errors"
	"net/http"
)

// Kind classifies an API failure.
type Kind string

const (
	KindInvalidInput Kind = "INVALID_INPUT"
	KindUnauthorized Kind = "UNAUTHORIZED"
	KindForbidden    Kind = "FORBIDDEN"
	KindNotFound     Kind = "NOT_FOUND"
	KindConflict     Kind = "CONFLICT"
	KindInternal     Kind = "INTERNAL_ERROR"
)

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// APIError represents a deliberate, client-facing failure.
type APIError struct {
	Kind    Kind
	Message string
	Details []string
	cause   error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes the wrapped cause, if any.
func (e *APIError) Unwrap() error {
	return e.cause
}

// Status returns the HTTP status code derived from the kind.
func (e *APIError) Status() int {
	return e.Kind.Status()
}

// Is matches sentinels by kind and message so that WithCause copies still
// compare equal to the sentinel they were derived from.
func (e *APIError) Is(target error) bool {
	t, ok := target.(*APIError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && e.Message == t.Message
}

// WithCause returns a copy of e wrapping cause.
func (e *APIError) WithCause(cause error) *APIError {
	cp := *e
	cp.cause = cause
	return &cp
}

// New creates a new APIError
func New(kind Kind, message string, details ...string) *APIError {
	return &APIError{
		Kind:    kind,
		Message: message,
		Details: details,
	}
}

func InvalidInput(message string, details ...string) *APIError {
	return New(KindInvalidInput, message, details...)
}

func Unauthorized(message string) *APIError {
	if message == "" {
		message = "Unauthorized"
	}
	return New(KindUnauthorized, message)
}

func Forbidden(message string) *APIError {
	if message == "" {
		message = "Access denied"
	}
	return New(KindForbidden, message)
}

func NotFound(message string) *APIError {
	if message == "" {
		message = "Resource not found"
	}
	return New(KindNotFound, message)
}

func Conflict(message string) *APIError {
	if message == "" {
		message = "Resource conflict"
	}
	return New(KindConflict, message)
}

// Internal builds a 500 error. The cause is kept for logging and never rendered.
func Internal(message string, cause error) *APIError {
	if message == "" {
		message = "Internal server error"
	}
	return New(KindInternal, message).WithCause(cause)
}

// As extracts an APIError from err's chain.
func As(err error) (*APIError, bool) {
	var apiErr *APIError
	if stderrors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// Predefined errors
var (
	ErrInvalidBody   = InvalidInput("Invalid request body")
	ErrInternalError = New(KindInternal, "Something went wrong")
)
