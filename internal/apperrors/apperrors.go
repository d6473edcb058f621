package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies an error for the HTTP boundary.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindDuplicate
	KindReference
	KindImmutableField
	KindScopeViolation
	KindNotFound
	KindUnauthorized
	KindForbidden
)

// Stable error codes returned to clients
const (
	CodeValidation     = "VALIDATION_ERROR"
	CodeDuplicate      = "DUPLICATE"
	CodeReference      = "INVALID_REFERENCE"
	CodeImmutableField = "IMMUTABLE_FIELD"
	CodeScopeViolation = "SCOPE_VIOLATION"
	CodeNotFound       = "NOT_FOUND"
	CodeNoToken        = "NO_TOKEN"
	CodeInvalidToken   = "INVALID_TOKEN"
	CodeUserNotFound   = "USER_NOT_FOUND"
	CodeUserInactive   = "USER_INACTIVE"
	CodeForbidden      = "FORBIDDEN"
	CodeInternal       = "INTERNAL_ERROR"
)

// Error is the application error type. Every failure that crosses a package
// boundary is either an *Error or gets wrapped into one at the HTTP layer.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Details any
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// HTTPStatus maps the error kind to a response status code.
func (e *Error) HTTPStatus() int {
	switch e.Kind {
	case KindValidation, KindDuplicate, KindReference, KindImmutableField:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	default:
		// ScopeViolation is a programming error, not a client mistake.
		return http.StatusInternalServerError
	}
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Constructors for the taxonomy

func Validation(message string) *Error {
	return New(KindValidation, CodeValidation, message)
}

func ValidationWithDetails(message string, details any) *Error {
	e := Validation(message)
	e.Details = details
	return e
}

func Duplicate(message string) *Error {
	return New(KindDuplicate, CodeDuplicate, message)
}

func Reference(message string) *Error {
	return New(KindReference, CodeReference, message)
}

func ImmutableField(message string) *Error {
	return New(KindImmutableField, CodeImmutableField, message)
}

func ScopeViolation(message string) *Error {
	return New(KindScopeViolation, CodeScopeViolation, message)
}

func NotFound(message string) *Error {
	if message == "" {
		message = "Resource not found"
	}
	return New(KindNotFound, CodeNotFound, message)
}

func Unauthorized(code, message string) *Error {
	return New(KindUnauthorized, code, message)
}

func Forbidden(message string) *Error {
	if message == "" {
		message = "Access denied"
	}
	return New(KindForbidden, CodeForbidden, message)
}

// Internal wraps an unexpected failure. The cause is logged at the boundary
// and never sent to the client.
func Internal(err error) *Error {
	return &Error{Kind: KindInternal, Code: CodeInternal, Message: "Internal server error", Err: err}
}

// From returns err as an *Error, wrapping unknown errors as internal.
func From(err error) *Error {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr
	}
	return Internal(err)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	return errors.As(err, &appErr) && appErr.Kind == kind
}
