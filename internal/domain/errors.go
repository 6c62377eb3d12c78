package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies a domain error so callers can branch on the expected
// failure mode without matching message strings.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindNotFound       ErrorKind = "not_found"
	KindConflict       ErrorKind = "conflict"
	KindForbidden      ErrorKind = "forbidden"
	KindInvalidState   ErrorKind = "invalid_state"
	KindInfrastructure ErrorKind = "infrastructure"
)

// Error is the common error type for all expected domain failures.
type Error struct {
	Kind    ErrorKind
	Message string
	cause   error
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// Unwrap returns the underlying cause, if any.
func (e *Error) Unwrap() error {
	return e.cause
}

// Retryable reports whether the caller may retry the operation. Only
// infrastructure failures are retryable; the caller must re-run the full flow
// (including availability checks) rather than retry a bare write.
func (e *Error) Retryable() bool {
	return e.Kind == KindInfrastructure
}

// NewValidationError creates an error for malformed or unacceptable input.
func NewValidationError(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

// NewNotFoundError creates an error for an absent resource.
func NewNotFoundError(resource, id string) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf("%s with ID %s not found", resource, id)}
}

// NewConflictError creates an error for a resource-contention failure.
func NewConflictError(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// NewForbiddenError creates an error for an ownership or permission violation.
func NewForbiddenError(message string) *Error {
	return &Error{Kind: KindForbidden, Message: message}
}

// NewInvalidStateError creates an error for an illegal state transition.
func NewInvalidStateError(from, to string) *Error {
	return &Error{Kind: KindInvalidState, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// NewInfrastructureError wraps an unexpected storage or transport failure.
func NewInfrastructureError(message string, cause error) *Error {
	return &Error{Kind: KindInfrastructure, Message: message, cause: cause}
}

// KindOf returns the kind of err if it is a domain error, or an empty kind.
func KindOf(err error) ErrorKind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return ""
}

// IsKind reports whether err is a domain error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	return KindOf(err) == kind
}
