package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an AppError so transports can map it to a status code.
type ErrorKind string

const (
	KindValidation   ErrorKind = "VALIDATION_ERROR"
	KindNotFound     ErrorKind = "NOT_FOUND"
	KindInvalidState ErrorKind = "INVALID_STATE"
	KindConflict     ErrorKind = "CONFLICT"
	KindPrecondition ErrorKind = "PRECONDITION_FAILED"
	KindUpstream     ErrorKind = "UPSTREAM_FAILED"
	KindUnavailable  ErrorKind = "GEOLOCATION_UNAVAILABLE"
)

// Classified is implemented by errors that carry an ErrorKind.
type Classified interface {
	error
	ErrorKind() ErrorKind
}

// AppError is a classified application error.
type AppError struct {
	Kind    ErrorKind
	Message string
}

func (e *AppError) Error() string {
	return e.Message
}

// ErrorKind returns the classification of the error.
func (e *AppError) ErrorKind() ErrorKind {
	return e.Kind
}

// NewValidationError creates an error for malformed or missing input.
func NewValidationError(message string) *AppError {
	return &AppError{Kind: KindValidation, Message: message}
}

// NewNotFoundError creates an error for a missing entity.
func NewNotFoundError(entity, id string) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf("%s not found: %s", entity, id)}
}

// NewInvalidStateError creates an error for a disallowed state transition.
func NewInvalidStateError(from, to string) *AppError {
	return &AppError{
		Kind:    KindInvalidState,
		Message: fmt.Sprintf("invalid state transition from %s to %s", from, to),
	}
}

// NewConflictError creates an error for a request that lost a race with a newer one.
func NewConflictError(message string) *AppError {
	return &AppError{Kind: KindConflict, Message: message}
}

// KindOf returns the kind of the first Classified error in err's chain.
func KindOf(err error) (ErrorKind, bool) {
	var c Classified
	if errors.As(err, &c) {
		return c.ErrorKind(), true
	}
	return "", false
}

// IsKind reports whether err wraps a Classified error of the given kind.
func IsKind(err error, kind ErrorKind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
