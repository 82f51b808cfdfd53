package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrConflict indicates that the request clashes with the current state of a resource.
var ErrConflict = errors.New("conflict")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = fmt.Errorf("%w: resource already exists", ErrConflict)

// ErrAlreadyCancelled indicates a second cancellation of a voucher or document.
var ErrAlreadyCancelled = fmt.Errorf("%w: already cancelled", ErrConflict)

// ErrInsufficientStock indicates a movement would drive an item's quantity below zero.
var ErrInsufficientStock = errors.New("insufficient stock")

// ErrInvariantViolation indicates a balance or quantity failed its read-back check.
var ErrInvariantViolation = errors.New("invariant violation")

// ErrUnavailable indicates postings are quiesced.
var ErrUnavailable = errors.New("postings are temporarily suspended")

// ErrUnauthorized indicates a missing or invalid operator identity.
var ErrUnauthorized = errors.New("unauthorized")

// ErrInternal indicates an unexpected failure.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError wraps ErrNotFound with the kind and id of the missing resource.
func NewNotFoundError(resource, id string) error {
	return fmt.Errorf("%w: %s %s", ErrNotFound, resource, id)
}
