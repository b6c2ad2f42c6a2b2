package domain

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Handlers map these to HTTP status codes.
var (
	ErrValidation        = errors.New("validation error")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("conflict")
	ErrInvalidTransition = errors.New("invalid transition")
	ErrInvalidState      = errors.New("invalid state")
)

// DomainError wraps a sentinel kind with a human-readable message.
type DomainError struct {
	Err     error
	Message string
}

func (e *DomainError) Error() string { return e.Message }

func (e *DomainError) Unwrap() error { return e.Err }

// NewValidationError reports malformed or contradictory input. It is always
// raised before any side effect.
func NewValidationError(format string, args ...interface{}) *DomainError {
	return &DomainError{Err: ErrValidation, Message: fmt.Sprintf(format, args...)}
}

// NewNotFoundError reports a missing entity.
func NewNotFoundError(entity, id string) *DomainError {
	return &DomainError{Err: ErrNotFound, Message: fmt.Sprintf("%s %s not found", entity, id)}
}

// NewConflictError reports a resource conflict (e.g. a room already booked for
// an overlapping interval).
func NewConflictError(format string, args ...interface{}) *DomainError {
	return &DomainError{Err: ErrConflict, Message: fmt.Sprintf(format, args...)}
}

// NewInvalidTransitionError reports a state-machine precondition failure. The
// message always names current vs requested state so duplicate staff actions
// are visible, never silently ignored.
func NewInvalidTransitionError(current, requested string) *DomainError {
	return &DomainError{
		Err:     ErrInvalidTransition,
		Message: fmt.Sprintf("invalid transition from %q to %q", current, requested),
	}
}

// NewInvalidStateError reports an operation attempted in a state that does not
// support it (e.g. cancelling after check-in).
func NewInvalidStateError(format string, args ...interface{}) *DomainError {
	return &DomainError{Err: ErrInvalidState, Message: fmt.Sprintf(format, args...)}
}

// IsKind reports whether err carries the given sentinel kind anywhere in its
// chain.
func IsKind(err, kind error) bool {
	return errors.Is(err, kind)
}
