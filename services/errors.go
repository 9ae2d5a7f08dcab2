package services

import (
	"errors"
	"fmt"
)

// ErrCallInFlight is returned when a driver operation is attempted while an
// external call is still outstanding. There is no queue; the caller retries
// once the current call settles.
var ErrCallInFlight = errors.New("an external call is already in flight")

// ValidationError reports malformed or missing required input. The operation
// is aborted and no state is mutated.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

func newValidationError(format string, args ...any) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// CollaboratorError reports an external call (generation, interview turn,
// scoring, extraction) that failed or returned unparseable content. The
// condition is retryable: core state is left exactly as it was before the
// call, so a retry is simply "call again".
type CollaboratorError struct {
	Op  string
	Err error
}

func (e *CollaboratorError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

func newCollaboratorError(op string, err error) *CollaboratorError {
	return &CollaboratorError{Op: op, Err: err}
}

// InvariantViolation reports a caller sequencing bug, such as submitting an
// answer when no question is pending. It is logged and treated as a no-op by
// the core; transports surface it as a conflict.
type InvariantViolation struct {
	Reason string
}

func (e *InvariantViolation) Error() string {
	return e.Reason
}

func newInvariantViolation(format string, args ...any) *InvariantViolation {
	return &InvariantViolation{Reason: fmt.Sprintf(format, args...)}
}
