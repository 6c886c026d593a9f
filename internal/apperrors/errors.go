package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks
// (empty participant set, non-positive amounts, zero total shares).
var ErrValidation = errors.New("validation error")

// ErrAmountMismatch indicates that split inputs do not reconcile to the
// expense total within tolerance. The wrapped message reports both sums.
var ErrAmountMismatch = errors.New("amounts do not reconcile to total")

// ErrNothingToReverse indicates a reversal was requested for an event id
// with no ledger entries.
var ErrNothingToReverse = errors.New("no ledger entries to reverse")

// ErrUnknownPolicy indicates a split policy outside the supported set.
var ErrUnknownPolicy = errors.New("unknown split policy")

// ErrConflict indicates the operation conflicts with the current state of
// the resource (e.g. reversing an already reversed expense).
var ErrConflict = errors.New("conflict with current resource state")

// AppError wraps a lower-level failure with an HTTP-ish status code and a
// short message, used mainly at the repository boundary.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError creates an AppError wrapping err.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
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
