package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden indicates the caller may not perform the action.
var ErrForbidden = errors.New("forbidden")

// ErrUnknownStatus indicates a status value outside the tracked lifecycle.
var ErrUnknownStatus = errors.New("unknown status")

// ErrNoInteraction is returned when a dialog answer arrives while no dialog is open.
var ErrNoInteraction = errors.New("no interaction is open")

// ErrInteractionMismatch is returned when an answer does not fit the open dialog.
var ErrInteractionMismatch = errors.New("answer does not match the open interaction")

// ErrInteractionPending is returned when a new flow is started while another dialog is still open.
var ErrInteractionPending = errors.New("another interaction is still open")

// AppError carries an HTTP-ish status code alongside a wrapped cause.
type AppError struct {
	Code    int
	Message string
	Err     error
}

// NewAppError builds an AppError.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

func (e *AppError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *AppError) Unwrap() error {
	return e.Err
}
