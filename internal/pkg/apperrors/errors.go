package apperrors

import "errors"

// Error taxonomy of the service. Every operation surfaces its failures as one
// of these four kinds; the error middleware maps them to HTTP statuses.
var (
	// ErrNotFound means a referenced event, request, user or category does not exist
	ErrNotFound = errors.New("resource not found")

	// ErrConditionNotMet means the entity exists but its current state forbids
	// the requested transition
	ErrConditionNotMet = errors.New("condition not met")

	// ErrConflict means a concurrency- or uniqueness-sensitive invariant would
	// be violated
	ErrConflict = errors.New("conflict")

	// ErrInvalidInput means the request parameters are malformed
	ErrInvalidInput = errors.New("invalid input")
)

// NewNotFoundError creates a not-found error with a message
func NewNotFoundError(message string) error {
	return &CustomError{
		Err:     ErrNotFound,
		Message: message,
	}
}

// NewConditionNotMetError creates a condition-not-met error with a message
func NewConditionNotMetError(message string) error {
	return &CustomError{
		Err:     ErrConditionNotMet,
		Message: message,
	}
}

// NewConflictError creates a conflict error with a message
func NewConflictError(message string) error {
	return &CustomError{
		Err:     ErrConflict,
		Message: message,
	}
}

// NewInvalidInputError creates an invalid-input error with a message
func NewInvalidInputError(message string) error {
	return &CustomError{
		Err:     ErrInvalidInput,
		Message: message,
	}
}

// CustomError carries an error kind together with a caller-facing message
type CustomError struct {
	Err     error
	Message string
}

// Error implements the error interface
func (e *CustomError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "unknown error"
}

// Unwrap implements the errors.Unwrap interface
func (e *CustomError) Unwrap() error {
	return e.Err
}
