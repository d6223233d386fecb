// Package apperror defines the error taxonomy shared by the signup pipeline,
// the hackathon services and the HTTP layer.
//
// ERROR KINDS:
//   - ErrValidation  → a form field failed its rule; never reaches the store
//   - ErrConflict    → the store rejected a duplicate (already registered, name taken, ...)
//   - ErrNotFound    → a referenced record does not exist
//   - ErrUnavailable → derived data could not be read from the store
//
// Anything else is a generic failure. Callers check kinds with errors.Is and
// read the user-facing text from AppError.Message.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound    = errors.New("not found")
	ErrValidation  = errors.New("validation error")
	ErrConflict    = errors.New("conflict")
	ErrUnavailable = errors.New("unavailable")
)

// GenericMessage is shown for failures that are neither validation nor conflict.
const GenericMessage = "Something went wrong. Please try again."

type AppError struct {
	Err     error  // sentinel kind
	Message string // human-readable, safe to show to the visitor
	Field   string // optional: form field causing the error
	cause   error  // optional: underlying store error, kept for logs
}

func (e *AppError) Error() string {
	if e.cause != nil {
		return e.Message + ": " + e.cause.Error()
	}
	return e.Message
}

// Unwrap exposes both the sentinel and the underlying cause to errors.Is/As.
func (e *AppError) Unwrap() []error {
	if e.cause != nil {
		return []error{e.Err, e.cause}
	}
	return []error{e.Err}
}

func NotFound(resource, id string) *AppError {
	return &AppError{
		Err:     ErrNotFound,
		Message: fmt.Sprintf("%s not found with id %s", resource, id),
	}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{
		Err:     ErrValidation,
		Message: message,
		Field:   field,
	}
}

// Conflict reports a uniqueness violation. message is what the visitor sees,
// e.g. "You're already registered for this hackathon."
func Conflict(message string, cause error) *AppError {
	return &AppError{
		Err:     ErrConflict,
		Message: message,
		cause:   cause,
	}
}

// Unavailable reports that derived data could not be produced because a read failed.
func Unavailable(message string, cause error) *AppError {
	return &AppError{
		Err:     ErrUnavailable,
		Message: message,
		cause:   cause,
	}
}

// MessageFor returns the visitor-facing text for err: the AppError message
// when there is one, GenericMessage otherwise.
func MessageFor(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return GenericMessage
}
