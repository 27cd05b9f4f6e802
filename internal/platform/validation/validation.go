// Package validation carries client-caused input failures across features.
package validation

import (
	"errors"
	"fmt"
)

// ErrInvalidDate marks an unparsable calendar date.
var ErrInvalidDate = errors.New("invalid date")

// Error is a missing, blank, or malformed field. Never retried.
type Error struct {
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Required reports a missing or blank field.
func Required(field, message string) *Error {
	return &Error{Field: field, Message: message}
}

// InvalidDate reports a date field that did not parse.
func InvalidDate(field string, cause error) *Error {
	return &Error{
		Field:   field,
		Message: fmt.Sprintf("%s: %v", field, cause),
		Err:     ErrInvalidDate,
	}
}

// Is reports whether err is (or wraps) a validation failure.
func Is(err error) bool {
	var v *Error
	return errors.As(err, &v)
}
