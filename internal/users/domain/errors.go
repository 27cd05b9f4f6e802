package domain

import (
	"errors"
	"fmt"
)

var (
	ErrUserNotFound   = errors.New("user not found")
	ErrDuplicateEmail = errors.New("email already in use")
)

// DuplicateEmailError quotes the conflicting email and matches ErrDuplicateEmail.
type DuplicateEmailError struct {
	Email string
}

func (e *DuplicateEmailError) Error() string {
	return fmt.Sprintf("email already in use: %s", e.Email)
}

func (e *DuplicateEmailError) Unwrap() error {
	return ErrDuplicateEmail
}
