package domain

import "errors"

// ErrUnauthorized covers both an unknown email and a wrong password.
var ErrUnauthorized = errors.New("invalid email or password")
