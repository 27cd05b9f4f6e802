package domain

import "time"

const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User is an account that owns projects. PasswordHash never holds the raw secret.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// RegisterRequest represents data needed to create a new user
type RegisterRequest struct {
	Name     string
	Email    string
	Password string
	Role     string
}

// UpdateRequest represents data for updating a user; nil leaves a field as is
type UpdateRequest struct {
	Name     *string
	Email    *string
	Password *string
}
