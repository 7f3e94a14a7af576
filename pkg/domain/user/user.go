// Package user holds the operator identity resolved by the auth gate.
package user

import (
	"errors"
	"time"

	"github.com/amirasaad/pixbank/pkg/utils"
	"github.com/google/uuid"
)

var (
	// ErrEmailTaken is returned when registering an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrInvalidEmail is returned when an email fails parsing.
	ErrInvalidEmail = errors.New("invalid email address")
)

// User is an authenticated API caller.
type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	Role         string
	CreatedAt    time.Time
}

// New creates a User with a hashed password.
func New(email, name, password string) (*User, error) {
	if !utils.IsEmail(email) {
		return nil, ErrInvalidEmail
	}
	if name == "" {
		return nil, errors.New("name is required")
	}
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	return &User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         "user",
		CreatedAt:    time.Now(),
	}, nil
}
