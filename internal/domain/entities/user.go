package entities

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account
type User struct {
	ID              uuid.UUID `json:"id" db:"id"`
	Email           string    `json:"email" db:"email"`
	Name            string    `json:"name" db:"name"`
	PasswordHash    string    `json:"-" db:"password_hash"`
	DisplayCurrency string    `json:"display_currency" db:"display_currency"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time `json:"updated_at" db:"updated_at"`
}

// AuthResult is returned on successful signup or login
type AuthResult struct {
	User  *User  `json:"user"`
	Token string `json:"token"`
}
