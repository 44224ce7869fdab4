package models

import (
	"strings"
	"time"
)

// DefaultCurrency is assigned to new users until they pick one in settings.
const DefaultCurrency = "USD"

// User represents a registered user account. The user is the "owner" of
// every account, person and transaction they create.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string

	// Email is the user's email address (unique). Used for login.
	Email string

	// DisplayName is the name shown in the client.
	DisplayName string

	// PasswordHash is the bcrypt hash of the user's password.
	PasswordHash string

	// DefaultCurrency is the reporting currency for aggregate views.
	DefaultCurrency string

	// CreatedAt and UpdatedAt are Unix timestamps.
	CreatedAt int64
	UpdatedAt int64
}

// NewUser builds a user ready to be persisted. The ID is assigned by the store.
func NewUser(email, displayName, passwordHash string) *User {
	now := time.Now().Unix()
	return &User{
		Email:           strings.ToLower(strings.TrimSpace(email)),
		DisplayName:     displayName,
		PasswordHash:    passwordHash,
		DefaultCurrency: DefaultCurrency,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}
