package types

import (
	"time"

	"github.com/google/uuid"
)

// Account represents a registered user identity.
// It contains the login key, display metadata, and audit timestamps.
type Account struct {
	// ID is the unique identifier of the account.
	ID uuid.UUID `json:"id" db:"id"`

	// Email is the unique address the account signs in with.
	Email string `json:"email" db:"email"`

	// DisplayName is the name shown to the user. When not supplied at
	// signup it defaults to the local part of the email address.
	DisplayName string `json:"display_name" db:"display_name"`

	// PasswordHash stores the bcrypt hash of the account's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the account.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
