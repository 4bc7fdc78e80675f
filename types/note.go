package types

import (
	"time"

	"github.com/google/uuid"
)

// Note is a short text document owned by exactly one account.
// Every read and mutation is scoped to the owner; a note that belongs
// to a different account is reported as not found.
type Note struct {
	// ID is the unique identifier of the note.
	ID uuid.UUID `json:"id" db:"id"`

	// OwnerID is the account the note belongs to. Set at creation and
	// immutable afterwards.
	OwnerID uuid.UUID `json:"owner_id" db:"owner_id"`

	// Title is the note's title. May be empty.
	Title string `json:"title" db:"title"`

	// Content is the note's body text. May be empty.
	Content string `json:"content" db:"content"`

	// CreatedAt is the timestamp when the note was created.
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent update to the note.
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
