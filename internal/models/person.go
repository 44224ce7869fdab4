package models

// Person is someone the owner shares expenses with.
// Debt summaries for a person are derived from transaction splits, never stored.
type Person struct {
	// ID is the unique identifier for the person (UUID format).
	ID string

	// OwnerID is the user who tracks this person.
	OwnerID string

	// Name is the display name (e.g., "Alice").
	Name string

	// Optional contact fields.
	Email string
	Phone string
	Notes string

	// CreatedAt is the Unix timestamp when the person was added.
	CreatedAt int64
}
