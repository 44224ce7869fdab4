package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mmynk/fintrack/internal/models"
)

// CreatePerson persists a new person.
func (s *SQLiteStore) CreatePerson(ctx context.Context, person *models.Person) error {
	if person.ID == "" {
		person.ID = newID()
	}
	if person.CreatedAt == 0 {
		person.CreatedAt = now()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO people (id, owner_id, name, email, phone, notes, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		person.ID, person.OwnerID, person.Name,
		nullString(person.Email), nullString(person.Phone), nullString(person.Notes),
		person.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert person: %w", err)
	}
	return nil
}

// GetPerson retrieves one of the owner's people.
func (s *SQLiteStore) GetPerson(ctx context.Context, ownerID, personID string) (*models.Person, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, email, phone, notes, created_at
		 FROM people WHERE id = ? AND owner_id = ?`,
		personID, ownerID,
	)
	person, err := scanPerson(row)
	if isNoRows(err) {
		return nil, notFound("person", personID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get person: %w", err)
	}
	return person, nil
}

// ListPeople returns the owner's people ordered by name.
func (s *SQLiteStore) ListPeople(ctx context.Context, ownerID string) ([]models.Person, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, owner_id, name, email, phone, notes, created_at
		 FROM people WHERE owner_id = ? ORDER BY name COLLATE NOCASE, id`,
		ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list people: %w", err)
	}
	defer rows.Close()

	var people []models.Person
	for rows.Next() {
		person, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan person: %w", err)
		}
		people = append(people, *person)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate people: %w", err)
	}
	return people, nil
}

// UpdatePerson updates name and contact fields.
func (s *SQLiteStore) UpdatePerson(ctx context.Context, person *models.Person) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE people SET name = ?, email = ?, phone = ?, notes = ?
		 WHERE id = ? AND owner_id = ?`,
		person.Name, nullString(person.Email), nullString(person.Phone), nullString(person.Notes),
		person.ID, person.OwnerID,
	)
	if err != nil {
		return fmt.Errorf("failed to update person: %w", err)
	}
	return checkAffected(res, "person", person.ID)
}

// DeletePerson removes a person; their splits go with them (ON DELETE CASCADE).
func (s *SQLiteStore) DeletePerson(ctx context.Context, ownerID, personID string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM people WHERE id = ? AND owner_id = ?",
		personID, ownerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete person: %w", err)
	}
	return checkAffected(res, "person", personID)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPerson(row scanner) (*models.Person, error) {
	person := &models.Person{}
	var email, phone, notes sql.NullString
	if err := row.Scan(&person.ID, &person.OwnerID, &person.Name, &email, &phone, &notes, &person.CreatedAt); err != nil {
		return nil, err
	}
	person.Email = email.String
	person.Phone = phone.String
	person.Notes = notes.String
	return person, nil
}
