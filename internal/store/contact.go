package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/traceopshq/traceops/internal/models"
)

// ContactStore provides data access for the contacts table.
type ContactStore struct {
	Base
}

// NewContactStore creates a ContactStore.
func NewContactStore(base Base) *ContactStore {
	return &ContactStore{Base: base}
}

// CreateContact inserts a contact and returns the stored row.
func (s *ContactStore) CreateContact(ctx context.Context, req models.CreateContactRequest) (*models.Contact, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	contact := models.Contact{
		ID:      uuid.NewString(),
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Company: req.Company,
	}

	err := s.Pool.QueryRow(ctx, `
		INSERT INTO contacts (id, name, email, phone, company)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		contact.ID, contact.Name, contact.Email, contact.Phone, contact.Company,
	).Scan(&contact.CreatedAt, &contact.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting contact: %w", translateError(err, models.ErrContactNotFound))
	}

	s.notify("contact", contact.ID, "insert")

	return &contact, nil
}

// GetContact returns a contact by ID.
func (s *ContactStore) GetContact(ctx context.Context, id string) (*models.Contact, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var c models.Contact

	err := s.Pool.QueryRow(ctx, `
		SELECT id, name, email, phone, company, created_at, updated_at
		FROM contacts WHERE id = $1`, id,
	).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translateError(err, models.ErrContactNotFound)
	}

	return &c, nil
}

// ListContacts returns contacts ordered by name. Search is an ilike
// match on name or company.
func (s *ContactStore) ListContacts(ctx context.Context, search string, limit, offset int) ([]models.Contact, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var where string
	var args []any
	argIdx := 1

	if search != "" {
		where = "WHERE name ILIKE $1 OR company ILIKE $1"
		args = append(args, "%"+search+"%")
		argIdx++
	}

	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(
		"SELECT id, name, email, phone, company, created_at, updated_at FROM contacts %s ORDER BY name ASC LIMIT $%d OFFSET $%d",
		where, argIdx, argIdx+1,
	)
	args = append(args, limit+1, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying contacts: %w", err)
	}
	defer rows.Close()

	var contacts []models.Contact
	for rows.Next() {
		var c models.Contact
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.Company, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, false, fmt.Errorf("scanning contact: %w", err)
		}
		contacts = append(contacts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("reading contacts: %w", err)
	}

	hasMore := len(contacts) > limit
	if hasMore {
		contacts = contacts[:limit]
	}

	return contacts, hasMore, nil
}

// UpdateContact writes all mutable columns of a contact.
func (s *ContactStore) UpdateContact(ctx context.Context, contact *models.Contact) (*models.Contact, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := s.Pool.QueryRow(ctx, `
		UPDATE contacts
		SET name = $2, email = $3, phone = $4, company = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		contact.ID, contact.Name, contact.Email, contact.Phone, contact.Company,
	).Scan(&contact.UpdatedAt)
	if err != nil {
		return nil, translateError(err, models.ErrContactNotFound)
	}

	s.notify("contact", contact.ID, "update")

	return contact, nil
}

// DeleteContact removes a contact by ID.
func (s *ContactStore) DeleteContact(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, "DELETE FROM contacts WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting contact: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrContactNotFound
	}

	s.notify("contact", id, "delete")

	return nil
}

// CountContacts returns the total number of contacts.
func (s *ContactStore) CountContacts(ctx context.Context) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int
	if err := s.Pool.QueryRow(ctx, "SELECT count(*) FROM contacts").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting contacts: %w", err)
	}

	return count, nil
}
