package models

import "time"

// Contact is a CRM contact record.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateContactRequest is the payload for creating a contact.
type CreateContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Company string `json:"company"`
}

// Validate checks required fields.
func (r CreateContactRequest) Validate() error {
	if r.Name == "" {
		return ErrMissingName
	}
	if len(r.Name) > maxTitleLen {
		return ErrFieldTooLong("name", maxTitleLen)
	}
	return nil
}

// UpdateContactRequest is the payload for a partial contact update.
type UpdateContactRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Company *string `json:"company,omitempty"`
}

// Validate checks the fields that are present.
func (r UpdateContactRequest) Validate() error {
	if r.Name != nil {
		if *r.Name == "" {
			return ErrMissingName
		}
		if len(*r.Name) > maxTitleLen {
			return ErrFieldTooLong("name", maxTitleLen)
		}
	}
	return nil
}
