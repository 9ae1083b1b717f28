package client

import (
	"context"
	"net/url"
	"strconv"
)

// ContactService handles contact CRUD operations.
type ContactService struct {
	c *Client
}

// contactListResponse wraps the paginated contact list response.
type contactListResponse struct {
	Contacts []Contact `json:"contacts"`
	HasMore  bool      `json:"has_more"`
}

// List returns contacts matching an optional name/company search.
func (s *ContactService) List(ctx context.Context, search string, limit, offset int) ([]Contact, bool, error) {
	params := url.Values{}
	if search != "" {
		params.Set("q", search)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	var resp contactListResponse
	if err := s.c.get(ctx, "/v1/contacts", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Contacts, resp.HasMore, nil
}

// Get returns a single contact by ID.
func (s *ContactService) Get(ctx context.Context, id string) (*Contact, error) {
	var contact Contact
	if err := s.c.get(ctx, "/v1/contacts/"+url.PathEscape(id), nil, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// Create creates a new contact.
func (s *ContactService) Create(ctx context.Context, req *CreateContactRequest) (*Contact, error) {
	var contact Contact
	if err := s.c.post(ctx, "/v1/contacts", req, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// Update applies a partial update to a contact.
func (s *ContactService) Update(ctx context.Context, id string, req *UpdateContactRequest) (*Contact, error) {
	var contact Contact
	if err := s.c.patch(ctx, "/v1/contacts/"+url.PathEscape(id), req, &contact); err != nil {
		return nil, err
	}
	return &contact, nil
}

// Delete removes a contact by ID.
func (s *ContactService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, "/v1/contacts/"+url.PathEscape(id), nil, nil)
}
