package client

import (
	"context"
	"net/url"
	"strconv"
)

// ComplaintService handles complaint operations.
type ComplaintService struct {
	c *Client
}

// ComplaintListOptions filters and paginates complaint listings.
type ComplaintListOptions struct {
	Status  string
	BatchID string
	Limit   int
	Offset  int
}

// complaintListResponse wraps the paginated complaint list response.
type complaintListResponse struct {
	Complaints []Complaint `json:"complaints"`
	HasMore    bool        `json:"has_more"`
}

// List returns complaints with optional filtering and pagination.
func (s *ComplaintService) List(ctx context.Context, opts *ComplaintListOptions) ([]Complaint, bool, error) {
	params := url.Values{}
	if opts != nil {
		if opts.Status != "" {
			params.Set("status", opts.Status)
		}
		if opts.BatchID != "" {
			params.Set("batch_id", opts.BatchID)
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp complaintListResponse
	if err := s.c.get(ctx, "/v1/complaints", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Complaints, resp.HasMore, nil
}

// Get returns a single complaint by ID.
func (s *ComplaintService) Get(ctx context.Context, id string) (*Complaint, error) {
	var complaint Complaint
	if err := s.c.get(ctx, "/v1/complaints/"+url.PathEscape(id), nil, &complaint); err != nil {
		return nil, err
	}
	return &complaint, nil
}

// Create files a new complaint.
func (s *ComplaintService) Create(ctx context.Context, req *CreateComplaintRequest) (*Complaint, error) {
	var complaint Complaint
	if err := s.c.post(ctx, "/v1/complaints", req, &complaint); err != nil {
		return nil, err
	}
	return &complaint, nil
}

// Update applies a partial update to a complaint.
func (s *ComplaintService) Update(ctx context.Context, id string, req *UpdateComplaintRequest) (*Complaint, error) {
	var complaint Complaint
	if err := s.c.patch(ctx, "/v1/complaints/"+url.PathEscape(id), req, &complaint); err != nil {
		return nil, err
	}
	return &complaint, nil
}

// Delete removes a complaint by ID.
func (s *ComplaintService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, "/v1/complaints/"+url.PathEscape(id), nil, nil)
}
