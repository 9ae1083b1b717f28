package client

import (
	"context"
	"net/url"
	"strconv"
)

// LabelSpecService handles label spec operations. The server derives lot
// numbers and expiry dates; clients only supply the inputs.
type LabelSpecService struct {
	c *Client
}

// labelSpecListResponse wraps the paginated label spec list response.
type labelSpecListResponse struct {
	LabelSpecs []LabelSpec `json:"label_specs"`
	HasMore    bool        `json:"has_more"`
}

// List returns label specs, optionally filtered to one batch.
func (s *LabelSpecService) List(ctx context.Context, batchID string, limit, offset int) ([]LabelSpec, bool, error) {
	params := url.Values{}
	if batchID != "" {
		params.Set("batch_id", batchID)
	}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	var resp labelSpecListResponse
	if err := s.c.get(ctx, "/v1/labelspecs", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.LabelSpecs, resp.HasMore, nil
}

// Get returns a single label spec by ID.
func (s *LabelSpecService) Get(ctx context.Context, id string) (*LabelSpec, error) {
	var spec LabelSpec
	if err := s.c.get(ctx, "/v1/labelspecs/"+url.PathEscape(id), nil, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Create creates a label spec; the response carries the derived lot
// number and expiry date.
func (s *LabelSpecService) Create(ctx context.Context, req *CreateLabelSpecRequest) (*LabelSpec, error) {
	var spec LabelSpec
	if err := s.c.post(ctx, "/v1/labelspecs", req, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Update applies a partial update; unless the override flag is set, the
// server re-derives lot and expiry from the updated inputs.
func (s *LabelSpecService) Update(ctx context.Context, id string, req *UpdateLabelSpecRequest) (*LabelSpec, error) {
	var spec LabelSpec
	if err := s.c.patch(ctx, "/v1/labelspecs/"+url.PathEscape(id), req, &spec); err != nil {
		return nil, err
	}
	return &spec, nil
}

// Delete removes a label spec by ID.
func (s *LabelSpecService) Delete(ctx context.Context, id string) error {
	return s.c.del(ctx, "/v1/labelspecs/"+url.PathEscape(id), nil, nil)
}
