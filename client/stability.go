package client

import (
	"context"
	"net/url"
	"strconv"
)

// StabilityService handles stability protocol and timepoint operations.
type StabilityService struct {
	c *Client
}

// ProtocolWithPlan pairs a protocol with the planner output from a
// create or update call. Plan is nil when the protocol's update did not
// touch the start date or schedule.
type ProtocolWithPlan struct {
	Protocol StabilityProtocol `json:"protocol"`
	Plan     *PlanResult       `json:"plan"`
}

// protocolListResponse wraps the paginated protocol list response.
type protocolListResponse struct {
	Protocols []StabilityProtocol `json:"protocols"`
	HasMore   bool                `json:"has_more"`
}

// ListProtocols returns stability protocols with pagination.
func (s *StabilityService) ListProtocols(ctx context.Context, limit, offset int) ([]StabilityProtocol, bool, error) {
	params := url.Values{}
	if limit > 0 {
		params.Set("limit", strconv.Itoa(limit))
	}
	if offset > 0 {
		params.Set("offset", strconv.Itoa(offset))
	}
	var resp protocolListResponse
	if err := s.c.get(ctx, "/v1/stability/protocols", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Protocols, resp.HasMore, nil
}

// GetProtocol returns a single protocol by ID.
func (s *StabilityService) GetProtocol(ctx context.Context, id string) (*StabilityProtocol, error) {
	var p StabilityProtocol
	if err := s.c.get(ctx, "/v1/stability/protocols/"+url.PathEscape(id), nil, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// CreateProtocol creates a protocol; the server immediately plans its
// timepoints and returns the result.
func (s *StabilityService) CreateProtocol(ctx context.Context, req *CreateProtocolRequest) (*ProtocolWithPlan, error) {
	var resp ProtocolWithPlan
	if err := s.c.post(ctx, "/v1/stability/protocols", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// UpdateProtocol applies a partial update; start date or schedule
// changes trigger a re-plan whose result comes back in Plan.
func (s *StabilityService) UpdateProtocol(ctx context.Context, id string, req *UpdateProtocolRequest) (*ProtocolWithPlan, error) {
	var resp ProtocolWithPlan
	if err := s.c.patch(ctx, "/v1/stability/protocols/"+url.PathEscape(id), req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DeleteProtocol removes a protocol and its timepoints.
func (s *StabilityService) DeleteProtocol(ctx context.Context, id string) error {
	return s.c.del(ctx, "/v1/stability/protocols/"+url.PathEscape(id), nil, nil)
}

// Plan expands the protocol's schedule and upserts planned timepoints.
// Recorded actual dates are never overwritten.
func (s *StabilityService) Plan(ctx context.Context, protocolID string) (*PlanResult, error) {
	var resp PlanResult
	if err := s.c.post(ctx, "/v1/stability/protocols/"+url.PathEscape(protocolID)+"/plan", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Timepoints returns a protocol's timepoints ordered by planned date.
func (s *StabilityService) Timepoints(ctx context.Context, protocolID string) ([]Timepoint, error) {
	var resp struct {
		Timepoints []Timepoint `json:"timepoints"`
	}
	if err := s.c.get(ctx, "/v1/stability/protocols/"+url.PathEscape(protocolID)+"/timepoints", nil, &resp); err != nil {
		return nil, err
	}
	return resp.Timepoints, nil
}

// RecordActual sets the actual pull date on a timepoint.
func (s *StabilityService) RecordActual(ctx context.Context, protocolID, label, actualDate string) (*Timepoint, error) {
	body := map[string]string{"actual_date": actualDate}
	var tp Timepoint
	path := "/v1/stability/protocols/" + url.PathEscape(protocolID) + "/timepoints/" + url.PathEscape(label) + "/actual"
	if err := s.c.put(ctx, path, body, &tp); err != nil {
		return nil, err
	}
	return &tp, nil
}
