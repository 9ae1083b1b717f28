package client

import (
	"context"
	"net/url"
	"strconv"
	"time"
)

// ActivityService handles activity log operations.
type ActivityService struct {
	c *Client
}

// ActivityQueryOptions filters and paginates activity queries. All
// filters are exact-match; Since is an inclusive lower bound.
type ActivityQueryOptions struct {
	EntityType string
	EntityID   string
	Field      string
	Action     string
	Actor      string
	Since      *time.Time
	Limit      int
	Offset     int
}

// activityListResponse wraps the paginated activity query response.
type activityListResponse struct {
	Activity []ActivityRecord `json:"activity"`
	HasMore  bool             `json:"has_more"`
}

// Query returns activity entries newest first.
func (s *ActivityService) Query(ctx context.Context, opts *ActivityQueryOptions) ([]ActivityRecord, bool, error) {
	params := url.Values{}
	if opts != nil {
		if opts.EntityType != "" {
			params.Set("entity_type", opts.EntityType)
		}
		if opts.EntityID != "" {
			params.Set("entity_id", opts.EntityID)
		}
		if opts.Field != "" {
			params.Set("field", opts.Field)
		}
		if opts.Action != "" {
			params.Set("action", opts.Action)
		}
		if opts.Actor != "" {
			params.Set("actor", opts.Actor)
		}
		if opts.Since != nil {
			params.Set("since", opts.Since.Format(time.RFC3339))
		}
		if opts.Limit > 0 {
			params.Set("limit", strconv.Itoa(opts.Limit))
		}
		if opts.Offset > 0 {
			params.Set("offset", strconv.Itoa(opts.Offset))
		}
	}
	var resp activityListResponse
	if err := s.c.get(ctx, "/v1/activity", params, &resp); err != nil {
		return nil, false, err
	}
	return resp.Activity, resp.HasMore, nil
}

// Record writes a manual activity entry.
func (s *ActivityService) Record(ctx context.Context, req *RecordActivityRequest) (*ActivityRecord, error) {
	var record ActivityRecord
	if err := s.c.post(ctx, "/v1/activity", req, &record); err != nil {
		return nil, err
	}
	return &record, nil
}

// Purge deletes activity entries older than the retention window.
// It returns the number of entries removed.
func (s *ActivityService) Purge(ctx context.Context, retentionDays int) (int, error) {
	params := url.Values{}
	if retentionDays > 0 {
		params.Set("retention_days", strconv.Itoa(retentionDays))
	}
	var resp struct {
		Purged int `json:"purged"`
	}
	if err := s.c.del(ctx, "/v1/activity", params, &resp); err != nil {
		return 0, err
	}
	return resp.Purged, nil
}
