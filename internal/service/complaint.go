package service

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/traceopshq/traceops/internal/models"
	"github.com/traceopshq/traceops/internal/store"
)

// ComplaintStore is the data-access interface ComplaintService depends on.
type ComplaintStore interface {
	CreateComplaint(ctx context.Context, req models.CreateComplaintRequest) (*models.Complaint, error)
	GetComplaint(ctx context.Context, id string) (*models.Complaint, error)
	ListComplaints(ctx context.Context, opts store.ComplaintListOpts) ([]models.Complaint, bool, error)
	UpdateComplaint(ctx context.Context, c *models.Complaint) (*models.Complaint, error)
	DeleteComplaint(ctx context.Context, id string) error
}

// ComplaintService owns complaint mutations and their activity trail.
type ComplaintService struct {
	store    ComplaintStore
	activity Enqueuer
	log      *logrus.Logger
}

// NewComplaintService creates a ComplaintService.
func NewComplaintService(store ComplaintStore, activity Enqueuer, log *logrus.Logger) *ComplaintService {
	return &ComplaintService{store: store, activity: activity, log: log}
}

func complaintFields(c *models.Complaint) map[string]any {
	return map[string]any{
		"severity":    c.Severity,
		"status":      c.Status,
		"description": c.Description,
	}
}

// Create validates and files a complaint, recording a create entry.
func (s *ComplaintService) Create(ctx context.Context, req models.CreateComplaintRequest, actor string) (*models.Complaint, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	c, err := s.store.CreateComplaint(ctx, req)
	if err != nil {
		return nil, err
	}

	snapshot, _ := json.Marshal(c) //nolint:errcheck // plain struct, cannot fail.
	s.activity.Enqueue(&models.RecordActivityRequest{
		EntityType: "complaint",
		EntityID:   c.ID,
		Field:      "complaint",
		Action:     models.ActionCreate,
		NewValue:   snapshot,
		Actor:      actor,
	})

	return c, nil
}

// Get returns a complaint by ID.
func (s *ComplaintService) Get(ctx context.Context, id string) (*models.Complaint, error) {
	return s.store.GetComplaint(ctx, id)
}

// List returns complaints matching the given filters.
func (s *ComplaintService) List(ctx context.Context, opts store.ComplaintListOpts) ([]models.Complaint, bool, error) {
	return s.store.ListComplaints(ctx, opts)
}

// Update applies a partial update; each changed field (status
// transitions included) yields one activity record.
func (s *ComplaintService) Update(ctx context.Context, id string, req models.UpdateComplaintRequest, actor string) (*models.Complaint, error) {
	current, err := s.store.GetComplaint(ctx, id)
	if err != nil {
		return nil, err
	}

	oldFields := complaintFields(current)

	if req.Severity != nil {
		current.Severity = *req.Severity
	}
	if req.Status != nil {
		current.Status = *req.Status
	}
	if req.Description != nil {
		current.Description = *req.Description
	}

	diffs, err := DiffFields(oldFields, complaintFields(current))
	if err != nil {
		return nil, err
	}
	if len(diffs) == 0 {
		return current, nil
	}

	updated, err := s.store.UpdateComplaint(ctx, current)
	if err != nil {
		return nil, err
	}

	for _, d := range diffs {
		s.activity.Enqueue(&models.RecordActivityRequest{
			EntityType: "complaint",
			EntityID:   updated.ID,
			Field:      d.Field,
			Action:     models.ActionUpdate,
			OldValue:   d.OldValue,
			NewValue:   d.NewValue,
			Actor:      actor,
		})
	}

	return updated, nil
}

// Delete removes a complaint and records the removal.
func (s *ComplaintService) Delete(ctx context.Context, id string, actor string) error {
	current, err := s.store.GetComplaint(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteComplaint(ctx, id); err != nil {
		return err
	}

	snapshot, _ := json.Marshal(current) //nolint:errcheck // plain struct, cannot fail.
	s.activity.Enqueue(&models.RecordActivityRequest{
		EntityType: "complaint",
		EntityID:   id,
		Field:      "complaint",
		Action:     models.ActionRemove,
		OldValue:   snapshot,
		Actor:      actor,
	})

	return nil
}
