package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/traceopshq/traceops/internal/models"
	"github.com/traceopshq/traceops/internal/stability"
)

// StabilityStore is the data-access interface StabilityService depends on.
type StabilityStore interface {
	CreateProtocol(ctx context.Context, req models.CreateProtocolRequest) (*models.StabilityProtocol, error)
	GetProtocol(ctx context.Context, id string) (*models.StabilityProtocol, error)
	ListProtocols(ctx context.Context, limit, offset int) ([]models.StabilityProtocol, bool, error)
	UpdateProtocol(ctx context.Context, p *models.StabilityProtocol) (*models.StabilityProtocol, error)
	DeleteProtocol(ctx context.Context, id string) error
	UpsertTimepoints(ctx context.Context, protocolID string, planned []stability.PlannedTimepoint) error
	ListTimepoints(ctx context.Context, protocolID string) ([]models.Timepoint, error)
	RecordActualDate(ctx context.Context, protocolID, label string, actual models.Date) (*models.Timepoint, error)
}

// PlanResult is the outcome of planning a protocol's schedule: the
// timepoints that were written plus any labels that failed to parse.
type PlanResult struct {
	Planned []stability.PlannedTimepoint `json:"planned"`
	Errors  []stability.LabelError       `json:"errors,omitempty"`
}

// StabilityService owns protocol mutations and timepoint planning.
type StabilityService struct {
	store    StabilityStore
	activity Enqueuer
	log      *logrus.Logger
}

// NewStabilityService creates a StabilityService.
func NewStabilityService(store StabilityStore, activity Enqueuer, log *logrus.Logger) *StabilityService {
	return &StabilityService{store: store, activity: activity, log: log}
}

// CreateProtocol validates and inserts a protocol, then plans its
// schedule so timepoints exist from the start. Labels that fail to
// parse are reported without failing the create.
func (s *StabilityService) CreateProtocol(ctx context.Context, req models.CreateProtocolRequest, actor string) (*models.StabilityProtocol, *PlanResult, error) {
	if err := req.Validate(); err != nil {
		return nil, nil, err
	}

	p, err := s.store.CreateProtocol(ctx, req)
	if err != nil {
		return nil, nil, err
	}

	snapshot, _ := json.Marshal(p) //nolint:errcheck // plain struct, cannot fail.
	s.activity.Enqueue(&models.RecordActivityRequest{
		EntityType: "stability_protocol",
		EntityID:   p.ID,
		Field:      "stability_protocol",
		Action:     models.ActionCreate,
		NewValue:   snapshot,
		Actor:      actor,
	})

	result, err := s.Plan(ctx, p.ID, actor)
	if err != nil {
		return nil, nil, fmt.Errorf("planning new protocol: %w", err)
	}

	return p, result, nil
}

// GetProtocol returns a protocol by ID.
func (s *StabilityService) GetProtocol(ctx context.Context, id string) (*models.StabilityProtocol, error) {
	return s.store.GetProtocol(ctx, id)
}

// ListProtocols returns protocols, newest first.
func (s *StabilityService) ListProtocols(ctx context.Context, limit, offset int) ([]models.StabilityProtocol, bool, error) {
	return s.store.ListProtocols(ctx, limit, offset)
}

// UpdateProtocol applies a partial update and re-plans when the start
// date or schedule changed. Planned dates move; recorded actual dates
// stay put.
func (s *StabilityService) UpdateProtocol(ctx context.Context, id string, req models.UpdateProtocolRequest, actor string) (*models.StabilityProtocol, *PlanResult, error) {
	current, err := s.store.GetProtocol(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	oldFields := protocolFields(current)

	if req.Name != nil {
		current.Name = *req.Name
	}
	if req.Product != nil {
		current.Product = *req.Product
	}
	if req.BatchID != nil {
		current.BatchID = *req.BatchID
	}
	if req.StartDate != nil {
		if req.StartDate.IsZero() {
			return nil, nil, models.ErrMissingStartDate
		}
		current.StartDate = *req.StartDate
	}
	if req.Schedule != nil {
		current.Schedule = *req.Schedule
	}

	diffs, err := DiffFields(oldFields, protocolFields(current))
	if err != nil {
		return nil, nil, err
	}

	var replan bool
	for _, d := range diffs {
		if d.Field == "start_date" || d.Field == "schedule" {
			replan = true
		}
	}

	if len(diffs) > 0 {
		if current, err = s.store.UpdateProtocol(ctx, current); err != nil {
			return nil, nil, err
		}

		for _, d := range diffs {
			s.activity.Enqueue(&models.RecordActivityRequest{
				EntityType: "stability_protocol",
				EntityID:   current.ID,
				Field:      d.Field,
				Action:     models.ActionUpdate,
				OldValue:   d.OldValue,
				NewValue:   d.NewValue,
				Actor:      actor,
			})
		}
	}

	var result *PlanResult
	if replan {
		if result, err = s.Plan(ctx, current.ID, actor); err != nil {
			return nil, nil, fmt.Errorf("re-planning protocol: %w", err)
		}
	}

	return current, result, nil
}

// DeleteProtocol removes a protocol, its timepoints, and records the removal.
func (s *StabilityService) DeleteProtocol(ctx context.Context, id string, actor string) error {
	current, err := s.store.GetProtocol(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteProtocol(ctx, id); err != nil {
		return err
	}

	snapshot, _ := json.Marshal(current) //nolint:errcheck // plain struct, cannot fail.
	s.activity.Enqueue(&models.RecordActivityRequest{
		EntityType: "stability_protocol",
		EntityID:   id,
		Field:      "stability_protocol",
		Action:     models.ActionRemove,
		OldValue:   snapshot,
		Actor:      actor,
	})

	return nil
}

// Plan expands the protocol's schedule into planned timepoints and
// upserts them. Malformed labels are reported per-label; valid labels
// are still written. The upsert never touches recorded actual dates.
func (s *StabilityService) Plan(ctx context.Context, protocolID string, actor string) (*PlanResult, error) {
	p, err := s.store.GetProtocol(ctx, protocolID)
	if err != nil {
		return nil, err
	}

	planned, labelErrs, err := stability.Plan(p.StartDate, p.Schedule)
	if err != nil {
		return nil, err
	}

	if len(planned) > 0 {
		if err := s.store.UpsertTimepoints(ctx, protocolID, planned); err != nil {
			return nil, err
		}

		plannedJSON, _ := json.Marshal(planned) //nolint:errcheck // plain structs, cannot fail.
		s.activity.Enqueue(&models.RecordActivityRequest{
			EntityType: "stability_protocol",
			EntityID:   protocolID,
			Field:      "timepoints",
			Action:     models.ActionSet,
			NewValue:   plannedJSON,
			Actor:      actor,
		})
	}

	for _, le := range labelErrs {
		s.log.WithFields(logrus.Fields{
			"protocol_id": protocolID,
			"label":       le.Label,
		}).Warn("schedule label rejected")
	}

	return &PlanResult{Planned: planned, Errors: labelErrs}, nil
}

// Timepoints returns a protocol's timepoints. The protocol must exist.
func (s *StabilityService) Timepoints(ctx context.Context, protocolID string) ([]models.Timepoint, error) {
	if _, err := s.store.GetProtocol(ctx, protocolID); err != nil {
		return nil, err
	}

	return s.store.ListTimepoints(ctx, protocolID)
}

// RecordActual sets the actual pull date on a timepoint and records it.
func (s *StabilityService) RecordActual(ctx context.Context, protocolID, label string, actual models.Date, actor string) (*models.Timepoint, error) {
	if actual.IsZero() {
		return nil, models.ErrMissingStartDate
	}

	tp, err := s.store.RecordActualDate(ctx, protocolID, label, actual)
	if err != nil {
		return nil, err
	}

	actualJSON, _ := json.Marshal(actual) //nolint:errcheck // date, cannot fail.
	s.activity.Enqueue(&models.RecordActivityRequest{
		EntityType: "stability_protocol",
		EntityID:   protocolID,
		Field:      "actual_date:" + label,
		Action:     models.ActionSet,
		NewValue:   actualJSON,
		Actor:      actor,
	})

	return tp, nil
}

func protocolFields(p *models.StabilityProtocol) map[string]any {
	return map[string]any{
		"name":       p.Name,
		"product":    p.Product,
		"batch_id":   p.BatchID,
		"start_date": p.StartDate,
		"schedule":   p.Schedule,
	}
}
