package service

import (
	"context"
	"encoding/json"

	"github.com/sirupsen/logrus"

	"github.com/traceopshq/traceops/internal/labeling"
	"github.com/traceopshq/traceops/internal/models"
)

// LabelSpecStore is the data-access interface LabelSpecService depends on.
type LabelSpecStore interface {
	CreateLabelSpec(ctx context.Context, spec *models.LabelSpec) (*models.LabelSpec, error)
	GetLabelSpec(ctx context.Context, id string) (*models.LabelSpec, error)
	ListLabelSpecs(ctx context.Context, batchID string, limit, offset int) ([]models.LabelSpec, bool, error)
	UpdateLabelSpec(ctx context.Context, spec *models.LabelSpec) (*models.LabelSpec, error)
	DeleteLabelSpec(ctx context.Context, id string) error
}

// LabelSpecService owns label spec mutations and the lot/expiry
// derivation rules. Lot number and expiry date are always derived from
// the batch inputs unless the override flag is set, in which case the
// stored values are authoritative until the flag is cleared.
type LabelSpecService struct {
	store    LabelSpecStore
	activity Enqueuer
	log      *logrus.Logger
}

// NewLabelSpecService creates a LabelSpecService.
func NewLabelSpecService(store LabelSpecStore, activity Enqueuer, log *logrus.Logger) *LabelSpecService {
	return &LabelSpecService{store: store, activity: activity, log: log}
}

func labelSpecFields(s *models.LabelSpec) map[string]any {
	return map[string]any{
		"product_name":        s.ProductName,
		"batch_id":            s.BatchID,
		"batch_date":          s.BatchDate,
		"shelf_life_months":   s.ShelfLifeMonths,
		"override_lot_expiry": s.OverrideLotExpiry,
		"lot_number":          s.LotNumber,
		"expiry_date":         s.ExpiryDate,
	}
}

// Create validates the inputs, derives lot and expiry, and inserts the
// spec. Overrides are never accepted on create; they are an explicit
// update action.
func (s *LabelSpecService) Create(ctx context.Context, req models.CreateLabelSpecRequest, actor string) (*models.LabelSpec, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	derived, err := labeling.Derive(req.BatchID, req.BatchDate, req.ShelfLifeMonths)
	if err != nil {
		return nil, err
	}

	spec := &models.LabelSpec{
		ProductName:     req.ProductName,
		BatchID:         req.BatchID,
		BatchDate:       req.BatchDate,
		ShelfLifeMonths: req.ShelfLifeMonths,
		LotNumber:       derived.LotNumber,
		ExpiryDate:      derived.ExpiryDate,
	}

	created, err := s.store.CreateLabelSpec(ctx, spec)
	if err != nil {
		return nil, err
	}

	snapshot, _ := json.Marshal(created) //nolint:errcheck // plain struct, cannot fail.
	s.activity.Enqueue(&models.RecordActivityRequest{
		EntityType: "label_spec",
		EntityID:   created.ID,
		Field:      "label_spec",
		Action:     models.ActionCreate,
		NewValue:   snapshot,
		Actor:      actor,
	})

	return created, nil
}

// Get returns a label spec by ID.
func (s *LabelSpecService) Get(ctx context.Context, id string) (*models.LabelSpec, error) {
	return s.store.GetLabelSpec(ctx, id)
}

// List returns label specs, optionally filtered by batch.
func (s *LabelSpecService) List(ctx context.Context, batchID string, limit, offset int) ([]models.LabelSpec, bool, error) {
	return s.store.ListLabelSpecs(ctx, batchID, limit, offset)
}

// Update applies a partial update and re-runs derivation when inputs
// changed and the override flag is off. Clearing the flag discards any
// stale manual lot/expiry and recomputes from the current inputs in the
// same update. Derivation changes show up in the activity trail as
// ordinary lot_number / expiry_date field changes.
func (s *LabelSpecService) Update(ctx context.Context, id string, req models.UpdateLabelSpecRequest, actor string) (*models.LabelSpec, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	current, err := s.store.GetLabelSpec(ctx, id)
	if err != nil {
		return nil, err
	}

	oldFields := labelSpecFields(current)

	if req.ProductName != nil {
		current.ProductName = *req.ProductName
	}
	if req.BatchID != nil {
		current.BatchID = *req.BatchID
	}
	if req.BatchDate != nil {
		current.BatchDate = *req.BatchDate
	}
	if req.ShelfLifeMonths != nil {
		current.ShelfLifeMonths = *req.ShelfLifeMonths
	}
	if req.OverrideLotExpiry != nil {
		current.OverrideLotExpiry = *req.OverrideLotExpiry
	}

	if current.OverrideLotExpiry {
		// Manual values are authoritative while the flag is set.
		if req.LotNumber != nil {
			current.LotNumber = *req.LotNumber
		}
		if req.ExpiryDate != nil {
			current.ExpiryDate = *req.ExpiryDate
		}
	} else {
		derived, err := labeling.Derive(current.BatchID, current.BatchDate, current.ShelfLifeMonths)
		if err != nil {
			return nil, err
		}
		current.LotNumber = derived.LotNumber
		current.ExpiryDate = derived.ExpiryDate
	}

	diffs, err := DiffFields(oldFields, labelSpecFields(current))
	if err != nil {
		return nil, err
	}
	if len(diffs) == 0 {
		return current, nil
	}

	updated, err := s.store.UpdateLabelSpec(ctx, current)
	if err != nil {
		return nil, err
	}

	for _, d := range diffs {
		s.activity.Enqueue(&models.RecordActivityRequest{
			EntityType: "label_spec",
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

// Delete removes a label spec and records the removal.
func (s *LabelSpecService) Delete(ctx context.Context, id string, actor string) error {
	current, err := s.store.GetLabelSpec(ctx, id)
	if err != nil {
		return err
	}

	if err := s.store.DeleteLabelSpec(ctx, id); err != nil {
		return err
	}

	snapshot, _ := json.Marshal(current) //nolint:errcheck // plain struct, cannot fail.
	s.activity.Enqueue(&models.RecordActivityRequest{
		EntityType: "label_spec",
		EntityID:   id,
		Field:      "label_spec",
		Action:     models.ActionRemove,
		OldValue:   snapshot,
		Actor:      actor,
	})

	return nil
}
