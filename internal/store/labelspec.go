package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/traceopshq/traceops/internal/models"
)

// LabelSpecStore provides data access for the label_specs table.
type LabelSpecStore struct {
	Base
}

// NewLabelSpecStore creates a LabelSpecStore.
func NewLabelSpecStore(base Base) *LabelSpecStore {
	return &LabelSpecStore{Base: base}
}

// CreateLabelSpec inserts a label spec. Lot number and expiry date are
// computed by the service layer before the write.
func (s *LabelSpecStore) CreateLabelSpec(ctx context.Context, spec *models.LabelSpec) (*models.LabelSpec, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if spec.ID == "" {
		spec.ID = uuid.NewString()
	}

	err := s.Pool.QueryRow(ctx, `
		INSERT INTO label_specs (id, product_name, batch_id, batch_date, shelf_life_months, override_lot_expiry, lot_number, expiry_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`,
		spec.ID, spec.ProductName, spec.BatchID, dateValue(spec.BatchDate),
		spec.ShelfLifeMonths, spec.OverrideLotExpiry, spec.LotNumber, dateValue(spec.ExpiryDate),
	).Scan(&spec.CreatedAt, &spec.UpdatedAt)
	if err != nil {
		return nil, translateError(err, models.ErrLabelSpecNotFound)
	}

	s.notify("label_spec", spec.ID, "insert")

	return spec, nil
}

// GetLabelSpec returns a label spec by ID.
func (s *LabelSpecStore) GetLabelSpec(ctx context.Context, id string) (*models.LabelSpec, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var spec models.LabelSpec
	var batchDate, expiryDate time.Time

	err := s.Pool.QueryRow(ctx, `
		SELECT id, product_name, batch_id, batch_date, shelf_life_months, override_lot_expiry, lot_number, expiry_date, created_at, updated_at
		FROM label_specs WHERE id = $1`, id,
	).Scan(
		&spec.ID, &spec.ProductName, &spec.BatchID, &batchDate, &spec.ShelfLifeMonths,
		&spec.OverrideLotExpiry, &spec.LotNumber, &expiryDate, &spec.CreatedAt, &spec.UpdatedAt,
	)
	if err != nil {
		return nil, translateError(err, models.ErrLabelSpecNotFound)
	}
	spec.BatchDate = dateValueFromDB(batchDate)
	spec.ExpiryDate = dateValueFromDB(expiryDate)

	return &spec, nil
}

// ListLabelSpecs returns label specs, newest first. The batchID filter
// is exact-match; empty means all.
func (s *LabelSpecStore) ListLabelSpecs(ctx context.Context, batchID string, limit, offset int) ([]models.LabelSpec, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var where string
	var args []any
	argIdx := 1

	if batchID != "" {
		where = "WHERE batch_id = $1"
		args = append(args, batchID)
		argIdx++
	}

	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(
		"SELECT id, product_name, batch_id, batch_date, shelf_life_months, override_lot_expiry, lot_number, expiry_date, created_at, updated_at FROM label_specs %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, argIdx, argIdx+1,
	)
	args = append(args, limit+1, offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying label specs: %w", err)
	}
	defer rows.Close()

	var specs []models.LabelSpec
	for rows.Next() {
		var spec models.LabelSpec
		var batchDate, expiryDate time.Time

		if err := rows.Scan(
			&spec.ID, &spec.ProductName, &spec.BatchID, &batchDate, &spec.ShelfLifeMonths,
			&spec.OverrideLotExpiry, &spec.LotNumber, &expiryDate, &spec.CreatedAt, &spec.UpdatedAt,
		); err != nil {
			return nil, false, fmt.Errorf("scanning label spec: %w", err)
		}
		spec.BatchDate = dateValueFromDB(batchDate)
		spec.ExpiryDate = dateValueFromDB(expiryDate)
		specs = append(specs, spec)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("reading label specs: %w", err)
	}

	hasMore := len(specs) > limit
	if hasMore {
		specs = specs[:limit]
	}

	return specs, hasMore, nil
}

// UpdateLabelSpec writes all mutable columns of a label spec. The
// service layer owns the override/re-derivation rules; by the time the
// row gets here lot_number and expiry_date are final.
func (s *LabelSpecStore) UpdateLabelSpec(ctx context.Context, spec *models.LabelSpec) (*models.LabelSpec, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := s.Pool.QueryRow(ctx, `
		UPDATE label_specs
		SET product_name = $2, batch_id = $3, batch_date = $4, shelf_life_months = $5,
		    override_lot_expiry = $6, lot_number = $7, expiry_date = $8, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		spec.ID, spec.ProductName, spec.BatchID, dateValue(spec.BatchDate),
		spec.ShelfLifeMonths, spec.OverrideLotExpiry, spec.LotNumber, dateValue(spec.ExpiryDate),
	).Scan(&spec.UpdatedAt)
	if err != nil {
		return nil, translateError(err, models.ErrLabelSpecNotFound)
	}

	s.notify("label_spec", spec.ID, "update")

	return spec, nil
}

// DeleteLabelSpec removes a label spec by ID.
func (s *LabelSpecStore) DeleteLabelSpec(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, "DELETE FROM label_specs WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting label spec: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrLabelSpecNotFound
	}

	s.notify("label_spec", id, "delete")

	return nil
}

// CountLabelSpecs returns the total number of label specs.
func (s *LabelSpecStore) CountLabelSpecs(ctx context.Context) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int
	if err := s.Pool.QueryRow(ctx, "SELECT count(*) FROM label_specs").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting label specs: %w", err)
	}

	return count, nil
}
