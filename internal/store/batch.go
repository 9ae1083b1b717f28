package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/traceopshq/traceops/internal/models"
)

// BatchStore provides data access for the batches table. Batch IDs are
// the human-assigned batch codes, not generated UUIDs, so creation can
// hit a duplicate key.
type BatchStore struct {
	Base
}

// NewBatchStore creates a BatchStore.
func NewBatchStore(base Base) *BatchStore {
	return &BatchStore{Base: base}
}

// BatchListOpts holds filters for listing batches.
type BatchListOpts struct {
	Status  string
	Product string
	Limit   int
	Offset  int
}

// CreateBatch inserts a batch and returns the stored row.
func (s *BatchStore) CreateBatch(ctx context.Context, req models.CreateBatchRequest) (*models.Batch, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	status := req.Status
	if status == "" {
		status = models.BatchStatusInProduction
	}

	batch := models.Batch{
		ID:              req.ID,
		Product:         req.Product,
		BatchDate:       req.BatchDate,
		ShelfLifeMonths: req.ShelfLifeMonths,
		Status:          status,
	}

	err := s.Pool.QueryRow(ctx, `
		INSERT INTO batches (id, product, batch_date, shelf_life_months, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		batch.ID, batch.Product, dateValue(batch.BatchDate), batch.ShelfLifeMonths, batch.Status,
	).Scan(&batch.CreatedAt, &batch.UpdatedAt)
	if err != nil {
		return nil, translateError(err, models.ErrBatchNotFound)
	}

	s.notify("batch", batch.ID, "insert")

	return &batch, nil
}

// GetBatch returns a batch by ID (batch code).
func (s *BatchStore) GetBatch(ctx context.Context, id string) (*models.Batch, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var b models.Batch
	var batchDate time.Time

	err := s.Pool.QueryRow(ctx, `
		SELECT id, product, batch_date, shelf_life_months, status, created_at, updated_at
		FROM batches WHERE id = $1`, id,
	).Scan(&b.ID, &b.Product, &batchDate, &b.ShelfLifeMonths, &b.Status, &b.CreatedAt, &b.UpdatedAt)
	if err != nil {
		return nil, translateError(err, models.ErrBatchNotFound)
	}
	b.BatchDate = dateValueFromDB(batchDate)

	return &b, nil
}

// ListBatches returns batches matching the given filters, newest batch
// date first.
func (s *BatchStore) ListBatches(ctx context.Context, opts BatchListOpts) ([]models.Batch, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var conditions []string
	var args []any
	argIdx := 1

	if opts.Status != "" {
		conditions = append(conditions, "status = $"+strconv.Itoa(argIdx))
		args = append(args, opts.Status)
		argIdx++
	}
	if opts.Product != "" {
		conditions = append(conditions, "product ILIKE $"+strconv.Itoa(argIdx))
		args = append(args, "%"+opts.Product+"%")
		argIdx++
	}

	var where string
	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(
		"SELECT id, product, batch_date, shelf_life_months, status, created_at, updated_at FROM batches %s ORDER BY batch_date DESC, id ASC LIMIT $%d OFFSET $%d",
		where, argIdx, argIdx+1,
	)
	args = append(args, limit+1, opts.Offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying batches: %w", err)
	}
	defer rows.Close()

	var batches []models.Batch
	for rows.Next() {
		var b models.Batch
		var batchDate time.Time

		if err := rows.Scan(&b.ID, &b.Product, &batchDate, &b.ShelfLifeMonths, &b.Status, &b.CreatedAt, &b.UpdatedAt); err != nil {
			return nil, false, fmt.Errorf("scanning batch: %w", err)
		}
		b.BatchDate = dateValueFromDB(batchDate)
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("reading batches: %w", err)
	}

	hasMore := len(batches) > limit
	if hasMore {
		batches = batches[:limit]
	}

	return batches, hasMore, nil
}

// UpdateBatch writes all mutable columns of a batch.
func (s *BatchStore) UpdateBatch(ctx context.Context, batch *models.Batch) (*models.Batch, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := s.Pool.QueryRow(ctx, `
		UPDATE batches
		SET product = $2, batch_date = $3, shelf_life_months = $4, status = $5, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		batch.ID, batch.Product, dateValue(batch.BatchDate), batch.ShelfLifeMonths, batch.Status,
	).Scan(&batch.UpdatedAt)
	if err != nil {
		return nil, translateError(err, models.ErrBatchNotFound)
	}

	s.notify("batch", batch.ID, "update")

	return batch, nil
}

// DeleteBatch removes a batch and its attachments (cascade).
func (s *BatchStore) DeleteBatch(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, "DELETE FROM batches WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting batch: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrBatchNotFound
	}

	s.notify("batch", id, "delete")

	return nil
}

// CountBatches returns the total number of batches.
func (s *BatchStore) CountBatches(ctx context.Context) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int
	if err := s.Pool.QueryRow(ctx, "SELECT count(*) FROM batches").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting batches: %w", err)
	}

	return count, nil
}
