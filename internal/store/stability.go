package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/traceopshq/traceops/internal/models"
	"github.com/traceopshq/traceops/internal/stability"
)

// StabilityStore provides data access for stability protocols and
// their timepoints.
type StabilityStore struct {
	Base
}

// NewStabilityStore creates a StabilityStore.
func NewStabilityStore(base Base) *StabilityStore {
	return &StabilityStore{Base: base}
}

// CreateProtocol inserts a stability protocol and returns the stored row.
func (s *StabilityStore) CreateProtocol(ctx context.Context, req models.CreateProtocolRequest) (*models.StabilityProtocol, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	p := models.StabilityProtocol{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Product:   req.Product,
		BatchID:   req.BatchID,
		StartDate: req.StartDate,
		Schedule:  req.Schedule,
	}

	err := s.Pool.QueryRow(ctx, `
		INSERT INTO stability_protocols (id, name, product, batch_id, start_date, schedule)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at`,
		p.ID, p.Name, p.Product, p.BatchID, dateValue(p.StartDate), p.Schedule,
	).Scan(&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, translateError(err, models.ErrProtocolNotFound)
	}

	s.notify("stability_protocol", p.ID, "insert")

	return &p, nil
}

// GetProtocol returns a protocol by ID.
func (s *StabilityStore) GetProtocol(ctx context.Context, id string) (*models.StabilityProtocol, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var p models.StabilityProtocol
	var startDate time.Time

	err := s.Pool.QueryRow(ctx, `
		SELECT id, name, product, batch_id, start_date, schedule, created_at, updated_at
		FROM stability_protocols WHERE id = $1`, id,
	).Scan(&p.ID, &p.Name, &p.Product, &p.BatchID, &startDate, &p.Schedule, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, translateError(err, models.ErrProtocolNotFound)
	}
	p.StartDate = dateValueFromDB(startDate)

	return &p, nil
}

// ListProtocols returns protocols, newest first.
func (s *StabilityStore) ListProtocols(ctx context.Context, limit, offset int) ([]models.StabilityProtocol, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.Pool.Query(ctx, `
		SELECT id, name, product, batch_id, start_date, schedule, created_at, updated_at
		FROM stability_protocols ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit+1, offset,
	)
	if err != nil {
		return nil, false, fmt.Errorf("querying protocols: %w", err)
	}
	defer rows.Close()

	var protocols []models.StabilityProtocol
	for rows.Next() {
		var p models.StabilityProtocol
		var startDate time.Time

		if err := rows.Scan(&p.ID, &p.Name, &p.Product, &p.BatchID, &startDate, &p.Schedule, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, false, fmt.Errorf("scanning protocol: %w", err)
		}
		p.StartDate = dateValueFromDB(startDate)
		protocols = append(protocols, p)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("reading protocols: %w", err)
	}

	hasMore := len(protocols) > limit
	if hasMore {
		protocols = protocols[:limit]
	}

	return protocols, hasMore, nil
}

// UpdateProtocol writes all mutable columns of a protocol.
func (s *StabilityStore) UpdateProtocol(ctx context.Context, p *models.StabilityProtocol) (*models.StabilityProtocol, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := s.Pool.QueryRow(ctx, `
		UPDATE stability_protocols
		SET name = $2, product = $3, batch_id = $4, start_date = $5, schedule = $6, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		p.ID, p.Name, p.Product, p.BatchID, dateValue(p.StartDate), p.Schedule,
	).Scan(&p.UpdatedAt)
	if err != nil {
		return nil, translateError(err, models.ErrProtocolNotFound)
	}

	s.notify("stability_protocol", p.ID, "update")

	return p, nil
}

// DeleteProtocol removes a protocol and its timepoints (cascade).
func (s *StabilityStore) DeleteProtocol(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, "DELETE FROM stability_protocols WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting protocol: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrProtocolNotFound
	}

	s.notify("stability_protocol", id, "delete")

	return nil
}

// UpsertTimepoints writes planned timepoints for a protocol inside one
// transaction. The protocol existence check and every row share the
// transaction so a missing protocol rejects the whole write. Existing
// rows only get their planned_date replaced; a recorded actual_date is
// never touched by planning.
func (s *StabilityStore) UpsertTimepoints(
	ctx context.Context, protocolID string, planned []stability.PlannedTimepoint,
) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	var exists bool
	if err := tx.QueryRow(ctx,
		"SELECT EXISTS (SELECT 1 FROM stability_protocols WHERE id = $1)", protocolID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("checking protocol: %w", err)
	}
	if !exists {
		return models.ErrProtocolNotFound
	}

	batch := &pgx.Batch{}
	for _, tp := range planned {
		batch.Queue(`
			INSERT INTO stability_timepoints (protocol_id, label, planned_date)
			VALUES ($1, $2, $3)
			ON CONFLICT (protocol_id, label)
			DO UPDATE SET planned_date = EXCLUDED.planned_date, updated_at = now()`,
			protocolID, tp.Label, tp.PlannedDate.Time,
		)
	}

	results := tx.SendBatch(ctx, batch)
	for range planned {
		if _, err := results.Exec(); err != nil {
			results.Close() //nolint:errcheck // already failing.

			return fmt.Errorf("upserting timepoint: %w", err)
		}
	}
	if err := results.Close(); err != nil {
		return fmt.Errorf("closing timepoint batch: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing timepoints: %w", err)
	}

	s.notify("stability_protocol", protocolID, "update")

	return nil
}

// ListTimepoints returns a protocol's timepoints ordered by planned date.
func (s *StabilityStore) ListTimepoints(ctx context.Context, protocolID string) ([]models.Timepoint, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, `
		SELECT protocol_id, label, planned_date, actual_date, created_at, updated_at
		FROM stability_timepoints WHERE protocol_id = $1 ORDER BY planned_date ASC, label ASC`,
		protocolID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying timepoints: %w", err)
	}
	defer rows.Close()

	var tps []models.Timepoint
	for rows.Next() {
		var tp models.Timepoint
		var plannedDate time.Time
		var actualDate *time.Time

		if err := rows.Scan(&tp.ProtocolID, &tp.Label, &plannedDate, &actualDate, &tp.CreatedAt, &tp.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning timepoint: %w", err)
		}
		tp.PlannedDate = dateValueFromDB(plannedDate)
		tp.ActualDate = dateFromDB(actualDate)
		tps = append(tps, tp)
	}

	return tps, rows.Err()
}

// RecordActualDate sets the actual pull date on a timepoint.
func (s *StabilityStore) RecordActualDate(ctx context.Context, protocolID, label string, actual models.Date) (*models.Timepoint, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var tp models.Timepoint
	var plannedDate time.Time
	var actualDate *time.Time

	err := s.Pool.QueryRow(ctx, `
		UPDATE stability_timepoints
		SET actual_date = $3, updated_at = now()
		WHERE protocol_id = $1 AND label = $2
		RETURNING protocol_id, label, planned_date, actual_date, created_at, updated_at`,
		protocolID, label, dateValue(actual),
	).Scan(&tp.ProtocolID, &tp.Label, &plannedDate, &actualDate, &tp.CreatedAt, &tp.UpdatedAt)
	if err != nil {
		return nil, translateError(err, models.ErrProtocolNotFound)
	}
	tp.PlannedDate = dateValueFromDB(plannedDate)
	tp.ActualDate = dateFromDB(actualDate)

	s.notify("stability_protocol", protocolID, "update")

	return &tp, nil
}

// CountProtocols returns the total number of stability protocols.
func (s *StabilityStore) CountProtocols(ctx context.Context) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int
	if err := s.Pool.QueryRow(ctx, "SELECT count(*) FROM stability_protocols").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting protocols: %w", err)
	}

	return count, nil
}
