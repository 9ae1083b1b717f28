package store

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/traceopshq/traceops/internal/models"
)

// ComplaintStore provides data access for the complaints table.
type ComplaintStore struct {
	Base
}

// NewComplaintStore creates a ComplaintStore.
func NewComplaintStore(base Base) *ComplaintStore {
	return &ComplaintStore{Base: base}
}

// ComplaintListOpts holds filters for listing complaints.
type ComplaintListOpts struct {
	Status  string
	BatchID string
	Limit   int
	Offset  int
}

// CreateComplaint inserts a complaint and returns the stored row. A
// referenced batch must exist.
func (s *ComplaintStore) CreateComplaint(ctx context.Context, req models.CreateComplaintRequest) (*models.Complaint, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	c := models.Complaint{
		ID:          uuid.NewString(),
		BatchID:     req.BatchID,
		Severity:    req.Severity,
		Status:      models.ComplaintStatusNew,
		Description: req.Description,
	}

	var batchID any
	if c.BatchID != "" {
		batchID = c.BatchID
	}

	err := s.Pool.QueryRow(ctx, `
		INSERT INTO complaints (id, batch_id, severity, status, description)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`,
		c.ID, batchID, c.Severity, c.Status, c.Description,
	).Scan(&c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, foreignKeyToNotFound(err, models.ErrBatchNotFound)
	}

	s.notify("complaint", c.ID, "insert")

	return &c, nil
}

// GetComplaint returns a complaint by ID.
func (s *ComplaintStore) GetComplaint(ctx context.Context, id string) (*models.Complaint, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var c models.Complaint
	var batchID *string

	err := s.Pool.QueryRow(ctx, `
		SELECT id, batch_id, severity, status, description, created_at, updated_at
		FROM complaints WHERE id = $1`, id,
	).Scan(&c.ID, &batchID, &c.Severity, &c.Status, &c.Description, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return nil, translateError(err, models.ErrComplaintNotFound)
	}
	if batchID != nil {
		c.BatchID = *batchID
	}

	return &c, nil
}

// ListComplaints returns complaints matching the given filters, newest first.
func (s *ComplaintStore) ListComplaints(ctx context.Context, opts ComplaintListOpts) ([]models.Complaint, bool, error) {
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
	if opts.BatchID != "" {
		conditions = append(conditions, "batch_id = $"+strconv.Itoa(argIdx))
		args = append(args, opts.BatchID)
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
		"SELECT id, batch_id, severity, status, description, created_at, updated_at FROM complaints %s ORDER BY created_at DESC LIMIT $%d OFFSET $%d",
		where, argIdx, argIdx+1,
	)
	args = append(args, limit+1, opts.Offset)

	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, false, fmt.Errorf("querying complaints: %w", err)
	}
	defer rows.Close()

	var complaints []models.Complaint
	for rows.Next() {
		var c models.Complaint
		var batchID *string

		if err := rows.Scan(&c.ID, &batchID, &c.Severity, &c.Status, &c.Description, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, false, fmt.Errorf("scanning complaint: %w", err)
		}
		if batchID != nil {
			c.BatchID = *batchID
		}
		complaints = append(complaints, c)
	}
	if err := rows.Err(); err != nil {
		return nil, false, fmt.Errorf("reading complaints: %w", err)
	}

	hasMore := len(complaints) > limit
	if hasMore {
		complaints = complaints[:limit]
	}

	return complaints, hasMore, nil
}

// UpdateComplaint writes all mutable columns of a complaint.
func (s *ComplaintStore) UpdateComplaint(ctx context.Context, c *models.Complaint) (*models.Complaint, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	err := s.Pool.QueryRow(ctx, `
		UPDATE complaints
		SET severity = $2, status = $3, description = $4, updated_at = now()
		WHERE id = $1
		RETURNING updated_at`,
		c.ID, c.Severity, c.Status, c.Description,
	).Scan(&c.UpdatedAt)
	if err != nil {
		return nil, translateError(err, models.ErrComplaintNotFound)
	}

	s.notify("complaint", c.ID, "update")

	return c, nil
}

// DeleteComplaint removes a complaint by ID.
func (s *ComplaintStore) DeleteComplaint(ctx context.Context, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx, "DELETE FROM complaints WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("deleting complaint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrComplaintNotFound
	}

	s.notify("complaint", id, "delete")

	return nil
}

// CountComplaints returns the total number of complaints.
func (s *ComplaintStore) CountComplaints(ctx context.Context) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int
	if err := s.Pool.QueryRow(ctx, "SELECT count(*) FROM complaints").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting complaints: %w", err)
	}

	return count, nil
}
