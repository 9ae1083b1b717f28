package store

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/traceopshq/traceops/internal/models"
)

// ActivityStore provides data access for the activity_log table.
// The log is append-only: entries are inserted, queried, and purged by
// retention, never updated.
type ActivityStore struct {
	Base
}

// NewActivityStore creates an ActivityStore.
func NewActivityStore(base Base) *ActivityStore {
	return &ActivityStore{Base: base}
}

// RecordActivity inserts one field-level activity entry and returns the
// stored row. Validation happens here as the last line of defense: an
// entry without an entity id is a caller bug and must fail loudly.
func (s *ActivityStore) RecordActivity(
	ctx context.Context, req models.RecordActivityRequest,
) (*models.ActivityRecord, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var rec models.ActivityRecord

	err := s.Pool.QueryRow(ctx, `
		INSERT INTO activity_log (entity_type, entity_id, field, action, old_value, new_value, message, actor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, entity_type, entity_id, field, action, old_value, new_value, message, actor, created_at`,
		req.EntityType, req.EntityID, req.Field, req.Action,
		[]byte(req.OldValue), []byte(req.NewValue), req.Message, req.Actor,
	).Scan(
		&rec.ID, &rec.EntityType, &rec.EntityID, &rec.Field, &rec.Action,
		&rec.OldValue, &rec.NewValue, &rec.Message, &rec.Actor, &rec.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting activity entry: %w", err)
	}

	s.notifyPayload(activityChangePayload(&rec), "activity "+rec.EntityType)

	return &rec, nil
}

// maxActivityPayload caps the notify payload size. pg_notify rejects
// payloads near 8 KB and the hub drops broadcasts over 4 KB after the
// event envelope is added, so this leaves headroom for both.
const maxActivityPayload = 3500

// activityNotification is the wire shape published for a new activity
// entry. It keeps the entity_type/entity_id keys the bridge routes on
// and carries the inserted record so watchers receive it directly.
type activityNotification struct {
	EntityType string                 `json:"entity_type"`
	EntityID   string                 `json:"entity_id"`
	Op         string                 `json:"op"`
	Record     *models.ActivityRecord `json:"record,omitempty"`
}

// activityChangePayload builds the pg_notify payload for an inserted
// activity entry. Oversized old/new values are stripped first; if the
// payload still exceeds the cap (a pathological message), watchers get
// a bare change hint and re-query.
func activityChangePayload(rec *models.ActivityRecord) []byte {
	n := activityNotification{
		EntityType: rec.EntityType,
		EntityID:   rec.EntityID,
		Op:         "activity",
		Record:     rec,
	}

	payload, err := json.Marshal(n)
	if err == nil && len(payload) <= maxActivityPayload {
		return payload
	}

	trimmed := *rec
	trimmed.OldValue = nil
	trimmed.NewValue = nil
	n.Record = &trimmed

	payload, err = json.Marshal(n)
	if err == nil && len(payload) <= maxActivityPayload {
		return payload
	}

	n.Record = nil
	payload, _ = json.Marshal(n) //nolint:errcheck // static keys, cannot fail.

	return payload
}

// buildActivityFilter builds WHERE clause and args from ActivityQueryOpts.
func buildActivityFilter(opts models.ActivityQueryOpts) (where string, args []any, nextArg int) {
	var conditions []string
	argIdx := 1

	if opts.EntityType != "" {
		conditions = append(conditions, "entity_type = $"+strconv.Itoa(argIdx))
		args = append(args, opts.EntityType)
		argIdx++
	}
	if opts.EntityID != "" {
		conditions = append(conditions, "entity_id = $"+strconv.Itoa(argIdx))
		args = append(args, opts.EntityID)
		argIdx++
	}
	if opts.Field != "" {
		conditions = append(conditions, "field = $"+strconv.Itoa(argIdx))
		args = append(args, opts.Field)
		argIdx++
	}
	if opts.Action != "" {
		conditions = append(conditions, "action = $"+strconv.Itoa(argIdx))
		args = append(args, opts.Action)
		argIdx++
	}
	if opts.Actor != "" {
		conditions = append(conditions, "actor = $"+strconv.Itoa(argIdx))
		args = append(args, opts.Actor)
		argIdx++
	}
	if opts.Since != nil {
		conditions = append(conditions, "created_at >= $"+strconv.Itoa(argIdx))
		args = append(args, *opts.Since)
		argIdx++
	}

	if len(conditions) > 0 {
		where = "WHERE " + strings.Join(conditions, " AND ")
	}

	return where, args, argIdx
}

// QueryActivity returns activity entries matching the given filters,
// newest first (created_at DESC, id DESC tie-break since timestamps can
// collide within a clock tick). Returns entries, hasMore flag, and any
// error.
func (s *ActivityStore) QueryActivity(
	ctx context.Context, opts models.ActivityQueryOpts,
) ([]models.ActivityRecord, bool, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tx, err := s.beginReadTx(ctx)
	if err != nil {
		return nil, false, err
	}
	defer tx.Rollback(ctx) //nolint:errcheck // best-effort rollback on early return.

	where, args, argIdx := buildActivityFilter(opts)

	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}

	query := fmt.Sprintf(
		"SELECT id, entity_type, entity_id, field, action, old_value, new_value, message, actor, created_at FROM activity_log %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d",
		where, argIdx, argIdx+1,
	)
	args = append(args, limit+1, opts.Offset)

	entries, err := scanActivityRows(ctx, tx, query, args)
	if err != nil {
		return nil, false, err
	}

	hasMore := len(entries) > limit
	if hasMore {
		entries = entries[:limit]
	}

	return entries, hasMore, nil
}

// scanActivityRows executes a query and scans activity entries from the result.
func scanActivityRows(ctx context.Context, tx pgx.Tx, query string, args []any) ([]models.ActivityRecord, error) {
	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying activity log: %w", err)
	}
	defer rows.Close()

	var entries []models.ActivityRecord
	for rows.Next() {
		var e models.ActivityRecord
		var message, actor *string

		if err := rows.Scan(
			&e.ID, &e.EntityType, &e.EntityID, &e.Field, &e.Action,
			&e.OldValue, &e.NewValue, &message, &actor, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning activity entry: %w", err)
		}
		if message != nil {
			e.Message = *message
		}
		if actor != nil {
			e.Actor = *actor
		}
		entries = append(entries, e)
	}

	return entries, rows.Err()
}

// CountActivity returns the total number of activity entries.
func (s *ActivityStore) CountActivity(ctx context.Context) (int, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var count int
	if err := s.Pool.QueryRow(ctx, "SELECT count(*) FROM activity_log").Scan(&count); err != nil {
		return 0, fmt.Errorf("counting activity entries: %w", err)
	}

	return count, nil
}

// purgeBatchSize limits the number of rows deleted per transaction to
// avoid holding long locks on activity_log.
const purgeBatchSize = 5000

// PurgeOldEntries deletes activity entries older than retentionDays in
// batches. Returns the number of deleted entries.
func (s *ActivityStore) PurgeOldEntries(ctx context.Context, retentionDays int) (int, error) {
	var totalDeleted int

	for {
		batchCtx, cancel := withTimeout(ctx)

		deleted, err := s.purgeOldEntriesBatch(batchCtx, retentionDays)
		cancel()

		if err != nil {
			return totalDeleted, err
		}

		totalDeleted += deleted
		if deleted < purgeBatchSize {
			break
		}
	}

	return totalDeleted, nil
}

// purgeOldEntriesBatch deletes a single batch of expired activity entries.
func (s *ActivityStore) purgeOldEntriesBatch(ctx context.Context, retentionDays int) (int, error) {
	tag, err := s.Pool.Exec(ctx, `
		DELETE FROM activity_log
		WHERE id IN (
			SELECT id FROM activity_log
			WHERE created_at < now() - make_interval(days => $1)
			LIMIT $2
		)`,
		retentionDays, purgeBatchSize,
	)
	if err != nil {
		return 0, fmt.Errorf("purging activity entries: %w", err)
	}

	return int(tag.RowsAffected()), nil
}
