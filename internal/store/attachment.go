package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/traceopshq/traceops/internal/models"
)

// AttachmentStore provides blob storage for batch attachments (CoA
// documents, photos). Bytes live in a bytea column; list and get
// responses carry a download URL instead of the payload.
type AttachmentStore struct {
	Base

	// BaseURL prefixes the public download route in returned URLs.
	BaseURL string
}

// NewAttachmentStore creates an AttachmentStore.
func NewAttachmentStore(base Base, baseURL string) *AttachmentStore {
	return &AttachmentStore{Base: base, BaseURL: baseURL}
}

func (s *AttachmentStore) downloadURL(batchID, id string) string {
	return fmt.Sprintf("%s/v1/batches/%s/attachments/%s/download", s.BaseURL, batchID, id)
}

// StoreAttachment saves the attachment bytes under a batch and returns
// the stored metadata with its download URL. The batch must exist; the
// foreign key makes a missing batch surface as ErrBatchNotFound.
func (s *AttachmentStore) StoreAttachment(
	ctx context.Context, batchID, kind, name, contentType string, data []byte,
) (*models.Attachment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	att := models.Attachment{
		ID:          uuid.NewString(),
		BatchID:     batchID,
		Kind:        kind,
		Name:        name,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
	}

	err := s.Pool.QueryRow(ctx, `
		INSERT INTO batch_attachments (id, batch_id, kind, name, content_type, size_bytes, data)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING created_at`,
		att.ID, att.BatchID, att.Kind, att.Name, att.ContentType, att.SizeBytes, data,
	).Scan(&att.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("storing attachment: %w", foreignKeyToNotFound(err, models.ErrBatchNotFound))
	}
	att.URL = s.downloadURL(batchID, att.ID)

	s.notify("batch", batchID, "update")

	return &att, nil
}

// ListAttachments returns attachment metadata for a batch, oldest first.
func (s *AttachmentStore) ListAttachments(ctx context.Context, batchID string) ([]models.Attachment, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	rows, err := s.Pool.Query(ctx, `
		SELECT id, batch_id, kind, name, content_type, size_bytes, created_at
		FROM batch_attachments WHERE batch_id = $1 ORDER BY created_at ASC`, batchID,
	)
	if err != nil {
		return nil, fmt.Errorf("querying attachments: %w", err)
	}
	defer rows.Close()

	var atts []models.Attachment
	for rows.Next() {
		var a models.Attachment
		if err := rows.Scan(&a.ID, &a.BatchID, &a.Kind, &a.Name, &a.ContentType, &a.SizeBytes, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning attachment: %w", err)
		}
		a.URL = s.downloadURL(a.BatchID, a.ID)
		atts = append(atts, a)
	}

	return atts, rows.Err()
}

// GetAttachmentData returns the metadata and raw bytes for download.
func (s *AttachmentStore) GetAttachmentData(ctx context.Context, batchID, id string) (*models.Attachment, []byte, error) {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	var a models.Attachment
	var data []byte

	err := s.Pool.QueryRow(ctx, `
		SELECT id, batch_id, kind, name, content_type, size_bytes, data, created_at
		FROM batch_attachments WHERE batch_id = $1 AND id = $2`, batchID, id,
	).Scan(&a.ID, &a.BatchID, &a.Kind, &a.Name, &a.ContentType, &a.SizeBytes, &data, &a.CreatedAt)
	if err != nil {
		return nil, nil, translateError(err, models.ErrAttachmentNotFound)
	}
	a.URL = s.downloadURL(a.BatchID, a.ID)

	return &a, data, nil
}

// DeleteAttachment removes a stored attachment.
func (s *AttachmentStore) DeleteAttachment(ctx context.Context, batchID, id string) error {
	ctx, cancel := withTimeout(ctx)
	defer cancel()

	tag, err := s.Pool.Exec(ctx,
		"DELETE FROM batch_attachments WHERE batch_id = $1 AND id = $2", batchID, id)
	if err != nil {
		return fmt.Errorf("deleting attachment: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrAttachmentNotFound
	}

	s.notify("batch", batchID, "update")

	return nil
}
