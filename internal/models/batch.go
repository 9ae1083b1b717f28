package models

import "time"

// Batch statuses.
const (
	BatchStatusInProduction = "In Production"
	BatchStatusReleased     = "Released"
	BatchStatusOnHold       = "On Hold"
	BatchStatusRejected     = "Rejected"
)

// Batch is a production batch. The ID is the human-assigned batch code and
// feeds lot number derivation on label specs.
type Batch struct {
	ID              string    `json:"id"`
	Product         string    `json:"product"`
	BatchDate       Date      `json:"batch_date"`
	ShelfLifeMonths int       `json:"shelf_life_months"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateBatchRequest is the payload for creating a batch.
type CreateBatchRequest struct {
	ID              string `json:"id"`
	Product         string `json:"product"`
	BatchDate       Date   `json:"batch_date"`
	ShelfLifeMonths int    `json:"shelf_life_months"`
	Status          string `json:"status"`
}

// Validate checks required fields and that shelf life is non-negative.
func (r CreateBatchRequest) Validate() error {
	if r.ID == "" {
		return ErrMissingBatchID
	}
	if r.BatchDate.IsZero() {
		return ErrMissingBatchDate
	}
	if r.ShelfLifeMonths < 0 {
		return ErrNegativeShelfLife
	}
	return nil
}

// UpdateBatchRequest is the payload for a partial batch update.
type UpdateBatchRequest struct {
	Product         *string `json:"product,omitempty"`
	BatchDate       *Date   `json:"batch_date,omitempty"`
	ShelfLifeMonths *int    `json:"shelf_life_months,omitempty"`
	Status          *string `json:"status,omitempty"`
}

// Validate checks that shelf life, when provided, is non-negative.
func (r UpdateBatchRequest) Validate() error {
	if r.ShelfLifeMonths != nil && *r.ShelfLifeMonths < 0 {
		return ErrNegativeShelfLife
	}
	return nil
}

// Attachment is a stored file (CoA document, photo) owned by a batch.
// Data is not included in list responses; the URL points at the public
// download route.
type Attachment struct {
	ID          string    `json:"id"`
	BatchID     string    `json:"batch_id"`
	Kind        string    `json:"kind,omitempty"`
	Name        string    `json:"name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	URL         string    `json:"url"`
	CreatedAt   time.Time `json:"created_at"`
}
