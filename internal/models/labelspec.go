package models

import "time"

// LabelSpec is the content record behind a printed product label. Lot number
// and expiry date are derived from the batch inputs unless the override flag
// is set, in which case the stored values are authoritative.
type LabelSpec struct {
	ID                string    `json:"id"`
	ProductName       string    `json:"product_name"`
	BatchID           string    `json:"batch_id"`
	BatchDate         Date      `json:"batch_date"`
	ShelfLifeMonths   int       `json:"shelf_life_months"`
	OverrideLotExpiry bool      `json:"override_lot_expiry"`
	LotNumber         string    `json:"lot_number"`
	ExpiryDate        Date      `json:"expiry_date"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CreateLabelSpecRequest is the payload for creating a label spec. Lot and
// expiry are always derived on create; overrides are applied via update.
type CreateLabelSpecRequest struct {
	ProductName     string `json:"product_name"`
	BatchID         string `json:"batch_id"`
	BatchDate       Date   `json:"batch_date"`
	ShelfLifeMonths int    `json:"shelf_life_months"`
}

// Validate checks the derivation inputs.
func (r CreateLabelSpecRequest) Validate() error {
	if r.ProductName == "" {
		return ErrMissingName
	}
	if r.BatchID == "" {
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

// UpdateLabelSpecRequest is the payload for a partial label spec update.
// LotNumber and ExpiryDate are only honored while OverrideLotExpiry is (or
// becomes) true; clearing the flag forces recomputation from the current
// inputs and discards stale overrides.
type UpdateLabelSpecRequest struct {
	ProductName       *string `json:"product_name,omitempty"`
	BatchID           *string `json:"batch_id,omitempty"`
	BatchDate         *Date   `json:"batch_date,omitempty"`
	ShelfLifeMonths   *int    `json:"shelf_life_months,omitempty"`
	OverrideLotExpiry *bool   `json:"override_lot_expiry,omitempty"`
	LotNumber         *string `json:"lot_number,omitempty"`
	ExpiryDate        *Date   `json:"expiry_date,omitempty"`
}

// Validate rejects invalid derivation inputs before any write.
func (r UpdateLabelSpecRequest) Validate() error {
	if r.BatchID != nil && *r.BatchID == "" {
		return ErrMissingBatchID
	}
	if r.BatchDate != nil && r.BatchDate.IsZero() {
		return ErrMissingBatchDate
	}
	if r.ShelfLifeMonths != nil && *r.ShelfLifeMonths < 0 {
		return ErrNegativeShelfLife
	}
	return nil
}
