package models

import "time"

// Complaint statuses.
const (
	ComplaintStatusNew           = "New"
	ComplaintStatusInvestigating = "Investigating"
	ComplaintStatusResolved      = "Resolved"
	ComplaintStatusDismissed     = "Dismissed"
)

// Complaint is a QMS customer complaint, optionally tied to a batch.
// Status transitions are activity-logged.
type Complaint struct {
	ID          string    `json:"id"`
	BatchID     string    `json:"batch_id,omitempty"`
	Severity    string    `json:"severity,omitempty"`
	Status      string    `json:"status"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateComplaintRequest is the payload for filing a complaint.
type CreateComplaintRequest struct {
	BatchID     string `json:"batch_id"`
	Severity    string `json:"severity"`
	Description string `json:"description"`
}

// Validate checks required fields.
func (r CreateComplaintRequest) Validate() error {
	if r.Description == "" {
		return ErrMissingField
	}
	return nil
}

// UpdateComplaintRequest is the payload for a partial complaint update.
type UpdateComplaintRequest struct {
	Severity    *string `json:"severity,omitempty"`
	Status      *string `json:"status,omitempty"`
	Description *string `json:"description,omitempty"`
}

// Validate checks the fields that are present.
func (r UpdateComplaintRequest) Validate() error {
	if r.Description != nil && *r.Description == "" {
		return ErrMissingField
	}
	return nil
}
