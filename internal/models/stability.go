package models

import "time"

// StabilityProtocol is a study protocol: a start date plus an ordered
// schedule of interval labels ("1M", "3M", "6M") to expand into planned
// pull dates.
type StabilityProtocol struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Product   string    `json:"product,omitempty"`
	BatchID   string    `json:"batch_id,omitempty"`
	StartDate Date      `json:"start_date"`
	Schedule  []string  `json:"schedule"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateProtocolRequest is the payload for creating a stability protocol.
type CreateProtocolRequest struct {
	Name      string   `json:"name"`
	Product   string   `json:"product"`
	BatchID   string   `json:"batch_id"`
	StartDate Date     `json:"start_date"`
	Schedule  []string `json:"schedule"`
}

// Validate checks required fields.
func (r CreateProtocolRequest) Validate() error {
	if r.Name == "" {
		return ErrMissingName
	}
	if r.StartDate.IsZero() {
		return ErrMissingStartDate
	}
	return nil
}

// UpdateProtocolRequest is the payload for a partial protocol update.
// Changing the start date or schedule triggers a re-plan of the
// protocol's timepoints.
type UpdateProtocolRequest struct {
	Name      *string   `json:"name,omitempty"`
	Product   *string   `json:"product,omitempty"`
	BatchID   *string   `json:"batch_id,omitempty"`
	StartDate *Date     `json:"start_date,omitempty"`
	Schedule  *[]string `json:"schedule,omitempty"`
}

// Validate checks the fields that are present.
func (r UpdateProtocolRequest) Validate() error {
	if r.Name != nil && *r.Name == "" {
		return ErrMissingName
	}
	if r.StartDate != nil && r.StartDate.IsZero() {
		return ErrMissingStartDate
	}
	return nil
}

// Timepoint is one scheduled pull within a protocol, keyed by
// (protocol_id, label). PlannedDate is recomputed on re-plan; ActualDate is
// recorded once a pull happens and is never overwritten by planning.
type Timepoint struct {
	ProtocolID  string    `json:"protocol_id"`
	Label       string    `json:"label"`
	PlannedDate Date      `json:"planned_date"`
	ActualDate  *Date     `json:"actual_date,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
