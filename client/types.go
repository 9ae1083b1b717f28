package client

import (
	"encoding/json"
	"time"
)

// Dates cross the wire as "YYYY-MM-DD" strings.

// Task is a CRM work item.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority,omitempty"`
	Assignee    string    `json:"assignee,omitempty"`
	DueDate     string    `json:"due_date,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateTaskRequest is the payload for creating a task.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
	Status      string `json:"status,omitempty"`
	Priority    string `json:"priority,omitempty"`
	Assignee    string `json:"assignee,omitempty"`
	DueDate     string `json:"due_date,omitempty"`
}

// UpdateTaskRequest is the payload for a partial task update.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Assignee    *string `json:"assignee,omitempty"`
	DueDate     *string `json:"due_date,omitempty"`
}

// Contact is a CRM contact record.
type Contact struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Phone     string    `json:"phone,omitempty"`
	Company   string    `json:"company,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateContactRequest is the payload for creating a contact.
type CreateContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email,omitempty"`
	Phone   string `json:"phone,omitempty"`
	Company string `json:"company,omitempty"`
}

// UpdateContactRequest is the payload for a partial contact update.
type UpdateContactRequest struct {
	Name    *string `json:"name,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Company *string `json:"company,omitempty"`
}

// Batch is a production batch record; its ID is the human batch code.
type Batch struct {
	ID              string    `json:"id"`
	Product         string    `json:"product"`
	BatchDate       string    `json:"batch_date"`
	ShelfLifeMonths int       `json:"shelf_life_months"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// CreateBatchRequest is the payload for creating a batch.
type CreateBatchRequest struct {
	ID              string `json:"id"`
	Product         string `json:"product,omitempty"`
	BatchDate       string `json:"batch_date"`
	ShelfLifeMonths int    `json:"shelf_life_months,omitempty"`
	Status          string `json:"status,omitempty"`
}

// UpdateBatchRequest is the payload for a partial batch update.
type UpdateBatchRequest struct {
	Product         *string `json:"product,omitempty"`
	BatchDate       *string `json:"batch_date,omitempty"`
	ShelfLifeMonths *int    `json:"shelf_life_months,omitempty"`
	Status          *string `json:"status,omitempty"`
}

// Attachment is a stored document on a batch.
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

// LabelSpec carries the inputs and derived outputs for a printed label.
type LabelSpec struct {
	ID                string    `json:"id"`
	ProductName       string    `json:"product_name"`
	BatchID           string    `json:"batch_id"`
	BatchDate         string    `json:"batch_date"`
	ShelfLifeMonths   int       `json:"shelf_life_months"`
	OverrideLotExpiry bool      `json:"override_lot_expiry"`
	LotNumber         string    `json:"lot_number"`
	ExpiryDate        string    `json:"expiry_date"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// CreateLabelSpecRequest is the payload for creating a label spec.
type CreateLabelSpecRequest struct {
	ProductName     string `json:"product_name"`
	BatchID         string `json:"batch_id"`
	BatchDate       string `json:"batch_date"`
	ShelfLifeMonths int    `json:"shelf_life_months"`
}

// UpdateLabelSpecRequest is the payload for a partial label spec update.
type UpdateLabelSpecRequest struct {
	ProductName       *string `json:"product_name,omitempty"`
	BatchID           *string `json:"batch_id,omitempty"`
	BatchDate         *string `json:"batch_date,omitempty"`
	ShelfLifeMonths   *int    `json:"shelf_life_months,omitempty"`
	OverrideLotExpiry *bool   `json:"override_lot_expiry,omitempty"`
	LotNumber         *string `json:"lot_number,omitempty"`
	ExpiryDate        *string `json:"expiry_date,omitempty"`
}

// StabilityProtocol is a study protocol with an interval schedule.
type StabilityProtocol struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Product   string    `json:"product,omitempty"`
	BatchID   string    `json:"batch_id,omitempty"`
	StartDate string    `json:"start_date"`
	Schedule  []string  `json:"schedule"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateProtocolRequest is the payload for creating a stability protocol.
type CreateProtocolRequest struct {
	Name      string   `json:"name"`
	Product   string   `json:"product,omitempty"`
	BatchID   string   `json:"batch_id,omitempty"`
	StartDate string   `json:"start_date"`
	Schedule  []string `json:"schedule"`
}

// UpdateProtocolRequest is the payload for a partial protocol update.
type UpdateProtocolRequest struct {
	Name      *string   `json:"name,omitempty"`
	Product   *string   `json:"product,omitempty"`
	BatchID   *string   `json:"batch_id,omitempty"`
	StartDate *string   `json:"start_date,omitempty"`
	Schedule  *[]string `json:"schedule,omitempty"`
}

// Timepoint is one scheduled pull within a protocol.
type Timepoint struct {
	ProtocolID  string    `json:"protocol_id"`
	Label       string    `json:"label"`
	PlannedDate string    `json:"planned_date"`
	ActualDate  string    `json:"actual_date,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// PlannedTimepoint is one successfully planned schedule entry.
type PlannedTimepoint struct {
	Label       string `json:"label"`
	Months      int    `json:"months"`
	PlannedDate string `json:"planned_date"`
}

// PlanLabelError reports a schedule label the planner could not parse.
type PlanLabelError struct {
	Label string `json:"label"`
}

// PlanResult is the outcome of expanding a protocol's schedule.
type PlanResult struct {
	Planned []PlannedTimepoint `json:"planned"`
	Errors  []PlanLabelError   `json:"errors,omitempty"`
}

// Complaint is a QMS complaint, optionally tied to a batch.
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
	BatchID     string `json:"batch_id,omitempty"`
	Severity    string `json:"severity,omitempty"`
	Description string `json:"description"`
}

// UpdateComplaintRequest is the payload for a partial complaint update.
type UpdateComplaintRequest struct {
	Severity    *string `json:"severity,omitempty"`
	Status      *string `json:"status,omitempty"`
	Description *string `json:"description,omitempty"`
}

// ActivityRecord is one append-only audit entry.
type ActivityRecord struct {
	ID         int64           `json:"id"`
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Field      string          `json:"field"`
	Action     string          `json:"action"`
	OldValue   json.RawMessage `json:"old_value,omitempty"`
	NewValue   json.RawMessage `json:"new_value,omitempty"`
	Message    string          `json:"message,omitempty"`
	Actor      string          `json:"actor,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// RecordActivityRequest is the payload for writing an activity entry.
type RecordActivityRequest struct {
	EntityType string          `json:"entity_type"`
	EntityID   string          `json:"entity_id"`
	Field      string          `json:"field"`
	Action     string          `json:"action"`
	OldValue   json.RawMessage `json:"old_value,omitempty"`
	NewValue   json.RawMessage `json:"new_value,omitempty"`
	Message    string          `json:"message,omitempty"`
	Actor      string          `json:"actor,omitempty"`
}

// HealthResponse is the payload returned by the health and readiness endpoints.
type HealthResponse struct {
	Status        string            `json:"status"`
	Version       string            `json:"version,omitempty"`
	Database      string            `json:"database,omitempty"`
	WSClients     int               `json:"ws_clients,omitempty"`
	UptimeSeconds float64           `json:"uptime_seconds,omitempty"`
	Checks        map[string]string `json:"checks,omitempty"`
}

// StatsResponse holds aggregate record counts.
type StatsResponse struct {
	Tasks              int `json:"tasks"`
	Contacts           int `json:"contacts"`
	Batches            int `json:"batches"`
	LabelSpecs         int `json:"label_specs"`
	StabilityProtocols int `json:"stability_protocols"`
	OpenComplaints     int `json:"open_complaints"`
	ActivityEntries    int `json:"activity_entries"`
}
