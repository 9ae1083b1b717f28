package models

import "time"

// Task statuses.
const (
	TaskStatusOpen       = "Open"
	TaskStatusInProgress = "In Progress"
	TaskStatusBlocked    = "Blocked"
	TaskStatusClosed     = "Closed"
)

// Task is a CRM work item. Every field change on a task is recorded in the
// activity log, one record per field.
type Task struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Status      string    `json:"status"`
	Priority    string    `json:"priority,omitempty"`
	Assignee    string    `json:"assignee,omitempty"`
	DueDate     *Date     `json:"due_date,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CreateTaskRequest is the payload for creating a task.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Status      string `json:"status"`
	Priority    string `json:"priority"`
	Assignee    string `json:"assignee"`
	DueDate     *Date  `json:"due_date"`
}

// maxTitleLen caps task titles and entity names.
const maxTitleLen = 500

// Validate checks required fields and length limits.
func (r CreateTaskRequest) Validate() error {
	if r.Title == "" {
		return ErrMissingTitle
	}
	if len(r.Title) > maxTitleLen {
		return ErrFieldTooLong("title", maxTitleLen)
	}
	return nil
}

// UpdateTaskRequest is the payload for a partial task update. Nil fields are
// left unchanged; each non-nil field that differs from the stored value
// yields one activity record.
type UpdateTaskRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	Status      *string `json:"status,omitempty"`
	Priority    *string `json:"priority,omitempty"`
	Assignee    *string `json:"assignee,omitempty"`
	DueDate     *Date   `json:"due_date,omitempty"`
}

// Validate checks length limits on provided fields.
func (r UpdateTaskRequest) Validate() error {
	if r.Title != nil {
		if *r.Title == "" {
			return ErrMissingTitle
		}
		if len(*r.Title) > maxTitleLen {
			return ErrFieldTooLong("title", maxTitleLen)
		}
	}
	return nil
}
