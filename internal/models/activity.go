package models

import (
	"encoding/json"
	"time"
)

// Activity actions. One record is written per observed field change;
// records are append-only and never merged.
const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionAdd    = "add"
	ActionRemove = "remove"
	ActionReply  = "reply"
	ActionSet    = "set"
	ActionUpload = "upload"
)

// ActivityRecord is a single field-level audit log entry: what changed on
// which entity, by whom, and when. OldValue/NewValue hold JSON snapshots of
// the field before and after the change; either may be absent.
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

// ActivityQueryOpts holds filters for querying the activity log.
// Field and Actor are exact-match filters; empty means unfiltered.
type ActivityQueryOpts struct {
	EntityType string
	EntityID   string
	Field      string
	Action     string
	Actor      string
	Since      *time.Time
	Limit      int
	Offset     int
}

// RecordActivityRequest is the payload for recording a new activity entry.
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

// Validate checks required fields. An absent entity id is a programming
// error on the caller's side and must fail loudly, not be dropped.
func (r RecordActivityRequest) Validate() error {
	if r.EntityID == "" {
		return ErrMissingEntityID
	}
	if r.EntityType == "" {
		return ErrMissingEntityType
	}
	if r.Field == "" {
		return ErrMissingField
	}
	if r.Action == "" {
		return ErrMissingAction
	}
	return nil
}
