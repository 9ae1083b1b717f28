package store

import (
	"encoding/json"
	"strings"
	"testing"

	"github.com/traceopshq/traceops/internal/models"
)

// The notify bridge drops payloads without entity_type/entity_id, so the
// payload built for an inserted activity entry must always carry them,
// with the record riding along whenever it fits.
func TestActivityChangePayload_CarriesRecord(t *testing.T) {
	t.Parallel()

	rec := &models.ActivityRecord{
		ID:         42,
		EntityType: "task",
		EntityID:   "t1",
		Field:      "status",
		Action:     models.ActionUpdate,
		OldValue:   json.RawMessage(`"Open"`),
		NewValue:   json.RawMessage(`"Closed"`),
		Actor:      "alice",
	}

	payload := activityChangePayload(rec)

	var got activityNotification
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}

	if got.EntityType != "task" || got.EntityID != "t1" {
		t.Errorf("entity identity = %q/%q, want task/t1", got.EntityType, got.EntityID)
	}
	if got.Op != "activity" {
		t.Errorf("op = %q, want activity", got.Op)
	}
	if got.Record == nil {
		t.Fatal("record missing from payload")
	}
	if got.Record.ID != 42 || got.Record.Field != "status" {
		t.Errorf("record = %+v, want id 42 field status", got.Record)
	}
	if string(got.Record.NewValue) != `"Closed"` {
		t.Errorf("new value = %s, want \"Closed\"", got.Record.NewValue)
	}
}

func TestActivityChangePayload_StripsOversizedValues(t *testing.T) {
	t.Parallel()

	big, _ := json.Marshal(strings.Repeat("x", 2*maxActivityPayload))
	rec := &models.ActivityRecord{
		ID:         7,
		EntityType: "batch",
		EntityID:   "B42",
		Field:      "notes",
		Action:     models.ActionUpdate,
		OldValue:   json.RawMessage(big),
		NewValue:   json.RawMessage(big),
	}

	payload := activityChangePayload(rec)
	if len(payload) > maxActivityPayload {
		t.Fatalf("payload is %d bytes, cap is %d", len(payload), maxActivityPayload)
	}

	var got activityNotification
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if got.Record == nil {
		t.Fatal("record should survive with values stripped")
	}
	if got.Record.OldValue != nil || got.Record.NewValue != nil {
		t.Error("oversized old/new values not stripped")
	}
	if got.Record.ID != 7 || got.Record.Field != "notes" {
		t.Errorf("record core fields lost: %+v", got.Record)
	}
}

func TestActivityChangePayload_HintFallback(t *testing.T) {
	t.Parallel()

	rec := &models.ActivityRecord{
		ID:         9,
		EntityType: "complaint",
		EntityID:   "c1",
		Field:      "description",
		Action:     models.ActionUpdate,
		Message:    strings.Repeat("m", 2*maxActivityPayload),
	}

	payload := activityChangePayload(rec)
	if len(payload) > maxActivityPayload {
		t.Fatalf("payload is %d bytes, cap is %d", len(payload), maxActivityPayload)
	}

	var got activityNotification
	if err := json.Unmarshal(payload, &got); err != nil {
		t.Fatalf("payload is not valid JSON: %v", err)
	}
	if got.Record != nil {
		t.Error("pathological record should fall back to a hint-only payload")
	}
	if got.EntityType != "complaint" || got.EntityID != "c1" {
		t.Errorf("hint payload lost entity identity: %q/%q", got.EntityType, got.EntityID)
	}
}
