package service

import (
	"testing"
)

func TestDiffFields(t *testing.T) {
	oldFields := map[string]any{
		"title":  "Check seals",
		"status": "Open",
		"count":  3,
	}
	newFields := map[string]any{
		"title":    "Check seals",
		"status":   "Closed",
		"assignee": "bob",
	}

	diffs, err := DiffFields(oldFields, newFields)
	if err != nil {
		t.Fatalf("DiffFields: %v", err)
	}

	if len(diffs) != 3 {
		t.Fatalf("got %d diffs, want 3 (changed, added, removed)", len(diffs))
	}

	// Sorted key order: assignee, count, status.
	if diffs[0].Field != "assignee" || diffs[0].OldValue != nil || string(diffs[0].NewValue) != `"bob"` {
		t.Errorf("added diff = %+v", diffs[0])
	}
	if diffs[1].Field != "count" || string(diffs[1].OldValue) != "3" || diffs[1].NewValue != nil {
		t.Errorf("removed diff = %+v", diffs[1])
	}
	if diffs[2].Field != "status" || string(diffs[2].OldValue) != `"Open"` || string(diffs[2].NewValue) != `"Closed"` {
		t.Errorf("changed diff = %+v", diffs[2])
	}
}

func TestDiffFields_NoChanges(t *testing.T) {
	fields := map[string]any{"title": "Check seals", "status": "Open"}

	diffs, err := DiffFields(fields, fields)
	if err != nil {
		t.Fatalf("DiffFields: %v", err)
	}
	if len(diffs) != 0 {
		t.Errorf("identical maps produced diffs: %+v", diffs)
	}
}
