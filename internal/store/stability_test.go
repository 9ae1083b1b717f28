package store_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/traceopshq/traceops/internal/models"
	"github.com/traceopshq/traceops/internal/stability"
	"github.com/traceopshq/traceops/internal/store"
)

func createTestProtocol(t *testing.T, ss *store.StabilityStore, base store.Base) *models.StabilityProtocol {
	t.Helper()

	p, err := ss.CreateProtocol(context.Background(), models.CreateProtocolRequest{
		Name:      "test-protocol-" + uuid.NewString(),
		StartDate: models.NewDate(2024, time.January, 15),
		Schedule:  []string{"1M", "3M", "6M"},
	})
	if err != nil {
		t.Fatalf("CreateProtocol: %v", err)
	}
	cleanupEntity(t, base, "stability_protocols", p.ID)

	return p
}

func TestUpsertTimepoints(t *testing.T) {
	base := setupTestBase(t)
	ss := store.NewStabilityStore(base)
	ctx := context.Background()

	p := createTestProtocol(t, ss, base)

	planned, labelErrs, err := stability.Plan(p.StartDate, p.Schedule)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(labelErrs) != 0 {
		t.Fatalf("unexpected label errors: %v", labelErrs)
	}

	if err := ss.UpsertTimepoints(ctx, p.ID, planned); err != nil {
		t.Fatalf("UpsertTimepoints: %v", err)
	}

	tps, err := ss.ListTimepoints(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListTimepoints: %v", err)
	}
	if len(tps) != 3 {
		t.Fatalf("got %d timepoints, want 3", len(tps))
	}
	if tps[0].Label != "1M" || tps[0].PlannedDate.String() != "2024-02-15" {
		t.Errorf("first timepoint = %s/%s, want 1M/2024-02-15", tps[0].Label, tps[0].PlannedDate)
	}
}

func TestUpsertTimepointsPreservesActualDate(t *testing.T) {
	base := setupTestBase(t)
	ss := store.NewStabilityStore(base)
	ctx := context.Background()

	p := createTestProtocol(t, ss, base)

	planned, _, err := stability.Plan(p.StartDate, p.Schedule)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if err := ss.UpsertTimepoints(ctx, p.ID, planned); err != nil {
		t.Fatalf("UpsertTimepoints: %v", err)
	}

	actual := models.NewDate(2024, time.February, 16)
	if _, err := ss.RecordActualDate(ctx, p.ID, "1M", actual); err != nil {
		t.Fatalf("RecordActualDate: %v", err)
	}

	// Re-plan from a moved start date; the recorded actual must survive.
	replanned, _, err := stability.Plan(models.NewDate(2024, time.February, 1), p.Schedule)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if err := ss.UpsertTimepoints(ctx, p.ID, replanned); err != nil {
		t.Fatalf("UpsertTimepoints (replan): %v", err)
	}

	tps, err := ss.ListTimepoints(ctx, p.ID)
	if err != nil {
		t.Fatalf("ListTimepoints: %v", err)
	}

	var oneMonth *models.Timepoint
	for i := range tps {
		if tps[i].Label == "1M" {
			oneMonth = &tps[i]
		}
	}
	if oneMonth == nil {
		t.Fatal("1M timepoint missing after replan")
	}
	if oneMonth.PlannedDate.String() != "2024-03-01" {
		t.Errorf("planned date = %s, want 2024-03-01", oneMonth.PlannedDate)
	}
	if oneMonth.ActualDate == nil || oneMonth.ActualDate.String() != "2024-02-16" {
		t.Errorf("actual date = %v, want 2024-02-16", oneMonth.ActualDate)
	}
}

func TestUpsertTimepointsUnknownProtocol(t *testing.T) {
	base := setupTestBase(t)
	ss := store.NewStabilityStore(base)

	planned := []stability.PlannedTimepoint{
		{Label: "1M", Months: 1, PlannedDate: models.NewDate(2024, time.February, 15)},
	}

	err := ss.UpsertTimepoints(context.Background(), uuid.NewString(), planned)
	if !errors.Is(err, models.ErrProtocolNotFound) {
		t.Errorf("err = %v, want ErrProtocolNotFound", err)
	}
}
