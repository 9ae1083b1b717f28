package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/traceopshq/traceops/internal/models"
	"github.com/traceopshq/traceops/internal/stability"
)

func TestStabilityPlan_UpsertsValidLabels(t *testing.T) {
	protocol := &models.StabilityProtocol{
		ID:        "p1",
		Name:      "retail tube 24m",
		StartDate: models.NewDate(2024, time.January, 15),
		Schedule:  []string{"1M", "bogus", "3M"},
	}

	var upserted []stability.PlannedTimepoint
	ms := &mockStabilityStore{
		getProtocol: func(_ context.Context, _ string) (*models.StabilityProtocol, error) {
			return protocol, nil
		},
		upsertTimepoints: func(_ context.Context, _ string, planned []stability.PlannedTimepoint) error {
			upserted = planned
			return nil
		},
	}
	enq := &mockEnqueuer{}
	svc := NewStabilityService(ms, enq, testLog())

	result, err := svc.Plan(context.Background(), "p1", "alice")
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if len(result.Planned) != 2 {
		t.Fatalf("planned %d timepoints, want 2", len(result.Planned))
	}
	if len(result.Errors) != 1 || result.Errors[0].Label != "bogus" {
		t.Errorf("label errors = %v, want one for bogus", result.Errors)
	}
	if len(upserted) != 2 {
		t.Errorf("upserted %d timepoints, want 2", len(upserted))
	}
	if upserted[0].PlannedDate.String() != "2024-02-15" {
		t.Errorf("1M planned date = %s, want 2024-02-15", upserted[0].PlannedDate)
	}
}

func TestStabilityPlan_UnknownProtocol(t *testing.T) {
	ms := &mockStabilityStore{
		getProtocol: func(_ context.Context, _ string) (*models.StabilityProtocol, error) {
			return nil, models.ErrProtocolNotFound
		},
	}
	svc := NewStabilityService(ms, &mockEnqueuer{}, testLog())

	_, err := svc.Plan(context.Background(), "missing", "alice")
	if !errors.Is(err, models.ErrProtocolNotFound) {
		t.Errorf("err = %v, want ErrProtocolNotFound", err)
	}
}

func TestStabilityUpdate_ReplansOnStartDateChange(t *testing.T) {
	protocol := &models.StabilityProtocol{
		ID:        "p1",
		Name:      "retail tube 24m",
		StartDate: models.NewDate(2024, time.January, 15),
		Schedule:  []string{"1M"},
	}

	ms := &mockStabilityStore{
		getProtocol: func(_ context.Context, _ string) (*models.StabilityProtocol, error) {
			cp := *protocol
			return &cp, nil
		},
		updateProtocol: func(_ context.Context, p *models.StabilityProtocol) (*models.StabilityProtocol, error) {
			*protocol = *p
			return p, nil
		},
		upsertTimepoints: func(_ context.Context, _ string, _ []stability.PlannedTimepoint) error {
			return nil
		},
	}
	enq := &mockEnqueuer{}
	svc := NewStabilityService(ms, enq, testLog())

	newStart := models.NewDate(2024, time.March, 1)
	_, result, err := svc.UpdateProtocol(context.Background(), "p1", models.UpdateProtocolRequest{
		StartDate: &newStart,
	}, "alice")
	if err != nil {
		t.Fatalf("UpdateProtocol: %v", err)
	}

	if result == nil {
		t.Fatal("start date change did not trigger a re-plan")
	}
	if len(result.Planned) != 1 || result.Planned[0].PlannedDate.String() != "2024-04-01" {
		t.Errorf("re-planned = %+v, want 1M at 2024-04-01", result.Planned)
	}

	calls := ms.getCalls()
	var sawUpsert bool
	for _, c := range calls {
		if c == "UpsertTimepoints" {
			sawUpsert = true
		}
	}
	if !sawUpsert {
		t.Errorf("calls = %v, missing UpsertTimepoints", calls)
	}
}

func TestStabilityUpdate_NameOnlyNoReplan(t *testing.T) {
	protocol := &models.StabilityProtocol{
		ID:        "p1",
		Name:      "retail tube 24m",
		StartDate: models.NewDate(2024, time.January, 15),
		Schedule:  []string{"1M"},
	}

	ms := &mockStabilityStore{
		getProtocol: func(_ context.Context, _ string) (*models.StabilityProtocol, error) {
			cp := *protocol
			return &cp, nil
		},
		updateProtocol: func(_ context.Context, p *models.StabilityProtocol) (*models.StabilityProtocol, error) {
			return p, nil
		},
		upsertTimepoints: func(_ context.Context, _ string, _ []stability.PlannedTimepoint) error {
			t.Fatal("UpsertTimepoints called for a name-only update")
			return nil
		},
	}
	svc := NewStabilityService(ms, &mockEnqueuer{}, testLog())

	_, result, err := svc.UpdateProtocol(context.Background(), "p1", models.UpdateProtocolRequest{
		Name: strPtr("retail tube 36m"),
	}, "alice")
	if err != nil {
		t.Fatalf("UpdateProtocol: %v", err)
	}
	if result != nil {
		t.Error("name-only update triggered a re-plan")
	}
}

func TestStabilityRecordActual(t *testing.T) {
	ms := &mockStabilityStore{
		recordActualDate: func(_ context.Context, protocolID, label string, actual models.Date) (*models.Timepoint, error) {
			return &models.Timepoint{
				ProtocolID:  protocolID,
				Label:       label,
				PlannedDate: models.NewDate(2024, time.February, 15),
				ActualDate:  &actual,
			}, nil
		},
	}
	enq := &mockEnqueuer{}
	svc := NewStabilityService(ms, enq, testLog())

	tp, err := svc.RecordActual(context.Background(), "p1", "1M", models.NewDate(2024, time.February, 16), "alice")
	if err != nil {
		t.Fatalf("RecordActual: %v", err)
	}
	if tp.ActualDate == nil || tp.ActualDate.String() != "2024-02-16" {
		t.Errorf("actual date = %v, want 2024-02-16", tp.ActualDate)
	}

	jobs := enq.getJobs()
	if len(jobs) != 1 || jobs[0].Action != models.ActionSet {
		t.Errorf("activity jobs = %+v, want one set entry", jobs)
	}
}
