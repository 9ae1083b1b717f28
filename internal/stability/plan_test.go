package stability_test

import (
	"errors"
	"testing"
	"time"

	"github.com/traceopshq/traceops/internal/models"
	"github.com/traceopshq/traceops/internal/stability"
)

func TestPlan_ExpandsScheduleInOrder(t *testing.T) {
	t.Parallel()

	start := models.NewDate(2024, time.January, 15)

	planned, failed, err := stability.Plan(start, []string{"0", "1M", "3M", "6M"})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(failed) != 0 {
		t.Fatalf("unexpected label errors: %v", failed)
	}

	want := []models.Date{
		start,
		models.NewDate(2024, time.February, 15),
		models.NewDate(2024, time.April, 15),
		models.NewDate(2024, time.July, 15),
	}

	if len(planned) != len(want) {
		t.Fatalf("planned %d timepoints, want %d", len(planned), len(want))
	}

	for i, tp := range planned {
		if !tp.PlannedDate.Equal(want[i].Time) {
			t.Errorf("timepoint %q = %s, want %s", tp.Label, tp.PlannedDate, want[i])
		}
	}
}

func TestPlan_EndOfMonthClamping(t *testing.T) {
	t.Parallel()

	start := models.NewDate(2024, time.January, 31)

	planned, _, err := stability.Plan(start, []string{"1M"})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	want := models.NewDate(2024, time.February, 29)
	if !planned[0].PlannedDate.Equal(want.Time) {
		t.Errorf("1M from Jan 31 = %s, want %s", planned[0].PlannedDate, want)
	}
}

func TestPlan_BadLabelsRejectedIndividually(t *testing.T) {
	t.Parallel()

	start := models.NewDate(2024, time.January, 15)

	planned, failed, err := stability.Plan(start, []string{"1M", "bogus", "3M", "2W", "3M"})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}

	if len(planned) != 2 {
		t.Fatalf("planned %d timepoints, want 2 (good labels must survive bad ones)", len(planned))
	}
	if planned[0].Label != "1M" || planned[1].Label != "3M" {
		t.Errorf("planned labels = %q, %q; want 1M, 3M", planned[0].Label, planned[1].Label)
	}

	if len(failed) != 3 {
		t.Fatalf("got %d label errors, want 3 (bogus, 2W, duplicate 3M)", len(failed))
	}
	for _, fe := range failed {
		if fe.Err == nil {
			t.Errorf("label error %q has nil cause", fe.Label)
		}
	}
}

func TestPlan_ZeroStartDateRejected(t *testing.T) {
	t.Parallel()

	_, _, err := stability.Plan(models.Date{}, []string{"1M"})
	if !errors.Is(err, models.ErrMissingStartDate) {
		t.Errorf("err = %v, want ErrMissingStartDate", err)
	}
}

func TestParseInterval(t *testing.T) {
	t.Parallel()

	tests := []struct {
		label   string
		months  int
		wantErr bool
	}{
		{"0", 0, false},
		{"0M", 0, false},
		{"1M", 1, false},
		{"12M", 12, false},
		{"36M", 36, false},
		{"", 0, true},
		{"M", 0, true},
		{"-1M", 0, true},
		{"1m", 0, true},
		{"1M ", 0, true},
		{"1W", 0, true},
	}

	for _, tt := range tests {
		months, err := stability.ParseInterval(tt.label)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseInterval(%q): expected error", tt.label)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseInterval(%q): %v", tt.label, err)
			continue
		}
		if months != tt.months {
			t.Errorf("ParseInterval(%q) = %d, want %d", tt.label, months, tt.months)
		}
	}
}
