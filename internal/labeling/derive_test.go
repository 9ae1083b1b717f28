package labeling_test

import (
	"errors"
	"testing"
	"time"

	"github.com/traceopshq/traceops/internal/labeling"
	"github.com/traceopshq/traceops/internal/models"
)

func TestDerive_ExpiryCalendarArithmetic(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		batchDate models.Date
		months    int
		want      models.Date
	}{
		{"plain month add", models.NewDate(2024, time.January, 15), 3, models.NewDate(2024, time.April, 15)},
		{"leap year clamp", models.NewDate(2024, time.January, 31), 1, models.NewDate(2024, time.February, 29)},
		{"non-leap clamp", models.NewDate(2023, time.January, 31), 1, models.NewDate(2023, time.February, 28)},
		{"year rollover", models.NewDate(2024, time.November, 30), 3, models.NewDate(2025, time.February, 28)},
		{"zero shelf life", models.NewDate(2024, time.June, 10), 0, models.NewDate(2024, time.June, 10)},
		{"31st to 30-day month", models.NewDate(2024, time.March, 31), 1, models.NewDate(2024, time.April, 30)},
		{"24 months", models.NewDate(2024, time.February, 29), 24, models.NewDate(2026, time.February, 28)},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := labeling.Derive("B-100", tt.batchDate, tt.months)
			if err != nil {
				t.Fatalf("Derive: %v", err)
			}
			if !got.ExpiryDate.Equal(tt.want.Time) {
				t.Errorf("expiry = %s, want %s", got.ExpiryDate, tt.want)
			}
		})
	}
}

func TestDerive_Deterministic(t *testing.T) {
	t.Parallel()

	date := models.NewDate(2024, time.May, 7)

	first, err := labeling.Derive("b 42", date, 12)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	second, err := labeling.Derive("b 42", date, 12)
	if err != nil {
		t.Fatalf("Derive: %v", err)
	}

	if first != second {
		t.Errorf("Derive not deterministic: %+v vs %+v", first, second)
	}
}

func TestDerive_LotEncoding(t *testing.T) {
	t.Parallel()

	tests := []struct {
		batchID string
		want    string
	}{
		{"b42", "B42-240507"},
		{"b 42", "B-42-240507"},
		{"FC-0091", "FC-0091-240507"},
		{"lot#7 (retest)", "LOT-7-RETEST-240507"},
	}

	for _, tt := range tests {
		got, err := labeling.Derive(tt.batchID, models.NewDate(2024, time.May, 7), 12)
		if err != nil {
			t.Fatalf("Derive(%q): %v", tt.batchID, err)
		}
		if got.LotNumber != tt.want {
			t.Errorf("lot for %q = %q, want %q", tt.batchID, got.LotNumber, tt.want)
		}
	}
}

func TestDerive_DistinctInputsDistinctLots(t *testing.T) {
	t.Parallel()

	date := models.NewDate(2024, time.May, 7)

	a := labeling.LotNumber("B1", date)
	b := labeling.LotNumber("B2", date)
	c := labeling.LotNumber("B1", models.NewDate(2024, time.May, 8))

	if a == b || a == c {
		t.Errorf("lot numbers collide: %q %q %q", a, b, c)
	}

	// Sanitization must not merge ids that differ in printable content.
	spaced := labeling.LotNumber("A B", date)
	joined := labeling.LotNumber("AB", date)
	if spaced == joined {
		t.Errorf("lot numbers collide after sanitization: %q %q", spaced, joined)
	}
}

func TestDerive_RejectsInvalidInputs(t *testing.T) {
	t.Parallel()

	date := models.NewDate(2024, time.May, 7)

	if _, err := labeling.Derive("", date, 1); !errors.Is(err, models.ErrMissingBatchID) {
		t.Errorf("empty batch id: err = %v, want ErrMissingBatchID", err)
	}

	if _, err := labeling.Derive("B1", models.Date{}, 1); !errors.Is(err, models.ErrMissingBatchDate) {
		t.Errorf("zero date: err = %v, want ErrMissingBatchDate", err)
	}

	if _, err := labeling.Derive("B1", date, -1); !errors.Is(err, models.ErrNegativeShelfLife) {
		t.Errorf("negative shelf life: err = %v, want ErrNegativeShelfLife", err)
	}
}
