// Package stability expands stability study interval schedules into
// concrete planned pull dates using calendar-month arithmetic.
package stability

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/traceopshq/traceops/internal/models"
)

// labelPattern matches interval labels of the form "<integer>M"
// (months from study start). A bare "0" is also accepted and marks
// release testing at the study start date.
var labelPattern = regexp.MustCompile(`^(\d+)M$`)

// PlannedTimepoint pairs an interval label with its computed pull date.
type PlannedTimepoint struct {
	Label       string      `json:"label"`
	Months      int         `json:"months"`
	PlannedDate models.Date `json:"planned_date"`
}

// LabelError reports a single schedule label that could not be planned.
type LabelError struct {
	Label string `json:"label"`
	Err   error  `json:"-"`
}

// Error implements the error interface.
func (e LabelError) Error() string {
	return fmt.Sprintf("label %q: %v", e.Label, e.Err)
}

// Unwrap exposes the underlying cause.
func (e LabelError) Unwrap() error { return e.Err }

// ParseInterval parses an interval label ("3M", or "0" for release
// testing) into months from start.
func ParseInterval(label string) (int, error) {
	if label == "0" {
		return 0, nil
	}

	m := labelPattern.FindStringSubmatch(label)
	if m == nil {
		return 0, fmt.Errorf("malformed interval label, want \"<integer>M\" or \"0\"")
	}

	months, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, fmt.Errorf("parsing interval months: %w", err)
	}

	return months, nil
}

// Plan expands a schedule of interval labels into planned pull dates.
//
// Output preserves the input order. Labels that fail to parse, and duplicate
// labels, are rejected individually and reported in the returned LabelError
// slice without aborting the rest of the schedule. Planned dates use
// calendar-month addition, not a fixed-day approximation.
func Plan(startDate models.Date, labels []string) ([]PlannedTimepoint, []LabelError, error) {
	if startDate.IsZero() {
		return nil, nil, models.ErrMissingStartDate
	}

	planned := make([]PlannedTimepoint, 0, len(labels))
	seen := make(map[string]bool, len(labels))

	var failed []LabelError

	for _, label := range labels {
		if seen[label] {
			failed = append(failed, LabelError{Label: label, Err: fmt.Errorf("duplicate label")})
			continue
		}
		seen[label] = true

		months, err := ParseInterval(label)
		if err != nil {
			failed = append(failed, LabelError{Label: label, Err: err})
			continue
		}

		planned = append(planned, PlannedTimepoint{
			Label:       label,
			Months:      months,
			PlannedDate: startDate.AddMonths(months),
		})
	}

	return planned, failed, nil
}
