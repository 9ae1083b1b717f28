package store

import (
	"time"

	"github.com/traceopshq/traceops/internal/models"
)

// dateArg converts an optional Date into a driver argument, mapping the
// zero date to SQL NULL.
func dateArg(d *models.Date) any {
	if d == nil || d.IsZero() {
		return nil
	}

	return d.Time
}

// dateValue converts a required Date into a driver argument.
func dateValue(d models.Date) any {
	if d.IsZero() {
		return nil
	}

	return d.Time
}

// dateFromDB converts a nullable DATE column back into a *models.Date.
func dateFromDB(t *time.Time) *models.Date {
	if t == nil {
		return nil
	}

	d := models.DateOf(*t)

	return &d
}

// dateValueFromDB converts a non-null DATE column into a models.Date.
func dateValueFromDB(t time.Time) models.Date {
	return models.DateOf(t)
}
