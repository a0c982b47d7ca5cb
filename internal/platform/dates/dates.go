// Package dates parses the date-only values used throughout the
// records model (dates of birth, admission and visit dates).
package dates

import (
	"time"

	"github.com/hms/hms/internal/platform/apperror"
)

const Layout = "2006-01-02"

// Parse interprets s as a calendar date, also accepting a full RFC 3339
// timestamp for callers that send one. Failures surface as a validation
// error naming the field.
func Parse(field, s string) (time.Time, error) {
	if t, err := time.Parse(Layout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, apperror.Validation(field, "invalid date %q, want YYYY-MM-DD", s)
}

// ParseDateTime interprets s as a timestamp, also accepting a bare date
// (midnight UTC) and the common "YYYY-MM-DD HH:MM" form.
func ParseDateTime(field, s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse("2006-01-02 15:04", s); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(Layout, s); err == nil {
		return t, nil
	}
	return time.Time{}, apperror.Validation(field, "invalid date-time %q, want RFC 3339 or YYYY-MM-DD HH:MM", s)
}

// Today returns the current date truncated to midnight UTC.
func Today() time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// Format renders t as a calendar date.
func Format(t time.Time) string {
	return t.Format(Layout)
}
