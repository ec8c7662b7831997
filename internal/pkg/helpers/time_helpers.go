package helpers

import (
	"time"

	"github.com/eborodin/eventum/internal/pkg/apperrors"
)

// DateTimeLayout is the wire format for event dates and range filters
const DateTimeLayout = "2006-01-02 15:04:05"

// ParseDuration parses a duration string, falling back to a default on error
func ParseDuration(value string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return d
}

// ParseDateTime parses a date-time in the wire format. An unparseable value is
// reported as invalid input before any state is touched.
func ParseDateTime(value string) (time.Time, error) {
	t, err := time.Parse(DateTimeLayout, value)
	if err != nil {
		return time.Time{}, apperrors.NewInvalidInputError("unparseable date-time: " + value)
	}
	return t, nil
}

// FormatDateTime formats a date-time in the wire format
func FormatDateTime(t time.Time) string {
	return t.Format(DateTimeLayout)
}
