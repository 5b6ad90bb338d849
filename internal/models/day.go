package models

import (
	"errors"
	"fmt"
	"time"
)

const dayFormat = "2006-01-02"

// ErrInvalidDate is returned for a log date that is neither YYYY-MM-DD nor RFC 3339
var ErrInvalidDate = errors.New("invalid date")

// LogDay truncates a stored log date to day precision. Dates are normally
// YYYY-MM-DD already; full RFC 3339 timestamps are converted to their date.
func LogDay(date string) string {
	if ts, err := time.Parse(time.RFC3339, date); err == nil {
		return ts.Format(dayFormat)
	}
	if len(date) > len(dayFormat) {
		return date[:len(dayFormat)]
	}
	return date
}

// ParseDay checks that date is a YYYY-MM-DD day or an RFC 3339 timestamp and
// returns it as YYYY-MM-DD. Logs are always stored in this form.
func ParseDay(date string) (string, error) {
	if _, err := time.Parse(dayFormat, date); err == nil {
		return date, nil
	}
	if ts, err := time.Parse(time.RFC3339, date); err == nil {
		return ts.Format(dayFormat), nil
	}
	return "", fmt.Errorf("%w: %q (expected YYYY-MM-DD)", ErrInvalidDate, date)
}
