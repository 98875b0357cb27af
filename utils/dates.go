// utils/dates.go
package utils

import (
	"errors"
	"time"
)

const DateLayout = "2006-01-02"

var ErrInvalidDate = errors.New("invalid date")

func BeginningOfDay(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, t.Location())
}

// ParseBookingDate accepts a calendar date or a full RFC 3339 timestamp.
func ParseBookingDate(s string) (time.Time, error) {
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	return time.Time{}, ErrInvalidDate
}

// Tomorrow returns the [start, end) bounds of the day after now.
func Tomorrow(now time.Time) (time.Time, time.Time) {
	start := BeginningOfDay(now).AddDate(0, 0, 1)
	return start, start.AddDate(0, 0, 1)
}

func StartOfMonth(t time.Time) time.Time {
	year, month, _ := t.Date()
	return time.Date(year, month, 1, 0, 0, 0, 0, t.Location())
}
