package schedule_service

import (
	"fmt"
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// Clock is a time of day without a date.
type Clock struct {
	Hour   int
	Minute int
}

// ParseClock accepts "HH:MM" and the "HH:MM:SS" form databases return.
func ParseClock(value string) (Clock, error) {
	value = strings.TrimSpace(value)
	for _, layout := range []string{"15:04", "15:04:05"} {
		if t, err := time.Parse(layout, value); err == nil {
			return Clock{Hour: t.Hour(), Minute: t.Minute()}, nil
		}
	}
	return Clock{}, fmt.Errorf("time %q must be in HH:MM format", value)
}

func (c Clock) Minutes() int {
	return c.Hour*60 + c.Minute
}

func (c Clock) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour, c.Minute)
}

// On places the clock on the calendar day of date, keeping its location.
func (c Clock) On(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), c.Hour, c.Minute, 0, 0, date.Location())
}

// ParseDate reads a calendar date. Full RFC 3339 timestamps are truncated to
// their date.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date cannot be empty")
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return dateOnly(t), nil
	}
	return time.Time{}, fmt.Errorf("date %q must be in YYYY-MM-DD format", value)
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
