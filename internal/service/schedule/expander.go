package schedule_service

import (
	"time"

	"tutor-desk/internal/models"
	"tutor-desk/internal/service"
)

// PreviewLimit caps how many occurrences a preview shows. Persisted sets are
// not capped.
const PreviewLimit = 20

type Recurrence struct {
	StartDate time.Time
	EndDate   time.Time
	Weekdays  []time.Weekday
	Time      Clock
	Duration  time.Duration
}

// Expand returns one occurrence per calendar day in [StartDate, EndDate]
// whose weekday is in the set, ordered by date.
func Expand(r Recurrence) []models.Occurrence {
	if len(r.Weekdays) == 0 {
		return nil
	}

	wanted := make(map[time.Weekday]bool, len(r.Weekdays))
	for _, wd := range r.Weekdays {
		wanted[wd] = true
	}

	end := dateOnly(r.EndDate)
	var occurrences []models.Occurrence
	for day := dateOnly(r.StartDate); !day.After(end); day = day.AddDate(0, 0, 1) {
		if !wanted[day.Weekday()] {
			continue
		}
		start := r.Time.On(day)
		occurrences = append(occurrences, models.Occurrence{
			StartsAt: start,
			EndsAt:   start.Add(r.Duration),
		})
	}
	return occurrences
}

func Truncate(occurrences []models.Occurrence, limit int) []models.Occurrence {
	if len(occurrences) <= limit {
		return occurrences
	}
	return occurrences[:limit]
}

// ParseRecurrence validates a flat recurrence description.
func ParseRecurrence(req service.RecurrenceRequest) (Recurrence, error) {
	if len(req.DaysOfWeek) == 0 {
		return Recurrence{}, service.Invalid("days_of_week", "at least one weekday is required")
	}

	weekdays := make([]time.Weekday, 0, len(req.DaysOfWeek))
	for _, d := range req.DaysOfWeek {
		if d < 0 || d > 6 {
			return Recurrence{}, service.Invalid("days_of_week", "weekday %d is out of range 0..6", d)
		}
		weekdays = append(weekdays, time.Weekday(d))
	}

	start, err := ParseDate(req.StartDate)
	if err != nil {
		return Recurrence{}, service.Invalid("start_date", "%v", err)
	}
	end, err := ParseDate(req.EndDate)
	if err != nil {
		return Recurrence{}, service.Invalid("end_date", "%v", err)
	}
	if end.Before(start) {
		return Recurrence{}, service.Invalid("end_date", "cannot be before start_date")
	}

	clock, err := ParseClock(req.Time)
	if err != nil {
		return Recurrence{}, service.Invalid("time", "%v", err)
	}
	if req.DurationMinutes <= 0 {
		return Recurrence{}, service.Invalid("duration_minutes", "must be positive")
	}

	return Recurrence{
		StartDate: start,
		EndDate:   end,
		Weekdays:  weekdays,
		Time:      clock,
		Duration:  time.Duration(req.DurationMinutes) * time.Minute,
	}, nil
}
