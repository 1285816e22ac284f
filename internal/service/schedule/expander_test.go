package schedule_service

import (
	"testing"
	"time"

	"tutor-desk/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestExpand_MondayWednesdayFriday(t *testing.T) {
	// 2025-01-06 is a Monday.
	occ := Expand(Recurrence{
		StartDate: date(t, "2025-01-06"),
		EndDate:   date(t, "2025-01-12"),
		Weekdays:  []time.Weekday{time.Monday, time.Wednesday, time.Friday},
		Time:      Clock{Hour: 10},
		Duration:  60 * time.Minute,
	})

	require.Len(t, occ, 3)
	wantDays := []time.Weekday{time.Monday, time.Wednesday, time.Friday}
	for i, o := range occ {
		assert.Equal(t, wantDays[i], o.StartsAt.Weekday())
		assert.Equal(t, 10, o.StartsAt.Hour())
		assert.Equal(t, 0, o.StartsAt.Minute())
		assert.Equal(t, 11, o.EndsAt.Hour())
		assert.Equal(t, time.Hour, o.EndsAt.Sub(o.StartsAt))
	}
}

func TestExpand_Properties(t *testing.T) {
	windows := []struct{ from, to string }{
		{"2025-01-01", "2025-01-01"},
		{"2025-01-01", "2025-01-31"},
		{"2024-02-20", "2024-03-05"},
		{"2025-12-25", "2026-01-10"},
	}
	sets := [][]time.Weekday{
		{time.Sunday},
		{time.Saturday, time.Sunday},
		{time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday},
		{time.Sunday, time.Monday, time.Tuesday, time.Wednesday, time.Thursday, time.Friday, time.Saturday},
	}

	for _, w := range windows {
		for _, set := range sets {
			start, end := date(t, w.from), date(t, w.to)
			occ := Expand(Recurrence{StartDate: start, EndDate: end, Weekdays: set, Time: Clock{Hour: 9, Minute: 30}, Duration: 45 * time.Minute})

			inSet := map[time.Weekday]bool{}
			for _, wd := range set {
				inSet[wd] = true
			}
			expected := 0
			for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
				if inSet[d.Weekday()] {
					expected++
				}
			}

			assert.Len(t, occ, expected, "window %s..%s set %v", w.from, w.to, set)
			for i, o := range occ {
				assert.True(t, inSet[o.StartsAt.Weekday()])
				assert.False(t, dateOnly(o.StartsAt).Before(start))
				assert.False(t, dateOnly(o.StartsAt).After(end))
				if i > 0 {
					assert.True(t, o.StartsAt.After(occ[i-1].StartsAt))
				}
			}
		}
	}
}

func TestExpand_SingleDayWindow(t *testing.T) {
	monday := date(t, "2025-01-06")

	match := Expand(Recurrence{StartDate: monday, EndDate: monday, Weekdays: []time.Weekday{time.Monday}, Duration: time.Hour})
	assert.Len(t, match, 1)

	miss := Expand(Recurrence{StartDate: monday, EndDate: monday, Weekdays: []time.Weekday{time.Tuesday}, Duration: time.Hour})
	assert.Empty(t, miss)
}

func TestExpand_EmptyWeekdaySet(t *testing.T) {
	occ := Expand(Recurrence{StartDate: date(t, "2025-01-01"), EndDate: date(t, "2025-02-01"), Duration: time.Hour})
	assert.Empty(t, occ)
}

func TestTruncate(t *testing.T) {
	occ := Expand(Recurrence{
		StartDate: date(t, "2025-01-01"),
		EndDate:   date(t, "2025-03-31"),
		Weekdays:  []time.Weekday{time.Monday, time.Thursday},
		Duration:  time.Hour,
	})
	require.Greater(t, len(occ), PreviewLimit)
	assert.Len(t, Truncate(occ, PreviewLimit), PreviewLimit)
	assert.Len(t, Truncate(occ[:3], PreviewLimit), 3)
}

func TestParseRecurrence(t *testing.T) {
	valid := service.RecurrenceRequest{
		DaysOfWeek:      []int{1, 3},
		StartDate:       "2025-01-06",
		EndDate:         "2025-01-31",
		Time:            "18:30",
		DurationMinutes: 90,
	}

	r, err := ParseRecurrence(valid)
	require.NoError(t, err)
	assert.Equal(t, Clock{Hour: 18, Minute: 30}, r.Time)
	assert.Equal(t, 90*time.Minute, r.Duration)

	tests := []struct {
		name  string
		edit  func(*service.RecurrenceRequest)
		field string
	}{
		{"no weekdays", func(r *service.RecurrenceRequest) { r.DaysOfWeek = nil }, "days_of_week"},
		{"weekday out of range", func(r *service.RecurrenceRequest) { r.DaysOfWeek = []int{7} }, "days_of_week"},
		{"bad start", func(r *service.RecurrenceRequest) { r.StartDate = "06.01.2025" }, "start_date"},
		{"end before start", func(r *service.RecurrenceRequest) { r.EndDate = "2025-01-01" }, "end_date"},
		{"bad time", func(r *service.RecurrenceRequest) { r.Time = "25:00" }, "time"},
		{"zero duration", func(r *service.RecurrenceRequest) { r.DurationMinutes = 0 }, "duration_minutes"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid
			req.DaysOfWeek = append([]int(nil), valid.DaysOfWeek...)
			tt.edit(&req)

			_, err := ParseRecurrence(req)
			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
		})
	}
}

func TestParseClock(t *testing.T) {
	c, err := ParseClock("07:05")
	require.NoError(t, err)
	assert.Equal(t, "07:05", c.String())

	c, err = ParseClock("15:30:00")
	require.NoError(t, err)
	assert.Equal(t, 15*60+30, c.Minutes())

	_, err = ParseClock("7pm")
	assert.Error(t, err)
}
