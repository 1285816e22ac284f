package schedule_service

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"tutor-desk/internal/models"
)

// SubscriptionOccurrences expands every day rule inside its week block's
// window. Occurrences of rules with an allocation are marked paid.
func SubscriptionOccurrences(sub *models.Subscription) ([]models.Occurrence, error) {
	paid := make(map[int64]bool, len(sub.Allocations))
	for _, a := range sub.Allocations {
		paid[a.DayRuleID] = true
	}

	var occurrences []models.Occurrence
	for _, week := range sub.Weeks {
		for _, day := range week.Days {
			start, err := ParseClock(day.StartTime)
			if err != nil {
				return nil, fmt.Errorf("day rule %d: %w", day.ID, err)
			}
			end, err := ParseClock(day.EndTime)
			if err != nil {
				return nil, fmt.Errorf("day rule %d: %w", day.ID, err)
			}

			expanded := Expand(Recurrence{
				StartDate: week.StartDate,
				EndDate:   week.EndDate,
				Weekdays:  []time.Weekday{time.Weekday(day.DayOfWeek)},
				Time:      start,
				Duration:  time.Duration(end.Minutes()-start.Minutes()) * time.Minute,
			})
			for _, occ := range expanded {
				occ.WeekNumber = week.WeekNumber
				occ.DayRuleID = day.ID
				occ.Cost = day.Cost
				occ.Location = day.Location
				occ.IsPaid = paid[day.ID]
				occurrences = append(occurrences, occ)
			}
		}
	}

	slices.SortStableFunc(occurrences, func(a, b models.Occurrence) int {
		if c := a.StartsAt.Compare(b.StartsAt); c != 0 {
			return c
		}
		return cmp.Compare(a.WeekNumber, b.WeekNumber)
	})
	return occurrences, nil
}
