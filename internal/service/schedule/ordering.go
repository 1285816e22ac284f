package schedule_service

import (
	"cmp"
	"slices"

	"tutor-desk/internal/models"
)

// SortCanonical orders day rules by week number, then weekday, then id.
// Paid day ids are positions in this order.
func SortCanonical(days []models.DayRule) {
	slices.SortStableFunc(days, func(a, b models.DayRule) int {
		if c := cmp.Compare(a.WeekNumber, b.WeekNumber); c != 0 {
			return c
		}
		if c := cmp.Compare(a.DayOfWeek, b.DayOfWeek); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}
