package schedule_service

import (
	"slices"

	"tutor-desk/internal/models"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// ResolvePaidDays maps temporary day ids onto stored day rules and returns
// one allocation per distinct rule, in first-seen order.
//
// A composite id "w-d" points at day d of week w+1. A bare number always
// points at week 1 and uses its position in ids as the day index, whatever
// its value. Ids that match nothing are logged and skipped.
func ResolvePaidDays(days []models.DayRule, ids []models.TempDayID, log *zap.Logger) []models.PaidDayAllocation {
	ordered := slices.Clone(days)
	SortCanonical(ordered)
	byWeek := lo.GroupBy(ordered, func(d models.DayRule) int {
		return d.WeekNumber
	})

	resolved := make([]models.DayRule, 0, len(ids))
	for position, id := range ids {
		weekNumber, dayIndex, ok := locate(id, position)
		if !ok {
			log.Info("skipping malformed paid day id", zap.String("id", id.Raw))
			continue
		}

		weekDays := byWeek[weekNumber]
		if dayIndex >= len(weekDays) {
			log.Info("paid day id matches no day rule",
				zap.String("id", id.Raw),
				zap.Int("week_number", weekNumber),
				zap.Int("day_index", dayIndex),
			)
			continue
		}
		resolved = append(resolved, weekDays[dayIndex])
	}

	unique := lo.UniqBy(resolved, func(d models.DayRule) int64 {
		return d.ID
	})
	return lo.Map(unique, func(d models.DayRule, _ int) models.PaidDayAllocation {
		return models.PaidDayAllocation{
			DayRuleID:     d.ID,
			PaymentAmount: d.Cost,
		}
	})
}

func locate(id models.TempDayID, position int) (weekNumber, dayIndex int, ok bool) {
	if id.Bare {
		return 1, position, true
	}
	weekIndex, dayIndex, ok := id.Composite()
	if !ok {
		return 0, 0, false
	}
	return weekIndex + 1, dayIndex, true
}
