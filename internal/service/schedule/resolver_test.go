package schedule_service

import (
	"math/rand"
	"testing"

	"tutor-desk/internal/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// storedDays mimics a persisted two-week tree:
// week 1: Mon(10) Wed(11); week 2: Tue(20) Thu(21) Sat(22).
func storedDays() []models.DayRule {
	return []models.DayRule{
		{ID: 10, WeekNumber: 1, DayOfWeek: 1, Cost: decimal.NewFromInt(1000)},
		{ID: 11, WeekNumber: 1, DayOfWeek: 3, Cost: decimal.NewFromInt(1100)},
		{ID: 20, WeekNumber: 2, DayOfWeek: 2, Cost: decimal.NewFromInt(1500)},
		{ID: 21, WeekNumber: 2, DayOfWeek: 4, Cost: decimal.NewFromInt(2000)},
		{ID: 22, WeekNumber: 2, DayOfWeek: 6, Cost: decimal.NewFromInt(2500)},
	}
}

func ruleIDs(allocations []models.PaidDayAllocation) []int64 {
	ids := make([]int64, 0, len(allocations))
	for _, a := range allocations {
		ids = append(ids, a.DayRuleID)
	}
	return ids
}

func TestResolvePaidDays_Composite(t *testing.T) {
	got := ResolvePaidDays(storedDays(), []models.TempDayID{
		models.CompositeDayID(0, 1),
		models.CompositeDayID(1, 2),
	}, zap.NewNop())

	require.Len(t, got, 2)
	assert.Equal(t, []int64{11, 22}, ruleIDs(got))
	assert.True(t, got[0].PaymentAmount.Equal(decimal.NewFromInt(1100)))
	assert.True(t, got[1].PaymentAmount.Equal(decimal.NewFromInt(2500)))
}

func TestResolvePaidDays_DuplicateIDsCollapse(t *testing.T) {
	got := ResolvePaidDays(storedDays(), []models.TempDayID{
		models.CompositeDayID(0, 0),
		models.CompositeDayID(0, 0),
	}, zap.NewNop())

	assert.Equal(t, []int64{10}, ruleIDs(got))
}

func TestResolvePaidDays_MissingWeekIsSkipped(t *testing.T) {
	got := ResolvePaidDays(storedDays(), []models.TempDayID{
		models.CompositeDayID(5, 0),
	}, zap.NewNop())

	assert.Empty(t, got)
}

func TestResolvePaidDays_MissingDayIsSkipped(t *testing.T) {
	got := ResolvePaidDays(storedDays(), []models.TempDayID{
		models.CompositeDayID(0, 2),
		models.CompositeDayID(1, 0),
	}, zap.NewNop())

	assert.Equal(t, []int64{20}, ruleIDs(got))
}

func TestResolvePaidDays_BareNumbersUsePositionInWeekOne(t *testing.T) {
	// Values are ignored: position 0 -> week 1 day 0, position 1 -> week 1
	// day 1, position 2 -> nothing (week 1 has two days).
	got := ResolvePaidDays(storedDays(), []models.TempDayID{
		models.BareDayID(42),
		models.BareDayID(0),
		models.BareDayID(1),
	}, zap.NewNop())

	assert.Equal(t, []int64{10, 11}, ruleIDs(got))
}

func TestResolvePaidDays_MixedFormatsDedup(t *testing.T) {
	// "0-0" and the bare number at position 1 point at different rules;
	// "0-1" then duplicates the bare one.
	got := ResolvePaidDays(storedDays(), []models.TempDayID{
		models.CompositeDayID(0, 0),
		models.BareDayID(7),
		models.CompositeDayID(0, 1),
		{Raw: "junk"},
	}, zap.NewNop())

	assert.Equal(t, []int64{10, 11}, ruleIDs(got))
}

func TestResolvePaidDays_IgnoresStorageOrder(t *testing.T) {
	ids := []models.TempDayID{
		models.CompositeDayID(1, 1),
		models.CompositeDayID(0, 0),
		models.BareDayID(3),
	}
	want := ResolvePaidDays(storedDays(), ids, zap.NewNop())

	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 20; i++ {
		days := storedDays()
		rng.Shuffle(len(days), func(a, b int) { days[a], days[b] = days[b], days[a] })

		assert.Equal(t, want, ResolvePaidDays(days, ids, zap.NewNop()))
	}
}

func TestResolvePaidDays_DoesNotReorderInput(t *testing.T) {
	days := storedDays()
	days[0], days[4] = days[4], days[0]

	ResolvePaidDays(days, []models.TempDayID{models.CompositeDayID(0, 0)}, zap.NewNop())
	assert.Equal(t, int64(22), days[0].ID)
}

func TestSortCanonical(t *testing.T) {
	days := []models.DayRule{
		{ID: 5, WeekNumber: 2, DayOfWeek: 0},
		{ID: 4, WeekNumber: 1, DayOfWeek: 5},
		{ID: 3, WeekNumber: 1, DayOfWeek: 1},
		{ID: 2, WeekNumber: 1, DayOfWeek: 1},
	}
	SortCanonical(days)

	assert.Equal(t, []int64{2, 3, 4, 5}, []int64{days[0].ID, days[1].ID, days[2].ID, days[3].ID})
}
