package subscription

import (
	"context"
	"fmt"

	"tutor-desk/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
)

const selectSubscription = `
	SELECT id, name, student_id, teacher_id, start_date, end_date,
	       total_cost, payment_status, description, created_at, updated_at
	FROM subscriptions
`

// canonicalDaysQuery is the ordering paid day ids are resolved against.
const canonicalDaysQuery = `
	SELECT d.id, d.week_block_id, w.week_number, d.day_of_week, d.start_time,
	       d.end_time, d.cost, d.location, d.notes
	FROM day_rules d
	JOIN week_blocks w ON w.id = d.week_block_id
	WHERE w.subscription_id = ?
	ORDER BY w.week_number, d.day_of_week, d.id
`

func insertSubscription(ctx context.Context, tx *sqlx.Tx, sub *models.Subscription) error {
	query := tx.Rebind(`
		INSERT INTO subscriptions
		(name, student_id, teacher_id, start_date, end_date, total_cost,
		 payment_status, description, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	err := tx.QueryRowxContext(ctx, query,
		sub.Name,
		sub.StudentID,
		sub.TeacherID,
		sub.StartDate,
		sub.EndDate,
		sub.TotalCost,
		sub.PaymentStatus,
		sub.Description,
		sub.CreatedAt,
		sub.UpdatedAt,
	).Scan(&sub.ID)
	if err != nil {
		return fmt.Errorf("insert subscription: %w", err)
	}
	return nil
}

// insertWeeks stores week blocks and their day rules in input order.
func insertWeeks(ctx context.Context, tx *sqlx.Tx, sub *models.Subscription) error {
	weekQuery := tx.Rebind(`
		INSERT INTO week_blocks (subscription_id, week_number, start_date, end_date)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)
	dayQuery := tx.Rebind(`
		INSERT INTO day_rules
		(week_block_id, day_of_week, start_time, end_time, cost, location, notes)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	for i := range sub.Weeks {
		week := &sub.Weeks[i]
		week.SubscriptionID = sub.ID

		err := tx.QueryRowxContext(ctx, weekQuery,
			week.SubscriptionID, week.WeekNumber, week.StartDate, week.EndDate,
		).Scan(&week.ID)
		if err != nil {
			return fmt.Errorf("insert week %d: %w", week.WeekNumber, err)
		}

		for j := range week.Days {
			day := &week.Days[j]
			day.WeekBlockID = week.ID
			day.WeekNumber = week.WeekNumber

			err := tx.QueryRowxContext(ctx, dayQuery,
				day.WeekBlockID,
				day.DayOfWeek,
				day.StartTime,
				day.EndTime,
				day.Cost,
				day.Location,
				day.Notes,
			).Scan(&day.ID)
			if err != nil {
				return fmt.Errorf("insert day %d of week %d: %w", j, week.WeekNumber, err)
			}
		}
	}
	return nil
}

func insertAllocation(ctx context.Context, tx *sqlx.Tx, allocation *models.PaidDayAllocation) error {
	query := tx.Rebind(`
		INSERT INTO paid_day_allocations (subscription_id, day_rule_id, payment_amount, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`)

	err := tx.QueryRowxContext(ctx, query,
		allocation.SubscriptionID,
		allocation.DayRuleID,
		allocation.PaymentAmount,
		allocation.CreatedAt,
	).Scan(&allocation.ID)
	if err != nil {
		return fmt.Errorf("insert allocation for day %d: %w", allocation.DayRuleID, err)
	}
	return nil
}

// canonicalDays reads the day rules fresh from storage; q may be the
// transaction that just wrote them.
func canonicalDays(ctx context.Context, q sqlx.ExtContext, subscriptionID int64) ([]models.DayRule, error) {
	var days []models.DayRule
	if err := sqlx.SelectContext(ctx, q, &days, q.Rebind(canonicalDaysQuery), subscriptionID); err != nil {
		return nil, fmt.Errorf("select day rules: %w", err)
	}
	return days, nil
}

func selectWeeks(ctx context.Context, q sqlx.ExtContext, subscriptionID int64) ([]models.WeekBlock, error) {
	query := q.Rebind(`
		SELECT id, subscription_id, week_number, start_date, end_date
		FROM week_blocks
		WHERE subscription_id = ?
		ORDER BY week_number
	`)

	var weeks []models.WeekBlock
	if err := sqlx.SelectContext(ctx, q, &weeks, query, subscriptionID); err != nil {
		return nil, fmt.Errorf("select week blocks: %w", err)
	}
	return weeks, nil
}

func selectAllocations(ctx context.Context, q sqlx.ExtContext, subscriptionID int64) ([]models.PaidDayAllocation, error) {
	query := q.Rebind(`
		SELECT id, subscription_id, day_rule_id, payment_amount, created_at
		FROM paid_day_allocations
		WHERE subscription_id = ?
		ORDER BY id
	`)

	var allocations []models.PaidDayAllocation
	if err := sqlx.SelectContext(ctx, q, &allocations, query, subscriptionID); err != nil {
		return nil, fmt.Errorf("select allocations: %w", err)
	}
	return allocations, nil
}

// attachDays nests the canonically ordered days under their week blocks.
func attachDays(weeks []models.WeekBlock, days []models.DayRule) []models.WeekBlock {
	byWeek := lo.GroupBy(days, func(d models.DayRule) int64 {
		return d.WeekBlockID
	})
	for i := range weeks {
		weeks[i].Days = byWeek[weeks[i].ID]
		if weeks[i].Days == nil {
			weeks[i].Days = []models.DayRule{}
		}
	}
	return weeks
}
