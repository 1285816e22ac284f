package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"tutor-desk/internal/models"
	"tutor-desk/internal/repository"

	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type subscriptionRepository struct {
	db *sqlx.DB
}

func NewSubscriptionRepository(db *sqlx.DB) repository.SubscriptionRepository {
	return &subscriptionRepository{db: db}
}

func (r *subscriptionRepository) CreateWithSchedule(ctx context.Context, sub *models.Subscription, plan repository.AllocationPlanner) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC()
	sub.CreatedAt = now
	sub.UpdatedAt = now

	if err := insertSubscription(ctx, tx, sub); err != nil {
		return err
	}
	if err := insertWeeks(ctx, tx, sub); err != nil {
		return err
	}

	if plan != nil {
		days, err := canonicalDays(ctx, tx, sub.ID)
		if err != nil {
			return err
		}

		allocations := plan(days)
		for i := range allocations {
			allocations[i].SubscriptionID = sub.ID
			allocations[i].CreatedAt = now
			if err := insertAllocation(ctx, tx, &allocations[i]); err != nil {
				return err
			}
		}
		sub.Allocations = allocations
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit subscription: %w", err)
	}
	return nil
}

func (r *subscriptionRepository) GetByID(ctx context.Context, id int64) (*models.Subscription, error) {
	var sub models.Subscription
	if err := r.db.GetContext(ctx, &sub, r.db.Rebind(selectSubscription+` WHERE id = ?`), id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select subscription: %w", err)
	}

	weeks, err := selectWeeks(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	days, err := canonicalDays(ctx, r.db, id)
	if err != nil {
		return nil, err
	}
	allocations, err := selectAllocations(ctx, r.db, id)
	if err != nil {
		return nil, err
	}

	sub.Weeks = attachDays(weeks, days)
	sub.Allocations = allocations
	return &sub, nil
}

func (r *subscriptionRepository) GetByStudentID(ctx context.Context, studentID int64) ([]*models.Subscription, error) {
	query := r.db.Rebind(selectSubscription + `
		WHERE student_id = ?
		ORDER BY start_date DESC, id DESC
	`)

	var subscriptions []*models.Subscription
	if err := r.db.SelectContext(ctx, &subscriptions, query, studentID); err != nil {
		return nil, fmt.Errorf("select subscriptions: %w", err)
	}
	return subscriptions, nil
}

func (r *subscriptionRepository) AddAllocations(ctx context.Context, subscriptionID int64, plan repository.AllocationPlanner) (int, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current struct {
		Total  decimal.Decimal      `db:"total_cost"`
		Status models.PaymentStatus `db:"payment_status"`
	}
	err = tx.GetContext(ctx, &current,
		tx.Rebind(`SELECT total_cost, payment_status FROM subscriptions WHERE id = ?`), subscriptionID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, repository.ErrNotFound
		}
		return 0, fmt.Errorf("select subscription total: %w", err)
	}

	days, err := canonicalDays(ctx, tx, subscriptionID)
	if err != nil {
		return 0, err
	}
	existing, err := selectAllocations(ctx, tx, subscriptionID)
	if err != nil {
		return 0, err
	}

	paidDays := lo.KeyBy(existing, func(a models.PaidDayAllocation) int64 {
		return a.DayRuleID
	})
	paid := lo.Reduce(existing, func(sum decimal.Decimal, a models.PaidDayAllocation, _ int) decimal.Decimal {
		return sum.Add(a.PaymentAmount)
	}, decimal.Zero)

	now := time.Now().UTC()
	added := 0
	for _, allocation := range plan(days) {
		if _, ok := paidDays[allocation.DayRuleID]; ok {
			continue
		}
		allocation.SubscriptionID = subscriptionID
		allocation.CreatedAt = now
		if err := insertAllocation(ctx, tx, &allocation); err != nil {
			return 0, err
		}
		paidDays[allocation.DayRuleID] = allocation
		paid = paid.Add(allocation.PaymentAmount)
		added++
	}

	// Allocations only ever add money, so a stored status is never lowered.
	status := models.HigherStatus(current.Status, models.StatusForPaid(current.Total, paid))
	_, err = tx.ExecContext(ctx,
		tx.Rebind(`UPDATE subscriptions SET payment_status = ?, updated_at = ? WHERE id = ?`),
		status, now, subscriptionID,
	)
	if err != nil {
		return 0, fmt.Errorf("update payment status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit allocations: %w", err)
	}
	return added, nil
}

// Delete removes the subscription tree children first.
func (r *subscriptionRepository) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	steps := []struct {
		name  string
		query string
	}{
		{"allocations", `DELETE FROM paid_day_allocations WHERE subscription_id = ?`},
		{"day rules", `DELETE FROM day_rules WHERE week_block_id IN (SELECT id FROM week_blocks WHERE subscription_id = ?)`},
		{"week blocks", `DELETE FROM week_blocks WHERE subscription_id = ?`},
	}
	for _, step := range steps {
		if _, err := tx.ExecContext(ctx, tx.Rebind(step.query), id); err != nil {
			return fmt.Errorf("delete %s: %w", step.name, err)
		}
	}

	result, err := tx.ExecContext(ctx, tx.Rebind(`DELETE FROM subscriptions WHERE id = ?`), id)
	if err != nil {
		return fmt.Errorf("delete subscription: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit delete: %w", err)
	}
	return nil
}
