package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentUnpaid  PaymentStatus = "unpaid"
	PaymentPartial PaymentStatus = "partial"
	PaymentPaid    PaymentStatus = "paid"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentUnpaid, PaymentPartial, PaymentPaid:
		return true
	}
	return false
}

// StatusForPaid derives the payment status from the subscription total and
// the amount already allocated to its days.
func StatusForPaid(total, paid decimal.Decimal) PaymentStatus {
	switch {
	case paid.IsZero() || paid.IsNegative():
		return PaymentUnpaid
	case paid.GreaterThanOrEqual(total):
		return PaymentPaid
	default:
		return PaymentPartial
	}
}

func (s PaymentStatus) rank() int {
	switch s {
	case PaymentPartial:
		return 1
	case PaymentPaid:
		return 2
	}
	return 0
}

// HigherStatus returns whichever of a and b is further along
// unpaid < partial < paid.
func HigherStatus(a, b PaymentStatus) PaymentStatus {
	if b.rank() > a.rank() {
		return b
	}
	return a
}

type Location string

const (
	LocationOffice Location = "office"
	LocationOnline Location = "online"
	LocationHome   Location = "home"
)

func (l Location) Valid() bool {
	switch l {
	case LocationOffice, LocationOnline, LocationHome:
		return true
	}
	return false
}

type Subscription struct {
	ID            int64           `db:"id" json:"id"`
	Name          string          `db:"name" json:"name"`
	StudentID     int64           `db:"student_id" json:"student_id"`
	TeacherID     int64           `db:"teacher_id" json:"teacher_id"`
	StartDate     time.Time       `db:"start_date" json:"start_date"`
	EndDate       time.Time       `db:"end_date" json:"end_date"`
	TotalCost     decimal.Decimal `db:"total_cost" json:"total_cost"`
	PaymentStatus PaymentStatus   `db:"payment_status" json:"payment_status"`
	Description   string          `db:"description" json:"description"`
	CreatedAt     time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time       `db:"updated_at" json:"updated_at"`

	Weeks       []WeekBlock         `db:"-" json:"weeks,omitempty"`
	Allocations []PaidDayAllocation `db:"-" json:"paid_days,omitempty"`
}

// Days returns every day rule of the subscription in week order.
func (s *Subscription) Days() []DayRule {
	var days []DayRule
	for _, w := range s.Weeks {
		days = append(days, w.Days...)
	}
	return days
}

type WeekBlock struct {
	ID             int64     `db:"id" json:"id"`
	SubscriptionID int64     `db:"subscription_id" json:"subscription_id"`
	WeekNumber     int       `db:"week_number" json:"week_number"`
	StartDate      time.Time `db:"start_date" json:"start_date"`
	EndDate        time.Time `db:"end_date" json:"end_date"`

	Days []DayRule `db:"-" json:"days"`
}

type DayRule struct {
	ID          int64           `db:"id" json:"id"`
	WeekBlockID int64           `db:"week_block_id" json:"week_block_id"`
	DayOfWeek   int             `db:"day_of_week" json:"day_of_week"` // 0=Sunday .. 6=Saturday
	StartTime   string          `db:"start_time" json:"start_time"`   // "15:30"
	EndTime     string          `db:"end_time" json:"end_time"`
	Cost        decimal.Decimal `db:"cost" json:"cost"`
	Location    Location        `db:"location" json:"location"`
	Notes       string          `db:"notes" json:"notes"`

	// Joined fields
	WeekNumber int `db:"week_number" json:"-"`
}

type PaidDayAllocation struct {
	ID             int64           `db:"id" json:"id"`
	SubscriptionID int64           `db:"subscription_id" json:"subscription_id"`
	DayRuleID      int64           `db:"day_rule_id" json:"day_rule_id"`
	PaymentAmount  decimal.Decimal `db:"payment_amount" json:"payment_amount"`
	CreatedAt      time.Time       `db:"created_at" json:"created_at"`
}
