package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LessonType string

const (
	LessonIndividual LessonType = "individual"
	LessonGroup      LessonType = "group"
)

// Lesson is a single dated occurrence. Rows created from one recurrence are
// independent; the recurrence itself is not stored.
type Lesson struct {
	ID          int64           `db:"id" json:"id"`
	StudentID   *int64          `db:"student_id" json:"student_id,omitempty"`
	TeacherID   *int64          `db:"teacher_id" json:"teacher_id,omitempty"`
	GroupKey    uuid.NullUUID   `db:"group_key" json:"group_key"`
	StartsAt    time.Time       `db:"starts_at" json:"starts_at"`
	EndsAt      time.Time       `db:"ends_at" json:"ends_at"`
	Cost        decimal.Decimal `db:"cost" json:"cost"`
	IsPaid      bool            `db:"is_paid" json:"is_paid"`
	IsCancelled bool            `db:"is_cancelled" json:"is_cancelled"`
	IsCompleted bool            `db:"is_completed" json:"is_completed"`
	Notes       string          `db:"notes" json:"notes"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
}

type LessonFilter struct {
	From      *time.Time
	To        *time.Time
	StudentID *int64
}

// Occurrence is one concrete dated instance produced from a recurrence.
type Occurrence struct {
	StartsAt time.Time `json:"starts_at"`
	EndsAt   time.Time `json:"ends_at"`

	// Set when the occurrence comes from a subscription day rule.
	WeekNumber int             `json:"week_number,omitempty"`
	DayRuleID  int64           `json:"day_rule_id,omitempty"`
	Cost       decimal.Decimal `json:"cost"`
	Location   Location        `json:"location,omitempty"`
	IsPaid     bool            `json:"is_paid"`
}
