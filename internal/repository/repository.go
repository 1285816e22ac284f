package repository

import (
	"context"
	"errors"

	"tutor-desk/internal/models"
)

var ErrNotFound = errors.New("record not found")

// AllocationPlanner receives the subscription's day rules in canonical order
// (week number, weekday, id) and returns the allocations to persist.
type AllocationPlanner func(days []models.DayRule) []models.PaidDayAllocation

type StudentRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Student, error)
}

type TeacherRepository interface {
	GetByID(ctx context.Context, id int64) (*models.Teacher, error)
}

type SubscriptionRepository interface {
	// CreateWithSchedule stores the subscription, its week blocks and day
	// rules, and the planned allocations in a single transaction. IDs are
	// written back into sub.
	CreateWithSchedule(ctx context.Context, sub *models.Subscription, plan AllocationPlanner) error
	GetByID(ctx context.Context, id int64) (*models.Subscription, error)
	GetByStudentID(ctx context.Context, studentID int64) ([]*models.Subscription, error)
	// AddAllocations plans allocations against the stored day rules, skips
	// rules that are already paid and recomputes the payment status.
	AddAllocations(ctx context.Context, subscriptionID int64, plan AllocationPlanner) (int, error)
	Delete(ctx context.Context, id int64) error
}

type LessonRepository interface {
	CreateBatch(ctx context.Context, lessons []*models.Lesson) error
	GetByFilter(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, error)
}
