package service

import (
	"context"

	"tutor-desk/internal/models"
)

type SubscriptionService interface {
	CreateSubscription(ctx context.Context, req CreateSubscriptionRequest) (*models.Subscription, error)
	GetSubscription(ctx context.Context, id int64) (*models.Subscription, error)
	GetSubscriptionsByStudentID(ctx context.Context, studentID int64) ([]*models.Subscription, error)
	DeleteSubscription(ctx context.Context, id int64) error
	// AllocatePaidDays marks more days of an existing subscription as paid.
	// Allocation is additive and can be re-run with the same ids.
	AllocatePaidDays(ctx context.Context, id int64, dayIDs []models.TempDayID) (*models.Subscription, error)
	GetOccurrences(ctx context.Context, id int64) ([]models.Occurrence, error)
}

type LessonService interface {
	CreateBulk(ctx context.Context, req BulkLessonRequest) (*BulkLessonResult, error)
	Preview(req RecurrenceRequest) (*PreviewResult, error)
	GetLessons(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, error)
}

// Notifier is told about completed creations. Implementations must not fail
// the caller; delivery problems are logged.
type Notifier interface {
	SubscriptionCreated(ctx context.Context, sub *models.Subscription)
	LessonsCreated(ctx context.Context, result *BulkLessonResult)
}

type NopNotifier struct{}

func (NopNotifier) SubscriptionCreated(context.Context, *models.Subscription) {}
func (NopNotifier) LessonsCreated(context.Context, *BulkLessonResult)         {}
