package subscription_service

import (
	"context"
	"errors"
	"fmt"

	"tutor-desk/internal/models"
	"tutor-desk/internal/repository"
	"tutor-desk/internal/service"
	schedule_service "tutor-desk/internal/service/schedule"

	"go.uber.org/zap"
)

type subscriptionService struct {
	subscriptionRepo repository.SubscriptionRepository
	studentRepo      repository.StudentRepository
	teacherRepo      repository.TeacherRepository
	notifier         service.Notifier
	log              *zap.Logger
}

func NewSubscriptionService(
	subscriptionRepo repository.SubscriptionRepository,
	studentRepo repository.StudentRepository,
	teacherRepo repository.TeacherRepository,
	notifier service.Notifier,
	log *zap.Logger,
) service.SubscriptionService {
	if notifier == nil {
		notifier = service.NopNotifier{}
	}
	return &subscriptionService{
		subscriptionRepo: subscriptionRepo,
		studentRepo:      studentRepo,
		teacherRepo:      teacherRepo,
		notifier:         notifier,
		log:              log.Named("subscription.service"),
	}
}

func (s *subscriptionService) CreateSubscription(ctx context.Context, req service.CreateSubscriptionRequest) (*models.Subscription, error) {
	sub, err := schedule_service.BuildSubscription(req)
	if err != nil {
		return nil, err
	}

	if _, err := s.studentRepo.GetByID(ctx, sub.StudentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", service.ErrStudentNotFound, sub.StudentID)
		}
		return nil, fmt.Errorf("lookup student: %w", err)
	}
	if _, err := s.teacherRepo.GetByID(ctx, sub.TeacherID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: id %d", service.ErrTeacherNotFound, sub.TeacherID)
		}
		return nil, fmt.Errorf("lookup teacher: %w", err)
	}

	// Paid day ids only matter for partially paid subscriptions.
	var plan repository.AllocationPlanner
	if sub.PaymentStatus == models.PaymentPartial && len(req.PaidDayIDs) > 0 {
		plan = s.planner(req.PaidDayIDs)
	}

	if err := s.subscriptionRepo.CreateWithSchedule(ctx, sub, plan); err != nil {
		return nil, fmt.Errorf("create subscription: %w", err)
	}
	for i := range sub.Weeks {
		schedule_service.SortCanonical(sub.Weeks[i].Days)
	}

	s.log.Info("subscription created",
		zap.Int64("subscription_id", sub.ID),
		zap.Int64("student_id", sub.StudentID),
		zap.Int("weeks", len(sub.Weeks)),
		zap.Int("paid_days", len(sub.Allocations)),
		zap.String("total_cost", sub.TotalCost.StringFixed(2)),
	)
	s.notifier.SubscriptionCreated(ctx, sub)

	return sub, nil
}

func (s *subscriptionService) GetSubscription(ctx context.Context, id int64) (*models.Subscription, error) {
	sub, err := s.subscriptionRepo.GetByID(ctx, id)
	if err != nil {
		return nil, s.wrapNotFound(id, err)
	}
	return sub, nil
}

func (s *subscriptionService) GetSubscriptionsByStudentID(ctx context.Context, studentID int64) ([]*models.Subscription, error) {
	if studentID <= 0 {
		return nil, service.Invalid("student_id", "is required")
	}
	subs, err := s.subscriptionRepo.GetByStudentID(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list subscriptions: %w", err)
	}
	return subs, nil
}

func (s *subscriptionService) DeleteSubscription(ctx context.Context, id int64) error {
	if err := s.subscriptionRepo.Delete(ctx, id); err != nil {
		return s.wrapNotFound(id, err)
	}
	s.log.Info("subscription deleted", zap.Int64("subscription_id", id))
	return nil
}

func (s *subscriptionService) AllocatePaidDays(ctx context.Context, id int64, dayIDs []models.TempDayID) (*models.Subscription, error) {
	if len(dayIDs) == 0 {
		return nil, service.Invalid("paid_day_ids", "at least one day id is required")
	}

	added, err := s.subscriptionRepo.AddAllocations(ctx, id, s.planner(dayIDs))
	if err != nil {
		return nil, s.wrapNotFound(id, err)
	}
	s.log.Info("paid days allocated", zap.Int64("subscription_id", id), zap.Int("added", added))

	return s.GetSubscription(ctx, id)
}

func (s *subscriptionService) GetOccurrences(ctx context.Context, id int64) ([]models.Occurrence, error) {
	sub, err := s.GetSubscription(ctx, id)
	if err != nil {
		return nil, err
	}
	occurrences, err := schedule_service.SubscriptionOccurrences(sub)
	if err != nil {
		return nil, fmt.Errorf("expand subscription %d: %w", id, err)
	}
	return occurrences, nil
}

func (s *subscriptionService) planner(ids []models.TempDayID) repository.AllocationPlanner {
	return func(days []models.DayRule) []models.PaidDayAllocation {
		return schedule_service.ResolvePaidDays(days, ids, s.log)
	}
}

func (s *subscriptionService) wrapNotFound(id int64, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%w: id %d", service.ErrSubscriptionNotFound, id)
	}
	return fmt.Errorf("subscription %d: %w", id, err)
}
