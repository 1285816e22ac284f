package lesson_service

import (
	"context"
	"errors"
	"fmt"

	"tutor-desk/internal/models"
	"tutor-desk/internal/repository"
	"tutor-desk/internal/service"
	schedule_service "tutor-desk/internal/service/schedule"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

type lessonService struct {
	lessonRepo  repository.LessonRepository
	studentRepo repository.StudentRepository
	teacherRepo repository.TeacherRepository
	notifier    service.Notifier
	log         *zap.Logger
}

func NewLessonService(
	lessonRepo repository.LessonRepository,
	studentRepo repository.StudentRepository,
	teacherRepo repository.TeacherRepository,
	notifier service.Notifier,
	log *zap.Logger,
) service.LessonService {
	if notifier == nil {
		notifier = service.NopNotifier{}
	}
	return &lessonService{
		lessonRepo:  lessonRepo,
		studentRepo: studentRepo,
		teacherRepo: teacherRepo,
		notifier:    notifier,
		log:         log.Named("lesson.service"),
	}
}

func (s *lessonService) CreateBulk(ctx context.Context, req service.BulkLessonRequest) (*service.BulkLessonResult, error) {
	students, err := bulkStudents(req)
	if err != nil {
		return nil, err
	}
	if !req.Cost.IsPositive() {
		return nil, service.Invalid("cost", "must be positive")
	}
	if req.PrepaymentAmount != nil && req.PrepaymentAmount.IsNegative() {
		return nil, service.Invalid("prepayment_amount", "cannot be negative")
	}

	recurrence, err := schedule_service.ParseRecurrence(req.RecurrenceRequest)
	if err != nil {
		return nil, err
	}
	occurrences := schedule_service.Expand(recurrence)
	if len(occurrences) == 0 {
		return nil, service.Invalid("days_of_week", "no lessons fall within the selected period")
	}
	if err := s.checkParticipants(ctx, students, req.TeacherID); err != nil {
		return nil, err
	}

	var groupKey uuid.NullUUID
	if req.LessonType == models.LessonGroup {
		groupKey = uuid.NullUUID{UUID: uuid.New(), Valid: true}
	}

	// Occurrence-major order keeps the batch chronological, which is the
	// order a prepayment is spent in.
	lessons := make([]*models.Lesson, 0, len(occurrences)*len(students))
	for _, occ := range occurrences {
		for _, studentID := range students {
			lessons = append(lessons, &models.Lesson{
				StudentID: lo.ToPtr(studentID),
				TeacherID: req.TeacherID,
				GroupKey:  groupKey,
				StartsAt:  occ.StartsAt,
				EndsAt:    occ.EndsAt,
				Cost:      req.Cost,
				IsPaid:    req.MarkPaid,
				Notes:     req.Notes,
			})
		}
	}

	result := &service.BulkLessonResult{Lessons: lessons}
	if req.PrepaymentAmount != nil && !req.MarkPaid {
		remaining := ApplyPrepayment(lessons, *req.PrepaymentAmount)
		result.PrepaymentBalance = &remaining
	}

	if err := s.lessonRepo.CreateBatch(ctx, lessons); err != nil {
		return nil, fmt.Errorf("create lessons: %w", err)
	}
	result.Created = len(lessons)

	s.log.Info("lessons created",
		zap.Int("created", result.Created),
		zap.Int("students", len(students)),
		zap.String("lesson_type", string(req.LessonType)),
		zap.Bool("mark_paid", req.MarkPaid),
	)
	s.notifier.LessonsCreated(ctx, result)

	return result, nil
}

// checkParticipants makes sure every referenced student and the optional
// teacher exist before anything is written.
func (s *lessonService) checkParticipants(ctx context.Context, students []int64, teacherID *int64) error {
	for _, id := range students {
		if _, err := s.studentRepo.GetByID(ctx, id); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("%w: id %d", service.ErrStudentNotFound, id)
			}
			return fmt.Errorf("lookup student: %w", err)
		}
	}
	if teacherID == nil {
		return nil
	}
	if _, err := s.teacherRepo.GetByID(ctx, *teacherID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: id %d", service.ErrTeacherNotFound, *teacherID)
		}
		return fmt.Errorf("lookup teacher: %w", err)
	}
	return nil
}

func (s *lessonService) Preview(req service.RecurrenceRequest) (*service.PreviewResult, error) {
	recurrence, err := schedule_service.ParseRecurrence(req)
	if err != nil {
		return nil, err
	}
	occurrences := schedule_service.Expand(recurrence)
	return &service.PreviewResult{
		Total:       len(occurrences),
		Occurrences: schedule_service.Truncate(occurrences, schedule_service.PreviewLimit),
	}, nil
}

func (s *lessonService) GetLessons(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, error) {
	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, service.Invalid("to", "cannot be before from")
	}
	lessons, err := s.lessonRepo.GetByFilter(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list lessons: %w", err)
	}
	return lessons, nil
}

// ApplyPrepayment marks lessons paid in order while the prepayment covers
// their cost and returns what is left. It stops at the first lesson the
// remainder cannot cover.
func ApplyPrepayment(lessons []*models.Lesson, amount decimal.Decimal) decimal.Decimal {
	remaining := amount
	for _, lesson := range lessons {
		if remaining.LessThan(lesson.Cost) {
			break
		}
		lesson.IsPaid = true
		remaining = remaining.Sub(lesson.Cost)
	}
	return remaining
}

func bulkStudents(req service.BulkLessonRequest) ([]int64, error) {
	switch req.LessonType {
	case models.LessonIndividual:
		if req.StudentID == nil || *req.StudentID <= 0 {
			return nil, service.Invalid("student_id", "is required for individual lessons")
		}
		return []int64{*req.StudentID}, nil
	case models.LessonGroup:
		students := lo.Uniq(lo.Filter(req.StudentIDs, func(id int64, _ int) bool {
			return id > 0
		}))
		if len(students) == 0 {
			return nil, service.Invalid("student_ids", "at least one student is required for group lessons")
		}
		return students, nil
	default:
		return nil, service.Invalid("lesson_type", "must be individual or group")
	}
}
