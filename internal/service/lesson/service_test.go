package lesson_service

import (
	"context"
	"errors"
	"testing"
	"time"

	"tutor-desk/internal/models"
	"tutor-desk/internal/repository"
	"tutor-desk/internal/service"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeLessons struct {
	batches [][]*models.Lesson
	err     error
	filter  models.LessonFilter
}

func (f *fakeLessons) CreateBatch(_ context.Context, lessons []*models.Lesson) error {
	if f.err != nil {
		return f.err
	}
	for i, l := range lessons {
		l.ID = int64(i + 1)
	}
	f.batches = append(f.batches, lessons)
	return nil
}

func (f *fakeLessons) GetByFilter(_ context.Context, filter models.LessonFilter) ([]models.Lesson, error) {
	f.filter = filter
	return []models.Lesson{{ID: 1}}, nil
}

type fakeStudents map[int64]bool

func (f fakeStudents) GetByID(_ context.Context, id int64) (*models.Student, error) {
	if !f[id] {
		return nil, repository.ErrNotFound
	}
	return &models.Student{ID: id}, nil
}

type fakeTeachers map[int64]bool

func (f fakeTeachers) GetByID(_ context.Context, id int64) (*models.Teacher, error) {
	if !f[id] {
		return nil, repository.ErrNotFound
	}
	return &models.Teacher{ID: id}, nil
}

type countingNotifier struct {
	service.NopNotifier
	results []*service.BulkLessonResult
}

func (n *countingNotifier) LessonsCreated(_ context.Context, result *service.BulkLessonResult) {
	n.results = append(n.results, result)
}

// mondaysAndWednesdays covers 2024-01-01..2024-01-31: 5 Mondays, 5 Wednesdays.
func mondaysAndWednesdays() service.RecurrenceRequest {
	return service.RecurrenceRequest{
		DaysOfWeek:      []int{1, 3},
		StartDate:       "2024-01-01",
		EndDate:         "2024-01-31",
		Time:            "15:00",
		DurationMinutes: 60,
	}
}

func newService() (service.LessonService, *fakeLessons, *countingNotifier) {
	repo := &fakeLessons{}
	notifier := &countingNotifier{}
	students := fakeStudents{3: true, 4: true, 7: true}
	teachers := fakeTeachers{2: true}
	return NewLessonService(repo, students, teachers, notifier, zap.NewNop()), repo, notifier
}

func TestCreateBulk_Individual(t *testing.T) {
	svc, repo, notifier := newService()

	result, err := svc.CreateBulk(context.Background(), service.BulkLessonRequest{
		RecurrenceRequest: mondaysAndWednesdays(),
		Cost:              decimal.NewFromInt(1000),
		LessonType:        models.LessonIndividual,
		StudentID:         lo.ToPtr(int64(7)),
	})
	require.NoError(t, err)

	assert.Equal(t, 10, result.Created)
	assert.Nil(t, result.PrepaymentBalance)
	require.Len(t, repo.batches, 1)
	assert.Len(t, notifier.results, 1)

	first := repo.batches[0][0]
	assert.Equal(t, time.Date(2024, 1, 1, 15, 0, 0, 0, time.UTC), first.StartsAt)
	assert.Equal(t, time.Date(2024, 1, 1, 16, 0, 0, 0, time.UTC), first.EndsAt)
	assert.False(t, first.GroupKey.Valid)
	assert.False(t, first.IsPaid)
}

func TestCreateBulk_GroupFansOutWithSharedKey(t *testing.T) {
	svc, repo, _ := newService()

	result, err := svc.CreateBulk(context.Background(), service.BulkLessonRequest{
		RecurrenceRequest: mondaysAndWednesdays(),
		Cost:              decimal.NewFromInt(500),
		LessonType:        models.LessonGroup,
		StudentIDs:        []int64{3, 4, 3},
		MarkPaid:          true,
	})
	require.NoError(t, err)
	assert.Equal(t, 20, result.Created)

	lessons := repo.batches[0]
	key := lessons[0].GroupKey
	require.True(t, key.Valid)
	for _, l := range lessons {
		assert.Equal(t, key, l.GroupKey)
		assert.True(t, l.IsPaid)
	}
	assert.Equal(t, int64(3), *lessons[0].StudentID)
	assert.Equal(t, int64(4), *lessons[1].StudentID)
	assert.Equal(t, lessons[0].StartsAt, lessons[1].StartsAt)
}

func TestCreateBulk_Prepayment(t *testing.T) {
	svc, repo, _ := newService()

	result, err := svc.CreateBulk(context.Background(), service.BulkLessonRequest{
		RecurrenceRequest: mondaysAndWednesdays(),
		Cost:              decimal.NewFromInt(1000),
		LessonType:        models.LessonIndividual,
		StudentID:         lo.ToPtr(int64(7)),
		PrepaymentAmount:  lo.ToPtr(decimal.NewFromInt(3500)),
	})
	require.NoError(t, err)

	require.NotNil(t, result.PrepaymentBalance)
	assert.True(t, result.PrepaymentBalance.Equal(decimal.NewFromInt(500)))

	paid := lo.CountBy(repo.batches[0], func(l *models.Lesson) bool { return l.IsPaid })
	assert.Equal(t, 3, paid)
	assert.True(t, repo.batches[0][2].IsPaid)
	assert.False(t, repo.batches[0][3].IsPaid)
}

func TestApplyPrepayment_StopsAtFirstUncovered(t *testing.T) {
	lessons := []*models.Lesson{
		{Cost: decimal.NewFromInt(100)},
		{Cost: decimal.NewFromInt(300)},
		{Cost: decimal.NewFromInt(50)},
	}

	left := ApplyPrepayment(lessons, decimal.NewFromInt(250))

	assert.True(t, left.Equal(decimal.NewFromInt(150)))
	assert.True(t, lessons[0].IsPaid)
	assert.False(t, lessons[1].IsPaid)
	assert.False(t, lessons[2].IsPaid)
}

func TestCreateBulk_Validation(t *testing.T) {
	base := func() service.BulkLessonRequest {
		return service.BulkLessonRequest{
			RecurrenceRequest: mondaysAndWednesdays(),
			Cost:              decimal.NewFromInt(1000),
			LessonType:        models.LessonIndividual,
			StudentID:         lo.ToPtr(int64(7)),
		}
	}

	tests := []struct {
		name   string
		mutate func(*service.BulkLessonRequest)
		field  string
	}{
		{"unknown type", func(r *service.BulkLessonRequest) { r.LessonType = "pair" }, "lesson_type"},
		{"individual without student", func(r *service.BulkLessonRequest) { r.StudentID = nil }, "student_id"},
		{"group without students", func(r *service.BulkLessonRequest) { r.LessonType = models.LessonGroup }, "student_ids"},
		{"zero cost", func(r *service.BulkLessonRequest) { r.Cost = decimal.Zero }, "cost"},
		{"negative prepayment", func(r *service.BulkLessonRequest) { r.PrepaymentAmount = lo.ToPtr(decimal.NewFromInt(-1)) }, "prepayment_amount"},
		{"no weekdays", func(r *service.BulkLessonRequest) { r.DaysOfWeek = nil }, "days_of_week"},
		{"no matching day", func(r *service.BulkLessonRequest) {
			r.StartDate, r.EndDate = "2024-01-02", "2024-01-02"
		}, "days_of_week"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, _ := newService()
			req := base()
			tt.mutate(&req)

			_, err := svc.CreateBulk(context.Background(), req)

			var verr *service.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.field, verr.Field)
			assert.Empty(t, repo.batches)
		})
	}
}

func TestCreateBulk_UnknownParticipants(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*service.BulkLessonRequest)
		want   error
	}{
		{"individual student", func(r *service.BulkLessonRequest) { r.StudentID = lo.ToPtr(int64(99)) }, service.ErrStudentNotFound},
		{"group member", func(r *service.BulkLessonRequest) {
			r.LessonType = models.LessonGroup
			r.StudentID = nil
			r.StudentIDs = []int64{3, 99}
		}, service.ErrStudentNotFound},
		{"teacher", func(r *service.BulkLessonRequest) { r.TeacherID = lo.ToPtr(int64(42)) }, service.ErrTeacherNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repo, notifier := newService()
			req := service.BulkLessonRequest{
				RecurrenceRequest: mondaysAndWednesdays(),
				Cost:              decimal.NewFromInt(1000),
				LessonType:        models.LessonIndividual,
				StudentID:         lo.ToPtr(int64(7)),
			}
			tt.mutate(&req)

			_, err := svc.CreateBulk(context.Background(), req)
			require.ErrorIs(t, err, tt.want)
			assert.True(t, service.IsNotFound(err))
			assert.Empty(t, repo.batches)
			assert.Empty(t, notifier.results)
		})
	}
}

func TestCreateBulk_KnownTeacher(t *testing.T) {
	svc, repo, _ := newService()

	result, err := svc.CreateBulk(context.Background(), service.BulkLessonRequest{
		RecurrenceRequest: mondaysAndWednesdays(),
		Cost:              decimal.NewFromInt(1000),
		LessonType:        models.LessonIndividual,
		StudentID:         lo.ToPtr(int64(7)),
		TeacherID:         lo.ToPtr(int64(2)),
	})
	require.NoError(t, err)
	assert.Equal(t, 10, result.Created)
	assert.Equal(t, int64(2), *repo.batches[0][0].TeacherID)
}

func TestCreateBulk_StoreFailure(t *testing.T) {
	svc, repo, notifier := newService()
	repo.err = errors.New("disk full")

	_, err := svc.CreateBulk(context.Background(), service.BulkLessonRequest{
		RecurrenceRequest: mondaysAndWednesdays(),
		Cost:              decimal.NewFromInt(1000),
		LessonType:        models.LessonIndividual,
		StudentID:         lo.ToPtr(int64(7)),
	})
	require.Error(t, err)
	assert.Empty(t, notifier.results)
}

func TestPreview_TruncatesToLimit(t *testing.T) {
	svc, _, _ := newService()

	result, err := svc.Preview(service.RecurrenceRequest{
		DaysOfWeek:      []int{0, 1, 2, 3, 4, 5, 6},
		StartDate:       "2024-03-01",
		EndDate:         "2024-03-31",
		Time:            "09:30",
		DurationMinutes: 45,
	})
	require.NoError(t, err)

	assert.Equal(t, 31, result.Total)
	assert.Len(t, result.Occurrences, 20)
}

func TestGetLessons(t *testing.T) {
	svc, repo, _ := newService()
	from := time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, -1, 0)

	_, err := svc.GetLessons(context.Background(), models.LessonFilter{From: &from, To: &to})
	assert.True(t, service.IsValidation(err))

	lessons, err := svc.GetLessons(context.Background(), models.LessonFilter{StudentID: lo.ToPtr(int64(7))})
	require.NoError(t, err)
	assert.Len(t, lessons, 1)
	assert.Equal(t, int64(7), *repo.filter.StudentID)
}
