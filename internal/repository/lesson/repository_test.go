package lesson

import (
	"context"
	"errors"
	"testing"
	"time"

	"tutor-desk/internal/models"
	"tutor-desk/internal/repository/repotest"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func at(day, hour int) time.Time {
	return time.Date(2024, 1, day, hour, 0, 0, 0, time.UTC)
}

func TestCreateBatchAndFilter_SQLite(t *testing.T) {
	db := repotest.Open(t)
	repo := NewLessonRepository(db)
	anna := repotest.SeedStudent(t, db, "Anna")
	boris := repotest.SeedStudent(t, db, "Boris")
	key := uuid.NullUUID{UUID: uuid.New(), Valid: true}

	lessons := []*models.Lesson{
		{StudentID: &anna, GroupKey: key, StartsAt: at(1, 15), EndsAt: at(1, 16), Cost: decimal.NewFromInt(500), IsPaid: true},
		{StudentID: &boris, GroupKey: key, StartsAt: at(1, 15), EndsAt: at(1, 16), Cost: decimal.NewFromInt(500)},
		{StudentID: &anna, GroupKey: key, StartsAt: at(8, 15), EndsAt: at(8, 16), Cost: decimal.NewFromInt(500)},
	}
	require.NoError(t, repo.CreateBatch(context.Background(), lessons))
	for _, l := range lessons {
		assert.NotZero(t, l.ID)
	}

	all, err := repo.GetByFilter(context.Background(), models.LessonFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, key, all[0].GroupKey)
	assert.True(t, all[0].IsPaid)
	assert.True(t, all[0].Cost.Equal(decimal.NewFromInt(500)))

	from, to := at(1, 0), at(2, 0)
	firstDay, err := repo.GetByFilter(context.Background(), models.LessonFilter{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, firstDay, 2)

	annas, err := repo.GetByFilter(context.Background(), models.LessonFilter{StudentID: &anna})
	require.NoError(t, err)
	assert.Len(t, annas, 2)
	assert.True(t, annas[0].StartsAt.Before(annas[1].StartsAt))
}

func TestCreateBatch_AllOrNothing_SQLite(t *testing.T) {
	db := repotest.Open(t)
	repo := NewLessonRepository(db)
	anna := repotest.SeedStudent(t, db, "Anna")

	err := repo.CreateBatch(context.Background(), []*models.Lesson{
		{StudentID: &anna, StartsAt: at(1, 15), EndsAt: at(1, 16), Cost: decimal.NewFromInt(500)},
		{StudentID: lo.ToPtr(int64(404)), StartsAt: at(8, 15), EndsAt: at(8, 16), Cost: decimal.NewFromInt(500)},
	})
	require.Error(t, err)
	assert.Zero(t, repotest.Count(t, db, "lessons"))
}

func TestGetByFilter_BuildsWhereClause(t *testing.T) {
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer mockDB.Close()
	repo := NewLessonRepository(sqlx.NewDb(mockDB, "sqlmock"))

	studentID := int64(3)
	from := at(1, 0)
	mock.ExpectQuery(`FROM lessons WHERE starts_at >= \? AND student_id = \? ORDER BY starts_at, id`).
		WithArgs(from, studentID).
		WillReturnError(errors.New("boom"))

	_, err = repo.GetByFilter(context.Background(), models.LessonFilter{From: &from, StudentID: &studentID})
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
