package lesson

import (
	"context"
	"fmt"
	"strings"
	"time"

	"tutor-desk/internal/models"
	"tutor-desk/internal/repository"

	"github.com/jmoiron/sqlx"
)

type lessonRepository struct {
	db *sqlx.DB
}

func NewLessonRepository(db *sqlx.DB) repository.LessonRepository {
	return &lessonRepository{db: db}
}

// CreateBatch inserts all lessons in one transaction; either every lesson is
// stored or none is.
func (r *lessonRepository) CreateBatch(ctx context.Context, lessons []*models.Lesson) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := tx.Rebind(`
		INSERT INTO lessons
		(student_id, teacher_id, group_key, starts_at, ends_at, cost,
		 is_paid, is_cancelled, is_completed, notes, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`)

	now := time.Now().UTC()
	for _, lesson := range lessons {
		lesson.CreatedAt = now
		err := tx.QueryRowxContext(ctx, query,
			lesson.StudentID,
			lesson.TeacherID,
			lesson.GroupKey,
			lesson.StartsAt,
			lesson.EndsAt,
			lesson.Cost,
			lesson.IsPaid,
			lesson.IsCancelled,
			lesson.IsCompleted,
			lesson.Notes,
			lesson.CreatedAt,
		).Scan(&lesson.ID)
		if err != nil {
			return fmt.Errorf("insert lesson at %s: %w", lesson.StartsAt.Format(time.RFC3339), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit lessons: %w", err)
	}
	return nil
}

func (r *lessonRepository) GetByFilter(ctx context.Context, filter models.LessonFilter) ([]models.Lesson, error) {
	where := []string{}
	args := []any{}

	if filter.From != nil {
		where = append(where, "starts_at >= ?")
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		where = append(where, "starts_at < ?")
		args = append(args, *filter.To)
	}
	if filter.StudentID != nil {
		where = append(where, "student_id = ?")
		args = append(args, *filter.StudentID)
	}

	query := `
		SELECT id, student_id, teacher_id, group_key, starts_at, ends_at, cost,
		       is_paid, is_cancelled, is_completed, notes, created_at
		FROM lessons`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY starts_at, id"

	var lessons []models.Lesson
	if err := r.db.SelectContext(ctx, &lessons, r.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("select lessons: %w", err)
	}
	return lessons, nil
}
