package teacher

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tutor-desk/internal/models"
	"tutor-desk/internal/repository"

	"github.com/jmoiron/sqlx"
)

type teacherRepository struct {
	db *sqlx.DB
}

func NewTeacherRepository(db *sqlx.DB) repository.TeacherRepository {
	return &teacherRepository{db: db}
}

func (r *teacherRepository) GetByID(ctx context.Context, id int64) (*models.Teacher, error) {
	query := r.db.Rebind(`
		SELECT id, first_name, last_name, specialty, created_at
		FROM teachers
		WHERE id = ?
	`)

	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select teacher: %w", err)
	}
	return &teacher, nil
}
