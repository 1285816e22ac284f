package student

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tutor-desk/internal/models"
	"tutor-desk/internal/repository"

	"github.com/jmoiron/sqlx"
)

type studentRepository struct {
	db *sqlx.DB
}

func NewStudentRepository(db *sqlx.DB) repository.StudentRepository {
	return &studentRepository{db: db}
}

func (r *studentRepository) GetByID(ctx context.Context, id int64) (*models.Student, error) {
	query := r.db.Rebind(`
		SELECT id, first_name, last_name, phone, created_at
		FROM students
		WHERE id = ?
	`)

	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("select student: %w", err)
	}
	return &student, nil
}
