// Package repotest opens migrated SQLite databases for repository tests.
package repotest

import (
	"context"
	"path/filepath"
	"testing"

	"tutor-desk/internal/migrate"
	"tutor-desk/internal/models/config"
	database "tutor-desk/pkg"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// Open returns a fresh, fully migrated SQLite database in a temp dir.
func Open(t *testing.T) *sqlx.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver: config.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "tutor-desk.db"),
	}
	db, err := database.NewDatabase(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, migrate.Up(context.Background(), db.DB, cfg.Driver, zap.NewNop()))
	return db
}

// SeedStudent inserts a student and returns its id.
func SeedStudent(t *testing.T, db *sqlx.DB, firstName string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRowx(`INSERT INTO students (first_name) VALUES (?) RETURNING id`, firstName).Scan(&id)
	require.NoError(t, err)
	return id
}

// SeedTeacher inserts a teacher and returns its id.
func SeedTeacher(t *testing.T, db *sqlx.DB, firstName string) int64 {
	t.Helper()
	var id int64
	err := db.QueryRowx(`INSERT INTO teachers (first_name) VALUES (?) RETURNING id`, firstName).Scan(&id)
	require.NoError(t, err)
	return id
}

// Count returns the number of rows in table.
func Count(t *testing.T, db *sqlx.DB, table string) int {
	t.Helper()
	var n int
	require.NoError(t, db.Get(&n, `SELECT COUNT(*) FROM `+table))
	return n
}
