package migrate

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"tutor-desk/internal/models/config"
	"tutor-desk/migrations"

	"github.com/pressly/goose/v3"
	"go.uber.org/zap"
)

// gooseLogger sends goose progress lines to zap instead of the stdlib logger.
type gooseLogger struct {
	log *zap.SugaredLogger
}

func (l gooseLogger) Printf(format string, v ...interface{}) {
	l.log.Info(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (l gooseLogger) Fatalf(format string, v ...interface{}) {
	l.log.Fatal(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

// Up runs the embedded goose migrations for the given driver.
func Up(ctx context.Context, db *sql.DB, driver string, log *zap.Logger) error {
	dir, err := dialectDir(driver)
	if err != nil {
		return err
	}

	goose.SetBaseFS(migrations.Files)
	goose.SetLogger(gooseLogger{log: log.Named("migrate").Sugar()})
	goose.SetVerbose(false)
	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("goose dialect: %w", err)
	}

	if err := goose.UpContext(ctx, db, dir); err != nil {
		return fmt.Errorf("goose up: %w", err)
	}
	return nil
}

func dialectDir(driver string) (string, error) {
	switch driver {
	case config.DriverPostgres:
		return "postgres", nil
	case config.DriverSQLite:
		return "sqlite", nil
	}
	return "", fmt.Errorf("no migrations for driver %q", driver)
}
