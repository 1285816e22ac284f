package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite3"
)

// DatabaseConfig selects and tunes the database connection.
type DatabaseConfig struct {
	Driver          string
	Host            string
	Port            int
	Username        string
	Password        string
	Name            string
	SSLMode         string
	Path            string // sqlite file, used when Driver is sqlite3
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	AutoMigrate     bool // run embedded migrations on startup
}

// DSN builds the connection string for the configured driver.
func (db DatabaseConfig) DSN() string {
	if db.Driver == DriverSQLite {
		return db.Path + "?_foreign_keys=on&_busy_timeout=5000"
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		db.Host,
		db.Port,
		db.Username,
		db.Password,
		db.Name,
		db.SSLMode,
	)
}

// Load reads the environment (and an optional .env file) into a Config.
func Load() (*Config, error) {
	_ = godotenv.Load(".env", "../.env")

	env := getEnv("APP_ENV", "development")

	cfg := &Config{
		Environment: env,
		HTTP: HTTPConfig{
			Port:            getEnv("HTTP_PORT", "8080"),
			ReadTimeout:     getEnvAsDuration("HTTP_READ_TIMEOUT", 10*time.Second),
			WriteTimeout:    getEnvAsDuration("HTTP_WRITE_TIMEOUT", 30*time.Second),
			ShutdownTimeout: getEnvAsDuration("HTTP_SHUTDOWN_TIMEOUT", 10*time.Second),
		},
		Log: LogConfig{
			Level: strings.ToLower(getEnv("LOG_LEVEL", "info")),
		},
		Bot: BotConfig{
			Token:    getEnv("BOT_TOKEN", ""),
			Debug:    getEnvAsBool("BOT_DEBUG", env != "production"),
			AdminIDs: parseAdminIDs(getEnv("ADMIN_IDS", "")),
		},
		Database: DatabaseConfig{
			Driver:          getEnv("DB_DRIVER", DriverPostgres),
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			Username:        getEnv("DB_USER", ""),
			Password:        getEnv("DB_PASSWORD", ""),
			Name:            getEnv("DB_NAME", "tutor-desk"),
			SSLMode:         getSSLMode(env),
			Path:            getEnv("DB_PATH", "tutor-desk.db"),
			MaxOpenConns:    getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    getEnvAsInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: getEnvAsDuration("DB_CONN_MAX_LIFETIME", time.Hour),
			AutoMigrate:     getEnvAsBool("DB_AUTO_MIGRATE", false),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks required settings.
func (cfg *Config) validate() error {
	var errors []string

	switch cfg.Database.Driver {
	case DriverPostgres:
		if cfg.Database.Username == "" {
			errors = append(errors, "DB_USER is required")
		}
		if cfg.Database.Password == "" && cfg.IsProduction() {
			errors = append(errors, "DB_PASSWORD is required in production")
		}
	case DriverSQLite:
		if cfg.Database.Path == "" {
			errors = append(errors, "DB_PATH is required for sqlite3")
		}
	default:
		errors = append(errors, fmt.Sprintf("DB_DRIVER %q is not supported", cfg.Database.Driver))
	}

	if cfg.HTTP.Port == "" {
		errors = append(errors, "HTTP_PORT is required")
	}

	if len(errors) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errors, ", "))
	}

	return nil
}

// getSSLMode defaults to require in production and disable elsewhere.
func getSSLMode(env string) string {
	if mode := getEnv("DB_SSLMODE", ""); mode != "" {
		return mode
	}
	if env == "production" {
		return "require"
	}
	return "disable"
}

// parseAdminIDs reads a comma separated list of chat IDs, skipping bad entries.
func parseAdminIDs(ids string) []int64 {
	if ids == "" {
		return []int64{}
	}

	var result []int64
	for _, idStr := range strings.Split(ids, ",") {
		if id, err := strconv.ParseInt(strings.TrimSpace(idStr), 10, 64); err == nil {
			result = append(result, id)
		}
	}
	return result
}

func getEnv(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func getEnvAsInt(key string, fallback int) int {
	if v, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	if v, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return v
	}
	return fallback
}
