package config

import "time"

// Config is the application configuration.
type Config struct {
	Environment string
	HTTP        HTTPConfig
	Log         LogConfig
	Bot         BotConfig
	Database    DatabaseConfig
}

type HTTPConfig struct {
	Port            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type LogConfig struct {
	Level string
}

// BotConfig is optional: without a token admin notifications are disabled.
type BotConfig struct {
	Token    string
	Debug    bool
	AdminIDs []int64 // chat IDs that receive notifications
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
