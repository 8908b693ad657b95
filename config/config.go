package config

import (
	"log/slog"
	"strings"
)

const defaultBaseURL = "http://localhost:8080/seyren"

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - notifications.go: Channel and transport configuration
//   - redis.go: Delivery ledger storage
//   - observability.go: Metrics configuration
type AppConfig struct {
	// BaseURL is the public Seyren URL used to build check links.
	BaseURL string `env:"SEYREN_URL" envDefault:"http://localhost:8080/seyren"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	Notifications NotificationsConfig
	Dispatch      DispatchConfig
	Redis         RedisConfig `envPrefix:"REDIS_"`
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.BaseURL = strings.TrimRight(strings.TrimSpace(c.BaseURL), "/")
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	c.LogLevel = strings.ToLower(strings.TrimSpace(c.LogLevel))

	c.Notifications.Sanitize()
	c.Dispatch.Sanitize()
	c.Redis.Sanitize()
	c.Observability.Sanitize()
}

// SlogLevel maps LogLevel onto a slog level, defaulting to info.
func (c *AppConfig) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// DispatchConfig controls how many checks are dispatched in parallel.
type DispatchConfig struct {
	Concurrency int `env:"DISPATCH_CONCURRENCY" envDefault:"4"`
}

// Sanitize enforces a positive worker count.
func (c *DispatchConfig) Sanitize() {
	if c.Concurrency <= 0 {
		c.Concurrency = 4
	}
	if c.Concurrency > 64 {
		c.Concurrency = 64
	}
}
