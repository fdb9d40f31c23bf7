package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    slog.Level
	RedisURL    string
	DocTTL      time.Duration
}

func Load() (*Config, error) {
	ttl, err := parseTTL(getEnv("DOC_TTL", "24h"))
	if err != nil {
		return nil, err
	}

	return &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENVIRONMENT", "development"),
		LogLevel:    parseLogLevel(getEnv("LOG_LEVEL", "info")),
		RedisURL:    getEnv("REDIS_URL", "localhost:6379"),
		DocTTL:      ttl,
	}, nil
}

// parseTTL parses a Go duration; "0" disables expiration.
func parseTTL(s string) (time.Duration, error) {
	if s == "0" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid DOC_TTL %q: %w", s, err)
	}
	return d, nil
}

func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
