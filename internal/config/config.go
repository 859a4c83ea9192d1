package config

import (
	"log/slog"
	"os"
	"strings"
	"time"
)

type Config struct {
	Environment string
	LogLevel    slog.Level

	// Catalogs read at startup
	LocationsFile string
	ExitsFile     string

	// Catalogs written by export
	ExportLocationsFile string
	ExportExitsFile     string

	RedisURL string
	WorldTTL time.Duration // 0 keeps saved worlds forever
}

func Load() *Config {
	return &Config{
		Environment:         getEnv("ENVIRONMENT", "development"),
		LogLevel:            parseLogLevel(getEnv("LOG_LEVEL", "info")),
		LocationsFile:       getEnv("LOCATIONS_FILE", "locations_big.txt"),
		ExitsFile:           getEnv("EXITS_FILE", "directions_big.txt"),
		ExportLocationsFile: getEnv("EXPORT_LOCATIONS_FILE", "locations.txt"),
		ExportExitsFile:     getEnv("EXPORT_EXITS_FILE", "directions.txt"),
		RedisURL:            getEnv("REDIS_URL", "redis://localhost:6379/0"),
		WorldTTL:            parseDuration(getEnv("WORLD_TTL", "0")),
	}
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

func parseDuration(value string) time.Duration {
	d, err := time.ParseDuration(value)
	if err != nil || d < 0 {
		return 0
	}
	return d
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
