package common

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

var validate = validator.New()

// Config holds all application configuration
type Config struct {
	OCR     OCRConfig
	Runner  RunnerConfig
	Watch   WatchConfig
	Metrics MetricsConfig
	Log     LogConfig
}

// OCRConfig holds OCR-related configuration
type OCRConfig struct {
	Binary   string        `validate:"required"`
	Language string        `validate:"required"`
	Timeout  time.Duration `validate:"gte=0"`
}

// RunnerConfig holds batch runner configuration
type RunnerConfig struct {
	TempDir     string `validate:"required"`
	EventBuffer int    `validate:"gte=1"`
}

// WatchConfig holds directory watch configuration
type WatchConfig struct {
	Debounce time.Duration `validate:"gte=0"`
}

// MetricsConfig holds the optional /metrics listener address
type MetricsConfig struct {
	Addr string `validate:"omitempty,hostname_port"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level string `validate:"oneof=debug info warn error"`
}

// LoadConfig loads configuration from environment variables, after applying .env if present.
func LoadConfig() *Config {
	_ = godotenv.Load()

	return &Config{
		OCR: OCRConfig{
			Binary:   getEnv("SCAN2PDF_OCR_BINARY", "ocrmypdf"),
			Language: getEnv("SCAN2PDF_OCR_LANGUAGE", "eng"),
			Timeout:  getEnvAsDuration("SCAN2PDF_OCR_TIMEOUT", 10*time.Minute),
		},
		Runner: RunnerConfig{
			TempDir:     getEnv("SCAN2PDF_TEMP_DIR", os.TempDir()),
			EventBuffer: getEnvAsInt("SCAN2PDF_EVENT_BUFFER", 64),
		},
		Watch: WatchConfig{
			Debounce: getEnvAsDuration("SCAN2PDF_WATCH_DEBOUNCE", 2*time.Second),
		},
		Metrics: MetricsConfig{
			Addr: getEnv("SCAN2PDF_METRICS_ADDR", ""),
		},
		Log: LogConfig{
			Level: strings.ToLower(getEnv("SCAN2PDF_LOG_LEVEL", "info")),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate validates the loaded configuration
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewAppError(CodeConfig, "invalid configuration", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return NewAppError(CodeConfig, strings.Join(msgs, "; "), ErrInvalidInput)
}

// SlogLevel maps the configured level name to a slog.Level.
func (c LogConfig) SlogLevel() slog.Level {
	switch c.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
