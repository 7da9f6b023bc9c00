package common

import (
	"errors"
	"log/slog"
	"testing"
	"time"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("SCAN2PDF_OCR_BINARY", "")
	t.Setenv("SCAN2PDF_OCR_LANGUAGE", "")
	t.Setenv("SCAN2PDF_WATCH_DEBOUNCE", "")

	cfg := LoadConfig()
	if cfg.OCR.Binary != "ocrmypdf" {
		t.Errorf("OCR.Binary = %q, want ocrmypdf", cfg.OCR.Binary)
	}
	if cfg.OCR.Language != "eng" {
		t.Errorf("OCR.Language = %q, want eng", cfg.OCR.Language)
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("Watch.Debounce = %v, want 2s", cfg.Watch.Debounce)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("SCAN2PDF_OCR_LANGUAGE", "deu")
	t.Setenv("SCAN2PDF_EVENT_BUFFER", "8")
	t.Setenv("SCAN2PDF_LOG_LEVEL", "DEBUG")
	t.Setenv("SCAN2PDF_WATCH_DEBOUNCE", "not-a-duration")

	cfg := LoadConfig()
	if cfg.OCR.Language != "deu" {
		t.Errorf("OCR.Language = %q, want deu", cfg.OCR.Language)
	}
	if cfg.Runner.EventBuffer != 8 {
		t.Errorf("Runner.EventBuffer = %d, want 8", cfg.Runner.EventBuffer)
	}
	if cfg.Log.SlogLevel() != slog.LevelDebug {
		t.Errorf("Log.SlogLevel() = %v, want debug", cfg.Log.SlogLevel())
	}
	if cfg.Watch.Debounce != 2*time.Second {
		t.Errorf("unparseable duration should fall back to default, got %v", cfg.Watch.Debounce)
	}
}

func TestConfigValidate(t *testing.T) {
	cfg := LoadConfig()
	cfg.OCR.Binary = ""
	cfg.Log.Level = "verbose"
	cfg.Runner.EventBuffer = 0

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation error")
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Errorf("expected ErrInvalidInput, got %v", err)
	}
	if ErrorCode(err) != CodeConfig {
		t.Errorf("ErrorCode = %q, want %q", ErrorCode(err), CodeConfig)
	}
}
