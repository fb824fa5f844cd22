package config

import (
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("LOG_LEVEL", "")
	t.Setenv("ENVIRONMENT", "")
	t.Setenv("DEFAULT_CYCLE_LENGTH", "")
	t.Setenv("CRON_SPEC_PHASE_CHECK", "")
	t.Setenv("CRON_SPEC_WEEKLY_REMINDER", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.LogLevel != "info" {
		t.Errorf("log level = %q, want info", cfg.LogLevel)
	}
	if cfg.Environment != "development" {
		t.Errorf("environment = %q, want development", cfg.Environment)
	}
	if cfg.DefaultCycleLength != 28 {
		t.Errorf("default cycle length = %d, want 28", cfg.DefaultCycleLength)
	}
	if cfg.CronSpecPhaseCheck != "0 9 * * *" {
		t.Errorf("phase check cron = %q, want daily 9:00", cfg.CronSpecPhaseCheck)
	}
	if cfg.CronSpecWeeklyReminder != "0 9 * * 1" {
		t.Errorf("weekly reminder cron = %q, want Monday 9:00", cfg.CronSpecWeeklyReminder)
	}
}

func TestLoadMissingToken(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing TELEGRAM_TOKEN")
	}
}

func TestLoadMissingDatabaseURL(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("DATABASE_URL", "")

	if _, err := Load(); err == nil {
		t.Fatal("expected error for missing DATABASE_URL")
	}
}

func TestLoadInvalidCycleLength(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")

	for _, bad := range []string{"abc", "0", "-3"} {
		t.Setenv("DEFAULT_CYCLE_LENGTH", bad)
		if _, err := Load(); err == nil {
			t.Errorf("DEFAULT_CYCLE_LENGTH=%q: expected error", bad)
		}
	}
}

func TestLoadCaseNormalization(t *testing.T) {
	t.Setenv("TELEGRAM_TOKEN", "test-token")
	t.Setenv("DATABASE_URL", "postgres://localhost/test")
	t.Setenv("LOG_LEVEL", "DEBUG")
	t.Setenv("ENVIRONMENT", "Production")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("log level = %q, want debug", cfg.LogLevel)
	}
	if cfg.Environment != "production" {
		t.Errorf("environment = %q, want production", cfg.Environment)
	}
}
