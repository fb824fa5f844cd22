package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// AppConfig holds all configuration for the application
type AppConfig struct {
	TelegramToken          string
	DatabaseURL            string
	LogLevel               string
	Environment            string
	DefaultCycleLength     int    // Assumed cycle length for users who never configured one
	CronSpecPhaseCheck     string // Daily sweep for phase transitions
	CronSpecWeeklyReminder string // Weekly "enter your cycle day" reminder
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	cfg.DatabaseURL = os.Getenv("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is not set")
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	cycleLengthStr := os.Getenv("DEFAULT_CYCLE_LENGTH")
	if cycleLengthStr == "" {
		cfg.DefaultCycleLength = 28
	} else {
		length, err := strconv.Atoi(cycleLengthStr)
		if err != nil || length < 1 {
			return nil, fmt.Errorf("invalid DEFAULT_CYCLE_LENGTH: %q", cycleLengthStr)
		}
		cfg.DefaultCycleLength = length
	}

	cfg.CronSpecPhaseCheck = os.Getenv("CRON_SPEC_PHASE_CHECK")
	if cfg.CronSpecPhaseCheck == "" {
		cfg.CronSpecPhaseCheck = "0 9 * * *" // Default: 9:00 AM daily
	}

	cfg.CronSpecWeeklyReminder = os.Getenv("CRON_SPEC_WEEKLY_REMINDER")
	if cfg.CronSpecWeeklyReminder == "" {
		cfg.CronSpecWeeklyReminder = "0 9 * * 1" // Default: 9:00 AM on Mondays
	}

	return cfg, nil
}
