package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"silver_bullet_notifier/internal/domain/session"
)

// AppConfig holds all configuration for the application.
type AppConfig struct {
	TelegramToken     string
	TelegramChatID    int64
	Sessions          []session.Definition
	LeadTimesMinutes  []int // ordered, deduplicated, non-negative; 0 = at session start
	ReferenceTimezone string
	DisplayTimezone   string
	PollInterval      time.Duration
	RunDuration       time.Duration // wall-clock lifetime before the scheduled shutdown
	LedgerFile        string
	CleanupMarkerFile string
	LogLevel          string
	Environment       string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{}
	var err error

	cfg.TelegramToken = os.Getenv("TELEGRAM_TOKEN")
	if cfg.TelegramToken == "" {
		return nil, fmt.Errorf("TELEGRAM_TOKEN is not set")
	}

	chatIDStr := os.Getenv("TELEGRAM_CHAT_ID")
	if chatIDStr == "" {
		return nil, fmt.Errorf("TELEGRAM_CHAT_ID is not set")
	}
	cfg.TelegramChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
	}

	sessionsStr := os.Getenv("SESSIONS")
	if sessionsStr == "" {
		// The three Silver Bullet windows, NY time.
		sessionsStr = "Session 1=03:00-04:00,Session 2=10:00-11:00,Session 3=14:00-15:00"
	}
	cfg.Sessions, err = ParseSessions(sessionsStr)
	if err != nil {
		return nil, fmt.Errorf("invalid SESSIONS: %w", err)
	}

	leadTimesStr := os.Getenv("LEAD_TIMES_MINUTES")
	if leadTimesStr == "" {
		leadTimesStr = "30,5,0" // notify 30 and 5 minutes before, and at session start
	}
	cfg.LeadTimesMinutes, err = ParseLeadTimes(leadTimesStr)
	if err != nil {
		return nil, fmt.Errorf("invalid LEAD_TIMES_MINUTES: %w", err)
	}

	cfg.ReferenceTimezone = os.Getenv("REFERENCE_TIMEZONE")
	if cfg.ReferenceTimezone == "" {
		cfg.ReferenceTimezone = "America/New_York"
	}

	cfg.DisplayTimezone = os.Getenv("DISPLAY_TIMEZONE")
	if cfg.DisplayTimezone == "" {
		cfg.DisplayTimezone = "Europe/Moscow"
	}

	cfg.PollInterval, err = durationEnv("POLL_INTERVAL", 60*time.Second)
	if err != nil {
		return nil, err
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("POLL_INTERVAL must be positive")
	}

	// Default leaves a half-hour gap for the external daily-restart supervisor.
	cfg.RunDuration, err = durationEnv("RUN_DURATION", 23*time.Hour+30*time.Minute)
	if err != nil {
		return nil, err
	}
	if cfg.RunDuration <= 0 {
		return nil, fmt.Errorf("RUN_DURATION must be positive")
	}

	cfg.LedgerFile = os.Getenv("LEDGER_FILE")
	if cfg.LedgerFile == "" {
		cfg.LedgerFile = "message_ids.log"
	}

	cfg.CleanupMarkerFile = os.Getenv("CLEANUP_MARKER_FILE")
	if cfg.CleanupMarkerFile == "" {
		cfg.CleanupMarkerFile = "last_cleanup.txt"
	}

	cfg.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info" // Default log level
	}

	cfg.Environment = strings.ToLower(os.Getenv("ENVIRONMENT"))
	if cfg.Environment == "" {
		cfg.Environment = "development" // Default environment
	}

	return cfg, nil
}

// ParseSessions parses a comma-separated list of "Name=HH:MM-HH:MM" entries,
// e.g. "Session 1=03:00-04:00,Session 2=10:00-11:00".
func ParseSessions(s string) ([]session.Definition, error) {
	var defs []session.Definition
	for _, entry := range strings.Split(s, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, window, ok := strings.Cut(entry, "=")
		if !ok {
			return nil, fmt.Errorf("session entry %q: expected Name=HH:MM-HH:MM", entry)
		}
		startStr, endStr, ok := strings.Cut(window, "-")
		if !ok {
			return nil, fmt.Errorf("session entry %q: expected time window HH:MM-HH:MM", entry)
		}
		start, err := session.ParseTimeOfDay(strings.TrimSpace(startStr))
		if err != nil {
			return nil, fmt.Errorf("session entry %q: %w", entry, err)
		}
		end, err := session.ParseTimeOfDay(strings.TrimSpace(endStr))
		if err != nil {
			return nil, fmt.Errorf("session entry %q: %w", entry, err)
		}
		def := session.Definition{Name: strings.TrimSpace(name), Start: start, End: end}
		if err := def.Validate(); err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	if len(defs) == 0 {
		return nil, fmt.Errorf("no sessions configured")
	}
	return defs, nil
}

// ParseLeadTimes parses a comma-separated minute list such as "30,5,0",
// preserving order and dropping duplicates.
func ParseLeadTimes(s string) ([]int, error) {
	var leads []int
	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		minutes, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("lead time %q is not an integer", part)
		}
		if minutes < 0 {
			return nil, fmt.Errorf("lead time %d must be non-negative", minutes)
		}
		if seen[minutes] {
			continue
		}
		seen[minutes] = true
		leads = append(leads, minutes)
	}
	if len(leads) == 0 {
		return nil, fmt.Errorf("no lead times configured")
	}
	return leads, nil
}

func durationEnv(key string, fallback time.Duration) (time.Duration, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
