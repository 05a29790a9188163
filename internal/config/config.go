// Package config loads runtime settings from the environment, with a .env
// file picked up when present.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config carries every runtime knob of the service.
type Config struct {
	BotToken string // Telegram bot token, required
	Addr     string // HTTP listen address
	DBPath   string // SQLite database file
	LogLevel string // debug | info | warn | error

	ReminderInterval time.Duration // reminder sweep period
	SurveyHour       int           // hour of day for the no-show survey

	SeedAdminIDs  []int64 // admins installed on first run
	PublicBaseURL string  // external base URL for QR links, optional
}

// Load reads the environment. A missing .env file is not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		BotToken:         os.Getenv("BOT_TOKEN"),
		Addr:             envOr("ADDR", ":8080"),
		DBPath:           envOr("DB_PATH", "donor.db"),
		LogLevel:         envOr("LOG_LEVEL", "info"),
		ReminderInterval: envDuration("REMINDER_INTERVAL", 10*time.Minute),
		SurveyHour:       envInt("SURVEY_HOUR", 0),
		PublicBaseURL:    os.Getenv("PUBLIC_BASE_URL"),
	}

	for _, part := range strings.Split(os.Getenv("SEED_ADMIN_IDS"), ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.ParseInt(part, 10, 64)
		if err != nil {
			continue
		}
		cfg.SeedAdminIDs = append(cfg.SeedAdminIDs, id)
	}
	return cfg, nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func envDuration(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}
