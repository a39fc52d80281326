package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPlatformURL   = "https://jdyl.me/?ref=tg"
	defaultDatabaseURL   = "users.db"
	defaultLogLevel      = "info"
	defaultAppEnv        = "development"
	defaultStatsInterval = 24 * time.Hour
)

// Config keeps runtime settings for the bot.
type Config struct {
	TelegramToken string
	PlatformURL   string
	DatabaseURL   string
	LogLevel      string
	SentryDSN     string
	AppEnv        string
	StatsInterval time.Duration
	StatsDailyAt  string
}

// Load reads configuration from environment variables, preloading a .env file when present.
func Load() (Config, error) {
	// Missing .env is fine, the process environment wins anyway.
	_ = godotenv.Load()

	cfg := Config{
		TelegramToken: strings.TrimSpace(os.Getenv("TELEGRAM_TOKEN")),
		PlatformURL:   getEnv("PLATFORM_URL", defaultPlatformURL),
		DatabaseURL:   getEnv("DATABASE_URL", defaultDatabaseURL),
		LogLevel:      getEnv("LOG_LEVEL", defaultLogLevel),
		SentryDSN:     strings.TrimSpace(os.Getenv("SENTRY_DSN")),
		AppEnv:        getEnv("APP_ENV", defaultAppEnv),
		StatsDailyAt:  strings.TrimSpace(os.Getenv("STATS_DAILY_AT")),
	}

	interval, err := parseInterval(strings.TrimSpace(os.Getenv("STATS_INTERVAL_HOURS")))
	if err != nil {
		return cfg, err
	}
	cfg.StatsInterval = interval

	if cfg.TelegramToken == "" {
		return cfg, fmt.Errorf("TELEGRAM_TOKEN is required")
	}

	u, err := url.Parse(cfg.PlatformURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return cfg, fmt.Errorf("PLATFORM_URL must be an absolute http(s) URL, got %q", cfg.PlatformURL)
	}

	return cfg, nil
}

// getEnv returns the trimmed variable or fallback when it is unset or blank.
func getEnv(key, fallback string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return fallback
}

// parseInterval treats an empty value as the default and "0" as disabled.
func parseInterval(raw string) (time.Duration, error) {
	if raw == "" {
		return defaultStatsInterval, nil
	}
	hours, err := strconv.Atoi(raw)
	if err != nil || hours < 0 {
		return 0, fmt.Errorf("STATS_INTERVAL_HOURS must be a non-negative integer, got %q", raw)
	}
	return time.Duration(hours) * time.Hour, nil
}
