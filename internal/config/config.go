package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config keeps runtime settings for the server.
type Config struct {
	HTTPAddr        string
	DatabaseURL     string
	JWTSecret       string
	DailyBudgetMin  int
	RefreshInterval time.Duration
}

// Load reads configuration from environment variables with sane defaults.
func Load() (Config, error) {
	cfg := Config{
		HTTPAddr:        strings.TrimSpace(os.Getenv("HTTP_ADDR")),
		DatabaseURL:     strings.TrimSpace(os.Getenv("DATABASE_URL")),
		JWTSecret:       strings.TrimSpace(os.Getenv("JWT_SECRET")),
		DailyBudgetMin:  parseMinutes(strings.TrimSpace(os.Getenv("DAILY_BUDGET_MIN"))),
		RefreshInterval: parseInterval(strings.TrimSpace(os.Getenv("ANALYTICS_REFRESH_HOURS"))),
	}

	if cfg.HTTPAddr == "" {
		cfg.HTTPAddr = ":8080"
	}

	if cfg.DatabaseURL == "" {
		cfg.DatabaseURL = "time_planner.db"
	}

	if cfg.DailyBudgetMin == 0 {
		cfg.DailyBudgetMin = 720
	}

	if cfg.JWTSecret == "" {
		return cfg, fmt.Errorf("JWT_SECRET is required")
	}

	return cfg, nil
}

func parseMinutes(raw string) int {
	if raw == "" {
		return 0
	}
	min, err := strconv.Atoi(raw)
	if err != nil || min <= 0 {
		return 0
	}
	return min
}

func parseInterval(raw string) time.Duration {
	if raw == "" {
		return 0
	}
	hours, err := time.ParseDuration(raw + "h")
	if err != nil || hours <= 0 {
		return 0
	}
	return hours
}
