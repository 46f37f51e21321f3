// Package config loads runtime configuration from the environment.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string

	// DatabaseURL selects PostgreSQL; empty runs on the in-memory store.
	DatabaseURL string

	// WebDir serves a static front-end when set.
	WebDir string

	// Timezone defines the calendar used for "today".
	Timezone string
	// Location is Timezone resolved.
	Location *time.Location

	Redis RedisConfig
	Log   LogConfig
}

// RedisConfig holds Redis connection settings for cross-process locking.
type RedisConfig struct {
	// Addr in host:port form; empty keeps locking in-process.
	Addr     string
	Password string
	DB       int
	LockTTL  time.Duration
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level      string
	Path       string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// Load reads an optional .env file (or the files named) and then the
// environment. Variables already set in the environment win.
func Load(files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("config: load env file: %w", err)
	}

	cfg := &Config{
		Addr:        env("ADDR", ":8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		WebDir:      os.Getenv("WEB_DIR"),
		Timezone:    env("TZ_NAME", "Local"),
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
		},
		Log: LogConfig{
			Level: env("LOG_LEVEL", "info"),
			Path:  os.Getenv("LOG_PATH"),
		},
	}

	var err error
	if cfg.Redis.DB, err = envInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.Redis.LockTTL, err = envDuration("LOCK_TTL", 10*time.Second); err != nil {
		return nil, err
	}
	if cfg.Log.MaxSizeMB, err = envInt("LOG_MAX_SIZE_MB", 100); err != nil {
		return nil, err
	}
	if cfg.Log.MaxBackups, err = envInt("LOG_MAX_BACKUPS", 3); err != nil {
		return nil, err
	}
	if cfg.Log.MaxAgeDays, err = envInt("LOG_MAX_AGE_DAYS", 7); err != nil {
		return nil, err
	}
	if cfg.Log.Compress, err = envBool("LOG_COMPRESS", false); err != nil {
		return nil, err
	}

	cfg.Location, err = time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("config: TZ_NAME: %w", err)
	}
	return cfg, nil
}

func env(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}

func envBool(key string, fallback bool) (bool, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("config: %s: %w", key, err)
	}
	return b, nil
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}
