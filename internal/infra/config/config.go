package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings" // For LogLevel normalization
	"time"

	"github.com/joho/godotenv"
)

const (
	DefaultEndpoint     = "https://practicum.yandex.ru/api/user_api/homework_statuses/"
	DefaultPollSchedule = "@every 10m"
	DefaultHTTPTimeout  = 30 * time.Second
)

// ErrMissingEnv is returned when required environment variables are absent.
var ErrMissingEnv = errors.New("required environment variables are missing")

// AppConfig holds all configuration for the application
type AppConfig struct {
	PracticumToken       string
	PracticumEndpoint    string
	TelegramToken        string
	TelegramChatID       int64
	TelegramAPIURL       string // Empty means the public Bot API
	PollSchedule         string
	HTTPTimeout          time.Duration
	NotifyRepeatedStatus bool   // Re-send an unchanged newest status on every poll
	DatabaseURL          string // Optional, enables the delivery journal
	LogLevel             string
	Environment          string
}

// Load reads configuration from environment variables and .env file (if present).
func Load() (*AppConfig, error) {
	// Attempt to load .env file. Errors are ignored if the file doesn't exist.
	// godotenv.Load will not override existing env variables.
	_ = godotenv.Load()

	cfg := &AppConfig{
		PracticumToken: os.Getenv("PRACTICUM_TOKEN"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		TelegramAPIURL: os.Getenv("TELEGRAM_API_URL"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
	}
	chatIDStr := os.Getenv("TELEGRAM_CHAT_ID")

	var missing []string
	if cfg.PracticumToken == "" {
		missing = append(missing, "PRACTICUM_TOKEN")
	}
	if cfg.TelegramToken == "" {
		missing = append(missing, "TELEGRAM_TOKEN")
	}
	if chatIDStr == "" {
		missing = append(missing, "TELEGRAM_CHAT_ID")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrMissingEnv, strings.Join(missing, ", "))
	}

	var err error
	cfg.TelegramChatID, err = strconv.ParseInt(chatIDStr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid TELEGRAM_CHAT_ID: %w", err)
	}

	cfg.PracticumEndpoint = os.Getenv("PRACTICUM_ENDPOINT")
	if cfg.PracticumEndpoint == "" {
		cfg.PracticumEndpoint = DefaultEndpoint
	}

	cfg.PollSchedule = os.Getenv("POLL_SCHEDULE")
	if cfg.PollSchedule == "" {
		cfg.PollSchedule = DefaultPollSchedule
	}

	cfg.HTTPTimeout = DefaultHTTPTimeout
	if v := os.Getenv("HTTP_TIMEOUT"); v != "" {
		cfg.HTTPTimeout, err = time.ParseDuration(v)
		if err != nil {
			return nil, fmt.Errorf("invalid HTTP_TIMEOUT: %w", err)
		}
	}

	if v := os.Getenv("NOTIFY_REPEATED_STATUS"); v != "" {
		cfg.NotifyRepeatedStatus, err = strconv.ParseBool(v)
		if err != nil {
			return nil, fmt.Errorf("invalid NOTIFY_REPEATED_STATUS: %w", err)
		}
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
