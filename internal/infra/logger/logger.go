// internal/infra/logger/logger.go
package logger

import (
	"io"
	"os"
	"strings"

	"homework_status_bot/internal/infra/config"

	"github.com/sirupsen/logrus"
)

// New builds the application logger from configuration.
func New(cfg *config.AppConfig) *logrus.Logger {
	return NewWithOutput(cfg, os.Stdout)
}

// NewWithOutput is New with an explicit destination.
func NewWithOutput(cfg *config.AppConfig, out io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(out)

	// Set Log Level
	level, err := logrus.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil {
		log.Warnf("Invalid log level '%s', defaulting to 'info'. Error: %v", cfg.LogLevel, err)
		log.SetLevel(logrus.InfoLevel)
	} else {
		log.SetLevel(level)
	}

	// Set Log Formatter
	if cfg.Environment == "production" || cfg.Environment == "staging" {
		log.SetFormatter(&logrus.JSONFormatter{
			TimestampFormat: "2006-01-02T15:04:05.000Z07:00", // ISO8601
		})
	} else { // Development or other environments
		log.SetFormatter(&logrus.TextFormatter{
			FullTimestamp:   true,
			TimestampFormat: "2006-01-02 15:04:05",
		})
	}

	log.Debugf("Log level set to: %s", log.GetLevel().String())
	log.Debugf("Log format set for environment: %s", cfg.Environment)
	return log
}

// Component returns an entry tagged with the component name.
func Component(log *logrus.Logger, name string) *logrus.Entry {
	return log.WithField("component", name)
}
