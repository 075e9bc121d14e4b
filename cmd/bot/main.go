package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/domain/notification"
	"homework_status_bot/internal/infra/config"
	idb "homework_status_bot/internal/infra/database"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Could not load configuration, the bot is stopped")
	}

	log := logger.New(cfg)
	mainLogger := logger.Component(log, "main")
	mainLogger.WithFields(logrus.Fields{
		"environment":   cfg.Environment,
		"poll_schedule": cfg.PollSchedule,
		"chat_id":       cfg.TelegramChatID,
	}).Info("Homework status bot starting...")

	// Initialize Telegram Bot
	bot, err := telegram.NewBot(telegram.BotConfig{
		Token:   cfg.TelegramToken,
		APIURL:  cfg.TelegramAPIURL,
		Timeout: cfg.HTTPTimeout,
	}, logger.Component(log, "telebot"))
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create Telegram bot")
	}

	fetcher := practicum.NewClient(practicum.ClientConfig{
		Endpoint: cfg.PracticumEndpoint,
		Token:    cfg.PracticumToken,
		Timeout:  cfg.HTTPTimeout,
	})

	waiter, err := scheduler.NewIntervalScheduler(cfg.PollSchedule, logger.Component(log, "scheduler"))
	if err != nil {
		mainLogger.WithError(err).Fatal("Could not create poll scheduler")
	}

	// Optional delivery journal. Opened last so no Fatal skips db.Close.
	var journal notification.Journal = notification.NopJournal{}
	if cfg.DatabaseURL != "" {
		db, err := idb.NewPostgresConnection(cfg.DatabaseURL)
		if err != nil {
			mainLogger.WithError(err).Warn("Journal database unavailable, delivered messages will not be recorded")
		} else {
			defer db.Close()
			repo := idb.NewPostgresJournalRepository(db)
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			err = repo.EnsureSchema(ctx)
			cancel()
			if err != nil {
				mainLogger.WithError(err).Warn("Could not prepare journal table, delivered messages will not be recorded")
			} else {
				journal = repo
				mainLogger.Info("Delivery journal enabled.")
			}
		}
	}
	notifier := app.NewNotifier(telegram.NewTelebotAdapter(bot), cfg.TelegramChatID, journal, logger.Component(log, "notifier"))

	poller := app.NewPoller(fetcher, notifier, waiter, logger.Component(log, "poller"), app.PollerOptions{
		StartCursor:          time.Now().Unix(),
		NotifyRepeatedStatus: cfg.NotifyRepeatedStatus,
	})

	// Graceful shutdown: the current iteration finishes, the wait is cut short.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		mainLogger.WithError(err).Error("Poll loop exited unexpectedly")
		return
	}
	mainLogger.Info("Bot shut down gracefully.")
}
