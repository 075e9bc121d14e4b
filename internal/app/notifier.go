package app

import (
	"context"
	"fmt"

	"homework_status_bot/internal/domain/notification"
	domainTelegram "homework_status_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
)

// Notifier delivers messages to the configured Telegram chat.
type Notifier struct {
	client  domainTelegram.Client
	chatID  int64
	journal notification.Journal
	logger  *logrus.Entry
}

func NewNotifier(client domainTelegram.Client, chatID int64, journal notification.Journal, logger *logrus.Entry) *Notifier {
	if journal == nil {
		journal = notification.NopJournal{}
	}
	return &Notifier{
		client:  client,
		chatID:  chatID,
		journal: journal,
		logger:  logger,
	}
}

// Send delivers text once. Failures are returned to the caller untouched by
// any retry; a journal failure after a successful delivery is only logged.
func (n *Notifier) Send(ctx context.Context, kind notification.Kind, text string) (*domainTelegram.Delivery, error) {
	n.logger.WithFields(logrus.Fields{
		"chat_id": n.chatID,
		"kind":    kind,
	}).Infof("Sending message: %s", text)

	delivery, err := n.client.SendMessage(n.chatID, text)
	if err != nil {
		return nil, fmt.Errorf("failed to send message to chat %d: %w", n.chatID, err)
	}

	n.logger.WithFields(logrus.Fields{
		"chat_id":    delivery.ChatID,
		"message_id": delivery.MessageID,
		"kind":       kind,
	}).Infof("Bot sent message: %s", text)

	entry := &notification.Entry{
		Kind:      kind,
		ChatID:    delivery.ChatID,
		Message:   text,
		MessageID: delivery.MessageID,
		SentAt:    delivery.SentAt,
	}
	if err := n.journal.Record(ctx, entry); err != nil {
		n.logger.WithError(err).Warn("Failed to record delivered message in journal")
	}
	return delivery, nil
}
