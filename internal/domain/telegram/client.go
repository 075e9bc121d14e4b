package telegram

import "time"

// Delivery is the acknowledgment returned by Telegram for a sent message.
type Delivery struct {
	MessageID int
	ChatID    int64
	SentAt    time.Time
}

// Client defines an interface for sending messages via a Telegram bot.
// This helps in decoupling the application logic from the specific bot library.
type Client interface {
	SendMessage(chatID int64, text string) (*Delivery, error)
}
