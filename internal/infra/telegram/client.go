// internal/infra/telegram/client.go
package telegram

import (
	"errors"
	"net/http"
	"time"

	domainTelegram "homework_status_bot/internal/domain/telegram"

	"github.com/sirupsen/logrus"
	"gopkg.in/telebot.v3"
)

// BotConfig holds what is needed to build an outgoing-only bot.
type BotConfig struct {
	Token   string
	APIURL  string // empty means the public Bot API
	Timeout time.Duration
}

// NewBot creates a telebot instance that only sends messages. It runs offline,
// so construction never touches the network.
func NewBot(cfg BotConfig, logger *logrus.Entry) (*telebot.Bot, error) {
	return telebot.NewBot(telebot.Settings{
		URL:     cfg.APIURL,
		Token:   cfg.Token,
		Offline: true,
		Client:  &http.Client{Timeout: cfg.Timeout},
		OnError: func(err error, c telebot.Context) {
			logger.WithError(err).Error("telebot error")
		},
	})
}

// TelebotAdapter implements the Client interface using the gopkg.in/telebot.v3 library.
type TelebotAdapter struct {
	bot *telebot.Bot
}

var _ domainTelegram.Client = (*TelebotAdapter)(nil)

func NewTelebotAdapter(b *telebot.Bot) *TelebotAdapter {
	return &TelebotAdapter{bot: b}
}

// SendMessage sends a plain text message to the given chat.
func (tba *TelebotAdapter) SendMessage(chatID int64, text string) (*domainTelegram.Delivery, error) {
	msg, err := tba.bot.Send(&telebot.Chat{ID: chatID}, text)
	if err != nil {
		return nil, err
	}
	if msg == nil {
		return nil, errors.New("telegram returned no message")
	}

	delivery := &domainTelegram.Delivery{
		MessageID: msg.ID,
		ChatID:    chatID,
		SentAt:    msg.Time(),
	}
	if msg.Chat != nil {
		delivery.ChatID = msg.Chat.ID
	}
	return delivery, nil
}
