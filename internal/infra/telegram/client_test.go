package telegram

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBotAPI answers sendMessage like the Telegram Bot API does.
func fakeBotAPI(t *testing.T, reply string, status int, got *map[string]any) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !strings.HasSuffix(r.URL.Path, "/sendMessage") {
			http.NotFound(w, r)
			return
		}
		assert.True(t, strings.HasPrefix(r.URL.Path, "/bottest-token/"))
		if got != nil {
			assert.NoError(t, json.NewDecoder(r.Body).Decode(got))
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newAdapter(t *testing.T, url string) *TelebotAdapter {
	t.Helper()
	logger, _ := test.NewNullLogger()
	bot, err := NewBot(BotConfig{Token: "test-token", APIURL: url, Timeout: 5 * time.Second}, logrus.NewEntry(logger))
	require.NoError(t, err)
	return NewTelebotAdapter(bot)
}

func TestSendMessage_ReturnsDelivery(t *testing.T) {
	var got map[string]any
	srv := fakeBotAPI(t, `{"ok":true,"result":{"message_id":42,"date":1700000000,"chat":{"id":-100123,"type":"group"},"text":"hello"}}`, http.StatusOK, &got)

	delivery, err := newAdapter(t, srv.URL).SendMessage(-100123, "hello")
	require.NoError(t, err)

	assert.Equal(t, 42, delivery.MessageID)
	assert.Equal(t, int64(-100123), delivery.ChatID)
	assert.Equal(t, time.Unix(1700000000, 0), delivery.SentAt)
	assert.Equal(t, "-100123", got["chat_id"])
	assert.Equal(t, "hello", got["text"])
}

func TestSendMessage_Rejected(t *testing.T) {
	srv := fakeBotAPI(t, `{"ok":false,"error_code":400,"description":"Bad Request: chat not found"}`, http.StatusBadRequest, nil)

	delivery, err := newAdapter(t, srv.URL).SendMessage(1, "hello")
	require.Error(t, err)
	assert.Nil(t, delivery)
	assert.Contains(t, err.Error(), "chat not found")
}

func TestSendMessage_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := newAdapter(t, url).SendMessage(1, "hello")
	require.Error(t, err)
}
