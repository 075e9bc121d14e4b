// internal/domain/notification/entry.go
package notification

import "time"

// Kind tells which path of the poller produced a message.
type Kind string

const (
	KindStatusChange Kind = "status_change"
	KindFailure      Kind = "failure"
)

// Entry is one delivered message, as written to the journal.
// Corresponds to the 'notification_journal' table.
type Entry struct {
	ID        int64
	Kind      Kind
	ChatID    int64
	Message   string
	MessageID int // Telegram message_id of the delivery
	SentAt    time.Time
	CreatedAt time.Time
}
