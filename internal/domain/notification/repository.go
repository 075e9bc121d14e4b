// internal/domain/notification/repository.go
package notification

import "context"

// Journal records delivered messages. It is write-only: nothing in the bot
// reads it back, so polling state still starts fresh on every restart.
type Journal interface {
	Record(ctx context.Context, entry *Entry) error
}

// NopJournal is used when no database is configured.
type NopJournal struct{}

func (NopJournal) Record(context.Context, *Entry) error { return nil }
