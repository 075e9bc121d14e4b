// internal/infra/database/postgres_journal_repository.go
package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"homework_status_bot/internal/domain/notification"

	"github.com/lib/pq"
)

// ErrJournalUnavailable means the journal table cannot be written.
var ErrJournalUnavailable = fmt.Errorf("notification journal is unavailable")

const createJournalTable = `CREATE TABLE IF NOT EXISTS notification_journal (
	id          BIGSERIAL PRIMARY KEY,
	kind        TEXT        NOT NULL,
	chat_id     BIGINT      NOT NULL,
	message     TEXT        NOT NULL,
	message_id  INTEGER     NOT NULL,
	sent_at     TIMESTAMPTZ NOT NULL,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

type PostgresJournalRepository struct {
	db *sql.DB
}

var _ notification.Journal = (*PostgresJournalRepository)(nil)

func NewPostgresJournalRepository(db *sql.DB) *PostgresJournalRepository {
	return &PostgresJournalRepository{db: db}
}

// EnsureSchema creates the journal table if it does not exist yet.
func (r *PostgresJournalRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createJournalTable); err != nil {
		return fmt.Errorf("error creating notification_journal table: %w", err)
	}
	return nil
}

func (r *PostgresJournalRepository) Record(ctx context.Context, entry *notification.Entry) error {
	query := `INSERT INTO notification_journal (kind, chat_id, message, message_id, sent_at)
               VALUES ($1, $2, $3, $4, $5)
               RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query, entry.Kind, entry.ChatID, entry.Message, entry.MessageID, entry.SentAt).
		Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "42P01" { // undefined_table
			return fmt.Errorf("%w: %s", ErrJournalUnavailable, pqErr.Message)
		}
		return fmt.Errorf("error recording notification: %w", err)
	}
	return nil
}
