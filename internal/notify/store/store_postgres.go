package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"bestbosses/internal/notify"
	"bestbosses/pkg/platform/sentinel"
	txcontext "bestbosses/pkg/platform/tx"
)

// PostgresOutbox persists queued notifications. Enqueue issued inside a
// lifecycle transaction picks the transaction up from context, so the
// message commits or rolls back together with the status change.
type PostgresOutbox struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresOutbox {
	return &PostgresOutbox{db: db}
}

type dbExecutor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *PostgresOutbox) execer(ctx context.Context) dbExecutor {
	if tx, ok := txcontext.From(ctx); ok {
		return tx
	}
	return s.db
}

func (s *PostgresOutbox) Enqueue(ctx context.Context, msg notify.Message) error {
	data, err := json.Marshal(msg.Data)
	if err != nil {
		return fmt.Errorf("marshal notification data: %w", err)
	}

	query := `
		INSERT INTO notification_outbox (id, type, recipient, data, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`
	_, err = s.execer(ctx).ExecContext(ctx, query,
		msg.ID.String(), string(msg.Type), msg.To, data, msg.CreatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return sentinel.ErrConflict
		}
		return fmt.Errorf("insert outbox message: %w", err)
	}
	return nil
}

// NextBatch returns up to limit unpublished messages, oldest first. Rows are
// locked with SKIP LOCKED so concurrent relays never double-publish.
func (s *PostgresOutbox) NextBatch(ctx context.Context, limit int) ([]notify.Message, error) {
	query := `
		SELECT id, type, recipient, data, created_at
		FROM notification_outbox
		WHERE published_at IS NULL
		ORDER BY created_at
		LIMIT $1
		FOR UPDATE SKIP LOCKED
	`
	rows, err := s.execer(ctx).QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("select outbox batch: %w", err)
	}
	defer rows.Close()

	var batch []notify.Message
	for rows.Next() {
		var (
			rawID   string
			rawType string
			rawData []byte
			msg     notify.Message
		)
		if err := rows.Scan(&rawID, &rawType, &msg.To, &rawData, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan outbox message: %w", err)
		}
		msgID, err := uuid.Parse(rawID)
		if err != nil {
			return nil, fmt.Errorf("parse outbox message id %q: %w", rawID, err)
		}
		msg.ID = msgID
		msg.Type = notify.Type(rawType)
		if err := json.Unmarshal(rawData, &msg.Data); err != nil {
			return nil, fmt.Errorf("unmarshal notification data: %w", err)
		}
		batch = append(batch, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate outbox batch: %w", err)
	}
	return batch, nil
}

// MarkPublished stamps messages as handed off to the broker.
func (s *PostgresOutbox) MarkPublished(ctx context.Context, ids []uuid.UUID, now time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	raw := make([]string, len(ids))
	for i, msgID := range ids {
		raw[i] = msgID.String()
	}

	query := `
		UPDATE notification_outbox
		SET published_at = $2
		WHERE id = ANY($1)
	`
	if _, err := s.execer(ctx).ExecContext(ctx, query, pq.Array(raw), now); err != nil {
		return fmt.Errorf("mark outbox published: %w", err)
	}
	return nil
}
