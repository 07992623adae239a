// Package outbox makes event publication durable: the orchestrator's
// notifier writes rows instead of talking to the broker, and the relay
// drains them to NATS, woken by LISTEN/NOTIFY with a polling fallback.
package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"

	"github.com/trendforge/fantasymarket/internal/sqlutil"
)

// NotifyChannel is the Postgres NOTIFY channel the relay listens on.
const NotifyChannel = "draft_outbox_events"

// Row is one stored outbox event.
type Row struct {
	ID        uuid.UUID       `json:"id"`
	LeagueID  uuid.UUID       `json:"league_id"`
	EventType string          `json:"event_type"`
	Payload   json.RawMessage `json:"payload"`
	CreatedAt time.Time       `json:"created_at"`
	SentAt    *time.Time      `json:"sent_at,omitempty"`
}

// Store reads and writes the outbox table.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Insert writes the event row and pokes the relay through pg_notify in the
// same transaction, so a wake-up without a durable row can never happen.
func (s *Store) Insert(ctx context.Context, row Row) error {
	return sqlutil.Run(ctx, s.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO draft_events_outbox (id, league_id, event_type, payload, created_at)
			VALUES ($1, $2, $3, $4, $5)`,
			row.ID, row.LeagueID, row.EventType, []byte(row.Payload), row.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("insert outbox event: %w", err)
		}
		if _, err := tx.ExecContext(ctx,
			`SELECT pg_notify($1, $2)`, NotifyChannel, row.ID.String()); err != nil {
			return fmt.Errorf("notify outbox channel: %w", err)
		}
		return nil
	})
}

// FetchByID returns one unsent event, or nil if it is gone or already sent.
func (s *Store) FetchByID(ctx context.Context, id uuid.UUID) (*Row, error) {
	row, err := scanRow(s.db.QueryRowContext(ctx, `
		SELECT id, league_id, event_type, payload, created_at, sent_at
		FROM draft_events_outbox WHERE id = $1 AND sent_at IS NULL`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("fetch outbox event %s: %w", id, err)
	}
	return row, nil
}

// FetchUnsent returns the oldest unsent events, up to limit.
func (s *Store) FetchUnsent(ctx context.Context, limit int) ([]Row, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, league_id, event_type, payload, created_at, sent_at
		FROM draft_events_outbox WHERE sent_at IS NULL
		ORDER BY created_at LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan outbox event: %w", err)
		}
		out = append(out, *row)
	}
	return out, rows.Err()
}

// MarkSent stamps an event as delivered.
func (s *Store) MarkSent(ctx context.Context, id uuid.UUID) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE draft_events_outbox SET sent_at = now() WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("mark outbox event sent: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRow(sc rowScanner) (*Row, error) {
	var (
		row     Row
		payload pqtype.NullRawMessage
		sentAt  sql.NullTime
	)
	if err := sc.Scan(&row.ID, &row.LeagueID, &row.EventType, &payload, &row.CreatedAt, &sentAt); err != nil {
		return nil, err
	}
	if payload.Valid {
		row.Payload = json.RawMessage(payload.RawMessage)
	}
	row.SentAt = sqlutil.FromSqlTime(sentAt)
	return &row, nil
}
