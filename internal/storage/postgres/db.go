// Package postgres holds the production implementations of the store
// interfaces over database/sql. Uniqueness rules the validator checks
// optimistically are enforced here for real by unique indexes.
package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // pgx database/sql driver
	"github.com/rs/zerolog/log"

	"github.com/trendforge/fantasymarket/internal/dbconfig"
)

// Open connects to Postgres and verifies the connection.
func Open(ctx context.Context, cfg dbconfig.Config) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Hour)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	log.Info().
		Str("host", cfg.Host).
		Str("database", cfg.Database).
		Msg("connected to postgres")
	return db, nil
}

const schema = `
CREATE TABLE IF NOT EXISTS draft_states (
    league_id           UUID PRIMARY KEY,
    team_order          JSONB NOT NULL,
    mode                TEXT NOT NULL,
    current_pick        INT NOT NULL DEFAULT 0,
    pick_time_limit_sec INT NOT NULL DEFAULT 60,
    started             BOOLEAN NOT NULL DEFAULT FALSE,
    completed           BOOLEAN NOT NULL DEFAULT FALSE,
    started_at          TIMESTAMPTZ,
    completed_at        TIMESTAMPTZ
);

CREATE TABLE IF NOT EXISTS draft_picks (
    id          UUID PRIMARY KEY,
    league_id   UUID NOT NULL,
    team_id     UUID NOT NULL,
    round       INT NOT NULL,
    pick_number INT NOT NULL,
    category    TEXT NOT NULL,
    asset_id    UUID NOT NULL,
    slot        TEXT NOT NULL,
    auto_picked BOOLEAN NOT NULL DEFAULT FALSE,
    picked_at   TIMESTAMPTZ NOT NULL,
    CONSTRAINT draft_picks_asset_uniq UNIQUE (league_id, category, asset_id),
    CONSTRAINT draft_picks_number_uniq UNIQUE (league_id, pick_number)
);

CREATE TABLE IF NOT EXISTS roster_entries (
    id          UUID PRIMARY KEY,
    league_id   UUID NOT NULL,
    team_id     UUID NOT NULL,
    category    TEXT NOT NULL,
    asset_id    UUID NOT NULL,
    slot        TEXT NOT NULL,
    acquired_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS roster_entries_team_idx ON roster_entries (league_id, team_id);

CREATE TABLE IF NOT EXISTS teams (
    id        UUID PRIMARY KEY,
    league_id UUID NOT NULL,
    name      TEXT NOT NULL,
    auto_pick BOOLEAN NOT NULL DEFAULT FALSE,
    seq       SERIAL
);
CREATE INDEX IF NOT EXISTS teams_league_idx ON teams (league_id);

CREATE TABLE IF NOT EXISTS assets (
    id       UUID PRIMARY KEY,
    category TEXT NOT NULL,
    name     TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS assets_category_idx ON assets (category);

CREATE TABLE IF NOT EXISTS lineup_slots (
    league_id UUID NOT NULL,
    team_id   UUID NOT NULL,
    asset_id  UUID NOT NULL,
    starter   BOOLEAN NOT NULL DEFAULT TRUE,
    PRIMARY KEY (team_id, asset_id)
);

CREATE TABLE IF NOT EXISTS trend_snapshots (
    entity_id        UUID NOT NULL,
    period           TEXT NOT NULL,
    category         TEXT NOT NULL,
    order_count      INT NOT NULL DEFAULT 0,
    day1_volume      INT NOT NULL DEFAULT 0,
    day7_volume      INT NOT NULL DEFAULT 0,
    day14_volume     INT NOT NULL DEFAULT 0,
    day30_volume     INT NOT NULL DEFAULT 0,
    current_rank     INT NOT NULL DEFAULT 0,
    previous_rank    INT NOT NULL DEFAULT 0,
    streak_days      INT NOT NULL DEFAULT 0,
    market_share_pct DOUBLE PRECISION NOT NULL DEFAULT 0,
    daily_volumes    JSONB NOT NULL DEFAULT '[]',
    PRIMARY KEY (entity_id, period)
);

CREATE TABLE IF NOT EXISTS score_breakdowns (
    entity_id UUID NOT NULL,
    period    TEXT NOT NULL,
    category  TEXT NOT NULL,
    lines     JSONB NOT NULL,
    total     INT NOT NULL,
    PRIMARY KEY (entity_id, period)
);

CREATE TABLE IF NOT EXISTS team_scores (
    league_id     UUID NOT NULL,
    team_id       UUID NOT NULL,
    period        TEXT NOT NULL,
    points        INT NOT NULL,
    calculated_at TIMESTAMPTZ NOT NULL,
    PRIMARY KEY (team_id, period)
);
CREATE INDEX IF NOT EXISTS team_scores_league_idx ON team_scores (league_id, period);

CREATE TABLE IF NOT EXISTS draft_events_outbox (
    id         UUID PRIMARY KEY,
    league_id  UUID NOT NULL,
    event_type TEXT NOT NULL,
    payload    JSONB NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
    sent_at    TIMESTAMPTZ
);
CREATE INDEX IF NOT EXISTS outbox_unsent_idx ON draft_events_outbox (created_at) WHERE sent_at IS NULL;
`

// EnsureSchema applies the idempotent DDL.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
