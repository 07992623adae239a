package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/trendforge/fantasymarket/internal/sqlutil"
)

// LineupPopulator seeds one starter row per drafted slot when a draft
// completes. The whole population runs in one transaction and is idempotent
// through the primary key conflict clause.
type LineupPopulator struct {
	db *sql.DB
}

func NewLineupPopulator(db *sql.DB) *LineupPopulator {
	return &LineupPopulator{db: db}
}

func (l *LineupPopulator) PopulateLineups(ctx context.Context, leagueID uuid.UUID) error {
	return sqlutil.Run(ctx, l.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO lineup_slots (league_id, team_id, asset_id, starter)
			SELECT league_id, team_id, asset_id, TRUE
			FROM roster_entries WHERE league_id = $1
			ON CONFLICT (team_id, asset_id) DO NOTHING`, leagueID)
		if err != nil {
			return fmt.Errorf("populate lineups: %w", err)
		}
		return nil
	})
}
