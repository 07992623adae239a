package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/trendforge/fantasymarket/internal/draft"
	"github.com/trendforge/fantasymarket/internal/models"
	"github.com/trendforge/fantasymarket/internal/sqlutil"
)

const pgUniqueViolation = "23505"

// DraftStateStore persists draft state rows.
type DraftStateStore struct {
	db *sql.DB
}

func NewDraftStateStore(db *sql.DB) *DraftStateStore {
	return &DraftStateStore{db: db}
}

// CreateDraftState inserts the initial row for a league, done at league setup.
func (s *DraftStateStore) CreateDraftState(ctx context.Context, state models.DraftState) error {
	order, err := json.Marshal(state.TeamOrder)
	if err != nil {
		return fmt.Errorf("marshal team order: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO draft_states (league_id, team_order, mode, current_pick, pick_time_limit_sec, started, completed)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		state.LeagueID, order, string(state.Mode), state.CurrentPick,
		state.PickTimeLimit, state.Started, state.Completed,
	)
	if err != nil {
		return fmt.Errorf("insert draft state: %w", err)
	}
	return nil
}

func (s *DraftStateStore) GetDraftState(ctx context.Context, leagueID uuid.UUID) (*models.DraftState, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT league_id, team_order, mode, current_pick, pick_time_limit_sec,
		       started, completed, started_at, completed_at
		FROM draft_states WHERE league_id = $1`, leagueID)

	var (
		state     models.DraftState
		order     []byte
		mode      string
		startedAt sql.NullTime
		doneAt    sql.NullTime
	)
	err := row.Scan(&state.LeagueID, &order, &mode, &state.CurrentPick,
		&state.PickTimeLimit, &state.Started, &state.Completed, &startedAt, &doneAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no draft state for league %s", leagueID)
	}
	if err != nil {
		return nil, fmt.Errorf("scan draft state: %w", err)
	}
	if err := json.Unmarshal(order, &state.TeamOrder); err != nil {
		return nil, fmt.Errorf("unmarshal team order: %w", err)
	}
	parsedMode, err := models.ParseDraftMode(mode)
	if err != nil {
		return nil, err
	}
	state.Mode = parsedMode
	state.StartedAt = sqlutil.FromSqlTime(startedAt)
	state.CompletedAt = sqlutil.FromSqlTime(doneAt)
	return &state, nil
}

func (s *DraftStateStore) MarkStarted(ctx context.Context, leagueID uuid.UUID, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE draft_states
		SET started = TRUE, started_at = $2, current_pick = GREATEST(current_pick, 1)
		WHERE league_id = $1`, leagueID, at)
	if err != nil {
		return fmt.Errorf("mark draft started: %w", err)
	}
	return requireRow(res, leagueID)
}

func (s *DraftStateStore) AdvancePick(ctx context.Context, leagueID uuid.UUID, toPick int) error {
	// the guard keeps the pick counter monotone even under a lost race
	res, err := s.db.ExecContext(ctx, `
		UPDATE draft_states SET current_pick = $2
		WHERE league_id = $1 AND current_pick <= $2`, leagueID, toPick)
	if err != nil {
		return fmt.Errorf("advance pick: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("pick counter for league %s already past %d", leagueID, toPick)
	}
	return nil
}

func (s *DraftStateStore) MarkCompleted(ctx context.Context, leagueID uuid.UUID, at time.Time) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE draft_states SET completed = TRUE, completed_at = $2
		WHERE league_id = $1`, leagueID, at)
	if err != nil {
		return fmt.Errorf("mark draft completed: %w", err)
	}
	return requireRow(res, leagueID)
}

func requireRow(res sql.Result, leagueID uuid.UUID) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no draft state for league %s", leagueID)
	}
	return nil
}

// PickStore persists immutable pick records. The unique index on
// (league_id, category, asset_id) is the authoritative duplicate check; a
// violation surfaces as the already-drafted rejection.
type PickStore struct {
	db *sql.DB
}

func NewPickStore(db *sql.DB) *PickStore {
	return &PickStore{db: db}
}

func (s *PickStore) InsertPick(ctx context.Context, pick models.DraftPick) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO draft_picks (id, league_id, team_id, round, pick_number, category, asset_id, slot, auto_picked, picked_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		pick.ID, pick.LeagueID, pick.TeamID, pick.Round, pick.PickNumber,
		string(pick.Category), pick.AssetID, string(pick.Slot), pick.AutoPicked, pick.PickedAt,
	)
	if err != nil {
		return mapPickInsertError(err, pick)
	}
	return nil
}

// mapPickInsertError turns an asset-uniqueness violation into the drafted
// rejection. A pick-number collision means two processes raced the same turn
// and stays a storage-level conflict for the caller to surface as such.
func mapPickInsertError(err error, pick models.DraftPick) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		switch pgErr.ConstraintName {
		case "draft_picks_asset_uniq":
			return &draft.RejectionError{
				Reason:  draft.ReasonAlreadyDrafted,
				Message: fmt.Sprintf("asset %s already drafted in this league", pick.AssetID),
			}
		case "draft_picks_number_uniq":
			return fmt.Errorf("pick number %d already committed in league %s: %w", pick.PickNumber, pick.LeagueID, err)
		}
	}
	return fmt.Errorf("insert pick: %w", err)
}

func (s *PickStore) ListPicks(ctx context.Context, leagueID uuid.UUID) ([]models.DraftPick, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, league_id, team_id, round, pick_number, category, asset_id, slot, auto_picked, picked_at
		FROM draft_picks WHERE league_id = $1 ORDER BY pick_number`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list picks: %w", err)
	}
	defer rows.Close()

	var picks []models.DraftPick
	for rows.Next() {
		var (
			pick     models.DraftPick
			category string
			slot     string
		)
		if err := rows.Scan(&pick.ID, &pick.LeagueID, &pick.TeamID, &pick.Round,
			&pick.PickNumber, &category, &pick.AssetID, &slot, &pick.AutoPicked, &pick.PickedAt); err != nil {
			return nil, fmt.Errorf("scan pick: %w", err)
		}
		cat, err := models.ParseAssetCategory(category)
		if err != nil {
			return nil, err
		}
		pick.Category = cat
		pick.Slot = models.RosterSlot(slot)
		picks = append(picks, pick)
	}
	return picks, rows.Err()
}

func (s *PickStore) AssetDrafted(ctx context.Context, leagueID uuid.UUID, category models.AssetCategory, assetID uuid.UUID) (bool, error) {
	var taken bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM draft_picks
			WHERE league_id = $1 AND category = $2 AND asset_id = $3
		)`, leagueID, string(category), assetID).Scan(&taken)
	if err != nil {
		return false, fmt.Errorf("check drafted asset: %w", err)
	}
	return taken, nil
}
