package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/trendforge/fantasymarket/internal/models"
)

// RosterStore persists claimed roster slots.
type RosterStore struct {
	db *sql.DB
}

func NewRosterStore(db *sql.DB) *RosterStore {
	return &RosterStore{db: db}
}

func (s *RosterStore) InsertEntry(ctx context.Context, entry models.RosterEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO roster_entries (id, league_id, team_id, category, asset_id, slot, acquired_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		entry.ID, entry.LeagueID, entry.TeamID, string(entry.Category),
		entry.AssetID, string(entry.Slot), entry.AcquiredAt,
	)
	if err != nil {
		return fmt.Errorf("insert roster entry: %w", err)
	}
	return nil
}

func (s *RosterStore) ListTeamEntries(ctx context.Context, leagueID, teamID uuid.UUID) ([]models.RosterEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, league_id, team_id, category, asset_id, slot, acquired_at
		FROM roster_entries
		WHERE league_id = $1 AND team_id = $2
		ORDER BY acquired_at`, leagueID, teamID)
	if err != nil {
		return nil, fmt.Errorf("list roster entries: %w", err)
	}
	defer rows.Close()

	var entries []models.RosterEntry
	for rows.Next() {
		var (
			entry    models.RosterEntry
			category string
			slot     string
		)
		if err := rows.Scan(&entry.ID, &entry.LeagueID, &entry.TeamID,
			&category, &entry.AssetID, &slot, &entry.AcquiredAt); err != nil {
			return nil, fmt.Errorf("scan roster entry: %w", err)
		}
		cat, err := models.ParseAssetCategory(category)
		if err != nil {
			return nil, err
		}
		entry.Category = cat
		entry.Slot = models.RosterSlot(slot)
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (s *RosterStore) CountByLeague(ctx context.Context, leagueID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM roster_entries WHERE league_id = $1`, leagueID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count roster entries: %w", err)
	}
	return n, nil
}

// TeamStore persists the draft-facing team records.
type TeamStore struct {
	db *sql.DB
}

func NewTeamStore(db *sql.DB) *TeamStore {
	return &TeamStore{db: db}
}

// CreateTeam registers a team, done at league setup.
func (s *TeamStore) CreateTeam(ctx context.Context, team models.TeamEntry) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO teams (id, league_id, name, auto_pick)
		VALUES ($1, $2, $3, $4)`,
		team.ID, team.LeagueID, team.Name, team.AutoPick,
	)
	if err != nil {
		return fmt.Errorf("insert team: %w", err)
	}
	return nil
}

func (s *TeamStore) GetTeam(ctx context.Context, teamID uuid.UUID) (*models.TeamEntry, error) {
	var team models.TeamEntry
	err := s.db.QueryRowContext(ctx, `
		SELECT id, league_id, name, auto_pick FROM teams WHERE id = $1`, teamID).
		Scan(&team.ID, &team.LeagueID, &team.Name, &team.AutoPick)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("no team %s", teamID)
	}
	if err != nil {
		return nil, fmt.Errorf("get team: %w", err)
	}
	return &team, nil
}

func (s *TeamStore) ListTeams(ctx context.Context, leagueID uuid.UUID) ([]models.TeamEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, league_id, name, auto_pick FROM teams
		WHERE league_id = $1 ORDER BY seq`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("list teams: %w", err)
	}
	defer rows.Close()

	var teams []models.TeamEntry
	for rows.Next() {
		var team models.TeamEntry
		if err := rows.Scan(&team.ID, &team.LeagueID, &team.Name, &team.AutoPick); err != nil {
			return nil, fmt.Errorf("scan team: %w", err)
		}
		teams = append(teams, team)
	}
	return teams, rows.Err()
}

func (s *TeamStore) SetAutoPick(ctx context.Context, teamID uuid.UUID, enabled bool) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE teams SET auto_pick = $2 WHERE id = $1`, teamID, enabled)
	if err != nil {
		return fmt.Errorf("set auto-pick: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("no team %s", teamID)
	}
	return nil
}
