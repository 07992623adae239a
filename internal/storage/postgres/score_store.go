package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sqlc-dev/pqtype"

	"github.com/trendforge/fantasymarket/internal/models"
)

// ScoreStore persists breakdowns and team totals. Breakdown lines live in a
// JSONB column but only cross the process boundary as the typed ScoreLine
// list; nothing reads the blob without decoding it.
type ScoreStore struct {
	db *sql.DB
}

func NewScoreStore(db *sql.DB) *ScoreStore {
	return &ScoreStore{db: db}
}

func (s *ScoreStore) UpsertBreakdown(ctx context.Context, b models.ScoreBreakdown) error {
	lines, err := json.Marshal(b.Lines)
	if err != nil {
		return fmt.Errorf("marshal score lines: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO score_breakdowns (entity_id, period, category, lines, total)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (entity_id, period)
		DO UPDATE SET category = EXCLUDED.category, lines = EXCLUDED.lines, total = EXCLUDED.total`,
		b.EntityID, b.Period, string(b.Category), lines, b.Total,
	)
	if err != nil {
		return fmt.Errorf("upsert breakdown: %w", err)
	}
	return nil
}

func (s *ScoreStore) GetBreakdown(ctx context.Context, entityID uuid.UUID, period string) (models.ScoreBreakdown, error) {
	var (
		b        models.ScoreBreakdown
		category string
		lines    pqtype.NullRawMessage
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT entity_id, period, category, lines, total
		FROM score_breakdowns WHERE entity_id = $1 AND period = $2`, entityID, period).
		Scan(&b.EntityID, &b.Period, &category, &lines, &b.Total)
	if errors.Is(err, sql.ErrNoRows) {
		return models.ScoreBreakdown{}, fmt.Errorf("no breakdown for entity %s in %s", entityID, period)
	}
	if err != nil {
		return models.ScoreBreakdown{}, fmt.Errorf("get breakdown: %w", err)
	}
	cat, err := models.ParseAssetCategory(category)
	if err != nil {
		return models.ScoreBreakdown{}, err
	}
	b.Category = cat
	if lines.Valid {
		if err := json.Unmarshal(lines.RawMessage, &b.Lines); err != nil {
			return models.ScoreBreakdown{}, fmt.Errorf("unmarshal score lines: %w", err)
		}
	}
	return b, nil
}

func (s *ScoreStore) UpsertTeamScore(ctx context.Context, ts models.TeamScore) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO team_scores (league_id, team_id, period, points, calculated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (team_id, period)
		DO UPDATE SET points = EXCLUDED.points, calculated_at = EXCLUDED.calculated_at`,
		ts.LeagueID, ts.TeamID, ts.Period, ts.Points, ts.CalculatedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert team score: %w", err)
	}
	return nil
}

func (s *ScoreStore) GetTeamScore(ctx context.Context, leagueID, teamID uuid.UUID, period string) (models.TeamScore, error) {
	var ts models.TeamScore
	err := s.db.QueryRowContext(ctx, `
		SELECT league_id, team_id, period, points, calculated_at
		FROM team_scores WHERE team_id = $1 AND period = $2`, teamID, period).
		Scan(&ts.LeagueID, &ts.TeamID, &ts.Period, &ts.Points, &ts.CalculatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TeamScore{}, fmt.Errorf("no score for team %s in %s", teamID, period)
	}
	if err != nil {
		return models.TeamScore{}, fmt.Errorf("get team score: %w", err)
	}
	return ts, nil
}

func (s *ScoreStore) ListTeamScores(ctx context.Context, leagueID uuid.UUID, period string) ([]models.TeamScore, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT league_id, team_id, period, points, calculated_at
		FROM team_scores WHERE league_id = $1 AND period = $2
		ORDER BY points DESC`, leagueID, period)
	if err != nil {
		return nil, fmt.Errorf("list team scores: %w", err)
	}
	defer rows.Close()

	var out []models.TeamScore
	for rows.Next() {
		var ts models.TeamScore
		if err := rows.Scan(&ts.LeagueID, &ts.TeamID, &ts.Period, &ts.Points, &ts.CalculatedAt); err != nil {
			return nil, fmt.Errorf("scan team score: %w", err)
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}
