package scoring

import (
	"context"

	"github.com/google/uuid"

	"github.com/trendforge/fantasymarket/internal/models"
)

// ScoreStore persists score breakdowns and team totals. Both writes are
// upserts keyed by (entity, period) and (team, period): recomputing a period
// overwrites, never appends.
type ScoreStore interface {
	UpsertBreakdown(ctx context.Context, b models.ScoreBreakdown) error
	GetBreakdown(ctx context.Context, entityID uuid.UUID, period string) (models.ScoreBreakdown, error)
	UpsertTeamScore(ctx context.Context, s models.TeamScore) error
	GetTeamScore(ctx context.Context, leagueID, teamID uuid.UUID, period string) (models.TeamScore, error)
	ListTeamScores(ctx context.Context, leagueID uuid.UUID, period string) ([]models.TeamScore, error)
}
