package scoring

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/trendforge/fantasymarket/internal/models"
)

// RosterLister is the slice of the roster store the aggregator reads.
type RosterLister interface {
	ListTeamEntries(ctx context.Context, leagueID, teamID uuid.UUID) ([]models.RosterEntry, error)
}

// TeamLister is the slice of the team store the aggregator reads.
type TeamLister interface {
	ListTeams(ctx context.Context, leagueID uuid.UUID) ([]models.TeamEntry, error)
}

// AggregatorConfig tunes the team-level adjustments applied on top of the
// summed entity scores.
type AggregatorConfig struct {
	FullRosterBonus  int
	EmptySlotPenalty int
}

func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		FullRosterBonus:  25,
		EmptySlotPenalty: 10,
	}
}

// Aggregator scores every entity on a team's lineup for a period, applies
// team-level bonuses and penalties, and writes one total-points record per
// (team, period). Rescoring a period overwrites the prior records.
type Aggregator struct {
	engine   *Engine
	provider TrendMetricsProvider
	rosters  RosterLister
	teams    TeamLister
	store    ScoreStore
	rules    models.RosterRules
	cfg      AggregatorConfig
	clock    clockwork.Clock
}

func NewAggregator(
	engine *Engine,
	provider TrendMetricsProvider,
	rosters RosterLister,
	teams TeamLister,
	store ScoreStore,
	rules models.RosterRules,
	cfg AggregatorConfig,
	clock clockwork.Clock,
) *Aggregator {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Aggregator{
		engine:   engine,
		provider: provider,
		rosters:  rosters,
		teams:    teams,
		store:    store,
		rules:    rules,
		cfg:      cfg,
		clock:    clock,
	}
}

// ScoreLeague computes and persists team totals for every team in a league
// for one period.
func (a *Aggregator) ScoreLeague(ctx context.Context, leagueID uuid.UUID, period string) error {
	teams, err := a.teams.ListTeams(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("list teams for scoring: %w", err)
	}
	for _, team := range teams {
		if err := a.ScoreTeam(ctx, leagueID, team.ID, period); err != nil {
			return fmt.Errorf("score team %s: %w", team.ID, err)
		}
	}
	return nil
}

// ScoreTeam sums the lineup's entity scores, adjusts with the full-roster
// bonus and empty-slot penalty, and upserts the (team, period) total. An
// entity with no metrics for the period counts as an unfilled slot.
func (a *Aggregator) ScoreTeam(ctx context.Context, leagueID, teamID uuid.UUID, period string) error {
	entries, err := a.rosters.ListTeamEntries(ctx, leagueID, teamID)
	if err != nil {
		return fmt.Errorf("list roster entries: %w", err)
	}

	total := 0
	scored := 0
	for _, entry := range entries {
		snap, err := a.provider.Snapshot(ctx, entry.AssetID, period)
		if errors.Is(err, ErrNoMetrics) {
			log.Debug().
				Str("entity_id", entry.AssetID.String()).
				Str("period", period).
				Msg("no metrics for rostered entity, slot scores nothing")
			continue
		}
		if err != nil {
			return fmt.Errorf("fetch metrics for %s: %w", entry.AssetID, err)
		}
		breakdown := a.engine.Score(snap, period)
		if err := a.store.UpsertBreakdown(ctx, breakdown); err != nil {
			return fmt.Errorf("persist breakdown for %s: %w", entry.AssetID, err)
		}
		total += breakdown.Total
		scored++
	}

	rosterSize := a.rules.RosterSize()
	if scored >= rosterSize {
		total += a.cfg.FullRosterBonus
	} else {
		total -= (rosterSize - scored) * a.cfg.EmptySlotPenalty
	}
	if total < 0 {
		total = 0
	}

	return a.store.UpsertTeamScore(ctx, models.TeamScore{
		LeagueID:     leagueID,
		TeamID:       teamID,
		Period:       period,
		Points:       total,
		CalculatedAt: a.clock.Now(),
	})
}
