package main

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/trendforge/fantasymarket/internal/scoring"
)

// runScoringLoop wakes once per day at runHourUTC and rescores every league
// whose draft has completed, using the calendar day as the period key.
// Rescoring the same period overwrites prior totals.
func runScoringLoop(ctx context.Context, agg *scoring.Aggregator, db *sql.DB, clock clockwork.Clock, runHourUTC int) {
	for {
		wait := untilNextRun(clock.Now().UTC(), runHourUTC)
		log.Info().Dur("wait", wait).Msg("next scoring run scheduled")

		select {
		case <-ctx.Done():
			return
		case <-clock.After(wait):
		}

		period := clock.Now().UTC().Format("2006-01-02")
		if err := scoreCompletedLeagues(ctx, agg, db, period); err != nil {
			log.Error().Err(err).Str("period", period).Msg("scoring run failed")
		}
	}
}

func untilNextRun(now time.Time, runHourUTC int) time.Duration {
	next := time.Date(now.Year(), now.Month(), now.Day(), runHourUTC, 0, 0, 0, time.UTC)
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next.Sub(now)
}

func scoreCompletedLeagues(ctx context.Context, agg *scoring.Aggregator, db *sql.DB, period string) error {
	rows, err := db.QueryContext(ctx, `SELECT league_id FROM draft_states WHERE completed = TRUE`)
	if err != nil {
		return fmt.Errorf("list completed leagues: %w", err)
	}
	defer rows.Close()

	var leagues []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return fmt.Errorf("scan league id: %w", err)
		}
		leagues = append(leagues, id)
	}
	if err := rows.Err(); err != nil {
		return err
	}

	for _, leagueID := range leagues {
		if err := agg.ScoreLeague(ctx, leagueID, period); err != nil {
			log.Error().Err(err).
				Str("league_id", leagueID.String()).
				Str("period", period).
				Msg("failed to score league")
			continue
		}
		log.Info().
			Str("league_id", leagueID.String()).
			Str("period", period).
			Msg("league scored")
	}
	return nil
}
