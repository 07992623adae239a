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
	"github.com/trendforge/fantasymarket/internal/scoring"
)

// TrendStore persists the per-entity daily metrics the scoring engine reads.
// Snapshots are keyed by (entity, period); an ingest job upserts them once
// per scoring day.
type TrendStore struct {
	db *sql.DB
}

func NewTrendStore(db *sql.DB) *TrendStore {
	return &TrendStore{db: db}
}

func (s *TrendStore) UpsertSnapshot(ctx context.Context, period string, snap models.TrendSnapshot) error {
	volumes, err := json.Marshal(snap.DailyVolumes)
	if err != nil {
		return fmt.Errorf("marshal daily volumes: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO trend_snapshots (
			entity_id, period, category, order_count,
			day1_volume, day7_volume, day14_volume, day30_volume,
			current_rank, previous_rank, streak_days, market_share_pct, daily_volumes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (entity_id, period) DO UPDATE SET
			category = EXCLUDED.category,
			order_count = EXCLUDED.order_count,
			day1_volume = EXCLUDED.day1_volume,
			day7_volume = EXCLUDED.day7_volume,
			day14_volume = EXCLUDED.day14_volume,
			day30_volume = EXCLUDED.day30_volume,
			current_rank = EXCLUDED.current_rank,
			previous_rank = EXCLUDED.previous_rank,
			streak_days = EXCLUDED.streak_days,
			market_share_pct = EXCLUDED.market_share_pct,
			daily_volumes = EXCLUDED.daily_volumes`,
		snap.EntityID, period, string(snap.Category), snap.OrderCount,
		snap.Day1Volume, snap.Day7Volume, snap.Day14Volume, snap.Day30Volume,
		snap.CurrentRank, snap.PreviousRank, snap.StreakDays, snap.MarketSharePct, volumes,
	)
	if err != nil {
		return fmt.Errorf("upsert trend snapshot: %w", err)
	}
	return nil
}

// Snapshot returns scoring.ErrNoMetrics when no row exists, so the
// aggregator skips the entity instead of failing the run.
func (s *TrendStore) Snapshot(ctx context.Context, entityID uuid.UUID, period string) (models.TrendSnapshot, error) {
	var (
		snap     models.TrendSnapshot
		category string
		volumes  pqtype.NullRawMessage
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT entity_id, category, order_count,
		       day1_volume, day7_volume, day14_volume, day30_volume,
		       current_rank, previous_rank, streak_days, market_share_pct, daily_volumes
		FROM trend_snapshots WHERE entity_id = $1 AND period = $2`, entityID, period).
		Scan(&snap.EntityID, &category, &snap.OrderCount,
			&snap.Day1Volume, &snap.Day7Volume, &snap.Day14Volume, &snap.Day30Volume,
			&snap.CurrentRank, &snap.PreviousRank, &snap.StreakDays, &snap.MarketSharePct, &volumes)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TrendSnapshot{}, scoring.ErrNoMetrics
	}
	if err != nil {
		return models.TrendSnapshot{}, fmt.Errorf("get trend snapshot: %w", err)
	}
	cat, err := models.ParseAssetCategory(category)
	if err != nil {
		return models.TrendSnapshot{}, err
	}
	snap.Category = cat
	if volumes.Valid {
		if err := json.Unmarshal(volumes.RawMessage, &snap.DailyVolumes); err != nil {
			return models.TrendSnapshot{}, fmt.Errorf("unmarshal daily volumes: %w", err)
		}
	}
	return snap, nil
}
