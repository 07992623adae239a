package models

import (
	"time"

	"github.com/google/uuid"
)

// TrendSnapshot is the per-entity metrics record supplied by the trend
// metrics provider for one scoring day. Day1..Day30 are trailing order/volume
// window totals; DailyVolumes is a short most-recent-first history used by
// the consistency and velocity calculations.
type TrendSnapshot struct {
	EntityID        uuid.UUID     `json:"entity_id"`
	Category        AssetCategory `json:"category"`
	OrderCount      int           `json:"order_count"`
	Day1Volume      int           `json:"day1_volume"`
	Day7Volume      int           `json:"day7_volume"`
	Day14Volume     int           `json:"day14_volume"`
	Day30Volume     int           `json:"day30_volume"`
	CurrentRank     int           `json:"current_rank"`
	PreviousRank    int           `json:"previous_rank"`
	StreakDays      int           `json:"streak_days"`
	MarketSharePct  float64       `json:"market_share_pct"`
	DailyVolumes    []int         `json:"daily_volumes"`
}

// ScoreComponent names one line of a score breakdown. The set is closed;
// breakdowns are serialized only at the storage boundary.
type ScoreComponent string

const (
	ComponentOrderCount    ScoreComponent = "ORDER_COUNT"
	ComponentTrendMomentum ScoreComponent = "TREND_MOMENTUM"
	ComponentRankBonus     ScoreComponent = "RANK_BONUS"
	ComponentMomentumBonus ScoreComponent = "MOMENTUM_BONUS"
	ComponentConsistency   ScoreComponent = "CONSISTENCY"
	ComponentVelocity      ScoreComponent = "VELOCITY"
	ComponentStreak        ScoreComponent = "STREAK"
	ComponentMarketShare   ScoreComponent = "MARKET_SHARE"
)

// ScoreLine is one named component with its signed point value. Only
// MOMENTUM_BONUS may be negative.
type ScoreLine struct {
	Component ScoreComponent `json:"component"`
	Points    int            `json:"points"`
}

// ScoreBreakdown is the full explainable result for one entity and period.
// Recomputing for the same (entity, period) overwrites the prior row.
type ScoreBreakdown struct {
	EntityID uuid.UUID     `json:"entity_id"`
	Category AssetCategory `json:"category"`
	Period   string        `json:"period"` // YYYY-MM-DD scoring day
	Lines    []ScoreLine   `json:"lines"`
	Total    int           `json:"total"`
}

// Line returns the points for a named component, zero if absent.
func (b ScoreBreakdown) Line(c ScoreComponent) int {
	for _, l := range b.Lines {
		if l.Component == c {
			return l.Points
		}
	}
	return 0
}

// TeamScore is the aggregated lineup total for one team and period.
type TeamScore struct {
	LeagueID     uuid.UUID `json:"league_id"`
	TeamID       uuid.UUID `json:"team_id"`
	Period       string    `json:"period"`
	Points       int       `json:"points"`
	CalculatedAt time.Time `json:"calculated_at"`
}
