package scoring

import (
	"math"

	"github.com/trendforge/fantasymarket/internal/models"
)

// Engine turns a trend metrics snapshot into an explainable point breakdown.
// Every method is a pure function of the snapshot and config: the same inputs
// always produce the same breakdown.
type Engine struct {
	cfg Config
}

func NewEngine(cfg Config) *Engine {
	if cfg.MultiplierCap <= 0 {
		cfg.MultiplierCap = DefaultConfig().MultiplierCap
	}
	if cfg.MinimumTotal <= 0 {
		cfg.MinimumTotal = DefaultConfig().MinimumTotal
	}
	return &Engine{cfg: cfg}
}

// Score computes the full component breakdown for one entity and period.
// Every component is non-negative except MOMENTUM_BONUS, which is signed;
// the total is floored at a small positive minimum so an active entity never
// scores zero.
func (e *Engine) Score(snap models.TrendSnapshot, period string) models.ScoreBreakdown {
	lines := []models.ScoreLine{
		{Component: models.ComponentOrderCount, Points: e.orderCountPoints(snap)},
		{Component: models.ComponentTrendMomentum, Points: e.trendMomentumPoints(snap)},
		{Component: models.ComponentRankBonus, Points: rankBonus(snap.CurrentRank)},
		{Component: models.ComponentMomentumBonus, Points: e.momentumBonus(snap)},
		{Component: models.ComponentConsistency, Points: e.consistencyPoints(snap)},
		{Component: models.ComponentVelocity, Points: e.velocityPoints(snap)},
		{Component: models.ComponentStreak, Points: e.streakBonus(snap.StreakDays)},
		{Component: models.ComponentMarketShare, Points: marketShareBonus(snap.MarketSharePct)},
	}

	total := 0
	for _, l := range lines {
		total += l.Points
	}
	if total < e.cfg.MinimumTotal {
		total = e.cfg.MinimumTotal
	}

	return models.ScoreBreakdown{
		EntityID: snap.EntityID,
		Category: snap.Category,
		Period:   period,
		Lines:    lines,
		Total:    total,
	}
}

func (e *Engine) orderCountPoints(snap models.TrendSnapshot) int {
	points := snap.OrderCount
	if points < 0 {
		return 0
	}
	if e.cfg.OrderCountCap > 0 && points > e.cfg.OrderCountCap {
		points = e.cfg.OrderCountCap
	}
	return points
}

// TrendMultiplier compares the trailing week's volume against the week
// before it. A zero prior baseline with current activity yields exactly the
// cap instead of a division error; a dead entity yields a neutral 1.
func (e *Engine) TrendMultiplier(snap models.TrendSnapshot) float64 {
	recent := float64(snap.Day7Volume)
	prior := float64(snap.Day14Volume - snap.Day7Volume)
	if prior <= 0 {
		if recent > 0 {
			return e.cfg.MultiplierCap
		}
		return 1.0
	}
	multiplier := recent / prior
	if multiplier > e.cfg.MultiplierCap {
		multiplier = e.cfg.MultiplierCap
	}
	return multiplier
}

func (e *Engine) trendMomentumPoints(snap models.TrendSnapshot) int {
	weight := float64(e.cfg.momentumWeight(snap.Category))
	return int(math.Round(e.TrendMultiplier(snap) * weight))
}

func rankBonus(rank int) int {
	if rank <= 0 {
		return 0
	}
	for _, tier := range rankTiers {
		if rank <= tier.maxRank {
			return tier.points
		}
	}
	return 0
}

// momentumBonus is the only signed component: rank improvement pays
// proportionally to the delta, rank decline costs the same shape.
func (e *Engine) momentumBonus(snap models.TrendSnapshot) int {
	if snap.PreviousRank <= 0 || snap.CurrentRank <= 0 {
		return 0
	}
	delta := snap.PreviousRank - snap.CurrentRank
	points := delta * e.cfg.MomentumPerRank
	if points > e.cfg.MomentumCap {
		return e.cfg.MomentumCap
	}
	if points < -e.cfg.MomentumCap {
		return -e.cfg.MomentumCap
	}
	return points
}

// ConsistencyScore maps the coefficient of variation of the daily volume
// window onto 0..100: steady volume scores high, spiky volume low. An empty
// or all-zero window scores 0.
func ConsistencyScore(volumes []int) float64 {
	if len(volumes) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range volumes {
		sum += float64(v)
	}
	mean := sum / float64(len(volumes))
	if mean <= 0 {
		return 0
	}
	variance := 0.0
	for _, v := range volumes {
		d := float64(v) - mean
		variance += d * d
	}
	variance /= float64(len(volumes))
	cv := math.Sqrt(variance) / mean
	score := 100 * (1 - cv)
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

func (e *Engine) consistencyPoints(snap models.TrendSnapshot) int {
	return int(math.Round(ConsistencyScore(snap.DailyVolumes) / 5))
}

// velocityPoints is an acceleration signal: the trailing week's daily pace
// relative to the prior week's, compared against how the prior week moved.
// Deceleration scores zero, never negative.
func (e *Engine) velocityPoints(snap models.TrendSnapshot) int {
	avg7 := float64(snap.Day7Volume) / 7
	avg14 := float64(snap.Day14Volume) / 14
	recentChange := float64(snap.Day1Volume) - avg7
	priorChange := avg7 - avg14
	accel := recentChange - priorChange
	if accel <= 0 {
		return 0
	}
	points := int(math.Round(accel))
	if e.cfg.VelocityCap > 0 && points > e.cfg.VelocityCap {
		return e.cfg.VelocityCap
	}
	return points
}

// streakBonus grows super-linearly with consecutive trending days, capped so
// a very long streak cannot dominate the breakdown.
func (e *Engine) streakBonus(days int) int {
	if days <= 0 {
		return 0
	}
	if e.cfg.StreakCapDays > 0 && days > e.cfg.StreakCapDays {
		days = e.cfg.StreakCapDays
	}
	return days * (days + 1) / 2
}

func marketShareBonus(sharePct float64) int {
	for _, tier := range shareTiers {
		if sharePct >= tier.minShare {
			return tier.points
		}
	}
	return 0
}
