package scoring

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendforge/fantasymarket/internal/models"
)

func testSnapshot() models.TrendSnapshot {
	return models.TrendSnapshot{
		EntityID:       uuid.New(),
		Category:       models.CategoryStrain,
		OrderCount:     30,
		Day1Volume:     40,
		Day7Volume:     200,
		Day14Volume:    320,
		Day30Volume:    600,
		CurrentRank:    4,
		PreviousRank:   9,
		StreakDays:     3,
		MarketSharePct: 6.5,
		DailyVolumes:   []int{40, 38, 42, 41, 39, 40, 40},
	}
}

func TestTrendMultiplierCapOnZeroBaseline(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	snap := testSnapshot()
	snap.Day7Volume = 120
	snap.Day14Volume = 120 // prior week contributed nothing
	assert.Equal(t, 10.0, engine.TrendMultiplier(snap))

	snap.Day7Volume = 0
	snap.Day14Volume = 0
	assert.Equal(t, 1.0, engine.TrendMultiplier(snap), "dead entity is neutral, not capped")
}

func TestTrendMultiplierFiniteAndClamped(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	snap := testSnapshot()
	snap.Day7Volume = 200
	snap.Day14Volume = 300 // prior week 100 -> ratio 2.0
	assert.InDelta(t, 2.0, engine.TrendMultiplier(snap), 1e-9)

	snap.Day7Volume = 5000
	snap.Day14Volume = 5100 // prior week 100 -> raw ratio 50, clamped
	assert.Equal(t, 10.0, engine.TrendMultiplier(snap))
}

func TestMomentumBonusScalesWithRankDelta(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	bigJump := testSnapshot()
	bigJump.PreviousRank = 5
	bigJump.CurrentRank = 1

	smallJump := testSnapshot()
	smallJump.PreviousRank = 2
	smallJump.CurrentRank = 1

	big := engine.Score(bigJump, "2026-03-01").Line(models.ComponentMomentumBonus)
	small := engine.Score(smallJump, "2026-03-01").Line(models.ComponentMomentumBonus)

	assert.Positive(t, big)
	assert.Greater(t, big, small)
}

func TestMomentumBonusNegativeOnDecline(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	snap := testSnapshot()
	snap.PreviousRank = 2
	snap.CurrentRank = 8

	got := engine.Score(snap, "2026-03-01").Line(models.ComponentMomentumBonus)
	assert.Negative(t, got)
}

func TestConsistencyScoreEmptyWindow(t *testing.T) {
	assert.Zero(t, ConsistencyScore(nil))
	assert.Zero(t, ConsistencyScore([]int{0, 0, 0, 0}))
}

func TestConsistencyScoreRewardsSteadyVolume(t *testing.T) {
	steady := ConsistencyScore([]int{40, 40, 41, 39, 40})
	spiky := ConsistencyScore([]int{5, 90, 2, 81, 10})
	assert.Greater(t, steady, spiky)
	assert.LessOrEqual(t, steady, 100.0)
	assert.GreaterOrEqual(t, spiky, 0.0)
}

func TestStreakBonusSuperLinearAndCapped(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	three := engine.streakBonus(3)
	six := engine.streakBonus(6)
	assert.Greater(t, six, three*2, "bonus curve accelerates")

	capped := engine.streakBonus(10)
	assert.Equal(t, capped, engine.streakBonus(25), "streak bonus caps out")
}

func TestRankBonusTiers(t *testing.T) {
	cases := []struct {
		rank   int
		points int
	}{
		{1, 25},
		{2, 18},
		{3, 18},
		{5, 12},
		{10, 8},
		{25, 4},
		{26, 0},
		{0, 0},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.points, rankBonus(tc.rank), "rank %d", tc.rank)
	}
}

func TestMarketShareTiers(t *testing.T) {
	assert.Equal(t, 20, marketShareBonus(31.5))
	assert.Equal(t, 12, marketShareBonus(10))
	assert.Equal(t, 6, marketShareBonus(5.2))
	assert.Equal(t, 2, marketShareBonus(2))
	assert.Equal(t, 0, marketShareBonus(1.9))
}

func TestScoreTotalFlooredPositive(t *testing.T) {
	engine := NewEngine(DefaultConfig())

	snap := models.TrendSnapshot{
		EntityID:     uuid.New(),
		Category:     models.CategoryOutlet,
		CurrentRank:  40,
		PreviousRank: 3, // heavy momentum penalty, nothing else scores
	}
	breakdown := engine.Score(snap, "2026-03-01")
	assert.Negative(t, breakdown.Line(models.ComponentMomentumBonus))
	assert.Equal(t, 1, breakdown.Total)
}

func TestScoreDeterministic(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	snap := testSnapshot()

	first := engine.Score(snap, "2026-03-01")
	second := engine.Score(snap, "2026-03-01")
	require.Equal(t, first, second)
}

func TestScoreBreakdownCoversAllComponents(t *testing.T) {
	engine := NewEngine(DefaultConfig())
	breakdown := engine.Score(testSnapshot(), "2026-03-01")

	want := []models.ScoreComponent{
		models.ComponentOrderCount,
		models.ComponentTrendMomentum,
		models.ComponentRankBonus,
		models.ComponentMomentumBonus,
		models.ComponentConsistency,
		models.ComponentVelocity,
		models.ComponentStreak,
		models.ComponentMarketShare,
	}
	require.Len(t, breakdown.Lines, len(want))
	for i, c := range want {
		assert.Equal(t, c, breakdown.Lines[i].Component)
	}
}
