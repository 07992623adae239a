package scoring

import "github.com/trendforge/fantasymarket/internal/models"

// rankTier maps a contiguous rank range onto a flat bonus. A small fixed
// table keeps rank bonuses predictable and capped.
type rankTier struct {
	maxRank int
	points  int
}

var rankTiers = []rankTier{
	{maxRank: 1, points: 25},
	{maxRank: 3, points: 18},
	{maxRank: 5, points: 12},
	{maxRank: 10, points: 8},
	{maxRank: 25, points: 4},
}

// shareTier maps a market-share floor (percent) onto a flat bonus.
type shareTier struct {
	minShare float64
	points   int
}

var shareTiers = []shareTier{
	{minShare: 25, points: 20},
	{minShare: 10, points: 12},
	{minShare: 5, points: 6},
	{minShare: 2, points: 2},
}

// Config tunes the engine. Weights differ slightly per category: volatile
// categories reward momentum more, stable ones lean on order counts.
type Config struct {
	MomentumWeights map[models.AssetCategory]int

	// MultiplierCap bounds the trend multiplier; a zero prior baseline
	// yields exactly this cap instead of dividing by zero.
	MultiplierCap float64

	OrderCountCap   int
	VelocityCap     int
	MomentumPerRank int
	MomentumCap     int
	StreakCapDays   int
	MinimumTotal    int
}

func DefaultConfig() Config {
	return Config{
		MomentumWeights: map[models.AssetCategory]int{
			models.CategoryManufacturer: 10,
			models.CategoryStrain:       12,
			models.CategoryProduct:      12,
			models.CategoryOutlet:       8,
			models.CategoryBrand:        10,
		},
		MultiplierCap:   10.0,
		OrderCountCap:   50,
		VelocityCap:     15,
		MomentumPerRank: 3,
		MomentumCap:     50,
		StreakCapDays:   10,
		MinimumTotal:    1,
	}
}

func (c Config) momentumWeight(cat models.AssetCategory) int {
	if w, ok := c.MomentumWeights[cat]; ok {
		return w
	}
	return 10
}
