package draft_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendforge/fantasymarket/internal/draft"
	"github.com/trendforge/fantasymarket/internal/models"
	"github.com/trendforge/fantasymarket/internal/storage/memory"
)

func TestRandomStrategyFlexFallback(t *testing.T) {
	rules := models.RosterRules{
		CategoryCaps: map[models.AssetCategory]int{
			models.CategoryStrain:  1,
			models.CategoryProduct: 1,
		},
		FlexSlots: 1,
	}
	ctx := context.Background()
	leagueID := uuid.New()
	teamID := uuid.New()

	picks := memory.NewPickStore()
	rosters := memory.NewRosterStore()
	assets := memory.NewAssetPool(picks)
	for _, cat := range []models.AssetCategory{models.CategoryStrain, models.CategoryProduct} {
		for i := 0; i < 3; i++ {
			assets.Seed(models.Asset{ID: uuid.New(), Category: cat, Name: string(cat)})
		}
	}

	// both dedicated slots already filled
	for _, cat := range []models.AssetCategory{models.CategoryStrain, models.CategoryProduct} {
		require.NoError(t, rosters.InsertEntry(ctx, models.RosterEntry{
			ID: uuid.New(), LeagueID: leagueID, TeamID: teamID,
			Category: cat, AssetID: uuid.New(), Slot: models.SlotDedicated,
		}))
	}

	strat := draft.NewRandomStrategy(rosters, assets, rules)
	state := models.DraftState{LeagueID: leagueID, TeamOrder: []uuid.UUID{teamID, uuid.New()}}

	req, err := strat.Select(ctx, state, models.TeamEntry{ID: teamID})
	require.NoError(t, err)
	assert.Equal(t, models.SlotFlex, req.Slot)
	assert.True(t, req.Auto)

	// with the flex slot also occupied there is nothing left to pick
	require.NoError(t, rosters.InsertEntry(ctx, models.RosterEntry{
		ID: uuid.New(), LeagueID: leagueID, TeamID: teamID,
		Category: req.Category, AssetID: req.AssetID, Slot: models.SlotFlex,
	}))
	_, err = strat.Select(ctx, state, models.TeamEntry{ID: teamID})
	assert.ErrorIs(t, err, draft.ErrNoEligibleAssets)
}
