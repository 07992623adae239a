package draft_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendforge/fantasymarket/internal/draft"
	"github.com/trendforge/fantasymarket/internal/models"
	"github.com/trendforge/fantasymarket/internal/storage/memory"
)

func smallRules() models.RosterRules {
	return models.RosterRules{
		CategoryCaps: map[models.AssetCategory]int{
			models.CategoryStrain:  1,
			models.CategoryProduct: 1,
		},
		FlexSlots: 1,
	}
}

func draftingState(leagueID uuid.UUID, order []uuid.UUID) models.DraftState {
	return models.DraftState{
		LeagueID:      leagueID,
		TeamOrder:     order,
		Mode:          models.DraftModeSnake,
		CurrentPick:   1,
		PickTimeLimit: 60,
		Started:       true,
	}
}

func assertRejected(t *testing.T, err error, reason draft.RejectReason) {
	t.Helper()
	re, ok := draft.IsRejection(err)
	require.True(t, ok, "expected a rejection, got %v", err)
	assert.Equal(t, reason, re.Reason)
}

func TestValidateNotStarted(t *testing.T) {
	leagueID := uuid.New()
	order := []uuid.UUID{uuid.New(), uuid.New()}
	v := draft.NewValidator(memory.NewPickStore(), memory.NewRosterStore(), smallRules())

	state := draftingState(leagueID, order)
	state.Started = false

	err := v.Validate(context.Background(), state, draft.PickRequest{
		LeagueID: leagueID, TeamID: order[0],
		Category: models.CategoryStrain, AssetID: uuid.New(),
	})
	assertRejected(t, err, draft.ReasonNotStarted)
}

func TestValidateCompletedIsTerminal(t *testing.T) {
	leagueID := uuid.New()
	order := []uuid.UUID{uuid.New(), uuid.New()}
	v := draft.NewValidator(memory.NewPickStore(), memory.NewRosterStore(), smallRules())

	state := draftingState(leagueID, order)
	state.Completed = true

	err := v.Validate(context.Background(), state, draft.PickRequest{
		LeagueID: leagueID, TeamID: order[0],
		Category: models.CategoryStrain, AssetID: uuid.New(),
	})
	assert.ErrorIs(t, err, draft.ErrDraftCompleted)
	_, isRejection := draft.IsRejection(err)
	assert.False(t, isRejection, "completed is terminal, not a retryable rejection")
}

func TestValidateOutOfTurn(t *testing.T) {
	leagueID := uuid.New()
	order := []uuid.UUID{uuid.New(), uuid.New()}
	v := draft.NewValidator(memory.NewPickStore(), memory.NewRosterStore(), smallRules())

	err := v.Validate(context.Background(), draftingState(leagueID, order), draft.PickRequest{
		LeagueID: leagueID, TeamID: order[1], // pick 1 belongs to order[0]
		Category: models.CategoryStrain, AssetID: uuid.New(),
	})
	assertRejected(t, err, draft.ReasonNotYourTurn)
}

func TestValidateDuplicateAsset(t *testing.T) {
	leagueID := uuid.New()
	order := []uuid.UUID{uuid.New(), uuid.New()}
	picks := memory.NewPickStore()
	v := draft.NewValidator(picks, memory.NewRosterStore(), smallRules())

	assetID := uuid.New()
	require.NoError(t, picks.InsertPick(context.Background(), models.DraftPick{
		ID: uuid.New(), LeagueID: leagueID, TeamID: order[1],
		Round: 1, PickNumber: 1,
		Category: models.CategoryStrain, AssetID: assetID,
		Slot: models.SlotDedicated, PickedAt: time.Now(),
	}))

	err := v.Validate(context.Background(), draftingState(leagueID, order), draft.PickRequest{
		LeagueID: leagueID, TeamID: order[0],
		Category: models.CategoryStrain, AssetID: assetID,
	})
	assertRejected(t, err, draft.ReasonAlreadyDrafted)
}

func TestValidateCategoryCapAndFlexRouting(t *testing.T) {
	leagueID := uuid.New()
	order := []uuid.UUID{uuid.New(), uuid.New()}
	rosters := memory.NewRosterStore()
	v := draft.NewValidator(memory.NewPickStore(), rosters, smallRules())
	ctx := context.Background()

	require.NoError(t, rosters.InsertEntry(ctx, models.RosterEntry{
		ID: uuid.New(), LeagueID: leagueID, TeamID: order[0],
		Category: models.CategoryStrain, AssetID: uuid.New(),
		Slot: models.SlotDedicated,
	}))

	state := draftingState(leagueID, order)

	// dedicated cap reached: rejected, caller told to target flex
	err := v.Validate(ctx, state, draft.PickRequest{
		LeagueID: leagueID, TeamID: order[0],
		Category: models.CategoryStrain, AssetID: uuid.New(),
		Slot: models.SlotDedicated,
	})
	assertRejected(t, err, draft.ReasonCategoryFull)

	// same pick aimed at flex is legal
	err = v.Validate(ctx, state, draft.PickRequest{
		LeagueID: leagueID, TeamID: order[0],
		Category: models.CategoryStrain, AssetID: uuid.New(),
		Slot: models.SlotFlex,
	})
	assert.NoError(t, err)

	// once flex is taken it cannot be taken again
	require.NoError(t, rosters.InsertEntry(ctx, models.RosterEntry{
		ID: uuid.New(), LeagueID: leagueID, TeamID: order[0],
		Category: models.CategoryProduct, AssetID: uuid.New(),
		Slot: models.SlotFlex,
	}))
	err = v.Validate(ctx, state, draft.PickRequest{
		LeagueID: leagueID, TeamID: order[0],
		Category: models.CategoryStrain, AssetID: uuid.New(),
		Slot: models.SlotFlex,
	})
	assertRejected(t, err, draft.ReasonFlexOccupied)
}

func TestValidateRosterFullBackstop(t *testing.T) {
	leagueID := uuid.New()
	order := []uuid.UUID{uuid.New(), uuid.New()}
	rosters := memory.NewRosterStore()
	rules := models.RosterRules{
		CategoryCaps: map[models.AssetCategory]int{models.CategoryStrain: 5},
		FlexSlots:    2,
	}
	v := draft.NewValidator(memory.NewPickStore(), rosters, rules)
	ctx := context.Background()

	// 4 dedicated strains plus an over-filled flex: the category cap is not
	// reached, so only the size backstop can refuse the pick.
	for i := 0; i < 4; i++ {
		require.NoError(t, rosters.InsertEntry(ctx, models.RosterEntry{
			ID: uuid.New(), LeagueID: leagueID, TeamID: order[0],
			Category: models.CategoryStrain, AssetID: uuid.New(),
			Slot: models.SlotDedicated,
		}))
	}
	for i := 0; i < 3; i++ {
		require.NoError(t, rosters.InsertEntry(ctx, models.RosterEntry{
			ID: uuid.New(), LeagueID: leagueID, TeamID: order[0],
			Category: models.CategoryProduct, AssetID: uuid.New(),
			Slot: models.SlotFlex,
		}))
	}

	err := v.Validate(ctx, draftingState(leagueID, order), draft.PickRequest{
		LeagueID: leagueID, TeamID: order[0],
		Category: models.CategoryStrain, AssetID: uuid.New(),
		Slot: models.SlotDedicated,
	})
	assertRejected(t, err, draft.ReasonRosterFull)
}
