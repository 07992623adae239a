package draft

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/trendforge/fantasymarket/internal/models"
)

// ErrNoEligibleAssets means no legal automatic selection exists for the team.
var ErrNoEligibleAssets = errors.New("no eligible assets for auto-pick")

// AutoPickStrategy selects an asset for a team whose pick timer expired.
type AutoPickStrategy interface {
	Select(ctx context.Context, state models.DraftState, team models.TeamEntry) (PickRequest, error)
}

// RandomStrategy favors dedicated categories the team has not yet filled,
// choosing uniformly among the remaining assets in one of them, and falls
// back to a flex pick only when every dedicated category is capped or empty.
type RandomStrategy struct {
	rosters RosterStore
	assets  AssetPool
	rules   models.RosterRules

	mu  sync.Mutex
	rng *rand.Rand
}

func NewRandomStrategy(rosters RosterStore, assets AssetPool, rules models.RosterRules) *RandomStrategy {
	return &RandomStrategy{
		rosters: rosters,
		assets:  assets,
		rules:   rules,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// Select implements AutoPickStrategy.
func (s *RandomStrategy) Select(ctx context.Context, state models.DraftState, team models.TeamEntry) (PickRequest, error) {
	entries, err := s.rosters.ListTeamEntries(ctx, state.LeagueID, team.ID)
	if err != nil {
		return PickRequest{}, fmt.Errorf("list roster entries: %w", err)
	}

	dedicated := make(map[models.AssetCategory]int)
	flexUsed := 0
	for _, e := range entries {
		if e.Slot == models.SlotFlex {
			flexUsed++
		} else {
			dedicated[e.Category]++
		}
	}

	var open []models.AssetCategory
	for _, c := range models.AllCategories() {
		if dedicated[c] < s.rules.Cap(c) {
			open = append(open, c)
		}
	}

	s.mu.Lock()
	s.rng.Shuffle(len(open), func(i, j int) { open[i], open[j] = open[j], open[i] })
	s.mu.Unlock()

	for _, c := range open {
		asset, ok, err := s.randomAvailable(ctx, state.LeagueID, c)
		if err != nil {
			return PickRequest{}, err
		}
		if !ok {
			continue
		}
		log.Debug().
			Str("team_id", team.ID.String()).
			Str("category", string(c)).
			Str("asset_id", asset.ID.String()).
			Msg("auto-pick selected dedicated slot")
		return PickRequest{
			LeagueID: state.LeagueID,
			TeamID:   team.ID,
			Category: c,
			AssetID:  asset.ID,
			Slot:     models.SlotDedicated,
			Auto:     true,
		}, nil
	}

	// Every dedicated category is capped or drained; try the flex slot.
	if flexUsed < s.rules.FlexSlots {
		for _, c := range models.AllCategories() {
			asset, ok, err := s.randomAvailable(ctx, state.LeagueID, c)
			if err != nil {
				return PickRequest{}, err
			}
			if !ok {
				continue
			}
			log.Debug().
				Str("team_id", team.ID.String()).
				Str("category", string(c)).
				Str("asset_id", asset.ID.String()).
				Msg("auto-pick selected flex slot")
			return PickRequest{
				LeagueID: state.LeagueID,
				TeamID:   team.ID,
				Category: c,
				AssetID:  asset.ID,
				Slot:     models.SlotFlex,
				Auto:     true,
			}, nil
		}
	}

	return PickRequest{}, ErrNoEligibleAssets
}

func (s *RandomStrategy) randomAvailable(ctx context.Context, leagueID uuid.UUID, c models.AssetCategory) (models.Asset, bool, error) {
	available, err := s.assets.ListAvailableAssets(ctx, leagueID, c)
	if err != nil {
		return models.Asset{}, false, fmt.Errorf("list available %s assets: %w", c, err)
	}
	if len(available) == 0 {
		return models.Asset{}, false, nil
	}
	s.mu.Lock()
	choice := available[s.rng.Intn(len(available))]
	s.mu.Unlock()
	return choice, true, nil
}
