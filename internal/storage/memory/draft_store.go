// Package memory holds in-process implementations of every store interface.
// They back tests and local development; the postgres package is the
// production twin. All stores are mutex guarded and hand out copies.
package memory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/trendforge/fantasymarket/internal/draft"
	"github.com/trendforge/fantasymarket/internal/models"
)

// DraftStateStore keeps one draft state record per league.
type DraftStateStore struct {
	mu     sync.RWMutex
	states map[uuid.UUID]models.DraftState
}

func NewDraftStateStore() *DraftStateStore {
	return &DraftStateStore{states: make(map[uuid.UUID]models.DraftState)}
}

// Seed installs the initial state for a league, as league setup would.
func (s *DraftStateStore) Seed(state models.DraftState) {
	s.mu.Lock()
	defer s.mu.Unlock()
	state.TeamOrder = append([]uuid.UUID(nil), state.TeamOrder...)
	s.states[state.LeagueID] = state
}

func (s *DraftStateStore) GetDraftState(_ context.Context, leagueID uuid.UUID) (*models.DraftState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.states[leagueID]
	if !ok {
		return nil, fmt.Errorf("no draft state for league %s", leagueID)
	}
	out := state
	out.TeamOrder = append([]uuid.UUID(nil), state.TeamOrder...)
	return &out, nil
}

func (s *DraftStateStore) MarkStarted(_ context.Context, leagueID uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[leagueID]
	if !ok {
		return fmt.Errorf("no draft state for league %s", leagueID)
	}
	state.Started = true
	state.StartedAt = &at
	if state.CurrentPick < 1 {
		state.CurrentPick = 1
	}
	s.states[leagueID] = state
	return nil
}

func (s *DraftStateStore) AdvancePick(_ context.Context, leagueID uuid.UUID, toPick int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[leagueID]
	if !ok {
		return fmt.Errorf("no draft state for league %s", leagueID)
	}
	if toPick < state.CurrentPick {
		return fmt.Errorf("pick number cannot decrease: %d -> %d", state.CurrentPick, toPick)
	}
	state.CurrentPick = toPick
	s.states[leagueID] = state
	return nil
}

func (s *DraftStateStore) MarkCompleted(_ context.Context, leagueID uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	state, ok := s.states[leagueID]
	if !ok {
		return fmt.Errorf("no draft state for league %s", leagueID)
	}
	state.Completed = true
	state.CompletedAt = &at
	s.states[leagueID] = state
	return nil
}

// PickStore keeps immutable pick records and enforces the
// (league, category, asset) uniqueness constraint the way the database
// unique index does.
type PickStore struct {
	mu      sync.RWMutex
	picks   map[uuid.UUID][]models.DraftPick
	drafted map[string]struct{}
}

func NewPickStore() *PickStore {
	return &PickStore{
		picks:   make(map[uuid.UUID][]models.DraftPick),
		drafted: make(map[string]struct{}),
	}
}

func draftedKey(leagueID uuid.UUID, category models.AssetCategory, assetID uuid.UUID) string {
	return leagueID.String() + "|" + string(category) + "|" + assetID.String()
}

func (s *PickStore) InsertPick(_ context.Context, pick models.DraftPick) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := draftedKey(pick.LeagueID, pick.Category, pick.AssetID)
	if _, taken := s.drafted[key]; taken {
		return &draft.RejectionError{
			Reason:  draft.ReasonAlreadyDrafted,
			Message: fmt.Sprintf("asset %s already drafted in this league", pick.AssetID),
		}
	}
	s.drafted[key] = struct{}{}
	s.picks[pick.LeagueID] = append(s.picks[pick.LeagueID], pick)
	return nil
}

func (s *PickStore) ListPicks(_ context.Context, leagueID uuid.UUID) ([]models.DraftPick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	picks := s.picks[leagueID]
	out := make([]models.DraftPick, len(picks))
	copy(out, picks)
	return out, nil
}

func (s *PickStore) AssetDrafted(_ context.Context, leagueID uuid.UUID, category models.AssetCategory, assetID uuid.UUID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	_, taken := s.drafted[draftedKey(leagueID, category, assetID)]
	return taken, nil
}
