package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// LineupPopulator seeds starting lineups from drafted rosters when a draft
// completes. Every drafted slot starts; repopulating a league is a no-op.
type LineupPopulator struct {
	rosters *RosterStore
	teams   *TeamStore

	mu       sync.RWMutex
	starters map[uuid.UUID][]uuid.UUID // team -> asset ids
	done     map[uuid.UUID]bool        // league populated
}

func NewLineupPopulator(rosters *RosterStore, teams *TeamStore) *LineupPopulator {
	return &LineupPopulator{
		rosters:  rosters,
		teams:    teams,
		starters: make(map[uuid.UUID][]uuid.UUID),
		done:     make(map[uuid.UUID]bool),
	}
}

func (l *LineupPopulator) PopulateLineups(ctx context.Context, leagueID uuid.UUID) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done[leagueID] {
		return nil
	}

	teams, err := l.teams.ListTeams(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("list teams for lineup population: %w", err)
	}
	for _, team := range teams {
		entries, err := l.rosters.ListTeamEntries(ctx, leagueID, team.ID)
		if err != nil {
			return fmt.Errorf("list roster for team %s: %w", team.ID, err)
		}
		starters := make([]uuid.UUID, 0, len(entries))
		for _, entry := range entries {
			starters = append(starters, entry.AssetID)
		}
		l.starters[team.ID] = starters
	}
	l.done[leagueID] = true
	return nil
}

// Starters returns the populated lineup for a team.
func (l *LineupPopulator) Starters(teamID uuid.UUID) []uuid.UUID {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return append([]uuid.UUID(nil), l.starters[teamID]...)
}
