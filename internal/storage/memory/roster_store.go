package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/trendforge/fantasymarket/internal/models"
)

// RosterStore keeps claimed roster slots, append-only.
type RosterStore struct {
	mu      sync.RWMutex
	entries map[uuid.UUID][]models.RosterEntry // by league
}

func NewRosterStore() *RosterStore {
	return &RosterStore{entries: make(map[uuid.UUID][]models.RosterEntry)}
}

func (s *RosterStore) InsertEntry(_ context.Context, entry models.RosterEntry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[entry.LeagueID] = append(s.entries[entry.LeagueID], entry)
	return nil
}

func (s *RosterStore) ListTeamEntries(_ context.Context, leagueID, teamID uuid.UUID) ([]models.RosterEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.RosterEntry
	for _, entry := range s.entries[leagueID] {
		if entry.TeamID == teamID {
			out = append(out, entry)
		}
	}
	return out, nil
}

func (s *RosterStore) CountByLeague(_ context.Context, leagueID uuid.UUID) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries[leagueID]), nil
}

// TeamStore keeps the draft-facing team records.
type TeamStore struct {
	mu    sync.RWMutex
	teams map[uuid.UUID]models.TeamEntry
	order map[uuid.UUID][]uuid.UUID // league -> team ids in insertion order
}

func NewTeamStore() *TeamStore {
	return &TeamStore{
		teams: make(map[uuid.UUID]models.TeamEntry),
		order: make(map[uuid.UUID][]uuid.UUID),
	}
}

// Seed registers a team. Insertion order is the listing order.
func (s *TeamStore) Seed(team models.TeamEntry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[team.ID]; !ok {
		s.order[team.LeagueID] = append(s.order[team.LeagueID], team.ID)
	}
	s.teams[team.ID] = team
}

func (s *TeamStore) GetTeam(_ context.Context, teamID uuid.UUID) (*models.TeamEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	team, ok := s.teams[teamID]
	if !ok {
		return nil, fmt.Errorf("no team %s", teamID)
	}
	out := team
	return &out, nil
}

func (s *TeamStore) ListTeams(_ context.Context, leagueID uuid.UUID) ([]models.TeamEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := s.order[leagueID]
	out := make([]models.TeamEntry, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.teams[id])
	}
	return out, nil
}

func (s *TeamStore) SetAutoPick(_ context.Context, teamID uuid.UUID, enabled bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	team, ok := s.teams[teamID]
	if !ok {
		return fmt.Errorf("no team %s", teamID)
	}
	team.AutoPick = enabled
	s.teams[teamID] = team
	return nil
}
