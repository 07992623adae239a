package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/trendforge/fantasymarket/internal/models"
	"github.com/trendforge/fantasymarket/internal/scoring"
)

// ScoreStore keeps score breakdowns and team totals with upsert semantics.
type ScoreStore struct {
	mu         sync.RWMutex
	breakdowns map[string]models.ScoreBreakdown
	teamScores map[string]models.TeamScore
	byLeague   map[uuid.UUID]map[string]struct{} // league -> team score keys
}

func NewScoreStore() *ScoreStore {
	return &ScoreStore{
		breakdowns: make(map[string]models.ScoreBreakdown),
		teamScores: make(map[string]models.TeamScore),
		byLeague:   make(map[uuid.UUID]map[string]struct{}),
	}
}

func breakdownKey(entityID uuid.UUID, period string) string {
	return entityID.String() + "|" + period
}

func teamScoreKey(teamID uuid.UUID, period string) string {
	return teamID.String() + "|" + period
}

func (s *ScoreStore) UpsertBreakdown(_ context.Context, b models.ScoreBreakdown) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	b.Lines = append([]models.ScoreLine(nil), b.Lines...)
	s.breakdowns[breakdownKey(b.EntityID, b.Period)] = b
	return nil
}

func (s *ScoreStore) GetBreakdown(_ context.Context, entityID uuid.UUID, period string) (models.ScoreBreakdown, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	b, ok := s.breakdowns[breakdownKey(entityID, period)]
	if !ok {
		return models.ScoreBreakdown{}, fmt.Errorf("no breakdown for entity %s in %s", entityID, period)
	}
	b.Lines = append([]models.ScoreLine(nil), b.Lines...)
	return b, nil
}

func (s *ScoreStore) UpsertTeamScore(_ context.Context, ts models.TeamScore) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := teamScoreKey(ts.TeamID, ts.Period)
	s.teamScores[key] = ts
	if _, ok := s.byLeague[ts.LeagueID]; !ok {
		s.byLeague[ts.LeagueID] = make(map[string]struct{})
	}
	s.byLeague[ts.LeagueID][key] = struct{}{}
	return nil
}

func (s *ScoreStore) GetTeamScore(_ context.Context, _ uuid.UUID, teamID uuid.UUID, period string) (models.TeamScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ts, ok := s.teamScores[teamScoreKey(teamID, period)]
	if !ok {
		return models.TeamScore{}, fmt.Errorf("no score for team %s in %s", teamID, period)
	}
	return ts, nil
}

func (s *ScoreStore) ListTeamScores(_ context.Context, leagueID uuid.UUID, period string) ([]models.TeamScore, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.TeamScore
	for key := range s.byLeague[leagueID] {
		ts := s.teamScores[key]
		if ts.Period == period {
			out = append(out, ts)
		}
	}
	return out, nil
}

// TrendProvider serves seeded snapshots, the dev and test stand-in for the
// external metrics collaborator.
type TrendProvider struct {
	mu        sync.RWMutex
	snapshots map[string]models.TrendSnapshot
}

func NewTrendProvider() *TrendProvider {
	return &TrendProvider{snapshots: make(map[string]models.TrendSnapshot)}
}

// Seed installs the snapshot served for an entity and period.
func (p *TrendProvider) Seed(period string, snap models.TrendSnapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	snap.DailyVolumes = append([]int(nil), snap.DailyVolumes...)
	p.snapshots[breakdownKey(snap.EntityID, period)] = snap
}

func (p *TrendProvider) Snapshot(_ context.Context, entityID uuid.UUID, period string) (models.TrendSnapshot, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	snap, ok := p.snapshots[breakdownKey(entityID, period)]
	if !ok {
		return models.TrendSnapshot{}, scoring.ErrNoMetrics
	}
	snap.DailyVolumes = append([]int(nil), snap.DailyVolumes...)
	return snap, nil
}
