package draft_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendforge/fantasymarket/internal/draft"
	"github.com/trendforge/fantasymarket/internal/draft/events"
	"github.com/trendforge/fantasymarket/internal/draft/timekeeper"
	"github.com/trendforge/fantasymarket/internal/models"
	"github.com/trendforge/fantasymarket/internal/notify"
	"github.com/trendforge/fantasymarket/internal/storage/memory"

	"github.com/jonboulle/clockwork"
)

type recordingNotifier struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recordingNotifier) Publish(_ context.Context, ev events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
	return nil
}

func (r *recordingNotifier) count(typ events.Type) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func (r *recordingNotifier) types() []events.Type {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.Type, len(r.events))
	for i, ev := range r.events {
		out[i] = ev.Type
	}
	return out
}

type stubTimers struct {
	mu     sync.Mutex
	starts []int
	teams  []uuid.UUID
	sticky []bool
	stops  int
}

func (s *stubTimers) Start(_ uuid.UUID, pickNumber int, team models.TeamEntry, _ time.Duration, sticky bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.starts = append(s.starts, pickNumber)
	s.teams = append(s.teams, team.ID)
	s.sticky = append(s.sticky, sticky)
}

func (s *stubTimers) Pause(uuid.UUID)  {}
func (s *stubTimers) Resume(uuid.UUID) {}

func (s *stubTimers) Stop(uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stops++
}

type fixture struct {
	leagueID uuid.UUID
	order    []uuid.UUID
	rules    models.RosterRules

	states   *memory.DraftStateStore
	picks    *memory.PickStore
	rosters  *memory.RosterStore
	teams    *memory.TeamStore
	assets   *memory.AssetPool
	lineups  *memory.LineupPopulator
	notifier *recordingNotifier
	timers   *stubTimers
	strat    *draft.RandomStrategy
	orch     *draft.Orchestrator
}

func newFixture(teamCount int, rules models.RosterRules, timers draft.Timekeeper) *fixture {
	f := &fixture{
		leagueID: uuid.New(),
		rules:    rules,
		states:   memory.NewDraftStateStore(),
		picks:    memory.NewPickStore(),
		rosters:  memory.NewRosterStore(),
		teams:    memory.NewTeamStore(),
		notifier: &recordingNotifier{},
	}
	f.assets = memory.NewAssetPool(f.picks)
	f.lineups = memory.NewLineupPopulator(f.rosters, f.teams)

	for i := 0; i < teamCount; i++ {
		teamID := uuid.New()
		f.order = append(f.order, teamID)
		f.teams.Seed(models.TeamEntry{
			ID: teamID, LeagueID: f.leagueID,
			Name: fmt.Sprintf("team-%d", i+1),
		})
	}
	for cat, cap := range rules.CategoryCaps {
		for i := 0; i < teamCount*cap+rules.FlexSlots*teamCount+2; i++ {
			f.assets.Seed(models.Asset{
				ID: uuid.New(), Category: cat,
				Name: fmt.Sprintf("%s-%d", cat, i+1),
			})
		}
	}
	f.states.Seed(models.DraftState{
		LeagueID:  f.leagueID,
		TeamOrder: f.order,
		Mode:      models.DraftModeSnake,
	})

	if timers == nil {
		f.timers = &stubTimers{}
		timers = f.timers
	}
	f.strat = draft.NewRandomStrategy(f.rosters, f.assets, rules)
	f.orch = draft.NewOrchestrator(draft.Deps{
		States:   f.states,
		Picks:    f.picks,
		Rosters:  f.rosters,
		Teams:    f.teams,
		Assets:   f.assets,
		Lineups:  f.lineups,
		Notifier: f.notifier,
		Timers:   timers,
		Strategy: f.strat,
		Rules:    rules,
	})
	return f
}

// pickThrough drives the draft to completion by asking the auto-pick
// strategy for a legal selection each turn.
func (f *fixture) pickThrough(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for {
		state, err := f.states.GetDraftState(ctx, f.leagueID)
		require.NoError(t, err)
		if state.Completed {
			return
		}
		teamID, err := draft.TeamOnClockForState(*state)
		require.NoError(t, err)
		team, err := f.teams.GetTeam(ctx, teamID)
		require.NoError(t, err)

		req, err := f.strat.Select(ctx, *state, *team)
		require.NoError(t, err)
		req.Auto = false

		_, err = f.orch.CommitPick(ctx, req)
		require.NoError(t, err)
	}
}

func tinyRules() models.RosterRules {
	return models.RosterRules{
		CategoryCaps: map[models.AssetCategory]int{
			models.CategoryStrain:  1,
			models.CategoryProduct: 1,
		},
		FlexSlots: 0,
	}
}

func TestStartRequiresTwoTeams(t *testing.T) {
	f := newFixture(1, tinyRules(), nil)
	err := f.orch.Start(context.Background(), f.leagueID)
	assert.ErrorIs(t, err, draft.ErrNotEnoughTeams)
}

func TestStartTwiceFails(t *testing.T) {
	f := newFixture(2, tinyRules(), nil)
	ctx := context.Background()

	require.NoError(t, f.orch.Start(ctx, f.leagueID))
	assert.ErrorIs(t, f.orch.Start(ctx, f.leagueID), draft.ErrAlreadyStarted)
}

func TestStartOpensFirstTurn(t *testing.T) {
	f := newFixture(2, tinyRules(), nil)
	require.NoError(t, f.orch.Start(context.Background(), f.leagueID))

	assert.Equal(t, []events.Type{events.TypeDraftStarted, events.TypeNextPick}, f.notifier.types())
	require.Len(t, f.timers.starts, 1)
	assert.Equal(t, 1, f.timers.starts[0])
	// the opening countdown belongs to the first team in the order
	assert.Equal(t, f.order[0], f.timers.teams[0])
}

func TestDraftRunsToCompletion(t *testing.T) {
	f := newFixture(4, tinyRules(), nil)
	ctx := context.Background()

	require.NoError(t, f.orch.Start(ctx, f.leagueID))
	f.pickThrough(t)

	state, err := f.states.GetDraftState(ctx, f.leagueID)
	require.NoError(t, err)
	assert.True(t, state.Completed)
	require.NotNil(t, state.CompletedAt)

	picks, err := f.picks.ListPicks(ctx, f.leagueID)
	require.NoError(t, err)
	total := 4 * f.rules.RosterSize()
	require.Len(t, picks, total)

	// pick numbers are exactly 1..total, no gaps, no repeats
	seen := make(map[int]bool)
	for _, p := range picks {
		assert.False(t, seen[p.PickNumber], "pick %d repeated", p.PickNumber)
		seen[p.PickNumber] = true
		assert.GreaterOrEqual(t, p.PickNumber, 1)
		assert.LessOrEqual(t, p.PickNumber, total)
	}

	// no asset appears twice
	assets := make(map[uuid.UUID]bool)
	for _, p := range picks {
		assert.False(t, assets[p.AssetID], "asset %s drafted twice", p.AssetID)
		assets[p.AssetID] = true
	}

	// every roster is full and lineups were populated
	for _, teamID := range f.order {
		entries, err := f.rosters.ListTeamEntries(ctx, f.leagueID, teamID)
		require.NoError(t, err)
		assert.Len(t, entries, f.rules.RosterSize())
		assert.Len(t, f.lineups.Starters(teamID), f.rules.RosterSize())
	}

	assert.Equal(t, 1, f.notifier.count(events.TypeDraftComplete))
	assert.Equal(t, 1, f.timers.stops)
}

func TestCommitAfterCompletionIsTerminal(t *testing.T) {
	f := newFixture(2, tinyRules(), nil)
	ctx := context.Background()

	require.NoError(t, f.orch.Start(ctx, f.leagueID))
	f.pickThrough(t)

	_, err := f.orch.CommitPick(ctx, draft.PickRequest{
		LeagueID: f.leagueID, TeamID: f.order[0],
		Category: models.CategoryStrain, AssetID: uuid.New(),
	})
	assert.ErrorIs(t, err, draft.ErrDraftCompleted)
}

func TestCheckAndCompleteIdempotent(t *testing.T) {
	f := newFixture(2, tinyRules(), nil)
	ctx := context.Background()

	require.NoError(t, f.orch.Start(ctx, f.leagueID))
	f.pickThrough(t)

	require.NoError(t, f.orch.CheckAndComplete(ctx, f.leagueID))
	require.NoError(t, f.orch.CheckAndComplete(ctx, f.leagueID))

	assert.Equal(t, 1, f.notifier.count(events.TypeDraftComplete))
}

func TestCheckAndCompleteLeavesRunningDraftAlone(t *testing.T) {
	f := newFixture(2, tinyRules(), nil)
	ctx := context.Background()

	require.NoError(t, f.orch.Start(ctx, f.leagueID))
	require.NoError(t, f.orch.CheckAndComplete(ctx, f.leagueID))

	state, err := f.states.GetDraftState(ctx, f.leagueID)
	require.NoError(t, err)
	assert.False(t, state.Completed)
}

func TestHandleExpiryStalePickIgnored(t *testing.T) {
	f := newFixture(2, tinyRules(), nil)
	ctx := context.Background()

	require.NoError(t, f.orch.Start(ctx, f.leagueID))

	// a timer armed for a pick that already advanced must do nothing
	require.NoError(t, f.orch.HandleExpiry(ctx, f.leagueID, 99))

	picks, err := f.picks.ListPicks(ctx, f.leagueID)
	require.NoError(t, err)
	assert.Empty(t, picks)
}

func TestHandleExpiryEnablesAutoPickAndCommits(t *testing.T) {
	f := newFixture(2, tinyRules(), nil)
	ctx := context.Background()

	require.NoError(t, f.orch.Start(ctx, f.leagueID))
	require.NoError(t, f.orch.HandleExpiry(ctx, f.leagueID, 1))

	picks, err := f.picks.ListPicks(ctx, f.leagueID)
	require.NoError(t, err)
	require.Len(t, picks, 1)
	assert.True(t, picks[0].AutoPicked)
	assert.Equal(t, f.order[0], picks[0].TeamID)

	team, err := f.teams.GetTeam(ctx, f.order[0])
	require.NoError(t, err)
	assert.True(t, team.AutoPick, "auto-pick stays enabled for future turns")
	assert.Equal(t, 1, f.notifier.count(events.TypeAutoPickEnabled))

	// pick 3 is the flagged team again: no second enable event for it, and
	// its timer is armed on the sticky fast path
	require.NoError(t, f.orch.HandleExpiry(ctx, f.leagueID, 2))
	require.NoError(t, f.orch.HandleExpiry(ctx, f.leagueID, 3))
	assert.Equal(t, 2, f.notifier.count(events.TypeAutoPickEnabled), "one enable event per team")

	f.timers.mu.Lock()
	defer f.timers.mu.Unlock()
	// pick 4's timer belongs to a team already flagged at pick 2
	assert.True(t, f.timers.sticky[len(f.timers.sticky)-1])
}

// Forty unattended picks: four teams, ten slots each (nine dedicated plus
// one flex), every timer expiring. The draft must run itself to completion
// through the expiry path alone, with each team's last pick landing in flex.
func TestFullDraftByTimerExpiry(t *testing.T) {
	rules := models.RosterRules{
		CategoryCaps: map[models.AssetCategory]int{
			models.CategoryManufacturer: 2,
			models.CategoryStrain:       2,
			models.CategoryProduct:      2,
			models.CategoryOutlet:       2,
			models.CategoryBrand:        1,
		},
		FlexSlots: 1,
	}

	sup := timekeeper.NewSupervisor(clockwork.NewRealClock(), notify.NopNotifier{}, timekeeper.Config{
		TickInterval:  time.Hour, // no ticks in this test
		AutoPickGrace: time.Millisecond,
	})
	defer sup.Shutdown()

	f := newFixture(4, rules, sup)
	sup.SetExpireFunc(f.orch.HandleExpiry)

	// zero pick limit: every countdown expires immediately
	ctx := context.Background()
	require.NoError(t, f.orch.Start(ctx, f.leagueID))

	require.Eventually(t, func() bool {
		state, err := f.states.GetDraftState(ctx, f.leagueID)
		return err == nil && state.Completed
	}, 10*time.Second, 10*time.Millisecond, "draft never completed")

	picks, err := f.picks.ListPicks(ctx, f.leagueID)
	require.NoError(t, err)
	require.Len(t, picks, 40)

	seen := make(map[int]bool)
	assets := make(map[uuid.UUID]bool)
	for _, p := range picks {
		assert.True(t, p.AutoPicked)
		assert.False(t, seen[p.PickNumber], "pick %d repeated", p.PickNumber)
		seen[p.PickNumber] = true
		assert.False(t, assets[p.AssetID], "asset %s drafted twice", p.AssetID)
		assets[p.AssetID] = true
	}
	for _, teamID := range f.order {
		entries, err := f.rosters.ListTeamEntries(ctx, f.leagueID, teamID)
		require.NoError(t, err)
		assert.Len(t, entries, 10)

		// dedicated categories cap out, so the strategy's flex fallback
		// must have supplied exactly one flex entry per team
		flex := 0
		for _, e := range entries {
			if e.Slot == models.SlotFlex {
				flex++
			}
		}
		assert.Equal(t, 1, flex, "team %s flex entries", teamID)
	}
}
