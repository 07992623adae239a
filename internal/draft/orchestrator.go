package draft

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/trendforge/fantasymarket/internal/draft/events"
	"github.com/trendforge/fantasymarket/internal/models"
	"github.com/trendforge/fantasymarket/internal/notify"
)

// Orchestrator is the draft state machine: NotStarted -> InProgress ->
// Completed. The persisted (currentPick, derived round) pair is the single
// source of truth for whose turn it is; every transition runs under a
// per-league mutex so concurrent pick attempts serialize and exactly one
// commit wins a given pick number. Locks are per league, never global, so
// unrelated drafts proceed independently.
type Orchestrator struct {
	states    StateStore
	picks     PickStore
	rosters   RosterStore
	teams     TeamStore
	assets    AssetPool
	lineups   LineupPopulator
	notifier  notify.Notifier
	timers    Timekeeper
	strat     AutoPickStrategy
	rules     models.RosterRules
	validator *Validator
	clock     clockwork.Clock

	mu       sync.Mutex
	leagueMu map[uuid.UUID]*sync.Mutex
}

// Deps bundles the orchestrator's collaborators.
type Deps struct {
	States   StateStore
	Picks    PickStore
	Rosters  RosterStore
	Teams    TeamStore
	Assets   AssetPool
	Lineups  LineupPopulator
	Notifier notify.Notifier
	Timers   Timekeeper
	Strategy AutoPickStrategy
	Rules    models.RosterRules
	Clock    clockwork.Clock
}

func NewOrchestrator(deps Deps) *Orchestrator {
	if deps.Clock == nil {
		deps.Clock = clockwork.NewRealClock()
	}
	return &Orchestrator{
		states:    deps.States,
		picks:     deps.Picks,
		rosters:   deps.Rosters,
		teams:     deps.Teams,
		assets:    deps.Assets,
		lineups:   deps.Lineups,
		notifier:  deps.Notifier,
		timers:    deps.Timers,
		strat:     deps.Strategy,
		rules:     deps.Rules,
		validator: NewValidator(deps.Picks, deps.Rosters, deps.Rules),
		clock:     deps.Clock,
		leagueMu:  make(map[uuid.UUID]*sync.Mutex),
	}
}

func (o *Orchestrator) leagueLock(leagueID uuid.UUID) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	mu, ok := o.leagueMu[leagueID]
	if !ok {
		mu = &sync.Mutex{}
		o.leagueMu[leagueID] = mu
	}
	return mu
}

// Start transitions a league from NotStarted to InProgress and opens the
// countdown for the first pick.
func (o *Orchestrator) Start(ctx context.Context, leagueID uuid.UUID) error {
	mu := o.leagueLock(leagueID)
	mu.Lock()
	defer mu.Unlock()

	state, err := o.states.GetDraftState(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("load draft state: %w", err)
	}
	if state.Completed {
		return ErrDraftCompleted
	}
	if state.Started {
		return ErrAlreadyStarted
	}
	if state.TeamCount() < 2 {
		return ErrNotEnoughTeams
	}

	now := o.clock.Now()
	if err := o.states.MarkStarted(ctx, leagueID, now); err != nil {
		return fmt.Errorf("mark draft started: %w", err)
	}
	// MarkStarted moved the persisted pick to 1; mirror it here so the
	// first turn opens on teamOrder[0] instead of the seeded zero.
	state.Started = true
	state.StartedAt = &now
	state.CurrentPick = 1

	log.Info().
		Str("league_id", leagueID.String()).
		Int("teams", state.TeamCount()).
		Str("mode", string(state.Mode)).
		Msg("draft started")

	o.emit(ctx, leagueID, events.TypeDraftStarted, events.DraftStartedPayload{
		Mode:       string(state.Mode),
		TeamCount:  state.TeamCount(),
		TotalPicks: state.TotalPicks(o.rules),
		StartedAt:  now,
	})

	return o.openTurn(ctx, *state)
}

// CommitPick validates and commits a pick, advancing the draft. Rejections
// leave no trace; storage failures abort the operation without internal
// retries. A commit on a completed league returns ErrDraftCompleted, which
// callers must treat as terminal.
func (o *Orchestrator) CommitPick(ctx context.Context, req PickRequest) (*models.DraftPick, error) {
	mu := o.leagueLock(req.LeagueID)
	mu.Lock()
	defer mu.Unlock()
	return o.commitPickLocked(ctx, req)
}

func (o *Orchestrator) commitPickLocked(ctx context.Context, req PickRequest) (*models.DraftPick, error) {
	state, err := o.states.GetDraftState(ctx, req.LeagueID)
	if err != nil {
		return nil, fmt.Errorf("load draft state: %w", err)
	}
	if err := o.validator.Validate(ctx, *state, req); err != nil {
		return nil, err
	}

	slot := req.Slot
	if slot == "" {
		slot = models.SlotDedicated
	}

	now := o.clock.Now()
	pick := models.DraftPick{
		ID:         uuid.New(),
		LeagueID:   req.LeagueID,
		TeamID:     req.TeamID,
		Round:      state.CurrentRound(),
		PickNumber: state.CurrentPick,
		Category:   req.Category,
		AssetID:    req.AssetID,
		Slot:       slot,
		AutoPicked: req.Auto,
		PickedAt:   now,
	}
	if err := o.picks.InsertPick(ctx, pick); err != nil {
		return nil, fmt.Errorf("insert pick record: %w", err)
	}
	if err := o.rosters.InsertEntry(ctx, models.RosterEntry{
		ID:         uuid.New(),
		LeagueID:   req.LeagueID,
		TeamID:     req.TeamID,
		Category:   req.Category,
		AssetID:    req.AssetID,
		Slot:       slot,
		AcquiredAt: now,
	}); err != nil {
		return nil, fmt.Errorf("insert roster entry: %w", err)
	}

	next := state.CurrentPick + 1
	if err := o.states.AdvancePick(ctx, req.LeagueID, next); err != nil {
		return nil, fmt.Errorf("advance pick: %w", err)
	}

	teamName := o.teamName(ctx, req.TeamID)
	assetName := o.assetName(ctx, req.AssetID)
	log.Info().
		Str("league_id", req.LeagueID.String()).
		Str("team", teamName).
		Str("category", string(req.Category)).
		Str("asset", assetName).
		Int("pick_number", pick.PickNumber).
		Bool("auto", req.Auto).
		Msg("pick committed")

	o.emit(ctx, req.LeagueID, events.TypePlayerPicked, events.PlayerPickedPayload{
		TeamID:     req.TeamID.String(),
		TeamName:   teamName,
		Category:   string(req.Category),
		AssetID:    req.AssetID.String(),
		AssetName:  assetName,
		PickNumber: pick.PickNumber,
		AutoPicked: req.Auto,
		PickedAt:   now,
	})

	state.CurrentPick = next
	if next > state.TotalPicks(o.rules) {
		if err := o.completeLocked(ctx, state); err != nil {
			return nil, err
		}
		return &pick, nil
	}
	if err := o.openTurn(ctx, *state); err != nil {
		return nil, err
	}
	return &pick, nil
}

// openTurn announces the team on the clock and arms its timer.
func (o *Orchestrator) openTurn(ctx context.Context, state models.DraftState) error {
	teamID, err := TeamOnClockForState(state)
	if err != nil {
		return err
	}
	team, err := o.teams.GetTeam(ctx, teamID)
	if err != nil {
		return fmt.Errorf("load team on clock: %w", err)
	}

	o.emit(ctx, state.LeagueID, events.TypeNextPick, events.NextPickPayload{
		TeamID:     team.ID.String(),
		TeamName:   team.Name,
		PickNumber: state.CurrentPick,
		Round:      state.CurrentRound(),
	})

	o.timers.Start(state.LeagueID, state.CurrentPick, *team,
		time.Duration(state.PickTimeLimit)*time.Second, team.AutoPick)
	return nil
}

// CheckAndComplete is the idempotent reconciliation path: it forces the
// Completed transition when every slot is filled or the pick counter ran
// past the end, regardless of how the draft got there. Safe to call
// redundantly; only the first effective call performs side effects.
func (o *Orchestrator) CheckAndComplete(ctx context.Context, leagueID uuid.UUID) error {
	mu := o.leagueLock(leagueID)
	mu.Lock()
	defer mu.Unlock()

	state, err := o.states.GetDraftState(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("load draft state: %w", err)
	}
	return o.checkAndCompleteLocked(ctx, state)
}

func (o *Orchestrator) checkAndCompleteLocked(ctx context.Context, state *models.DraftState) error {
	if state.Completed || !state.Started {
		return nil
	}

	total := state.TotalPicks(o.rules)
	if state.CurrentPick <= total {
		filled, err := o.rosters.CountByLeague(ctx, state.LeagueID)
		if err != nil {
			return fmt.Errorf("count roster entries: %w", err)
		}
		if filled < total {
			return nil
		}
	}
	return o.completeLocked(ctx, state)
}

func (o *Orchestrator) completeLocked(ctx context.Context, state *models.DraftState) error {
	if state.Completed {
		return nil
	}
	now := o.clock.Now()
	if err := o.states.MarkCompleted(ctx, state.LeagueID, now); err != nil {
		return fmt.Errorf("mark draft completed: %w", err)
	}
	state.Completed = true
	o.timers.Stop(state.LeagueID)

	var duration string
	if state.StartedAt != nil {
		duration = now.Sub(*state.StartedAt).String()
	}
	log.Info().
		Str("league_id", state.LeagueID.String()).
		Str("duration", duration).
		Msg("draft completed")

	o.emit(ctx, state.LeagueID, events.TypeDraftComplete, events.DraftCompletePayload{
		TotalPicks:  state.TotalPicks(o.rules),
		CompletedAt: now,
		Duration:    duration,
	})

	if err := o.lineups.PopulateLineups(ctx, state.LeagueID); err != nil {
		return fmt.Errorf("populate lineups: %w", err)
	}
	return nil
}

// HandleExpiry is the timer expiry callback. The pick number the timer was
// armed for travels with it; a mismatch means the turn already advanced and
// the expiry is a stale, benign race to be dropped silently.
func (o *Orchestrator) HandleExpiry(ctx context.Context, leagueID uuid.UUID, pickNumber int) error {
	mu := o.leagueLock(leagueID)
	mu.Lock()
	defer mu.Unlock()

	state, err := o.states.GetDraftState(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("load draft state: %w", err)
	}
	if !state.Started || state.Completed {
		return nil
	}
	if state.CurrentPick != pickNumber {
		log.Debug().
			Str("league_id", leagueID.String()).
			Int("expired_pick", pickNumber).
			Int("current_pick", state.CurrentPick).
			Msg("stale timer expiry ignored")
		return nil
	}

	teamID, err := TeamOnClockForState(*state)
	if err != nil {
		return err
	}
	team, err := o.teams.GetTeam(ctx, teamID)
	if err != nil {
		return fmt.Errorf("load team on clock: %w", err)
	}

	if !team.AutoPick {
		if err := o.teams.SetAutoPick(ctx, teamID, true); err != nil {
			return fmt.Errorf("enable auto-pick: %w", err)
		}
		team.AutoPick = true
		log.Info().
			Str("league_id", leagueID.String()).
			Str("team", team.Name).
			Msg("auto-pick enabled after timer expiry")
		o.emit(ctx, leagueID, events.TypeAutoPickEnabled, events.AutoPickEnabledPayload{
			TeamID:   team.ID.String(),
			TeamName: team.Name,
			Reason:   "pick timer expired",
		})
	}

	req, err := o.strat.Select(ctx, *state, *team)
	if errors.Is(err, ErrNoEligibleAssets) {
		return o.checkAndCompleteLocked(ctx, state)
	}
	if err != nil {
		return fmt.Errorf("auto-pick selection: %w", err)
	}

	if _, err := o.commitPickLocked(ctx, req); err != nil {
		if _, ok := IsRejection(err); ok {
			log.Warn().Err(err).
				Str("league_id", leagueID.String()).
				Msg("auto-pick rejected")
			return nil
		}
		return fmt.Errorf("auto-pick commit: %w", err)
	}
	return nil
}

// Pause freezes the current pick timer, preserving remaining time.
func (o *Orchestrator) Pause(ctx context.Context, leagueID uuid.UUID) error {
	mu := o.leagueLock(leagueID)
	mu.Lock()
	defer mu.Unlock()

	state, err := o.states.GetDraftState(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("load draft state: %w", err)
	}
	if !state.Started {
		return errors.New("draft not started")
	}
	if state.Completed {
		return ErrDraftCompleted
	}
	o.timers.Pause(leagueID)
	return nil
}

// Resume restarts a paused timer with its remaining duration.
func (o *Orchestrator) Resume(ctx context.Context, leagueID uuid.UUID) error {
	mu := o.leagueLock(leagueID)
	mu.Lock()
	defer mu.Unlock()

	state, err := o.states.GetDraftState(ctx, leagueID)
	if err != nil {
		return fmt.Errorf("load draft state: %w", err)
	}
	if state.Completed {
		return ErrDraftCompleted
	}
	o.timers.Resume(leagueID)
	return nil
}

func (o *Orchestrator) emit(ctx context.Context, leagueID uuid.UUID, typ events.Type, payload any) {
	ev, err := events.New(leagueID, typ, o.clock.Now(), payload)
	if err != nil {
		log.Error().Err(err).Str("type", string(typ)).Msg("failed to build event")
		return
	}
	if err := o.notifier.Publish(ctx, ev); err != nil {
		log.Error().Err(err).
			Str("league_id", leagueID.String()).
			Str("type", string(typ)).
			Msg("failed to publish event")
	}
}

func (o *Orchestrator) teamName(ctx context.Context, teamID uuid.UUID) string {
	team, err := o.teams.GetTeam(ctx, teamID)
	if err != nil {
		return teamID.String()
	}
	return team.Name
}

func (o *Orchestrator) assetName(ctx context.Context, assetID uuid.UUID) string {
	asset, err := o.assets.GetAsset(ctx, assetID)
	if err != nil {
		return assetID.String()
	}
	return asset.Name
}
