package timekeeper

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/trendforge/fantasymarket/internal/draft/events"
	"github.com/trendforge/fantasymarket/internal/models"
	"github.com/trendforge/fantasymarket/internal/notify"
)

// ExpireFunc is invoked when a pick countdown runs out. It carries the pick
// number the timer was armed for so a stale expiry can be recognized and
// dropped by the receiver.
type ExpireFunc func(ctx context.Context, leagueID uuid.UUID, pickNumber int) error

// Config tunes the countdown behavior.
type Config struct {
	// TickInterval is how often timer_tick events go out. Coarser than a
	// second is fine; clients interpolate.
	TickInterval time.Duration
	// AutoPickGrace is the short delay before a sticky auto-pick team's
	// selection fires, so observers can perceive the turn.
	AutoPickGrace time.Duration
}

func DefaultConfig() Config {
	return Config{
		TickInterval:  5 * time.Second,
		AutoPickGrace: 2 * time.Second,
	}
}

// Supervisor owns at most one countdown per league. Each countdown is a
// runner goroutine with its own cancellation; starting a new one atomically
// cancels the old, so a stale expiry can never fire after its turn advanced.
// Only the expiry callback performs storage I/O — the countdown itself never
// blocks on anything but the clock.
type Supervisor struct {
	clock    clockwork.Clock
	notifier notify.Notifier
	cfg      Config
	expire   ExpireFunc

	mu      sync.Mutex
	runners map[uuid.UUID]*runner
}

func NewSupervisor(clock clockwork.Clock, notifier notify.Notifier, cfg Config) *Supervisor {
	if cfg.TickInterval <= 0 {
		cfg.TickInterval = DefaultConfig().TickInterval
	}
	if cfg.AutoPickGrace <= 0 {
		cfg.AutoPickGrace = DefaultConfig().AutoPickGrace
	}
	return &Supervisor{
		clock:    clock,
		notifier: notifier,
		cfg:      cfg,
		runners:  make(map[uuid.UUID]*runner),
	}
}

// SetExpireFunc wires the expiry callback. Must be called before Start.
func (s *Supervisor) SetExpireFunc(fn ExpireFunc) {
	s.expire = fn
}

// Start arms the countdown for a pick, replacing any previous countdown for
// the league. Sticky teams skip the countdown: after the grace delay the
// expiry path fires directly.
func (s *Supervisor) Start(leagueID uuid.UUID, pickNumber int, team models.TeamEntry, limit time.Duration, sticky bool) {
	s.mu.Lock()
	if prev, ok := s.runners[leagueID]; ok {
		prev.cancel()
	}

	duration := limit
	if sticky {
		duration = s.cfg.AutoPickGrace
	}
	ctx, cancel := context.WithCancel(context.Background())
	r := &runner{
		leagueID:   leagueID,
		pickNumber: pickNumber,
		teamID:     team.ID,
		limit:      limit,
		sticky:     sticky,
		remaining:  duration,
		deadline:   s.clock.Now().Add(duration),
		cancel:     cancel,
	}
	s.runners[leagueID] = r
	s.mu.Unlock()

	if !sticky {
		s.emit(leagueID, events.TypeTimerStart, events.TimerStartPayload{
			PickNumber:   pickNumber,
			TeamID:       team.ID.String(),
			TimeLimitSec: int(limit / time.Second),
			StartTime:    s.clock.Now(),
		})
	}

	go s.run(ctx, r, s.arm(duration, sticky))
}

// arm creates the countdown clocks synchronously so a caller observing Start
// returning knows the deadline is live.
func (s *Supervisor) arm(duration time.Duration, sticky bool) countdown {
	cd := countdown{timer: s.clock.NewTimer(duration)}
	if !sticky {
		cd.ticker = s.clock.NewTicker(s.cfg.TickInterval)
	}
	return cd
}

type countdown struct {
	timer  clockwork.Timer
	ticker clockwork.Ticker
}

// Pause freezes a league's countdown, remembering the remaining time.
func (s *Supervisor) Pause(leagueID uuid.UUID) {
	s.mu.Lock()
	r, ok := s.runners[leagueID]
	if !ok || r.paused {
		s.mu.Unlock()
		return
	}
	r.cancel()
	r.paused = true
	r.remaining = r.deadline.Sub(s.clock.Now())
	if r.remaining < 0 {
		r.remaining = 0
	}
	remaining := r.remaining
	s.mu.Unlock()

	s.emit(leagueID, events.TypeTimerPause, events.TimerPausePayload{
		RemainingSec: int(remaining / time.Second),
	})
}

// Resume restarts a paused countdown with the time that was left, not the
// full limit.
func (s *Supervisor) Resume(leagueID uuid.UUID) {
	s.mu.Lock()
	r, ok := s.runners[leagueID]
	if !ok || !r.paused {
		s.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.paused = false
	r.deadline = s.clock.Now().Add(r.remaining)
	remaining := r.remaining
	pickNumber := r.pickNumber
	sticky := r.sticky
	s.mu.Unlock()

	s.emit(leagueID, events.TypeTimerResume, events.TimerResumePayload{
		PickNumber:   pickNumber,
		RemainingSec: int(remaining / time.Second),
	})

	go s.run(ctx, r, s.arm(remaining, sticky))
}

// Stop cancels a league's countdown without firing it.
func (s *Supervisor) Stop(leagueID uuid.UUID) {
	s.mu.Lock()
	r, ok := s.runners[leagueID]
	if ok {
		r.cancel()
		delete(s.runners, leagueID)
	}
	s.mu.Unlock()
	if !ok {
		return
	}

	s.emit(leagueID, events.TypeTimerStop, events.TimerStopPayload{
		PickNumber: r.pickNumber,
	})
}

// Shutdown cancels every countdown. Used on process exit.
func (s *Supervisor) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, r := range s.runners {
		r.cancel()
		delete(s.runners, id)
	}
}

type runner struct {
	leagueID   uuid.UUID
	pickNumber int
	teamID     uuid.UUID
	limit      time.Duration
	sticky     bool

	// guarded by the supervisor mutex
	remaining time.Duration
	deadline  time.Time
	paused    bool
	cancel    context.CancelFunc
}

// run counts down and fires the expiry callback. It holds no supervisor
// lock while calling the callback, so the callback may re-enter Start/Stop.
func (s *Supervisor) run(ctx context.Context, r *runner, cd countdown) {
	defer cd.timer.Stop()

	var tickCh <-chan time.Time
	if cd.ticker != nil {
		defer cd.ticker.Stop()
		tickCh = cd.ticker.Chan()
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-tickCh:
			s.mu.Lock()
			remaining := r.deadline.Sub(s.clock.Now())
			s.mu.Unlock()
			if remaining < 0 {
				remaining = 0
			}
			s.emit(r.leagueID, events.TypeTimerTick, events.TimerTickPayload{
				PickNumber:   r.pickNumber,
				RemainingSec: int(remaining / time.Second),
			})
		case <-cd.timer.Chan():
			if ctx.Err() != nil {
				return
			}
			s.fire(r)
			return
		}
	}
}

// fire runs the expiry callback on a fresh context so storage work in the
// callback is not cut short by the runner's own cancellation.
func (s *Supervisor) fire(r *runner) {
	if s.expire == nil {
		log.Error().
			Str("league_id", r.leagueID.String()).
			Msg("timer expired with no expire func wired")
		return
	}
	if err := s.expire(context.Background(), r.leagueID, r.pickNumber); err != nil {
		log.Error().Err(err).
			Str("league_id", r.leagueID.String()).
			Int("pick_number", r.pickNumber).
			Msg("expiry handling failed")
	}
}

func (s *Supervisor) emit(leagueID uuid.UUID, typ events.Type, payload any) {
	ev, err := events.New(leagueID, typ, s.clock.Now(), payload)
	if err != nil {
		log.Error().Err(err).Str("type", string(typ)).Msg("failed to build timer event")
		return
	}
	if err := s.notifier.Publish(context.Background(), ev); err != nil {
		log.Error().Err(err).
			Str("league_id", leagueID.String()).
			Str("type", string(typ)).
			Msg("failed to publish timer event")
	}
}
