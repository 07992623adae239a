package timekeeper

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trendforge/fantasymarket/internal/draft/events"
	"github.com/trendforge/fantasymarket/internal/models"
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

func (r *recordingNotifier) byType(typ events.Type) []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []events.Event
	for _, ev := range r.events {
		if ev.Type == typ {
			out = append(out, ev)
		}
	}
	return out
}

type expiry struct {
	leagueID   uuid.UUID
	pickNumber int
}

func newTestSupervisor(t *testing.T) (*Supervisor, *clockwork.FakeClock, *recordingNotifier, chan expiry) {
	t.Helper()
	clock := clockwork.NewFakeClock()
	notifier := &recordingNotifier{}
	sup := NewSupervisor(clock, notifier, Config{
		TickInterval:  5 * time.Second,
		AutoPickGrace: 2 * time.Second,
	})
	expired := make(chan expiry, 4)
	sup.SetExpireFunc(func(_ context.Context, leagueID uuid.UUID, pickNumber int) error {
		expired <- expiry{leagueID: leagueID, pickNumber: pickNumber}
		return nil
	})
	t.Cleanup(sup.Shutdown)
	return sup, clock, notifier, expired
}

func waitExpiry(t *testing.T, ch chan expiry) expiry {
	t.Helper()
	select {
	case e := <-ch:
		return e
	case <-time.After(2 * time.Second):
		t.Fatal("expiry callback never fired")
		return expiry{}
	}
}

func TestCountdownExpires(t *testing.T) {
	sup, clock, notifier, expired := newTestSupervisor(t)
	leagueID := uuid.New()
	team := models.TeamEntry{ID: uuid.New(), Name: "Night Market"}

	sup.Start(leagueID, 3, team, 10*time.Second, false)
	clock.BlockUntil(2) // runner's timer and ticker are armed

	starts := notifier.byType(events.TypeTimerStart)
	require.Len(t, starts, 1)
	payload, err := events.ParsePayload(starts[0])
	require.NoError(t, err)
	assert.Equal(t, 3, payload.(events.TimerStartPayload).PickNumber)
	assert.Equal(t, 10, payload.(events.TimerStartPayload).TimeLimitSec)

	// the runner drains the ticker channel asynchronously, so poll for
	// the emitted tick instead of reading right after the advance
	clock.Advance(5 * time.Second)
	require.Eventually(t, func() bool {
		return len(notifier.byType(events.TypeTimerTick)) > 0
	}, 2*time.Second, 5*time.Millisecond)
	ticks := notifier.byType(events.TypeTimerTick)
	tick, err := events.ParsePayload(ticks[0])
	require.NoError(t, err)
	assert.Equal(t, 5, tick.(events.TimerTickPayload).RemainingSec)

	clock.Advance(5 * time.Second)
	got := waitExpiry(t, expired)
	assert.Equal(t, leagueID, got.leagueID)
	assert.Equal(t, 3, got.pickNumber)
}

func TestPauseResumePreservesRemaining(t *testing.T) {
	sup, clock, notifier, expired := newTestSupervisor(t)
	leagueID := uuid.New()
	team := models.TeamEntry{ID: uuid.New(), Name: "Night Market"}

	sup.Start(leagueID, 1, team, 10*time.Second, false)
	clock.BlockUntil(2)

	clock.Advance(4 * time.Second)
	sup.Pause(leagueID)

	pauses := notifier.byType(events.TypeTimerPause)
	require.Len(t, pauses, 1)
	payload, err := events.ParsePayload(pauses[0])
	require.NoError(t, err)
	assert.Equal(t, 6, payload.(events.TimerPausePayload).RemainingSec)

	// paused countdowns do not expire
	clock.Advance(time.Minute)
	select {
	case <-expired:
		t.Fatal("paused countdown fired")
	case <-time.After(50 * time.Millisecond):
	}

	sup.Resume(leagueID)
	clock.BlockUntil(2)

	resumes := notifier.byType(events.TypeTimerResume)
	require.Len(t, resumes, 1)
	payload, err = events.ParsePayload(resumes[0])
	require.NoError(t, err)
	assert.Equal(t, 6, payload.(events.TimerResumePayload).RemainingSec)

	clock.Advance(6 * time.Second)
	got := waitExpiry(t, expired)
	assert.Equal(t, 1, got.pickNumber)
}

func TestStickySkipsCountdown(t *testing.T) {
	sup, clock, notifier, expired := newTestSupervisor(t)
	leagueID := uuid.New()
	team := models.TeamEntry{ID: uuid.New(), Name: "Night Market", AutoPick: true}

	sup.Start(leagueID, 7, team, 10*time.Second, true)
	clock.BlockUntil(1)

	assert.Empty(t, notifier.byType(events.TypeTimerStart))

	clock.Advance(2 * time.Second)
	got := waitExpiry(t, expired)
	assert.Equal(t, 7, got.pickNumber)
	assert.Empty(t, notifier.byType(events.TypeTimerTick))
}

func TestStartReplacesPreviousCountdown(t *testing.T) {
	sup, clock, _, expired := newTestSupervisor(t)
	leagueID := uuid.New()
	team := models.TeamEntry{ID: uuid.New(), Name: "Night Market"}

	sup.Start(leagueID, 1, team, 10*time.Second, false)
	clock.BlockUntil(2)
	sup.Start(leagueID, 2, team, 10*time.Second, false)
	clock.BlockUntil(2)

	clock.Advance(10 * time.Second)
	got := waitExpiry(t, expired)
	assert.Equal(t, 2, got.pickNumber)

	select {
	case stale := <-expired:
		t.Fatalf("replaced countdown fired for pick %d", stale.pickNumber)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStopCancelsWithoutFiring(t *testing.T) {
	sup, clock, notifier, expired := newTestSupervisor(t)
	leagueID := uuid.New()
	team := models.TeamEntry{ID: uuid.New(), Name: "Night Market"}

	sup.Start(leagueID, 4, team, 10*time.Second, false)
	clock.BlockUntil(2)
	sup.Stop(leagueID)

	stops := notifier.byType(events.TypeTimerStop)
	require.Len(t, stops, 1)

	clock.Advance(time.Minute)
	select {
	case <-expired:
		t.Fatal("stopped countdown fired")
	case <-time.After(50 * time.Millisecond):
	}
}
