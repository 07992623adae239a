package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Type is the wire name of a draft event.
type Type string

const (
	TypeDraftStarted    Type = "draft_started"
	TypeTimerStart      Type = "timer_start"
	TypeTimerTick       Type = "timer_tick"
	TypeTimerPause      Type = "timer_pause"
	TypeTimerResume     Type = "timer_resume"
	TypeTimerStop       Type = "timer_stop"
	TypePlayerPicked    Type = "player_picked"
	TypeNextPick        Type = "next_pick"
	TypeAutoPickEnabled Type = "auto_pick_enabled"
	TypeDraftComplete   Type = "draft_complete"
)

// Event is the envelope every notification travels in. Data holds the
// type-specific payload; ParsePayload recovers the typed struct.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	LeagueID  uuid.UUID       `json:"league_id"`
	Type      Type            `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// New builds an envelope around a payload struct.
func New(leagueID uuid.UUID, typ Type, at time.Time, payload any) (Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return Event{}, fmt.Errorf("marshal %s payload: %w", typ, err)
	}
	return Event{
		ID:        uuid.New(),
		LeagueID:  leagueID,
		Type:      typ,
		Timestamp: at,
		Data:      data,
	}, nil
}

// DraftStartedPayload announces the draft going live.
type DraftStartedPayload struct {
	Mode       string    `json:"mode"`
	TeamCount  int       `json:"team_count"`
	TotalPicks int       `json:"total_picks"`
	StartedAt  time.Time `json:"started_at"`
}

// TimerStartPayload opens the countdown for one pick.
type TimerStartPayload struct {
	PickNumber   int       `json:"pick_number"`
	TeamID       string    `json:"team_id"`
	TimeLimitSec int       `json:"time_limit_sec"`
	StartTime    time.Time `json:"start_time"`
}

// TimerTickPayload is a coarse periodic countdown update; clients
// interpolate between ticks.
type TimerTickPayload struct {
	PickNumber   int `json:"pick_number"`
	RemainingSec int `json:"remaining_sec"`
}

type TimerPausePayload struct {
	RemainingSec int `json:"remaining_sec"`
}

type TimerResumePayload struct {
	PickNumber   int `json:"pick_number"`
	RemainingSec int `json:"remaining_sec"`
}

type TimerStopPayload struct {
	PickNumber int `json:"pick_number"`
}

// PlayerPickedPayload records a committed pick.
type PlayerPickedPayload struct {
	TeamID     string    `json:"team_id"`
	TeamName   string    `json:"team_name"`
	Category   string    `json:"category"`
	AssetID    string    `json:"asset_id"`
	AssetName  string    `json:"asset_name"`
	PickNumber int       `json:"pick_number"`
	AutoPicked bool      `json:"auto_picked"`
	PickedAt   time.Time `json:"picked_at"`
}

// NextPickPayload advances the clock to the next team.
type NextPickPayload struct {
	TeamID     string `json:"team_id"`
	TeamName   string `json:"team_name"`
	PickNumber int    `json:"pick_number"`
	Round      int    `json:"round"`
}

type AutoPickEnabledPayload struct {
	TeamID   string `json:"team_id"`
	TeamName string `json:"team_name"`
	Reason   string `json:"reason"`
}

type DraftCompletePayload struct {
	TotalPicks  int       `json:"total_picks"`
	CompletedAt time.Time `json:"completed_at"`
	Duration    string    `json:"duration,omitempty"`
}

// ParsePayload decodes the envelope's Data into the payload struct for its
// type. Unknown types return (nil, nil) so consumers can skip them.
func ParsePayload(e Event) (any, error) {
	switch e.Type {
	case TypeDraftStarted:
		return decode[DraftStartedPayload](e)
	case TypeTimerStart:
		return decode[TimerStartPayload](e)
	case TypeTimerTick:
		return decode[TimerTickPayload](e)
	case TypeTimerPause:
		return decode[TimerPausePayload](e)
	case TypeTimerResume:
		return decode[TimerResumePayload](e)
	case TypeTimerStop:
		return decode[TimerStopPayload](e)
	case TypePlayerPicked:
		return decode[PlayerPickedPayload](e)
	case TypeNextPick:
		return decode[NextPickPayload](e)
	case TypeAutoPickEnabled:
		return decode[AutoPickEnabledPayload](e)
	case TypeDraftComplete:
		return decode[DraftCompletePayload](e)
	default:
		return nil, nil
	}
}

func decode[T any](e Event) (any, error) {
	var payload T
	if err := json.Unmarshal(e.Data, &payload); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", e.Type, err)
	}
	return payload, nil
}
