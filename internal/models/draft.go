package models

import (
	"time"

	"github.com/google/uuid"
)

// DraftState is the persistent draft record for one league. It is mutated
// only through the orchestrator; CurrentRound is always derived from
// CurrentPick so the two can never diverge.
type DraftState struct {
	LeagueID      uuid.UUID   `json:"league_id"`
	TeamOrder     []uuid.UUID `json:"team_order"`
	Mode          DraftMode   `json:"mode"`
	CurrentPick   int         `json:"current_pick"` // 1-based, never decreases
	PickTimeLimit int         `json:"pick_time_limit_sec"`
	Started       bool        `json:"started"`
	Completed     bool        `json:"completed"`
	StartedAt     *time.Time  `json:"started_at,omitempty"`
	CompletedAt   *time.Time  `json:"completed_at,omitempty"`
}

// TeamCount returns the number of teams in the draft order.
func (d DraftState) TeamCount() int {
	return len(d.TeamOrder)
}

// CurrentRound derives the round from the current pick.
func (d DraftState) CurrentRound() int {
	if d.TeamCount() == 0 {
		return 0
	}
	return (d.CurrentPick-1)/d.TeamCount() + 1
}

// TotalPicks is the theoretical last pick number for the given rules.
func (d DraftState) TotalPicks(rules RosterRules) int {
	return d.TeamCount() * rules.RosterSize()
}

// DraftPick is an immutable record of one completed pick.
type DraftPick struct {
	ID         uuid.UUID     `json:"id"`
	LeagueID   uuid.UUID     `json:"league_id"`
	TeamID     uuid.UUID     `json:"team_id"`
	Round      int           `json:"round"`
	PickNumber int           `json:"pick_number"`
	Category   AssetCategory `json:"category"`
	AssetID    uuid.UUID     `json:"asset_id"`
	Slot       RosterSlot    `json:"slot"`
	AutoPicked bool          `json:"auto_picked"`
	PickedAt   time.Time     `json:"picked_at"`
}

// TeamEntry is the slice of a fantasy team the draft engine needs: its spot
// in the order, display name, and the sticky auto-pick flag.
type TeamEntry struct {
	ID       uuid.UUID `json:"id"`
	LeagueID uuid.UUID `json:"league_id"`
	Name     string    `json:"name"`
	AutoPick bool      `json:"auto_pick"`
}
