package draft

import (
	"github.com/google/uuid"

	"github.com/trendforge/fantasymarket/internal/models"
)

// TeamOnClock maps a pick number and round onto the team whose turn it is.
//
// Linear mode walks the order the same way every round. Snake mode mirrors
// the order on even rounds so no team is always first; with two teams the
// mirror is deliberately not applied, so both modes alternate identically
// instead of handing one team two picks in a row across the round boundary.
func TeamOnClock(pickNumber, round int, teamOrder []uuid.UUID, mode models.DraftMode) (uuid.UUID, error) {
	n := len(teamOrder)
	if n == 0 {
		return uuid.Nil, ErrNoTeams
	}
	if pickNumber < 1 {
		return uuid.Nil, ErrInvalidPickNumber
	}

	idx := (pickNumber - 1) % n
	if mode == models.DraftModeSnake && n > 2 && round%2 == 0 {
		idx = n - 1 - idx
	}
	return teamOrder[idx], nil
}

// TeamOnClockForState is the convenience wrapper over the persisted state.
func TeamOnClockForState(state models.DraftState) (uuid.UUID, error) {
	return TeamOnClock(state.CurrentPick, state.CurrentRound(), state.TeamOrder, state.Mode)
}
