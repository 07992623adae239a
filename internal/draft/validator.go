package draft

import (
	"context"
	"fmt"

	"github.com/trendforge/fantasymarket/internal/models"
)

// Validator checks pick legality against the current draft state. It is
// purely advisory: it never mutates anything, and the orchestrator re-runs
// it under the league lock before committing.
type Validator struct {
	picks   PickStore
	rosters RosterStore
	rules   models.RosterRules
}

func NewValidator(picks PickStore, rosters RosterStore, rules models.RosterRules) *Validator {
	return &Validator{picks: picks, rosters: rosters, rules: rules}
}

// Validate runs the legality checks in order, short-circuiting on the first
// failure. A nil return means the pick may be committed.
func (v *Validator) Validate(ctx context.Context, state models.DraftState, req PickRequest) error {
	if !state.Started {
		return reject(ReasonNotStarted, "draft has not started")
	}
	if state.Completed {
		return ErrDraftCompleted
	}

	onClock, err := TeamOnClockForState(state)
	if err != nil {
		return err
	}
	if onClock != req.TeamID {
		return reject(ReasonNotYourTurn, "pick %d belongs to another team", state.CurrentPick)
	}

	taken, err := v.picks.AssetDrafted(ctx, req.LeagueID, req.Category, req.AssetID)
	if err != nil {
		return fmt.Errorf("check drafted asset: %w", err)
	}
	if taken {
		return reject(ReasonAlreadyDrafted, "%s %s is already on a roster", req.Category, req.AssetID)
	}

	entries, err := v.rosters.ListTeamEntries(ctx, req.LeagueID, req.TeamID)
	if err != nil {
		return fmt.Errorf("list roster entries: %w", err)
	}

	dedicated := 0
	flexUsed := 0
	for _, e := range entries {
		if e.Slot == models.SlotFlex {
			flexUsed++
			continue
		}
		if e.Category == req.Category {
			dedicated++
		}
	}

	switch req.Slot {
	case models.SlotFlex:
		if flexUsed >= v.rules.FlexSlots {
			return reject(ReasonFlexOccupied, "flex slot already filled")
		}
	default:
		if dedicated >= v.rules.Cap(req.Category) {
			// Routing an over-cap pick to flex is the caller's call, never
			// inferred here.
			return reject(ReasonCategoryFull, "%s slots full (cap %d); target the flex slot instead", req.Category, v.rules.Cap(req.Category))
		}
	}

	if len(entries) >= v.rules.RosterSize() {
		return reject(ReasonRosterFull, "roster full (%d slots)", v.rules.RosterSize())
	}
	return nil
}
