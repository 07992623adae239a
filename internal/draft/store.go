package draft

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/trendforge/fantasymarket/internal/models"
)

// StateStore persists the per-league draft state. The orchestrator is the
// only writer; implementations must make AdvancePick and MarkCompleted
// last-write-wins safe under the orchestrator's per-league lock.
type StateStore interface {
	GetDraftState(ctx context.Context, leagueID uuid.UUID) (*models.DraftState, error)
	MarkStarted(ctx context.Context, leagueID uuid.UUID, at time.Time) error
	AdvancePick(ctx context.Context, leagueID uuid.UUID, toPick int) error
	MarkCompleted(ctx context.Context, leagueID uuid.UUID, at time.Time) error
}

// PickStore persists immutable draft pick records. Implementations enforce
// the (league, category, asset) uniqueness constraint and surface a
// violation as ReasonAlreadyDrafted.
type PickStore interface {
	InsertPick(ctx context.Context, pick models.DraftPick) error
	ListPicks(ctx context.Context, leagueID uuid.UUID) ([]models.DraftPick, error)
	AssetDrafted(ctx context.Context, leagueID uuid.UUID, category models.AssetCategory, assetID uuid.UUID) (bool, error)
}

// RosterStore holds claimed roster slots, append-only during a draft.
type RosterStore interface {
	InsertEntry(ctx context.Context, entry models.RosterEntry) error
	ListTeamEntries(ctx context.Context, leagueID, teamID uuid.UUID) ([]models.RosterEntry, error)
	CountByLeague(ctx context.Context, leagueID uuid.UUID) (int, error)
}

// TeamStore exposes the team fields the draft engine reads and the sticky
// auto-pick flag it sets on timer expiry.
type TeamStore interface {
	GetTeam(ctx context.Context, teamID uuid.UUID) (*models.TeamEntry, error)
	ListTeams(ctx context.Context, leagueID uuid.UUID) ([]models.TeamEntry, error)
	SetAutoPick(ctx context.Context, teamID uuid.UUID, enabled bool) error
}

// AssetPool answers which market entities remain draftable in a league.
type AssetPool interface {
	GetAsset(ctx context.Context, id uuid.UUID) (*models.Asset, error)
	ListAvailableAssets(ctx context.Context, leagueID uuid.UUID, category models.AssetCategory) ([]models.Asset, error)
}

// LineupPopulator is the downstream collaborator invoked exactly once when a
// draft completes, to seed starting lineups from the drafted rosters.
type LineupPopulator interface {
	PopulateLineups(ctx context.Context, leagueID uuid.UUID) error
}

// Timekeeper is the per-league pick countdown the orchestrator drives.
// Starting a timer for a league replaces any previous one atomically.
type Timekeeper interface {
	Start(leagueID uuid.UUID, pickNumber int, team models.TeamEntry, limit time.Duration, sticky bool)
	Pause(leagueID uuid.UUID)
	Resume(leagueID uuid.UUID)
	Stop(leagueID uuid.UUID)
}

// PickRequest is a proposed pick flowing into validation and commit.
// Slot is explicit: a pick over a dedicated category cap is rejected unless
// the caller targeted the flex slot.
type PickRequest struct {
	LeagueID uuid.UUID            `json:"league_id"`
	TeamID   uuid.UUID            `json:"team_id"`
	Category models.AssetCategory `json:"category"`
	AssetID  uuid.UUID            `json:"asset_id"`
	Slot     models.RosterSlot    `json:"slot"`
	Auto     bool                 `json:"auto"`
}
