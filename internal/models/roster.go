package models

import (
	"time"

	"github.com/google/uuid"
)

// RosterRules holds the slot layout every team drafts against: a hard cap
// per dedicated category plus exactly one flex slot that accepts anything.
type RosterRules struct {
	CategoryCaps map[AssetCategory]int `json:"category_caps"`
	FlexSlots    int                   `json:"flex_slots"`
}

// DefaultRosterRules is the standard 2-per-category, one-flex layout
// (5 categories x 2 + 1 flex = 11 slots).
func DefaultRosterRules() RosterRules {
	caps := make(map[AssetCategory]int, len(AllCategories()))
	for _, c := range AllCategories() {
		caps[c] = 2
	}
	return RosterRules{CategoryCaps: caps, FlexSlots: 1}
}

// Cap returns the dedicated-slot cap for a category.
func (r RosterRules) Cap(c AssetCategory) int {
	return r.CategoryCaps[c]
}

// RosterSize is the total number of slots, flex included.
func (r RosterRules) RosterSize() int {
	total := r.FlexSlots
	for _, n := range r.CategoryCaps {
		total += n
	}
	return total
}

// RosterEntry is one claimed slot on a team's roster. Entries are append-only
// during a draft; the owning pick record is the audit trail.
type RosterEntry struct {
	ID         uuid.UUID     `json:"id"`
	LeagueID   uuid.UUID     `json:"league_id"`
	TeamID     uuid.UUID     `json:"team_id"`
	Category   AssetCategory `json:"category"`
	AssetID    uuid.UUID     `json:"asset_id"`
	Slot       RosterSlot    `json:"slot"`
	AcquiredAt time.Time     `json:"acquired_at"`
}

// Asset is a draftable market entity as the draft engine sees it.
type Asset struct {
	ID       uuid.UUID     `json:"id"`
	Category AssetCategory `json:"category"`
	Name     string        `json:"name"`
}
