package draft

import (
	"errors"
	"fmt"
)

var (
	// ErrNoTeams is returned by the turn calculator for an empty team order.
	ErrNoTeams = errors.New("draft has no teams")

	// ErrInvalidPickNumber is returned by the turn calculator for pick
	// numbers below 1 (picks are 1-based).
	ErrInvalidPickNumber = errors.New("pick number must be at least 1")

	// ErrDraftCompleted is terminal: the draft is over and no further picks
	// will ever be accepted. Callers should stop retrying.
	ErrDraftCompleted = errors.New("draft already completed")

	// ErrAlreadyStarted guards Start against double invocation.
	ErrAlreadyStarted = errors.New("draft already started")

	// ErrNotEnoughTeams guards Start: a draft needs at least two teams.
	ErrNotEnoughTeams = errors.New("draft requires at least two teams")
)

// RejectReason classifies why a proposed pick was refused.
type RejectReason string

const (
	ReasonNotStarted     RejectReason = "draft_not_started"
	ReasonNotYourTurn    RejectReason = "not_your_turn"
	ReasonAlreadyDrafted RejectReason = "asset_already_drafted"
	ReasonCategoryFull   RejectReason = "category_full"
	ReasonFlexOccupied   RejectReason = "flex_occupied"
	ReasonRosterFull     RejectReason = "roster_full"
)

// RejectionError is a recoverable validation failure. No state was mutated;
// the caller may correct the request and try again.
type RejectionError struct {
	Reason  RejectReason
	Message string
}

func (e *RejectionError) Error() string {
	return fmt.Sprintf("pick rejected (%s): %s", e.Reason, e.Message)
}

func reject(reason RejectReason, format string, args ...any) *RejectionError {
	return &RejectionError{Reason: reason, Message: fmt.Sprintf(format, args...)}
}

// IsRejection reports whether err is a pick rejection and returns it.
func IsRejection(err error) (*RejectionError, bool) {
	var re *RejectionError
	if errors.As(err, &re) {
		return re, true
	}
	return nil, false
}
