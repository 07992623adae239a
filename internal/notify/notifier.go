package notify

import (
	"context"

	"github.com/trendforge/fantasymarket/internal/draft/events"
)

// Notifier fans draft events out to connected clients. Publish is called
// under the orchestrator's league lock, so implementations that preserve
// call order also preserve per-league event order.
type Notifier interface {
	Publish(ctx context.Context, event events.Event) error
}

// NopNotifier drops every event. Useful for tests that only care about state.
type NopNotifier struct{}

func (NopNotifier) Publish(ctx context.Context, event events.Event) error { return nil }
