package outbox

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/trendforge/fantasymarket/internal/draft/events"
)

// Notifier satisfies notify.Notifier by writing rows instead of publishing.
// Events survive a process crash between commit and broker delivery; the
// relay performs the actual publish.
type Notifier struct {
	store *Store
}

func NewNotifier(store *Store) *Notifier {
	return &Notifier{store: store}
}

func (n *Notifier) Publish(ctx context.Context, event events.Event) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event envelope: %w", err)
	}
	return n.store.Insert(ctx, Row{
		ID:        event.ID,
		LeagueID:  event.LeagueID,
		EventType: string(event.Type),
		Payload:   payload,
		CreatedAt: event.Timestamp,
	})
}
