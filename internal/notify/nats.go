package notify

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog/log"

	"github.com/trendforge/fantasymarket/internal/draft/events"
)

const streamName = "DRAFT_EVENTS"

// NATSNotifier publishes draft events to a JetStream stream, one subject per
// league so per-league ordering is preserved by the subject sequence.
type NATSNotifier struct {
	nc            *nats.Conn
	js            nats.JetStreamContext
	subjectPrefix string
}

// NewNATSNotifier connects and ensures the event stream exists.
func NewNATSNotifier(natsURL, subjectPrefix string) (*NATSNotifier, error) {
	nc, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("connect to NATS: %w", err)
	}

	js, err := nc.JetStream()
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create JetStream context: %w", err)
	}

	if _, err := js.StreamInfo(streamName); err != nil {
		_, err = js.AddStream(&nats.StreamConfig{
			Name:     streamName,
			Subjects: []string{subjectPrefix + ".>"},
			Storage:  nats.FileStorage,
		})
		if err != nil {
			nc.Close()
			return nil, fmt.Errorf("create stream: %w", err)
		}
	}

	return &NATSNotifier{nc: nc, js: js, subjectPrefix: subjectPrefix}, nil
}

// Publish sends the event to <prefix>.<league>.<type>.
func (n *NATSNotifier) Publish(ctx context.Context, event events.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	subject := fmt.Sprintf("%s.%s.%s", n.subjectPrefix, event.LeagueID, event.Type)
	if _, err := n.js.Publish(subject, data, nats.Context(ctx)); err != nil {
		return fmt.Errorf("publish %s: %w", subject, err)
	}

	log.Debug().
		Str("subject", subject).
		Str("event_id", event.ID.String()).
		Msg("published draft event")
	return nil
}

// Close drains the underlying connection.
func (n *NATSNotifier) Close() {
	n.nc.Close()
}
