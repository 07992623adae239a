package outbox

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"

	"github.com/trendforge/fantasymarket/internal/draft/events"
	"github.com/trendforge/fantasymarket/internal/notify"
)

// RelayConfig tunes the outbox drain loop.
type RelayConfig struct {
	DatabaseURL      string        // Postgres DSN for LISTEN/NOTIFY
	FallbackInterval time.Duration // how often to poll for missed events
	MaxRetries       int
	RetryDelay       time.Duration
	PingInterval     time.Duration
	BatchSize        int
}

func DefaultRelayConfig(databaseURL string) RelayConfig {
	return RelayConfig{
		DatabaseURL:      databaseURL,
		FallbackInterval: 30 * time.Second,
		MaxRetries:       5,
		RetryDelay:       200 * time.Millisecond,
		PingInterval:     90 * time.Second,
		BatchSize:        100,
	}
}

// Relay drains outbox rows to a downstream notifier. NOTIFY wake-ups give
// low latency; the fallback poll catches anything a dropped connection
// missed.
type Relay struct {
	store    *Store
	listener *pq.Listener
	sink     notify.Notifier
	cfg      RelayConfig
}

func NewRelay(store *Store, sink notify.Notifier, cfg RelayConfig) (*Relay, error) {
	l := pq.NewListener(
		cfg.DatabaseURL,
		10*time.Second,
		time.Minute,
		func(ev pq.ListenerEventType, err error) {
			if err != nil {
				log.Error().Err(err).Msg("outbox listener event")
			}
		},
	)
	if err := l.Listen(NotifyChannel); err != nil {
		return nil, fmt.Errorf("listen on %s: %w", NotifyChannel, err)
	}

	log.Info().Str("channel", NotifyChannel).Msg("outbox relay listening")
	return &Relay{store: store, listener: l, sink: sink, cfg: cfg}, nil
}

// Run drains until ctx is done. Call in its own goroutine.
func (r *Relay) Run(ctx context.Context) error {
	pingTicker := time.NewTicker(r.cfg.PingInterval)
	fallbackTicker := time.NewTicker(r.cfg.FallbackInterval)
	defer pingTicker.Stop()
	defer fallbackTicker.Stop()

	// anything left over from a previous run goes first
	if err := r.drainUnsent(ctx); err != nil {
		log.Error().Err(err).Msg("initial outbox drain failed")
	}

	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("outbox relay shutting down")
			return r.listener.Close()
		case note := <-r.listener.Notify:
			if note == nil {
				// connection was lost and re-established; the fallback
				// poll covers whatever was missed
				continue
			}
			if err := r.handleNotification(ctx, note.Extra); err != nil {
				log.Error().Err(err).Msg("failed to handle outbox notification")
			}
		case <-fallbackTicker.C:
			if err := r.drainUnsent(ctx); err != nil {
				log.Error().Err(err).Msg("outbox fallback drain failed")
			}
		case <-pingTicker.C:
			if err := r.listener.Ping(); err != nil {
				log.Error().Err(err).Msg("failed to ping outbox listener")
			}
		}
	}
}

func (r *Relay) handleNotification(ctx context.Context, extra string) error {
	id, err := uuid.Parse(extra)
	if err != nil {
		return fmt.Errorf("invalid event id in notification: %w", err)
	}
	row, err := r.store.FetchByID(ctx, id)
	if err != nil {
		return err
	}
	if row == nil {
		// already drained by the fallback poll
		return nil
	}
	return r.deliver(ctx, *row)
}

func (r *Relay) drainUnsent(ctx context.Context) error {
	unsent, err := r.store.FetchUnsent(ctx, r.cfg.BatchSize)
	if err != nil {
		return err
	}
	for _, row := range unsent {
		if err := r.deliver(ctx, row); err != nil {
			log.Error().Err(err).
				Str("event_id", row.ID.String()).
				Msg("failed to deliver outbox event")
		}
	}
	return nil
}

// deliver publishes with linear-backoff retries and marks the row sent.
func (r *Relay) deliver(ctx context.Context, row Row) error {
	var event events.Event
	if err := json.Unmarshal(row.Payload, &event); err != nil {
		return fmt.Errorf("unmarshal outbox payload: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt <= r.cfg.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(r.cfg.RetryDelay * time.Duration(attempt)):
			}
		}
		if err := r.sink.Publish(ctx, event); err != nil {
			lastErr = err
			log.Warn().Err(err).
				Int("attempt", attempt+1).
				Str("event_id", row.ID.String()).
				Msg("outbox publish failed, retrying")
			continue
		}
		return r.store.MarkSent(ctx, row.ID)
	}
	return fmt.Errorf("publish failed after %d attempts: %w", r.cfg.MaxRetries+1, lastErr)
}
