package notify

import (
	"context"
	"sync"

	"github.com/trendforge/fantasymarket/internal/draft/events"
)

// Broadcaster is an in-process Notifier with channel subscribers. The
// websocket gateway and the tests both consume it.
type Broadcaster struct {
	mu   sync.RWMutex
	subs []chan events.Event
}

func NewBroadcaster() *Broadcaster {
	return &Broadcaster{}
}

// Publish delivers the event to every subscriber. Slow subscribers are
// skipped rather than allowed to block the draft's critical section.
func (b *Broadcaster) Publish(ctx context.Context, event events.Event) error {
	b.mu.RLock()
	subs := make([]chan events.Event, len(b.subs))
	copy(subs, b.subs)
	b.mu.RUnlock()

	for _, sub := range subs {
		select {
		case sub <- event:
		default:
		}
	}
	return nil
}

// Subscribe returns a buffered channel receiving all future events.
func (b *Broadcaster) Subscribe() chan events.Event {
	ch := make(chan events.Event, 256)
	b.mu.Lock()
	b.subs = append(b.subs, ch)
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes and closes a subscription channel.
func (b *Broadcaster) Unsubscribe(ch chan events.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, sub := range b.subs {
		if sub == ch {
			b.subs = append(b.subs[:i], b.subs[i+1:]...)
			close(ch)
			return
		}
	}
}

// Fanout publishes to several notifiers in order, e.g. the in-process
// broadcaster plus NATS.
type Fanout []Notifier

func (f Fanout) Publish(ctx context.Context, event events.Event) error {
	for _, n := range f {
		if err := n.Publish(ctx, event); err != nil {
			return err
		}
	}
	return nil
}
