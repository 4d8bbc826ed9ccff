package table

import (
	"sync"

	"github.com/therili1/buckshot-roulette-bot/internal/services/roulette/domain/session"
)

// DefaultSubscriberBuffer is the channel capacity of each subscription.
const DefaultSubscriberBuffer = 32

// Broker fans session events out to subscribers. Delivery never blocks the
// publisher: a subscriber whose buffer is full misses the event.
type Broker struct {
	buffer int

	mu   sync.Mutex
	subs map[string]map[*subscriber]struct{}
}

type subscriber struct {
	ch      chan session.Event
	dropped int
}

// NewBroker returns a broker whose subscriptions buffer size events.
func NewBroker(size int) *Broker {
	if size <= 0 {
		size = DefaultSubscriberBuffer
	}
	return &Broker{
		buffer: size,
		subs:   make(map[string]map[*subscriber]struct{}),
	}
}

// Subscribe registers for events of sessionID. The channel closes when the
// session ends or cancel is called; cancel may be called more than once.
func (b *Broker) Subscribe(sessionID string) (<-chan session.Event, func()) {
	sub := &subscriber{ch: make(chan session.Event, b.buffer)}

	b.mu.Lock()
	set, ok := b.subs[sessionID]
	if !ok {
		set = make(map[*subscriber]struct{})
		b.subs[sessionID] = set
	}
	set[sub] = struct{}{}
	b.mu.Unlock()

	cancel := func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		set, ok := b.subs[sessionID]
		if !ok {
			return
		}
		if _, ok := set[sub]; !ok {
			return
		}
		delete(set, sub)
		close(sub.ch)
		if len(set) == 0 {
			delete(b.subs, sessionID)
		}
	}
	return sub.ch, cancel
}

// Publish delivers events to every subscriber of sessionID.
func (b *Broker) Publish(sessionID string, events ...session.Event) {
	if len(events) == 0 {
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs[sessionID] {
		for _, ev := range events {
			select {
			case sub.ch <- ev:
			default:
				sub.dropped++
			}
		}
	}
}

// Close ends every subscription to sessionID.
func (b *Broker) Close(sessionID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for sub := range b.subs[sessionID] {
		close(sub.ch)
	}
	delete(b.subs, sessionID)
}

// Subscribers returns the number of live subscriptions to sessionID.
func (b *Broker) Subscribers(sessionID string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs[sessionID])
}
