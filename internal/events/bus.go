// ABOUTME: In-process publish/subscribe bus and the stepBox event vocabulary.
// ABOUTME: No replay: subscribers registered after an emission never see it.
package events

import "sync"

// Named events published by the tracker. These are the only contract between
// the core and rendering layers or cross-process listeners.
const (
	ChallengeUpdated = "challenge-updated"
	BeatCompleted    = "beat-completed"
	BeatUncompleted  = "beat-uncompleted"
	DetailAdded      = "detail-added"
	DetailUpdated    = "detail-updated"
	DetailDeleted    = "detail-deleted"
	RewardAdded      = "reward-added"
	RewardUpdated    = "reward-updated"
	RewardAchieved   = "reward-achieved"
	StatementUpdated = "statement-updated"
	AllyAdded        = "ally-added"
	AllyUpdated      = "ally-updated"
	DataRefresh      = "data-refresh"
)

// Wildcard subscribes a handler to every event name.
const Wildcard = "*"

// Event is a named change notification with an optional detail payload.
type Event struct {
	Name   string
	Detail any
}

// Handler receives published events.
type Handler func(Event)

// Bus is the publish mechanism the tracker depends on. Publish delivers to
// all current subscribers of the event's name (and wildcard subscribers);
// there is no buffering or replay.
type Bus interface {
	Publish(e Event)
	Subscribe(name string, fn Handler) (cancel func())
}

type subscription struct {
	id int
	fn Handler
}

// MemoryBus is the in-process Bus implementation. Handlers run synchronously
// on the publishing goroutine, so by the time Publish returns every current
// subscriber has observed the event.
type MemoryBus struct {
	mu     sync.RWMutex
	nextID int
	subs   map[string][]subscription
}

// NewMemoryBus creates an empty bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[string][]subscription)}
}

// Publish delivers the event to subscribers of its name and to wildcard
// subscribers.
func (b *MemoryBus) Publish(e Event) {
	b.mu.RLock()
	handlers := make([]Handler, 0, len(b.subs[e.Name])+len(b.subs[Wildcard]))
	for _, s := range b.subs[e.Name] {
		handlers = append(handlers, s.fn)
	}
	for _, s := range b.subs[Wildcard] {
		handlers = append(handlers, s.fn)
	}
	b.mu.RUnlock()

	for _, fn := range handlers {
		fn(e)
	}
}

// Subscribe registers fn for the named event (or Wildcard for all events) and
// returns a cancel function removing the registration.
func (b *MemoryBus) Subscribe(name string, fn Handler) func() {
	b.mu.Lock()
	b.nextID++
	id := b.nextID
	b.subs[name] = append(b.subs[name], subscription{id: id, fn: fn})
	b.mu.Unlock()

	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		subs := b.subs[name]
		for i, s := range subs {
			if s.id == id {
				b.subs[name] = append(subs[:i:i], subs[i+1:]...)
				return
			}
		}
	}
}
