package live

import (
	"sync"

	"github.com/samborkent/uuidv7"
)

// Notification is an observable state transition. Side is empty for
// match-level notifications. Value carries the payload: a bool for
// data_available, game_over and snitch_caught, an int for score_changed and
// the display string for score.
//
// Match points to the view taken after the pass that produced the
// notification; every notification of that pass shares it, so handlers must
// treat it as read-only.
type Notification struct {
	Kind  NotificationKind
	Side  Side
	Value any
	Match *MatchView
}

// Handler receives notifications.
type Handler func(n Notification)

type subscription struct {
	id      string
	handler Handler
}

// Bus keeps subscribers by notification kind and delivers to them in
// registration order.
type Bus struct {
	mu   sync.RWMutex
	subs map[NotificationKind][]subscription
}

// NewBus creates a bus with no subscribers.
func NewBus() *Bus {
	return &Bus{subs: make(map[NotificationKind][]subscription)}
}

// Listen registers h for kind and returns an id usable with Unlisten.
// Thread-safe.
func (b *Bus) Listen(kind NotificationKind, h Handler) string {
	id := uuidv7.New().String()
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[kind] = append(b.subs[kind], subscription{id: id, handler: h})
	return id
}

// Unlisten removes a subscription. Returns false if id is unknown.
func (b *Bus) Unlisten(id string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	for kind, subs := range b.subs {
		for i, s := range subs {
			if s.id != id {
				continue
			}
			next := make([]subscription, 0, len(subs)-1)
			next = append(next, subs[:i]...)
			next = append(next, subs[i+1:]...)
			b.subs[kind] = next
			return true
		}
	}
	return false
}

func (b *Bus) handlers(kind NotificationKind) []subscription {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.subs[kind]
}

// NewBatch starts the accumulator for one reconciliation pass.
func (b *Bus) NewBatch() *Batch {
	return &Batch{bus: b}
}

// Batch accumulates the notifications of one pass. It is not shared between
// passes and not safe for concurrent use.
type Batch struct {
	bus    *Bus
	queued []Notification
}

// Queue appends n.
func (q *Batch) Queue(n Notification) {
	q.queued = append(q.queued, n)
}

// Len returns the number of queued notifications.
func (q *Batch) Len() int {
	return len(q.queued)
}

// Flush attaches view to every queued notification, delivers them in the
// order they were queued and clears the batch. The delivered notifications
// are returned.
func (q *Batch) Flush(view *MatchView) []Notification {
	out := q.queued
	q.queued = nil
	for i := range out {
		out[i].Match = view
		for _, s := range q.bus.handlers(out[i].Kind) {
			s.handler(out[i])
		}
	}
	return out
}
