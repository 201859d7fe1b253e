package live

// EventList is a dense, position-addressed collection of one event variant.
// Positions shift down on removal; there are never gaps.
type EventList struct {
	kind  EventKind
	items []*Event
}

func newEventList(kind EventKind) *EventList {
	return &EventList{kind: kind}
}

// Len returns the number of events.
func (l *EventList) Len() int {
	return len(l.items)
}

// At returns the event at position i.
func (l *EventList) At(i int) (*Event, bool) {
	if i < 0 || i >= len(l.items) {
		return nil, false
	}
	return l.items[i], true
}

// Append adds e at the end and returns its position.
func (l *EventList) Append(e *Event) int {
	l.items = append(l.items, e)
	return len(l.items) - 1
}

// RemoveAt deletes the event currently at position i.
func (l *EventList) RemoveAt(i int) (*Event, error) {
	if i < 0 || i >= len(l.items) {
		return nil, newIndexOutOfRange(l.kind, i, len(l.items))
	}
	e := l.items[i]
	copy(l.items[i:], l.items[i+1:])
	l.items[len(l.items)-1] = nil
	l.items = l.items[:len(l.items)-1]
	return e, nil
}

// Clear empties the list and returns the removed events in their original order.
func (l *EventList) Clear() []*Event {
	removed := l.items
	l.items = nil
	return removed
}

// Snapshot returns deep copies of the events in order.
func (l *EventList) Snapshot() []Event {
	out := make([]Event, len(l.items))
	for i, e := range l.items {
		out[i] = e.clone()
	}
	return out
}
