package live

// Side designates one of the two teams of a match.
type Side string

const (
	SideA Side = "A"
	SideB Side = "B"
)

// Sides lists both sides in display order.
var Sides = [2]Side{SideA, SideB}

func (s Side) index() int {
	if s == SideB {
		return 1
	}
	return 0
}

// EventKind is the closed set of timeline entry variants.
type EventKind int

const (
	EventScore EventKind = iota
	EventTimeout
	EventSnitch
	EventSnitchUnderReview
	EventPenalty

	numEventKinds = iota
)

var eventKindNames = [numEventKinds]string{
	EventScore:             "score",
	EventTimeout:           "timeout",
	EventSnitch:            "snitch",
	EventSnitchUnderReview: "snitch_under_review",
	EventPenalty:           "penalty",
}

// EventKinds lists every variant in collection order.
var EventKinds = [numEventKinds]EventKind{EventScore, EventTimeout, EventSnitch, EventSnitchUnderReview, EventPenalty}

// String returns the collection name used on the wire.
func (k EventKind) String() string {
	if k < 0 || int(k) >= numEventKinds {
		return "unknown"
	}
	return eventKindNames[k]
}

// MarshalText makes kinds render as their wire name in JSON.
func (k EventKind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// ParseEventKind resolves a collection name. Unknown names return false.
func ParseEventKind(name string) (EventKind, bool) {
	for i, n := range eventKindNames {
		if n == name {
			return EventKind(i), true
		}
	}
	return 0, false
}

// NotificationKind tags notifications for subscribers.
type NotificationKind string

const (
	NotifyScore         NotificationKind = "score"
	NotifyScoreChanged  NotificationKind = "score_changed"
	NotifySnitchCaught  NotificationKind = "snitch_caught"
	NotifyDataAvailable NotificationKind = "data_available"
	NotifyGameOver      NotificationKind = "game_over"
)

// NotificationKinds lists every kind the engine emits.
var NotificationKinds = []NotificationKind{
	NotifyScore,
	NotifyScoreChanged,
	NotifySnitchCaught,
	NotifyDataAvailable,
	NotifyGameOver,
}

// ParseNotificationKind resolves a kind tag.
func ParseNotificationKind(name string) (NotificationKind, bool) {
	for _, k := range NotificationKinds {
		if string(k) == name {
			return k, true
		}
	}
	return "", false
}
