package live

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nvbf/quadball-live-sync/pkg/ordered"
)

var testNow = time.Date(2024, 5, 11, 14, 30, 0, 0, time.UTC)

func fixedClock() time.Time { return testNow }

// obj decodes a JSON object literal for use as patch input.
func obj(t *testing.T, s string) ordered.Object {
	t.Helper()
	o, err := ordered.DecodeObject([]byte(s))
	require.NoError(t, err)
	return o
}

// memAudit keeps audit rows in memory. trace, when set, receives a marker
// for every row so tests can check ordering against notifications.
type memAudit struct {
	mu     sync.Mutex
	states []MatchView
	events []EventRecord
	trace  *[]string
	err    error
}

func (a *memAudit) LogState(at time.Time, m MatchView) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.states = append(a.states, m)
	if a.trace != nil {
		*a.trace = append(*a.trace, "state")
	}
	return a.err
}

func (a *memAudit) LogEvent(at time.Time, rec EventRecord) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, rec)
	if a.trace != nil {
		*a.trace = append(*a.trace, string(rec.Op))
	}
	return a.err
}

func newTestReconciler(audit *memAudit) *Reconciler {
	opts := ReconcilerOptions{Now: fixedClock}
	if audit != nil {
		opts.Audit = audit
	}
	return NewReconciler(opts)
}

func kinds(ns []Notification) []NotificationKind {
	out := make([]NotificationKind, len(ns))
	for i, n := range ns {
		out[i] = n.Kind
	}
	return out
}

func increments(l *EventList) []int {
	out := make([]int, 0, l.Len())
	for _, e := range l.Snapshot() {
		if e.Increment == nil {
			out = append(out, -1)
			continue
		}
		out = append(out, *e.Increment)
	}
	return out
}
