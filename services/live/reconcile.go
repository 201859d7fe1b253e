package live

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang/glog"

	"github.com/nvbf/quadball-live-sync/pkg/ordered"
)

// Patch is one unit of reconciliation input. A snapshot is a patch with only
// Modified set.
type Patch struct {
	Modified ordered.Object
	Added    ordered.Object
	Removed  ordered.Object
}

// Op is the kind of an event mutation.
type Op string

const (
	OpAdd Op = "add"
	OpMod Op = "mod"
	OpDel Op = "del"
)

// EventRecord describes a single event mutation for the audit log.
type EventRecord struct {
	PublicID string
	Op       Op
	Kind     EventKind
	Index    int
	Event    Event
}

// AuditLogger records replica state and event mutations. Implementations do
// the I/O; failures are logged by the reconciler and never fail a pass.
type AuditLogger interface {
	LogState(at time.Time, m MatchView) error
	LogEvent(at time.Time, rec EventRecord) error
}

// ReconcilerOptions contains everything needed to build a Reconciler.
type ReconcilerOptions struct {

	// Audit receives state and event rows. Nil disables auditing.
	Audit AuditLogger

	// Bus delivers notifications. Nil creates a private bus.
	Bus *Bus

	// Now stamps audit rows. Defaults to time.Now.
	Now func() time.Time

	// Publish receives the view of every pass before any subscriber is
	// notified. Optional.
	Publish func(view MatchView)
}

// Reconciler applies patches to match replicas.
type Reconciler struct {
	audit   AuditLogger
	bus     *Bus
	now     func() time.Time
	publish func(view MatchView)
}

// NewReconciler creates a reconciler.
func NewReconciler(opts ReconcilerOptions) *Reconciler {
	r := &Reconciler{audit: opts.Audit, bus: opts.Bus, now: opts.Now, publish: opts.Publish}
	if r.bus == nil {
		r.bus = NewBus()
	}
	if r.now == nil {
		r.now = time.Now
	}
	return r
}

// Bus returns the bus notifications are delivered on.
func (r *Reconciler) Bus() *Bus {
	return r.bus
}

// Apply applies p to m: modified, then added, then removed. It then writes the
// state audit row, publishes the view and delivers the queued notifications,
// in that order, and returns them.
//
// A fatal *PatchError (unknown event type, invalid index) stops the rest of
// the patch; mutations already made stand and are still logged and notified.
// Removals of missing positions are skipped and reported together once the
// pass has finished, joined with the fatal error if there is one.
func (r *Reconciler) Apply(m *Match, p Patch) ([]Notification, error) {
	ps := &pass{r: r, m: m, batch: r.bus.NewBatch()}

	err := ps.run(p)
	if err != nil {
		glog.Warningf("[live] patch for %s stopped: %v\n", m.PublicID, err)
	}
	if len(ps.skipped) > 0 {
		err = errors.Join(append(ps.skipped, err)...)
	}

	view := m.View()
	if r.audit != nil {
		if logErr := r.audit.LogState(r.now(), view); logErr != nil {
			glog.Errorf("[audit] state row for %s: %v\n", m.PublicID, logErr)
		}
	}
	if r.publish != nil {
		r.publish(view)
	}
	return ps.batch.Flush(&view), err
}

// pass holds the transient state of one Apply call.
type pass struct {
	r       *Reconciler
	m       *Match
	batch   *Batch
	skipped []error
}

func (ps *pass) run(p Patch) error {
	if err := ps.applyModified(p.Modified); err != nil {
		return err
	}
	if events, ok := p.Added.Object("events"); ok {
		if err := ps.applyEvents(events); err != nil {
			return err
		}
	}
	if events, ok := p.Removed.Object("events"); ok {
		if err := ps.applyRemoved(events); err != nil {
			return err
		}
	}
	return nil
}

func (ps *pass) applyModified(modified ordered.Object) error {
	m := ps.m
	for _, f := range modified {
		switch f.Key {
		case "cancelled_reason":
			setReason(&m.Cancelled, &m.CancelledReason, f.Value)
		case "suspended_reason":
			setReason(&m.Suspended, &m.SuspendedReason, f.Value)
		case "data_available":
			value := toBool(f.Value)
			if value != m.DataAvailable {
				ps.batch.Queue(Notification{Kind: NotifyDataAvailable, Value: value})
			}
			m.DataAvailable = value
		case "alive_timestamp":
			m.AliveTimestamp = optFloat(f.Value)
		case "teams":
			if teams, ok := f.Value.(ordered.Object); ok {
				for _, side := range Sides {
					if data, ok := teams.Object(string(side)); ok {
						m.Team(side).applyTeamChange(data)
					}
				}
			}
		case "gametime":
			if clock, ok := f.Value.(ordered.Object); ok {
				m.applyClockChange(clock)
			}
		case "game_over":
			value := toBool(f.Value)
			if value != m.GameOver {
				ps.batch.Queue(Notification{Kind: NotifyGameOver, Value: value})
			}
			m.GameOver = value
		case "winner":
			m.Winner = optString(f.Value)
		case "in_overtime":
			m.InOvertime = toBool(f.Value)
		case "overtime_setscore":
			m.OvertimeSetScore = optInt(f.Value)
		case "forfeit":
			m.Forfeit = optString(f.Value)
		case "concede":
			m.Concede = optString(f.Value)
		case "score":
			if score, ok := f.Value.(ordered.Object); ok {
				for _, side := range Sides {
					if data, ok := score.Object(string(side)); ok {
						m.Team(side).applyScoreChange(data, ps.batch.Queue)
					}
				}
			}
		case "events":
			if events, ok := f.Value.(ordered.Object); ok {
				if err := ps.applyEvents(events); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// applyEvents handles additions and modifications. Each collection is either
// a list (entry i targets position i) or an object keyed by explicit index.
func (ps *pass) applyEvents(data ordered.Object) error {
	for _, f := range data {
		kind, ok := ParseEventKind(f.Key)
		if !ok {
			return newUnknownEventType(f.Key)
		}
		switch entries := f.Value.(type) {
		case []any:
			for i, entry := range entries {
				ps.applyEventChange(kind, i, entry)
			}
		case ordered.Object:
			for _, e := range entries {
				index, err := parseIndex(e.Key)
				if err != nil {
					return newInvalidIndex(kind, e.Key)
				}
				ps.applyEventChange(kind, index, e.Value)
			}
		}
	}
	return nil
}

// applyEventChange appends when index is past the end and modifies in place
// otherwise, so replaying a snapshot over partial state is harmless.
func (ps *pass) applyEventChange(kind EventKind, index int, entry any) {
	data, _ := entry.(ordered.Object)
	list := ps.m.Events(kind)
	if index >= list.Len() {
		e := newEvent(kind, data)
		pos := list.Append(e)
		ps.record(OpAdd, kind, pos, e)
		return
	}
	e, _ := list.At(index)
	e.apply(data)
	ps.record(OpMod, kind, index, e)
}

// applyRemoved deletes events. A list clears the whole collection; an object
// removes each addressed position as it exists at that moment, so earlier
// removals in the same patch shift later ones.
func (ps *pass) applyRemoved(data ordered.Object) error {
	for _, f := range data {
		kind, ok := ParseEventKind(f.Key)
		if !ok {
			return newUnknownEventType(f.Key)
		}
		list := ps.m.Events(kind)
		switch entries := f.Value.(type) {
		case []any:
			for i, e := range list.Clear() {
				ps.record(OpDel, kind, i, e)
			}
		case ordered.Object:
			for _, e := range entries {
				index, err := parseIndex(e.Key)
				if err != nil {
					return newInvalidIndex(kind, e.Key)
				}
				removed, err := list.RemoveAt(index)
				if err != nil {
					glog.Warningf("[live] %s: skipping removal: %v\n", ps.m.PublicID, err)
					ps.skipped = append(ps.skipped, err)
					continue
				}
				ps.record(OpDel, kind, index, removed)
			}
		}
	}
	return nil
}

func (ps *pass) record(op Op, kind EventKind, index int, e *Event) {
	if ps.r.audit == nil {
		return
	}
	rec := EventRecord{
		PublicID: ps.m.PublicID,
		Op:       op,
		Kind:     kind,
		Index:    index,
		Event:    e.clone(),
	}
	if err := ps.r.audit.LogEvent(ps.r.now(), rec); err != nil {
		glog.Errorf("[audit] event row for %s: %v\n", ps.m.PublicID, err)
	}
}

func parseIndex(key string) (int, error) {
	i, err := strconv.Atoi(key)
	if err != nil {
		return 0, err
	}
	if i < 0 {
		return 0, strconv.ErrRange
	}
	return i, nil
}
