package live

import (
	"sync"
	"time"

	"golang.org/x/xerrors"

	"github.com/nvbf/quadball-live-sync/pkg/ordered"
)

// WatcherOptions contains all the options needed to build a Watcher.
type WatcherOptions struct {

	// Audit receives the state and event rows of every pass.
	Audit AuditLogger

	// Now stamps audit rows. Defaults to time.Now.
	Now func() time.Time
}

// Watcher owns the replicas of all subscribed matches. The feed adapter calls
// ApplyChange; readers only get MatchView copies published after each pass.
type Watcher struct {
	reconciler *Reconciler

	// mu serialises writers (ApplyChange, SetPublicIDs).
	mu      sync.Mutex
	matches map[string]*Match

	viewMu sync.RWMutex
	ids    []string
	views  map[string]MatchView
}

// NewWatcher creates a watcher with no registered matches.
func NewWatcher(opts WatcherOptions) *Watcher {
	w := &Watcher{
		matches: make(map[string]*Match),
		views:   make(map[string]MatchView),
	}
	w.reconciler = NewReconciler(ReconcilerOptions{Audit: opts.Audit, Bus: NewBus(), Now: opts.Now, Publish: w.publish})
	return w
}

// SetPublicIDs replaces the registered matches. Every id gets a fresh replica;
// replicas of the previous set are dropped.
func (w *Watcher) SetPublicIDs(ids []string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	matches := make(map[string]*Match, len(ids))
	views := make(map[string]MatchView, len(ids))
	order := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, dup := matches[id]; dup {
			continue
		}
		m := NewMatch(id)
		matches[id] = m
		views[id] = m.View()
		order = append(order, id)
	}
	w.matches = matches

	w.viewMu.Lock()
	w.ids = order
	w.views = views
	w.viewMu.Unlock()
}

// PublicIDs returns the registered ids in registration order.
func (w *Watcher) PublicIDs() []string {
	w.viewMu.RLock()
	defer w.viewMu.RUnlock()
	return append([]string(nil), w.ids...)
}

// ApplyChange applies one feed message to the replica of publicID. added and
// removed may be nil.
func (w *Watcher) ApplyChange(publicID string, modified, added, removed ordered.Object) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	m, ok := w.matches[publicID]
	if !ok {
		return xerrors.Errorf("%s: %w", publicID, ErrUnknownMatch)
	}

	_, err := w.reconciler.Apply(m, Patch{Modified: modified, Added: added, Removed: removed})
	return err
}

// publish makes the view of a finished pass visible to readers. It runs
// before the pass notifies anyone.
func (w *Watcher) publish(view MatchView) {
	w.viewMu.Lock()
	defer w.viewMu.Unlock()
	if _, ok := w.views[view.PublicID]; ok {
		w.views[view.PublicID] = view
	}
}

// View returns the latest view of publicID.
func (w *Watcher) View(publicID string) (MatchView, bool) {
	w.viewMu.RLock()
	defer w.viewMu.RUnlock()
	v, ok := w.views[publicID]
	return v, ok
}

// Views returns the latest views in registration order.
func (w *Watcher) Views() []MatchView {
	w.viewMu.RLock()
	defer w.viewMu.RUnlock()
	out := make([]MatchView, 0, len(w.ids))
	for _, id := range w.ids {
		out = append(out, w.views[id])
	}
	return out
}

// Listen subscribes h to kind. See Bus.Listen.
func (w *Watcher) Listen(kind NotificationKind, h Handler) string {
	return w.reconciler.Bus().Listen(kind, h)
}

// Unlisten removes a subscription.
func (w *Watcher) Unlisten(id string) bool {
	return w.reconciler.Bus().Unlisten(id)
}
