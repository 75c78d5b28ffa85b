// Package pending records which decision triggers are waiting on a result, so
// the page can show loaders and keep re-entrant triggers disabled.
package pending

import (
	"context"
	"sync"

	"github.com/wolfman30/noshow-decision-demo/pkg/logging"
)

// Component identifies a decision trigger on the page.
type Component string

const (
	ComponentReminder     Component = "reminder"
	ComponentReminderFeed Component = "reminder_feed"
	ComponentOverbooking  Component = "overbooking"
)

// Components lists every trigger reported by Status.
var Components = []Component{ComponentReminder, ComponentReminderFeed, ComponentOverbooking}

// State is the view-facing state of a trigger.
type State string

const (
	StateIdle    State = "idle"
	StatePending State = "pending"
)

// Tracker stores pending flags per session and component.
type Tracker interface {
	MarkPending(ctx context.Context, sessionID string, c Component) error
	MarkIdle(ctx context.Context, sessionID string, c Component) error
	Status(ctx context.Context, sessionID string) (map[Component]State, error)
}

// MemoryTracker keeps pending flags in process.
type MemoryTracker struct {
	mu      sync.Mutex
	pending map[string]map[Component]struct{}
}

// NewMemoryTracker creates an empty MemoryTracker.
func NewMemoryTracker() *MemoryTracker {
	return &MemoryTracker{pending: make(map[string]map[Component]struct{})}
}

func (t *MemoryTracker) MarkPending(_ context.Context, sessionID string, c Component) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	set, ok := t.pending[sessionID]
	if !ok {
		set = make(map[Component]struct{})
		t.pending[sessionID] = set
	}
	set[c] = struct{}{}
	return nil
}

func (t *MemoryTracker) MarkIdle(_ context.Context, sessionID string, c Component) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	set, ok := t.pending[sessionID]
	if !ok {
		return nil
	}
	delete(set, c)
	if len(set) == 0 {
		delete(t.pending, sessionID)
	}
	return nil
}

func (t *MemoryTracker) Status(_ context.Context, sessionID string) (map[Component]State, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := idleStatus()
	for c := range t.pending[sessionID] {
		out[c] = StatePending
	}
	return out, nil
}

func idleStatus() map[Component]State {
	out := make(map[Component]State, len(Components))
	for _, c := range Components {
		out[c] = StateIdle
	}
	return out
}

// Mark sets the state of c and only logs failures; a stale flag affects
// loaders, never a decision. Cancellation of ctx is ignored.
func Mark(ctx context.Context, t Tracker, logger *logging.Logger, sessionID string, c Component, state State) {
	ctx = context.WithoutCancel(ctx)
	var err error
	if state == StatePending {
		err = t.MarkPending(ctx, sessionID, c)
	} else {
		err = t.MarkIdle(ctx, sessionID, c)
	}
	if err != nil {
		logger.Warn("failed to update pending state", "error", err, "session_id", sessionID, "component", c, "state", state)
	}
}
