package engine

import (
	"sync"

	"github.com/amterp/teams/internal/model"
	"go.uber.org/zap"
)

// Change describes a completed transition. Revision increases by one per
// dispatched event, so receivers can drop out-of-order deliveries.
type Change struct {
	Revision uint64
	Event    Event
	State    model.Session
}

// Subscriber is notified after every dispatched event.
type Subscriber func(Change)

// Engine owns the live session and applies events one at a time.
//
// Design: single-user, single-session. The HTTP server and the names-file
// watcher run on their own goroutines, so dispatch is serialized here to
// keep exactly one mutator at a time.
type Engine struct {
	mu       sync.Mutex
	machine  *Machine
	state    model.Session
	revision uint64
	logger   *zap.Logger

	subsMu      sync.RWMutex
	subscribers []Subscriber
}

// New creates an engine in the machine's initial state.
func New(machine *Machine, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		machine: machine,
		state:   machine.Initial(),
		logger:  logger,
	}
}

// Dispatch applies ev and returns a copy of the resulting session.
func (e *Engine) Dispatch(ev Event) model.Session {
	e.mu.Lock()
	before := e.state
	e.state = e.machine.Apply(ev, e.state)
	e.revision++
	change := Change{Revision: e.revision, Event: ev, State: e.state.Clone()}
	e.mu.Unlock()

	after := change.State.Progress()
	e.logger.Debug("applied event",
		zap.String("event", string(ev.Type())),
		zap.Uint64("revision", change.Revision),
		zap.Int("palette_size", len(change.State.Palette)),
		zap.Int("assigned_before", before.Progress().Assigned),
		zap.Int("assigned_after", after.Assigned),
		zap.Int("total", after.Total),
	)

	e.notify(change)
	return change.State.Clone()
}

// Snapshot returns a copy of the current session.
func (e *Engine) Snapshot() model.Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone()
}

// Current returns a copy of the session together with its revision.
func (e *Engine) Current() (model.Session, uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Clone(), e.revision
}

// Machine returns the underlying state machine.
func (e *Engine) Machine() *Machine {
	return e.machine
}

// Subscribe registers fn for change notifications.
func (e *Engine) Subscribe(fn Subscriber) {
	e.subsMu.Lock()
	defer e.subsMu.Unlock()
	e.subscribers = append(e.subscribers, fn)
}

func (e *Engine) notify(change Change) {
	e.subsMu.RLock()
	subs := make([]Subscriber, len(e.subscribers))
	copy(subs, e.subscribers)
	e.subsMu.RUnlock()

	for _, fn := range subs {
		fn(change)
	}
}
