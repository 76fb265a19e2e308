package event

import (
	"time"
)

// Observer is told about every dispatch that found its event id.
type Observer interface {
	Dispatched(id ID, invoked int, elapsed time.Duration)
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithSink sets where detected conditions are reported.
func WithSink(s Sink) Option {
	return func(d *Dispatcher) {
		if s != nil {
			d.sink = s
		}
	}
}

// WithLiveness sets the owner liveness predicate.
func WithLiveness(l Liveness) Option {
	return func(d *Dispatcher) {
		if l != nil {
			d.liveness = l
		}
	}
}

// WithObserver installs a dispatch observer, e.g. a metrics collector.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observer = o }
}

// Dispatcher registers listeners per event id and notifies them synchronously.
// It is not safe for concurrent use.
type Dispatcher struct {
	registry *registry
	guard    *guard
	sink     Sink
	liveness Liveness
	observer Observer

	// pending is the staging buffer of the outermost dispatch. Nested
	// dispatches stage into their own slice.
	pending []*listener
	depth   int

	stats Stats
}

// NewDispatcher creates an empty dispatcher.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		guard:    newGuard(),
		sink:     nopSink{},
		liveness: defaultLiveness{},
	}
	for _, opt := range opts {
		opt(d)
	}
	d.registry = newRegistry(SinkFunc(d.report))
	return d
}

func (d *Dispatcher) report(r Report) {
	switch r.Reason {
	case ReasonDuplicateRegistration:
		d.stats.Duplicates++
	case ReasonEventNotFound:
		d.stats.NotFound++
	case ReasonListenerDead:
		d.stats.Dead++
	case ReasonDispatchLoop:
		d.stats.Loops++
	}
	d.sink.Report(r)
}

// AddListener registers a no-argument callback for id. Registering the same
// (callback, owner) pair twice is rejected and reported.
func (d *Dispatcher) AddListener(id ID, a *Action, owner Owner) {
	d.registry.add(newListener(id, a, owner))
}

// AddArgsListener registers a callback receiving the dispatch arguments.
func (d *Dispatcher) AddArgsListener(id ID, a *ArgsAction, owner Owner) {
	d.registry.add(newArgsListener(id, a, owner))
}

// RemoveListener unregisters every no-argument listener of id matching
// (a, owner).
func (d *Dispatcher) RemoveListener(id ID, a *Action, owner Owner) {
	d.registry.remove(id, ShapeNoArg, a, nil, owner)
}

// RemoveArgsListener unregisters every argument listener of id matching
// (a, owner).
func (d *Dispatcher) RemoveArgsListener(id ID, a *ArgsAction, owner Owner) {
	d.registry.remove(id, ShapeWithArgs, nil, a, owner)
}

// Dispatch notifies the listeners of id. Argument listeners receive nil args.
func (d *Dispatcher) Dispatch(id ID) {
	d.dispatch(id, nil)
}

// DispatchArgs notifies the listeners of id, passing args to argument
// listeners. No-argument listeners are invoked as usual.
func (d *Dispatcher) DispatchArgs(id ID, args ...any) {
	if args == nil {
		args = []any{}
	}
	d.dispatch(id, args)
}

func (d *Dispatcher) dispatch(id ID, args []any) {
	list, ok := d.registry.lookup(id)
	if !ok {
		d.report(Report{Reason: ReasonEventNotFound, Event: id})
		return
	}
	d.stats.Dispatched++
	start := time.Now()

	var staged []*listener
	if d.depth == 0 {
		staged = d.pending[:0]
	} else {
		staged = make([]*listener, 0, len(list))
	}
	d.depth++
	defer func() {
		d.depth--
		if d.depth == 0 {
			clear(staged)
			d.pending = staged[:0]
			d.guard.reset()
		}
	}()

	for _, l := range list {
		if !d.guard.enter(l) {
			d.report(Report{Reason: ReasonDispatchLoop, Event: id, Callback: l.callbackName(), Detail: l.String()})
			continue
		}
		if d.eligible(l) {
			staged = append(staged, l)
		} else {
			d.report(Report{Reason: ReasonListenerDead, Event: id, Callback: l.callbackName(), Detail: l.String()})
		}
		d.guard.leave(l)
	}

	for _, l := range staged {
		l.invoke(args)
	}
	d.stats.Invoked += uint64(len(staged))

	if d.observer != nil {
		d.observer.Dispatched(id, len(staged), time.Since(start))
	}
}

// eligible reports whether l may be invoked in the current pass.
func (d *Dispatcher) eligible(l *listener) bool {
	if l.detached {
		return false
	}
	if l.owner == nil {
		return true
	}
	return d.liveness.IsAlive(l.owner)
}

// Clear drops every registration and all transient dispatch state.
func (d *Dispatcher) Clear() {
	d.registry.clear()
	d.guard.reset()
	// Replace rather than zero: a running dispatch may still be walking the
	// old buffer.
	d.pending = nil
}

// Len returns the number of listeners registered for id and whether id is
// known at all.
func (d *Dispatcher) Len(id ID) (int, bool) {
	return d.registry.count(id)
}

// Depth returns how many dispatches are currently in progress. It is 1 inside
// the listeners of an outermost dispatch.
func (d *Dispatcher) Depth() int {
	return d.depth
}

// Events returns the known event ids in ascending order.
func (d *Dispatcher) Events() []ID {
	return d.registry.ids()
}

// Counts returns the number of listeners per known event id.
func (d *Dispatcher) Counts() map[ID]int {
	out := make(map[ID]int, len(d.registry.events))
	for id, list := range d.registry.events {
		out[id] = len(list)
	}
	return out
}

// Total returns the number of registered listeners across all events.
func (d *Dispatcher) Total() int {
	return d.registry.total()
}

// Stats returns the dispatch counters.
func (d *Dispatcher) Stats() Stats {
	return d.stats
}

// ResetStats zeroes the dispatch counters.
func (d *Dispatcher) ResetStats() {
	d.stats = Stats{}
}

// Stats contains counters for a dispatcher.
type Stats struct {
	// Dispatched is the number of dispatch calls that found their event id.
	Dispatched uint64

	// Invoked is the number of listener invocations.
	Invoked uint64

	// NotFound counts dispatches and removals of unknown event ids.
	NotFound uint64

	// Dead counts listeners skipped because their owner was no longer alive.
	Dead uint64

	// Loops counts listeners skipped because they were already in flight.
	Loops uint64

	// Duplicates counts rejected registrations.
	Duplicates uint64
}
