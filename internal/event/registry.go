package event

import "sort"

// registry maps event ids to their listeners in registration order.
// Lists are replaced rather than edited in place on removal, so a slice handed
// out by lookup stays valid for iteration while the registry changes.
type registry struct {
	events   map[ID][]*listener
	removals []*listener
	sink     Sink
}

func newRegistry(sink Sink) *registry {
	return &registry{
		events: make(map[ID][]*listener),
		sink:   sink,
	}
}

// add appends l to its event's list unless an equal listener is registered.
func (r *registry) add(l *listener) bool {
	if !l.valid() {
		r.sink.Report(Report{Reason: ReasonInvalidListener, Event: l.id, Callback: l.callbackName(), Detail: l.String()})
		return false
	}
	list, ok := r.events[l.id]
	if ok {
		for _, existing := range list {
			if existing.same(l) {
				r.sink.Report(Report{Reason: ReasonDuplicateRegistration, Event: l.id, Callback: l.callbackName(), Detail: l.String()})
				return false
			}
		}
	}
	r.events[l.id] = append(list, l)
	return true
}

// remove drops every listener of id matching (shape, callback, owner) and
// returns how many were removed.
func (r *registry) remove(id ID, shape Shape, a *Action, aa *ArgsAction, owner Owner) int {
	list, ok := r.events[id]
	if !ok {
		r.sink.Report(Report{Reason: ReasonEventNotFound, Event: id})
		return 0
	}
	name := a.Name()
	if shape == ShapeWithArgs {
		name = aa.Name()
	}
	if len(list) == 0 {
		r.sink.Report(Report{Reason: ReasonListenerNotFound, Event: id, Callback: name})
		return 0
	}

	r.removals = r.removals[:0]
	for _, l := range list {
		if l.matches(shape, a, aa, owner) {
			// Sever the owner first: anything still holding l sees it as gone.
			l.owner = nil
			l.detached = true
			r.removals = append(r.removals, l)
		}
	}
	n := len(r.removals)
	if n == 0 {
		r.sink.Report(Report{Reason: ReasonListenerNotFound, Event: id, Callback: name})
		return 0
	}

	kept := make([]*listener, 0, len(list)-n)
	for _, l := range list {
		if !l.detached {
			kept = append(kept, l)
		}
	}
	r.events[id] = kept

	clear(r.removals)
	r.removals = r.removals[:0]
	return n
}

func (r *registry) lookup(id ID) ([]*listener, bool) {
	list, ok := r.events[id]
	return list, ok
}

func (r *registry) count(id ID) (int, bool) {
	list, ok := r.events[id]
	return len(list), ok
}

func (r *registry) total() int {
	n := 0
	for _, list := range r.events {
		n += len(list)
	}
	return n
}

// ids returns the registered event ids in ascending order.
func (r *registry) ids() []ID {
	out := make([]ID, 0, len(r.events))
	for id := range r.events {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (r *registry) clear() {
	r.events = make(map[ID][]*listener)
	clear(r.removals)
	r.removals = r.removals[:0]
}
