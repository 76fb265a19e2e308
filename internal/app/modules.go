package app

import (
	"github.com/rs/zerolog"

	"evbus/internal/config"
	"evbus/internal/event"
	"evbus/internal/host"
	"evbus/internal/metrics"
	"evbus/internal/overlay"
)

// gaugeModule publishes the listener count after every update.
type gaugeModule struct {
	host.Base
	events    *event.Module
	collector *metrics.Collector
}

func (m *gaugeModule) OnLateUpdate() {
	if d := m.events.Dispatcher(); d != nil {
		m.collector.SetListeners(d.Total())
	}
}

// journalModule logs overlay announcements. Its own listeners are owned by the
// module and removed on termination. Every shown view also owns a listener
// that logs overlays opened over it; that one is removed when the view is
// destroyed.
type journalModule struct {
	host.Base
	events         *event.Module
	opened, closed event.ID
	log            zerolog.Logger

	onOpened *event.ArgsAction
	onClosed *event.ArgsAction
	watched  map[*overlay.View]*event.ArgsAction
}

func newJournalModule(cfg config.Config, events *event.Module, log zerolog.Logger) *journalModule {
	m := &journalModule{
		events:  events,
		opened:  event.ID(cfg.NotifyOpenedEvent),
		closed:  event.ID(cfg.NotifyClosedEvent),
		log:     log.With().Str("component", "journal").Logger(),
		watched: make(map[*overlay.View]*event.ArgsAction),
	}
	m.onOpened = event.NewArgsAction("journal.opened", func(args []any) { m.record("overlay opened", args) })
	m.onClosed = event.NewArgsAction("journal.closed", func(args []any) { m.record("overlay closed", args) })
	return m
}

func (m *journalModule) record(msg string, args []any) {
	ev := m.log.Info()
	if len(args) == 2 {
		ev = ev.Interface("guid", args[0]).Interface("ui_id", args[1])
	}
	ev.Msg(msg)
}

func (m *journalModule) OnInit(param any) {
	d := m.events.Dispatcher()
	d.AddArgsListener(m.opened, m.onOpened, m)
	d.AddArgsListener(m.closed, m.onClosed, m)
}

func (m *journalModule) OnTermination() {
	if d := m.events.Dispatcher(); d != nil {
		d.RemoveArgsListener(m.opened, m.onOpened, m)
		d.RemoveArgsListener(m.closed, m.onClosed, m)
	}
}

// callbacks returns the view callbacks that keep per-view listeners.
func (m *journalModule) callbacks() *overlay.Callbacks {
	return &overlay.Callbacks{OnAdded: m.watch, OnRemoved: m.unwatch}
}

// watch registers a listener owned by v. A reused view already has one.
func (m *journalModule) watch(v *overlay.View) {
	d := m.events.Dispatcher()
	if d == nil {
		return
	}
	if _, ok := m.watched[v]; ok {
		return
	}
	a := event.NewArgsAction("journal.covered", func(args []any) {
		if len(args) == 2 && args[0] == v.GUID {
			return
		}
		ev := m.log.Debug().Str("guid", v.GUID).Int("ui_id", v.UIID)
		if len(args) == 2 {
			ev = ev.Interface("by", args[0])
		}
		ev.Msg("overlay covered")
	})
	m.watched[v] = a
	d.AddArgsListener(m.opened, a, v)
}

func (m *journalModule) unwatch(v *overlay.View, destroy bool) {
	if !destroy {
		return
	}
	a, ok := m.watched[v]
	if !ok {
		return
	}
	delete(m.watched, v)
	if d := m.events.Dispatcher(); d != nil {
		d.RemoveArgsListener(m.opened, a, v)
	}
}

// liveness asks the overlay layer about owners once it exists. Before that,
// and for owners the layer does not know, it behaves like the dispatcher's
// default.
type liveness struct {
	layer *overlay.Layer
}

func (l *liveness) IsAlive(o event.Owner) bool {
	if l.layer != nil {
		return l.layer.IsAlive(o)
	}
	if a, ok := o.(interface{ Alive() bool }); ok {
		return a.Alive()
	}
	return true
}

// capture records the reasons reported by one outermost dispatch while armed.
// Reports for other event ids and from nested dispatches are ignored. It is
// only touched on the host loop goroutine.
type capture struct {
	d       *event.Dispatcher
	id      event.ID
	reasons []event.Reason
}

func (c *capture) Report(r event.Report) {
	if c.d == nil || r.Event != c.id || c.d.Depth() > 1 {
		return
	}
	c.reasons = append(c.reasons, r.Reason)
}

func (c *capture) arm(d *event.Dispatcher, id event.ID) {
	c.d, c.id = d, id
	c.reasons = c.reasons[:0]
}

func (c *capture) disarm() []event.Reason {
	c.d = nil
	return append([]event.Reason(nil), c.reasons...)
}
