package overlay

import (
	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/rs/zerolog"

	"evbus/internal/event"
	"evbus/internal/host"
)

const (
	defaultCacheSize          = 32
	defaultOpened    event.ID = 1001
	defaultClosed    event.ID = 1002
)

// Option configures a Layer.
type Option func(*Layer)

// WithCacheSize bounds the number of closed views kept for reuse.
func WithCacheSize(n int) Option {
	return func(l *Layer) {
		if n > 0 {
			l.cacheSize = n
		}
	}
}

// WithEvents sets the ids dispatched when a view opens and closes.
func WithEvents(opened, closed event.ID) Option {
	return func(l *Layer) {
		l.opened, l.closed = opened, closed
	}
}

// WithLogger sets the layer logger.
func WithLogger(log zerolog.Logger) Option {
	return func(l *Layer) { l.log = log }
}

// Layer shows notification views and announces them on a dispatcher. It is
// not safe for concurrent use; drive it from the dispatcher's goroutine.
type Layer struct {
	host.Base

	d         *event.Dispatcher
	views     map[string]*View
	cache     *lru.Cache[string, *View]
	cacheSize int
	opened    event.ID
	closed    event.ID
	log       zerolog.Logger

	// reusing is the cached view being taken out by Show; its eviction is
	// not a release.
	reusing *View
}

// NewLayer constructs a layer announcing on d.
func NewLayer(d *event.Dispatcher, opts ...Option) *Layer {
	l := &Layer{
		d:         d,
		views:     make(map[string]*View),
		cacheSize: defaultCacheSize,
		opened:    defaultOpened,
		closed:    defaultClosed,
		log:       zerolog.Nop(),
	}
	for _, o := range opts {
		o(l)
	}
	// Only fails for a non-positive size, which the option rules out.
	l.cache, _ = lru.NewWithEvict[string, *View](l.cacheSize, l.evicted)
	return l
}

// evicted releases a view dropped from the cache as if it had been closed
// with destroy.
func (l *Layer) evicted(asset string, v *View) {
	if v == l.reusing {
		return
	}
	l.log.Debug().Str("asset", asset).Str("guid", v.GUID).Msg("cached view released")
	if cb := v.Callbacks; cb != nil && cb.OnRemoved != nil {
		cb.OnRemoved(v, true)
	}
}

// Show displays content in a view built from cfg.Asset, reusing a cached view
// for that asset when one exists, and returns the new view's GUID.
//
// A reused view is the same *View that was closed: listeners it owns were
// skipped while it was cached and are invoked again once it is shown. Owners
// that must not outlive a close should remove their listeners in
// Callbacks.OnRemoved.
func (l *Layer) Show(uiID int, cfg ViewConfig, content string, cb *Callbacks) string {
	guid := uuid.NewString()
	v, ok := l.cache.Peek(cfg.Asset)
	if ok {
		l.reusing = v
		l.cache.Remove(cfg.Asset)
		l.reusing = nil
	} else {
		v = &View{Asset: cfg.Asset}
	}
	v.GUID = guid
	v.UIID = uiID
	v.Params = []any{content}
	v.Callbacks = cb
	v.valid = true
	l.views[guid] = v

	l.log.Debug().Int("ui_id", uiID).Str("asset", cfg.Asset).Str("guid", guid).Bool("reused", ok).Msg("view shown")
	if cb != nil && cb.OnAdded != nil {
		cb.OnAdded(v)
	}
	if l.d != nil {
		l.d.DispatchArgs(l.opened, guid, uiID)
	}
	return guid
}

// CloseByGUID closes the view with the given GUID and returns its ui id, or
// 0 when no such view is shown. With destroy the view's asset is dropped from
// the cache; otherwise the view is cached for reuse. Views leaving the cache
// without being reused get OnRemoved with destroy set.
func (l *Layer) CloseByGUID(guid string, destroy bool) int {
	v, ok := l.views[guid]
	if !ok {
		return 0
	}
	delete(l.views, guid)
	if old, cached := l.cache.Peek(v.Asset); cached && (destroy || old != v) {
		l.cache.Remove(v.Asset)
	}
	if !destroy {
		l.cache.Add(v.Asset, v)
	}
	v.valid = false

	l.log.Debug().Int("ui_id", v.UIID).Str("guid", guid).Bool("destroy", destroy).Msg("view closed")
	if cb := v.Callbacks; cb != nil && cb.OnRemoved != nil {
		cb.OnRemoved(v, destroy)
	}
	if l.d != nil {
		l.d.DispatchArgs(l.closed, guid, v.UIID)
	}
	return v.UIID
}

// Get returns the shown view with the given GUID.
func (l *Layer) Get(guid string) (*View, bool) {
	v, ok := l.views[guid]
	return v, ok
}

// Len returns the number of shown views.
func (l *Layer) Len() int { return len(l.views) }

// Cached returns the number of closed views held for reuse.
func (l *Layer) Cached() int { return l.cache.Len() }

// IsAlive implements event.Liveness: views of this layer are alive while
// shown, any other owner is asked through its own Alive method if it has one.
func (l *Layer) IsAlive(o event.Owner) bool {
	switch v := o.(type) {
	case *View:
		return v.valid && l.views[v.GUID] == v
	case interface{ Alive() bool }:
		return v.Alive()
	}
	return true
}

// OnTermination destroys every shown view.
func (l *Layer) OnTermination() {
	for guid := range l.views {
		l.CloseByGUID(guid, true)
	}
	l.cache.Purge()
}
