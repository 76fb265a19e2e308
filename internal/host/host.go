package host

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
	"go.uber.org/multierr"
)

type entry struct {
	name  string
	mod   Module
	param any
}

type call struct {
	fn   func()
	err  error
	done chan struct{}
}

type loop struct {
	calls chan *call
	done  chan struct{}
}

// Host owns the modules and the goroutine that drives them. Lifecycle methods
// (Register, Init, Update, FixedUpdate, Terminate) must be called from the
// owner goroutine; Snapshot, Ready, Module and Call are safe from anywhere.
type Host struct {
	mu           sync.RWMutex
	state        State
	modules      []entry
	byName       map[string]Module
	updates      uint64
	fixedUpdates uint64
	loop         *loop

	updateEvery time.Duration
	fixedEvery  time.Duration
	clock       clock.Clock
	log         zerolog.Logger
}

// New constructs a Host from cfg, defaulting unset fields.
func New(cfg Config) *Host {
	if cfg.UpdateInterval <= 0 {
		cfg.UpdateInterval = defaultUpdateInterval
	}
	if cfg.FixedUpdateInterval <= 0 {
		cfg.FixedUpdateInterval = defaultFixedUpdateInterval
	}
	if cfg.Clock == nil {
		cfg.Clock = clock.New()
	}
	return &Host{
		state:       StateLoading,
		byName:      make(map[string]Module),
		updateEvery: cfg.UpdateInterval,
		fixedEvery:  cfg.FixedUpdateInterval,
		clock:       cfg.Clock,
		log:         cfg.Logger.With().Str("component", "host").Logger(),
	}
}

// Register adds m under name. param is handed to m.OnInit.
func (h *Host) Register(name string, m Module, param any) error {
	if m == nil {
		return fmt.Errorf("host: nil module %q", name)
	}
	h.mu.Lock()
	defer h.mu.Unlock()
	switch h.state {
	case StateReady:
		return ErrAlreadyInitialized
	case StateStopped:
		return ErrStopped
	}
	if _, ok := h.byName[name]; ok {
		return duplicateModuleError{name: name}
	}
	h.byName[name] = m
	h.modules = append(h.modules, entry{name: name, mod: m, param: param})
	return nil
}

// Module returns the module registered under name, or nil.
func (h *Host) Module(name string) Module {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.byName[name]
}

// Names returns module names in registration order.
func (h *Host) Names() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return namesOf(h.modules)
}

// Init calls OnInit on every module in registration order.
func (h *Host) Init() error {
	h.mu.Lock()
	switch h.state {
	case StateReady:
		h.mu.Unlock()
		return ErrAlreadyInitialized
	case StateStopped:
		h.mu.Unlock()
		return ErrStopped
	}
	mods := append([]entry(nil), h.modules...)
	h.mu.Unlock()

	for _, e := range mods {
		e.mod.OnInit(e.param)
	}

	h.mu.Lock()
	h.state = StateReady
	h.mu.Unlock()
	h.log.Info().Strs("modules", namesOf(mods)).Msg("host initialized")
	return nil
}

// Update runs OnUpdate on every module, then OnLateUpdate on every module.
// It does nothing unless the host is ready.
func (h *Host) Update() {
	mods, ok := h.active()
	if !ok {
		return
	}
	for _, e := range mods {
		e.mod.OnUpdate()
	}
	for _, e := range mods {
		e.mod.OnLateUpdate()
	}
	h.mu.Lock()
	h.updates++
	h.mu.Unlock()
}

// FixedUpdate runs OnFixedUpdate on every module.
func (h *Host) FixedUpdate() {
	mods, ok := h.active()
	if !ok {
		return
	}
	for _, e := range mods {
		e.mod.OnFixedUpdate()
	}
	h.mu.Lock()
	h.fixedUpdates++
	h.mu.Unlock()
}

func (h *Host) active() ([]entry, bool) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.state != StateReady {
		return nil, false
	}
	return h.modules, true
}

// Terminate calls OnTermination on every module in reverse registration
// order. A panicking hook does not stop the others; panics are returned as a
// combined error. Calling Terminate again is a no-op.
func (h *Host) Terminate() error {
	h.mu.Lock()
	if h.state == StateStopped {
		h.mu.Unlock()
		return nil
	}
	h.state = StateStopped
	mods := append([]entry(nil), h.modules...)
	h.mu.Unlock()

	var err error
	for i := len(mods) - 1; i >= 0; i-- {
		err = multierr.Append(err, terminate(mods[i]))
	}
	if err != nil {
		h.log.Error().Err(err).Msg("host terminated with errors")
	} else {
		h.log.Info().Msg("host terminated")
	}
	return err
}

func terminate(e entry) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("module %s: termination panicked: %v", e.name, r)
		}
	}()
	e.mod.OnTermination()
	return nil
}

// Ready reports whether Init has completed and Terminate has not run.
func (h *Host) Ready() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.state == StateReady
}

// Snapshot returns a read-only view of the host state.
func (h *Host) Snapshot() Snapshot {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return Snapshot{
		State:        h.state,
		Modules:      namesOf(h.modules),
		Updates:      h.updates,
		FixedUpdates: h.fixedUpdates,
		Running:      h.loop != nil,
	}
}

// Run drives Update and FixedUpdate from clock tickers and executes queued
// calls until ctx is done. It returns ctx.Err().
func (h *Host) Run(ctx context.Context) error {
	update := h.clock.Ticker(h.updateEvery)
	defer update.Stop()
	fixed := h.clock.Ticker(h.fixedEvery)
	defer fixed.Stop()

	l := &loop{calls: make(chan *call), done: make(chan struct{})}
	h.mu.Lock()
	if h.loop != nil {
		h.mu.Unlock()
		return ErrAlreadyRunning
	}
	h.loop = l
	h.mu.Unlock()
	defer func() {
		h.mu.Lock()
		h.loop = nil
		h.mu.Unlock()
		close(l.done)
	}()

	h.log.Debug().Dur("update", h.updateEvery).Dur("fixed_update", h.fixedEvery).Msg("host loop started")
	for {
		select {
		case <-ctx.Done():
			h.log.Debug().Msg("host loop stopped")
			return ctx.Err()
		case <-update.C:
			h.Update()
		case <-fixed.C:
			h.FixedUpdate()
		case c := <-l.calls:
			c.run()
		}
	}
}

func (c *call) run() {
	defer close(c.done)
	defer func() {
		if r := recover(); r != nil {
			c.err = fmt.Errorf("host: call panicked: %v", r)
		}
	}()
	c.fn()
}

// Call runs fn on the loop goroutine and waits for it to return. It returns
// ErrNotRunning when no loop is active.
func (h *Host) Call(ctx context.Context, fn func()) error {
	h.mu.RLock()
	l := h.loop
	h.mu.RUnlock()
	if l == nil {
		return ErrNotRunning
	}
	c := &call{fn: fn, done: make(chan struct{})}
	select {
	case l.calls <- c:
	case <-l.done:
		return ErrNotRunning
	case <-ctx.Done():
		return ctx.Err()
	}
	select {
	case <-c.done:
		return c.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func namesOf(mods []entry) []string {
	out := make([]string, len(mods))
	for i, e := range mods {
		out[i] = e.name
	}
	return out
}
