package event

// Module exposes a Dispatcher to a module host. The dispatcher is created with
// the module and released on termination.
type Module struct {
	d *Dispatcher
}

// NewModule creates the module together with its dispatcher.
func NewModule(opts ...Option) *Module {
	return &Module{d: NewDispatcher(opts...)}
}

// Dispatcher returns the module's dispatcher, or nil after termination.
func (m *Module) Dispatcher() *Dispatcher { return m.d }

func (m *Module) OnInit(param any) {}

func (m *Module) OnUpdate() {}

func (m *Module) OnLateUpdate() {}

func (m *Module) OnFixedUpdate() {}

// OnTermination clears every registration and releases the dispatcher.
func (m *Module) OnTermination() {
	if m.d == nil {
		return
	}
	m.d.Clear()
	m.d = nil
}
