package host

import (
	"errors"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/rs/zerolog"
)

// State represents the lifecycle state of the host.
type State string

const (
	StateLoading State = "loading"
	StateReady   State = "ready"
	StateStopped State = "stopped"
)

// Module is a unit of work driven by the host.
type Module interface {
	OnInit(param any)
	OnUpdate()
	OnLateUpdate()
	OnFixedUpdate()
	OnTermination()
}

// Base provides no-op hooks for embedding.
type Base struct{}

func (Base) OnInit(param any) {}
func (Base) OnUpdate()        {}
func (Base) OnLateUpdate()    {}
func (Base) OnFixedUpdate()   {}
func (Base) OnTermination()   {}

// Snapshot is a read-only projection of the host state.
type Snapshot struct {
	State        State
	Modules      []string
	Updates      uint64
	FixedUpdates uint64
	Running      bool
}

// Defaults applied when corresponding Config fields are unset.
const (
	defaultUpdateInterval      = 16 * time.Millisecond
	defaultFixedUpdateInterval = 20 * time.Millisecond
)

// Config encapsulates host tunables.
type Config struct {
	UpdateInterval      time.Duration
	FixedUpdateInterval time.Duration
	// Clock drives the loop tickers; the wall clock when nil.
	Clock  clock.Clock
	Logger zerolog.Logger
}

var (
	ErrNotRunning         = errors.New("host: loop not running")
	ErrAlreadyRunning     = errors.New("host: loop already running")
	ErrAlreadyInitialized = errors.New("host: already initialized")
	ErrStopped            = errors.New("host: stopped")
)

// duplicateModuleError signals a second registration under the same name.
type duplicateModuleError struct{ name string }

func (e duplicateModuleError) Error() string { return "host: duplicate module: " + e.name }

// IsDuplicateModule reports whether err indicates a name collision on Register.
func IsDuplicateModule(err error) bool {
	var d duplicateModuleError
	return errors.As(err, &d)
}
