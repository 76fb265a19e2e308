package event

import (
	"errors"
	"strconv"
)

// Sentinel errors matched by Report.Unwrap.
var (
	ErrDuplicateRegistration = errors.New("duplicate listener registration")
	ErrEventNotFound         = errors.New("event not found")
	ErrListenerNotFound      = errors.New("listener not found")
	ErrListenerDead          = errors.New("listener owner is dead")
	ErrDispatchLoop          = errors.New("dispatch loop detected")
	ErrInvalidListener       = errors.New("invalid listener")
)

// Reason classifies a Report.
type Reason uint8

const (
	ReasonDuplicateRegistration Reason = iota + 1
	ReasonEventNotFound
	ReasonListenerNotFound
	ReasonListenerDead
	ReasonDispatchLoop
	ReasonInvalidListener
)

func (r Reason) String() string {
	switch r {
	case ReasonDuplicateRegistration:
		return "duplicate_registration"
	case ReasonEventNotFound:
		return "event_not_found"
	case ReasonListenerNotFound:
		return "listener_not_found"
	case ReasonListenerDead:
		return "listener_dead"
	case ReasonDispatchLoop:
		return "dispatch_loop"
	case ReasonInvalidListener:
		return "invalid_listener"
	default:
		return "unknown"
	}
}

// Err returns the sentinel error for r.
func (r Reason) Err() error {
	switch r {
	case ReasonDuplicateRegistration:
		return ErrDuplicateRegistration
	case ReasonEventNotFound:
		return ErrEventNotFound
	case ReasonListenerNotFound:
		return ErrListenerNotFound
	case ReasonListenerDead:
		return ErrListenerDead
	case ReasonDispatchLoop:
		return ErrDispatchLoop
	case ReasonInvalidListener:
		return ErrInvalidListener
	default:
		return nil
	}
}

// Severity is the log category a sink should use for a Reason.
type Severity uint8

const (
	SeverityInfo Severity = iota
	SeverityWarn
	SeverityError
)

// Severity reports how loudly r should be logged.
func (r Reason) Severity() Severity {
	switch r {
	case ReasonDispatchLoop:
		return SeverityError
	case ReasonDuplicateRegistration, ReasonInvalidListener:
		return SeverityWarn
	default:
		return SeverityInfo
	}
}

// Report describes a non-fatal condition detected by the dispatcher.
type Report struct {
	Reason Reason
	Event  ID
	// Callback is the diagnostic name of the callback involved, if any.
	Callback string
	// Detail is a debug description of the listener involved, if any.
	Detail string
}

func (r Report) Error() string {
	s := r.Reason.String() + ": event " + strconv.Itoa(int(r.Event))
	if r.Callback != "" {
		s += " callback " + r.Callback
	}
	if r.Detail != "" {
		s += " (" + r.Detail + ")"
	}
	return s
}

// Unwrap allows errors.Is(report, ErrDispatchLoop) and friends.
func (r Report) Unwrap() error { return r.Reason.Err() }
