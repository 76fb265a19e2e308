package event

import (
	"fmt"
	"reflect"
	"runtime"
	"strings"
)

// ID identifies a class of notification.
type ID int

// Key maps an enumerated event name onto its registry key.
func Key[E ~int | ~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16](e E) ID {
	return ID(e)
}

// Owner is a non-owning handle to the object a listener belongs to. The
// dispatcher only compares owners and asks a Liveness whether they are still
// valid; it never keeps them alive on their behalf. An owner value must be
// comparable (a pointer, typically); a struct or interface holding a slice,
// map or func is rejected even when its static type is comparable.
type Owner any

// Liveness reports whether an owner handle still refers to a valid object.
type Liveness interface {
	IsAlive(owner Owner) bool
}

// LivenessFunc adapts a function to Liveness.
type LivenessFunc func(Owner) bool

func (f LivenessFunc) IsAlive(o Owner) bool { return f(o) }

// aliveChecker is implemented by owners that know their own state.
type aliveChecker interface {
	Alive() bool
}

// defaultLiveness asks owners implementing Alive() and treats any other owner
// as alive.
type defaultLiveness struct{}

func (defaultLiveness) IsAlive(o Owner) bool {
	if a, ok := o.(aliveChecker); ok {
		return a.Alive()
	}
	return true
}

// Action is a no-argument callback. Registrations are identified by the
// *Action pointer, so keep the value returned by NewAction to remove it later.
type Action struct {
	name string
	fn   func()
}

// NewAction wraps fn. An empty name is replaced by the function's symbol name.
func NewAction(name string, fn func()) *Action {
	if name == "" && fn != nil {
		name = funcName(fn)
	}
	return &Action{name: name, fn: fn}
}

func (a *Action) Name() string {
	if a == nil {
		return "<nil>"
	}
	return a.name
}

// ArgsAction is a callback receiving the dispatch arguments.
type ArgsAction struct {
	name string
	fn   func(args []any)
}

// NewArgsAction wraps fn. An empty name is replaced by the function's symbol name.
func NewArgsAction(name string, fn func(args []any)) *ArgsAction {
	if name == "" && fn != nil {
		name = funcName(fn)
	}
	return &ArgsAction{name: name, fn: fn}
}

func (a *ArgsAction) Name() string {
	if a == nil {
		return "<nil>"
	}
	return a.name
}

func funcName(fn any) string {
	f := runtime.FuncForPC(reflect.ValueOf(fn).Pointer())
	if f == nil {
		return "<func>"
	}
	name := f.Name()
	if i := strings.LastIndex(name, "/"); i >= 0 {
		name = name[i+1:]
	}
	return name
}

// Shape tags the two listener variants.
type Shape uint8

const (
	ShapeNoArg Shape = iota
	ShapeWithArgs
)

func (s Shape) String() string {
	switch s {
	case ShapeNoArg:
		return "no-arg"
	case ShapeWithArgs:
		return "with-args"
	default:
		return "unknown"
	}
}

// listener is one registered variant. Exactly one of action and argsAction is
// set, according to shape.
type listener struct {
	shape      Shape
	id         ID
	action     *Action
	argsAction *ArgsAction
	owner      Owner
	// detached is set when the listener is removed; it is never eligible again.
	detached bool
}

func newListener(id ID, a *Action, owner Owner) *listener {
	return &listener{shape: ShapeNoArg, id: id, action: a, owner: owner}
}

func newArgsListener(id ID, a *ArgsAction, owner Owner) *listener {
	return &listener{shape: ShapeWithArgs, id: id, argsAction: a, owner: owner}
}

// valid reports whether l can be registered at all.
func (l *listener) valid() bool {
	switch l.shape {
	case ShapeNoArg:
		if l.action == nil || l.action.fn == nil {
			return false
		}
	case ShapeWithArgs:
		if l.argsAction == nil || l.argsAction.fn == nil {
			return false
		}
	default:
		return false
	}
	return l.owner == nil || reflect.ValueOf(l.owner).Comparable()
}

// same implements the identity rule: same shape, event id, callback and owner.
func (l *listener) same(o *listener) bool {
	return l.id == o.id && l.matches(o.shape, o.action, o.argsAction, o.owner)
}

func (l *listener) matches(shape Shape, a *Action, aa *ArgsAction, owner Owner) bool {
	if l.shape != shape {
		return false
	}
	switch shape {
	case ShapeNoArg:
		if l.action != a {
			return false
		}
	case ShapeWithArgs:
		if l.argsAction != aa {
			return false
		}
	}
	return sameOwner(l.owner, owner)
}

// sameOwner compares owners without panicking on non-comparable values.
func sameOwner(a, b Owner) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta := reflect.TypeOf(a)
	if ta != reflect.TypeOf(b) || !reflect.ValueOf(a).Comparable() || !reflect.ValueOf(b).Comparable() {
		return false
	}
	return a == b
}

func (l *listener) callbackName() string {
	switch l.shape {
	case ShapeNoArg:
		return l.action.Name()
	case ShapeWithArgs:
		return l.argsAction.Name()
	default:
		return "<unknown>"
	}
}

// invoke calls the callback. No-arg listeners ignore args entirely.
func (l *listener) invoke(args []any) {
	switch l.shape {
	case ShapeNoArg:
		l.action.fn()
	case ShapeWithArgs:
		l.argsAction.fn(args)
	}
}

// String is the debug description used in reports.
func (l *listener) String() string {
	owner := "none"
	if l.owner != nil {
		switch v := l.owner.(type) {
		case fmt.Stringer:
			owner = fmt.Sprintf("%T(%s)", v, v.String())
		default:
			if reflect.TypeOf(v).Kind() == reflect.Pointer {
				owner = fmt.Sprintf("%T(%p)", v, v)
			} else {
				owner = fmt.Sprintf("%T(%v)", v, v)
			}
		}
	}
	return fmt.Sprintf("event=%d shape=%s callback=%s owner=%s", l.id, l.shape, l.callbackName(), owner)
}
