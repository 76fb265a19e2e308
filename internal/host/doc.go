// Package host drives a fixed set of modules through their lifecycle on a
// single owner goroutine.
//
// Modules are registered before Init and receive OnInit in registration
// order, OnUpdate/OnLateUpdate and OnFixedUpdate on every tick of Run, and
// OnTermination in reverse order. Code outside the loop reaches the modules
// through Call, which executes a function on the loop goroutine and waits.
package host
