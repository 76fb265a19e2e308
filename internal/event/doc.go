// Package event is an in-process, synchronous event dispatcher keyed by
// integer event ids.
//
// Listeners come in two shapes: a no-argument Action and an ArgsAction that
// receives the dispatch arguments. Each registration may carry an Owner, a
// non-owning handle whose liveness is checked on every dispatch; listeners of
// dead owners are skipped but stay registered.
//
// A dispatch runs in two phases over the listeners of one event id:
//
//   - evaluation: each listener is bracketed by the reentrancy guard while its
//     owner is checked, and eligible listeners are staged;
//   - invocation: the staged snapshot is invoked in registration order.
//
// Because invocation walks the staged snapshot, listeners may add or remove
// registrations (including their own) while a dispatch is running.
//
// Nothing in this package returns an error for the conditions it detects
// (duplicate registration, unknown event, dead owner, dispatch loop). They are
// delivered to the configured Sink and the operation carries on.
//
// The dispatcher holds no locks. All calls must come from one goroutine; see
// the host package for serializing calls from elsewhere.
package event
