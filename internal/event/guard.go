package event

// guard tracks the listeners whose eligibility is being evaluated by the
// current top-level dispatch.
//
// A listener is only in flight between enter and leave, which bracket the
// owner check. Recursion started from inside a listener body, after leave, is
// therefore not detected here.
type guard struct {
	inFlight map[*listener]struct{}
}

func newGuard() *guard {
	return &guard{inFlight: make(map[*listener]struct{})}
}

// enter marks l as in flight. It returns false if l already was, which means
// the caller is looping and must not stage l.
func (g *guard) enter(l *listener) bool {
	if _, ok := g.inFlight[l]; ok {
		return false
	}
	g.inFlight[l] = struct{}{}
	return true
}

func (g *guard) leave(l *listener) {
	delete(g.inFlight, l)
}

func (g *guard) reset() {
	clear(g.inFlight)
}

func (g *guard) len() int { return len(g.inFlight) }
