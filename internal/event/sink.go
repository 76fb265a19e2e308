package event

import "sync"

// Sink receives the conditions detected by a Dispatcher.
// Implementations must not call back into the dispatcher.
type Sink interface {
	Report(Report)
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(Report)

func (f SinkFunc) Report(r Report) { f(r) }

// nopSink is the default; it drops reports.
type nopSink struct{}

func (nopSink) Report(Report) {}

type teeSink []Sink

func (t teeSink) Report(r Report) {
	for _, s := range t {
		s.Report(r)
	}
}

// Tee returns a Sink delivering every report to each of sinks in order.
// Nil sinks are skipped.
func Tee(sinks ...Sink) Sink {
	out := make(teeSink, 0, len(sinks))
	for _, s := range sinks {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

// MemorySink stores reports in memory for tests and diagnostics.
type MemorySink struct {
	mu      sync.Mutex
	reports []Report
}

func NewMemorySink() *MemorySink { return &MemorySink{} }

func (s *MemorySink) Report(r Report) {
	s.mu.Lock()
	s.reports = append(s.reports, r)
	s.mu.Unlock()
}

// Reports returns a copy of everything recorded so far.
func (s *MemorySink) Reports() []Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Report, len(s.reports))
	copy(out, s.reports)
	return out
}

// Count returns how many recorded reports carry reason.
func (s *MemorySink) Count(reason Reason) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, r := range s.reports {
		if r.Reason == reason {
			n++
		}
	}
	return n
}

func (s *MemorySink) Reset() {
	s.mu.Lock()
	s.reports = nil
	s.mu.Unlock()
}
