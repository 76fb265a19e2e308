package logging

import (
	"github.com/rs/zerolog"

	"evbus/internal/event"
)

// Sink logs dispatcher reports: loops at error level, rejected registrations
// at warn, everything else at info.
type Sink struct {
	log zerolog.Logger
}

func NewSink(l zerolog.Logger) *Sink {
	return &Sink{log: l.With().Str("component", "event").Logger()}
}

func (s *Sink) Report(r event.Report) {
	var e *zerolog.Event
	switch r.Reason.Severity() {
	case event.SeverityError:
		e = s.log.Error()
	case event.SeverityWarn:
		e = s.log.Warn()
	default:
		e = s.log.Info()
	}
	e = e.Str("reason", r.Reason.String()).Int("event", int(r.Event))
	if r.Callback != "" {
		e = e.Str("callback", r.Callback)
	}
	if r.Detail != "" {
		e = e.Str("detail", r.Detail)
	}
	msg := "event report"
	if err := r.Reason.Err(); err != nil {
		msg = err.Error()
	}
	e.Msg(msg)
}
