package logging

import (
	"strings"

	"github.com/rs/zerolog"
	"go.uber.org/fx/fxevent"
)

// FxLogger routes fx lifecycle events to zerolog. Successful steps are logged
// at debug, failures at error.
type FxLogger struct {
	Log zerolog.Logger
}

var _ fxevent.Logger = (*FxLogger)(nil)

func (l *FxLogger) LogEvent(ev fxevent.Event) {
	switch e := ev.(type) {
	case *fxevent.OnStartExecuted:
		l.result(e.Err).Str("callee", e.FunctionName).Str("caller", e.CallerName).Dur("runtime", e.Runtime).Msg("OnStart hook executed")
	case *fxevent.OnStopExecuted:
		l.result(e.Err).Str("callee", e.FunctionName).Str("caller", e.CallerName).Dur("runtime", e.Runtime).Msg("OnStop hook executed")
	case *fxevent.Provided:
		l.result(e.Err).Str("constructor", e.ConstructorName).Str("types", strings.Join(e.OutputTypeNames, ",")).Msg("provided")
	case *fxevent.Invoked:
		l.result(e.Err).Str("function", e.FunctionName).Msg("invoked")
	case *fxevent.Started:
		l.result(e.Err).Msg("started")
	case *fxevent.Stopped:
		l.result(e.Err).Msg("stopped")
	case *fxevent.RolledBack:
		l.result(e.Err).Msg("start failed, rolled back")
	}
}

func (l *FxLogger) result(err error) *zerolog.Event {
	if err != nil {
		return l.Log.Error().Err(err)
	}
	return l.Log.Debug()
}
