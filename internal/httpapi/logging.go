package httpapi

import (
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

// LogLevel controls per-request logging behavior.
type LogLevel int

const (
	LevelOff LogLevel = iota
	LevelError
	LevelInfo
	LevelDebug
)

func parseLevel(s string) LogLevel {
	switch strings.ToLower(s) {
	case "off", "":
		return LevelOff
	case "error":
		return LevelError
	case "info":
		return LevelInfo
	case "debug":
		return LevelDebug
	default:
		return LevelInfo
	}
}

// requestLogLevel applies per-request overrides (?log= or X-Log-Level) to def.
func requestLogLevel(r *http.Request, def LogLevel) LogLevel {
	if v := r.URL.Query().Get("log"); v != "" {
		if v == "1" {
			return LevelDebug
		}
		return parseLevel(v)
	}
	if v := r.Header.Get("X-Log-Level"); v != "" {
		return parseLevel(v)
	}
	return def
}

// requestLogger logs one line per request at the effective level: errors
// (status >= 500) from LevelError, every request from LevelInfo.
func requestLogger(log zerolog.Logger, def LogLevel) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			lvl := requestLogLevel(r, def)
			if lvl == LevelOff {
				next.ServeHTTP(w, r)
				return
			}
			sr := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			start := time.Now()
			next.ServeHTTP(sr, r)

			var ev *zerolog.Event
			switch {
			case sr.status >= 500:
				ev = log.Error()
			case lvl >= LevelDebug:
				ev = log.Debug()
			case lvl >= LevelInfo:
				ev = log.Info()
			default:
				return
			}
			ev = ev.Str("method", r.Method).Str("path", r.URL.Path).Int("status", sr.status).Dur("dur", time.Since(start))
			if rid := middleware.GetReqID(r.Context()); rid != "" {
				ev = ev.Str("request_id", rid)
			}
			ev.Msg("request")
		})
	}
}
