package httpapi

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const (
	defaultMaxBodyBytes int64 = 1 << 20
	defaultCallTimeout        = 5 * time.Second
)

// Options configures the mux. Zero values select defaults.
type Options struct {
	// Logger receives request logs. Disabled when nil.
	Logger *zerolog.Logger
	// LogLevel is the default request log level (off, error, info, debug).
	LogLevel string

	// Registry backs /metrics and the request metrics. A private registry is
	// created when nil.
	Registry *prometheus.Registry

	// MaxBodyBytes bounds JSON request bodies.
	MaxBodyBytes int64
	// CallTimeout bounds each service call made by a handler.
	CallTimeout time.Duration

	// CORS is opt-in; no CORS middleware is added unless enabled.
	CORSEnabled        bool
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
}

func (o Options) withDefaults() Options {
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = defaultMaxBodyBytes
	}
	if o.CallTimeout <= 0 {
		o.CallTimeout = defaultCallTimeout
	}
	if o.Registry == nil {
		o.Registry = prometheus.NewRegistry()
	}
	if len(o.CORSAllowedOrigins) == 0 {
		o.CORSAllowedOrigins = []string{"*"}
	}
	if len(o.CORSAllowedMethods) == 0 {
		o.CORSAllowedMethods = []string{"GET", "POST", "DELETE", "OPTIONS"}
	}
	if len(o.CORSAllowedHeaders) == 0 {
		o.CORSAllowedHeaders = []string{"Content-Type", "X-Request-Id", "X-Log-Level"}
	}
	return o
}
