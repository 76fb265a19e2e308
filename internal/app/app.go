// Package app assembles the event host, its HTTP surface and their lifecycle
// into an fx application.
package app

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/multierr"

	"evbus/internal/config"
	"evbus/internal/event"
	"evbus/internal/host"
	"evbus/internal/httpapi"
	"evbus/internal/logging"
	"evbus/internal/metrics"
	"evbus/internal/overlay"
)

// Module names as registered on the host, in registration order.
const (
	ModuleEvent   = "event"
	ModuleOverlay = "overlay"
	ModuleJournal = "journal"
	ModuleGauge   = "gauge"
)

const shutdownTimeout = 5 * time.Second

// Options returns the fx graph for cfg.
func Options(cfg config.Config) fx.Option {
	return fx.Options(
		fx.Supply(cfg),
		fx.Provide(
			newLogger,
			newRegistry,
			newCollector,
			newCapture,
			newLiveness,
			newEventModule,
			newHost,
			newLayer,
			newJournalModule,
			newService,
			newServer,
		),
		fx.Invoke(registerModules, registerLifecycle),
	)
}

// New builds the application. extra options are appended, which tests use
// to populate or replace components.
func New(cfg config.Config, extra ...fx.Option) *fx.App {
	opts := []fx.Option{
		Options(cfg),
		fx.WithLogger(func(log zerolog.Logger) fxevent.Logger {
			return &logging.FxLogger{Log: log.With().Str("component", "fx").Logger()}
		}),
	}
	return fx.New(append(opts, extra...)...)
}

func newLogger(cfg config.Config) zerolog.Logger {
	return logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
}

func newRegistry() *prometheus.Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return reg
}

func newCollector(reg *prometheus.Registry) *metrics.Collector {
	return metrics.NewCollector(reg)
}

func newCapture() *capture { return &capture{} }

func newLiveness() *liveness { return &liveness{} }

func newEventModule(log zerolog.Logger, c *metrics.Collector, cp *capture, lv *liveness) *event.Module {
	return event.NewModule(
		event.WithSink(event.Tee(logging.NewSink(log), c, cp)),
		event.WithLiveness(lv),
		event.WithObserver(c),
	)
}

func newHost(cfg config.Config, log zerolog.Logger) *host.Host {
	return host.New(host.Config{
		UpdateInterval:      cfg.UpdateInterval(),
		FixedUpdateInterval: cfg.FixedUpdateInterval(),
		Logger:              log,
	})
}

func newLayer(cfg config.Config, events *event.Module, lv *liveness, log zerolog.Logger) *overlay.Layer {
	l := overlay.NewLayer(events.Dispatcher(),
		overlay.WithCacheSize(cfg.NotifyCacheSize),
		overlay.WithEvents(event.ID(cfg.NotifyOpenedEvent), event.ID(cfg.NotifyClosedEvent)),
		overlay.WithLogger(log.With().Str("component", "overlay").Logger()),
	)
	lv.layer = l
	return l
}

type moduleParams struct {
	fx.In

	Host      *host.Host
	Events    *event.Module
	Layer     *overlay.Layer
	Journal   *journalModule
	Collector *metrics.Collector
}

func registerModules(p moduleParams) error {
	gauge := &gaugeModule{events: p.Events, collector: p.Collector}
	return multierr.Combine(
		p.Host.Register(ModuleEvent, p.Events, nil),
		p.Host.Register(ModuleOverlay, p.Layer, nil),
		p.Host.Register(ModuleJournal, p.Journal, nil),
		p.Host.Register(ModuleGauge, gauge, nil),
	)
}

// Server is the HTTP listener of the application.
type Server struct {
	srv *http.Server
	ln  net.Listener
	log zerolog.Logger
}

func newServer(cfg config.Config, svc *Service, reg *prometheus.Registry, log zerolog.Logger) *Server {
	l := log.With().Str("component", "http").Logger()
	mux := httpapi.NewMux(svc, httpapi.Options{
		Logger:             &l,
		LogLevel:           cfg.LogLevel,
		Registry:           reg,
		CORSEnabled:        cfg.CORSEnabled,
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})
	return &Server{srv: &http.Server{Addr: cfg.Addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}, log: l}
}

// Addr returns the bound listen address once started.
func (s *Server) Addr() string {
	if s.ln == nil {
		return s.srv.Addr
	}
	return s.ln.Addr().String()
}

func (s *Server) start() error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return err
	}
	s.ln = ln
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("listening")
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.log.Error().Err(err).Msg("server error")
		}
	}()
	return nil
}

func registerLifecycle(lc fx.Lifecycle, h *host.Host, srv *Server, log zerolog.Logger) {
	var (
		cancel context.CancelFunc
		done   = make(chan struct{})
	)
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if err := h.Init(); err != nil {
				return err
			}
			var runCtx context.Context
			runCtx, cancel = context.WithCancel(context.Background())
			go func() {
				defer close(done)
				_ = h.Run(runCtx)
				if err := h.Terminate(); err != nil {
					log.Error().Err(err).Msg("module termination failed")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			cancel()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		},
	})
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error { return srv.start() },
		OnStop: func(ctx context.Context) error {
			ctx, c := context.WithTimeout(ctx, shutdownTimeout)
			defer c()
			return srv.srv.Shutdown(ctx)
		},
	})
}
