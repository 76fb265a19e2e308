package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"evbus/pkg/types"
)

// Service defines the methods required by the HTTP API layer.
type Service interface {
	Ready() bool
	Status(ctx context.Context) (types.StatusResponse, error)
	Events(ctx context.Context) (types.EventsResponse, error)
	// Dispatch fires event id. A nil args slice selects a no-argument
	// dispatch; a non-nil (possibly empty) one an argument dispatch.
	Dispatch(ctx context.Context, id int, args []any) (types.DispatchResponse, error)
	ShowOverlay(ctx context.Context, req types.OverlayRequest) (types.OverlayResponse, error)
	CloseOverlay(ctx context.Context, guid string, destroy bool) (types.OverlayResponse, error)
}

type server struct {
	svc  Service
	opts Options
}

// NewMux builds the HTTP handler for svc.
func NewMux(svc Service, opts Options) http.Handler {
	opts = opts.withDefaults()
	s := &server{svc: svc, opts: opts}

	r := chi.NewRouter()
	// Basic middlewares: request id, real ip, metrics, logs, recoverer
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(newHTTPMetrics(opts.Registry).middleware)
	if opts.Logger != nil {
		r.Use(requestLogger(*opts.Logger, parseLevel(opts.LogLevel)))
	}
	r.Use(middleware.Recoverer)
	if opts.CORSEnabled {
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: opts.CORSAllowedOrigins,
			AllowedMethods: opts.CORSAllowedMethods,
			AllowedHeaders: opts.CORSAllowedHeaders,
			MaxAge:         300,
		}))
	}
	r.Use(middleware.Compress(5))
	// Security headers
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			next.ServeHTTP(w, r)
		})
	})

	r.Get("/healthz", s.healthz)
	r.Get("/readyz", s.readyz)
	r.Get("/status", s.status)
	r.Get("/events", s.events)
	r.Post("/events/{id}/dispatch", s.dispatch)
	r.Post("/overlays", s.showOverlay)
	r.Delete("/overlays/{guid}", s.closeOverlay)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(opts.Registry, promhttp.HandlerOpts{}))
	mountSwagger(r)
	return r
}

// healthz godoc
// @Summary      Liveness probe
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string  "ok"
// @Router       /healthz [get]
func (s *server) healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// readyz godoc
// @Summary      Readiness probe
// @Tags         health
// @Produce      plain
// @Success      200  {string}  string  "ready"
// @Failure      503  {string}  string  "loading"
// @Router       /readyz [get]
func (s *server) readyz(w http.ResponseWriter, r *http.Request) {
	if s.svc.Ready() {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
		return
	}
	w.WriteHeader(http.StatusServiceUnavailable)
	w.Write([]byte("loading"))
}

// status godoc
// @Summary      Host and dispatcher status
// @Tags         status
// @Produce      json
// @Success      200  {object}  types.StatusResponse
// @Failure      503  {object}  types.ErrorResponse
// @Router       /status [get]
func (s *server) status(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := callContext(r, s.opts.CallTimeout)
	defer cancel()
	resp, err := s.svc.Status(ctx)
	if err != nil {
		writeJSONError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// events godoc
// @Summary      Registered events
// @Tags         events
// @Produce      json
// @Success      200  {object}  types.EventsResponse
// @Router       /events [get]
func (s *server) events(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := callContext(r, s.opts.CallTimeout)
	defer cancel()
	resp, err := s.svc.Events(ctx)
	if err != nil {
		writeJSONError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// dispatch godoc
// @Summary      Dispatch an event
// @Tags         events
// @Accept       json
// @Produce      json
// @Param        id    path      int                    true   "event id"
// @Param        body  body      types.DispatchRequest  false  "arguments"
// @Success      200   {object}  types.DispatchResponse
// @Failure      400   {object}  types.ErrorResponse
// @Failure      404   {object}  types.ErrorResponse
// @Router       /events/{id}/dispatch [post]
func (s *server) dispatch(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		writeJSONError(w, http.StatusBadRequest, "event id must be an integer")
		return
	}
	var req types.DispatchRequest
	if r.ContentLength != 0 {
		if !s.decode(w, r, &req) {
			return
		}
	}
	ctx, cancel := callContext(r, s.opts.CallTimeout)
	defer cancel()
	resp, err := s.svc.Dispatch(ctx, id, req.Args)
	if err != nil {
		writeJSONError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// showOverlay godoc
// @Summary      Show an overlay view
// @Tags         overlays
// @Accept       json
// @Produce      json
// @Param        body  body      types.OverlayRequest  true  "view"
// @Success      201   {object}  types.OverlayResponse
// @Failure      400   {object}  types.ErrorResponse
// @Router       /overlays [post]
func (s *server) showOverlay(w http.ResponseWriter, r *http.Request) {
	var req types.OverlayRequest
	if !s.decode(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Asset) == "" {
		writeJSONError(w, http.StatusBadRequest, "asset is required")
		return
	}
	ctx, cancel := callContext(r, s.opts.CallTimeout)
	defer cancel()
	resp, err := s.svc.ShowOverlay(ctx, req)
	if err != nil {
		writeJSONError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// closeOverlay godoc
// @Summary      Close an overlay view
// @Tags         overlays
// @Produce      json
// @Param        guid     path      string  true   "view guid"
// @Param        destroy  query     bool    false  "drop the cached view"
// @Success      200      {object}  types.OverlayResponse
// @Failure      404      {object}  types.ErrorResponse
// @Router       /overlays/{guid} [delete]
func (s *server) closeOverlay(w http.ResponseWriter, r *http.Request) {
	destroy, _ := strconv.ParseBool(r.URL.Query().Get("destroy"))
	ctx, cancel := callContext(r, s.opts.CallTimeout)
	defer cancel()
	resp, err := s.svc.CloseOverlay(ctx, chi.URLParam(r, "guid"), destroy)
	if err != nil {
		writeJSONError(w, statusFor(err), err.Error())
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// decode checks the content type and reads a bounded JSON body into v. It
// writes the error response and returns false on failure.
func (s *server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	ct := r.Header.Get("Content-Type")
	if ct == "" || !strings.HasPrefix(strings.ToLower(ct), "application/json") {
		writeJSONError(w, http.StatusUnsupportedMediaType, "Content-Type must be application/json")
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, s.opts.MaxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeJSONError(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		if errors.Is(err, io.EOF) {
			return true
		}
		writeJSONError(w, http.StatusBadRequest, "invalid JSON body")
		return false
	}
	return true
}
