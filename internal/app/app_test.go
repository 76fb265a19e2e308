package app

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"
	"go.uber.org/fx/fxtest"

	"evbus/internal/config"
	"evbus/internal/event"
	"evbus/internal/host"
)

type harness struct {
	svc *Service
	srv *Server
	reg *prometheus.Registry
	h   *host.Host
	app *fxtest.App

	stopped bool
}

func (hs *harness) stop() {
	if !hs.stopped {
		hs.stopped = true
		hs.app.RequireStop()
	}
}

func startApp(t *testing.T) *harness {
	t.Helper()
	cfg := config.Default()
	cfg.Addr = "127.0.0.1:0"
	cfg.UpdateIntervalMS = 1
	cfg.FixedUpdateIntervalMS = 1

	var hs harness
	hs.app = fxtest.New(t,
		Options(cfg),
		fx.NopLogger,
		fx.Decorate(func() zerolog.Logger { return zerolog.Nop() }),
		fx.Populate(&hs.svc, &hs.srv, &hs.reg, &hs.h),
	)
	hs.app.RequireStart()
	t.Cleanup(hs.stop)
	require.Eventually(t, func() bool { return hs.h.Snapshot().Running }, time.Second, time.Millisecond)
	return &hs
}

func TestApp_RegistersModulesInOrder(t *testing.T) {
	hs := startApp(t)
	require.True(t, hs.svc.Ready())
	require.Equal(t, []string{ModuleEvent, ModuleOverlay, ModuleJournal, ModuleGauge}, hs.h.Names())
}

func TestService_EventsListsJournalListeners(t *testing.T) {
	hs := startApp(t)
	resp, err := hs.svc.Events(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, resp.Total)
	require.Len(t, resp.Events, 2)
	require.Equal(t, config.DefaultNotifyOpenedEvent, resp.Events[0].ID)
	require.Equal(t, 1, resp.Events[0].Listeners)
}

func TestService_OverlayAndDispatch(t *testing.T) {
	hs := startApp(t)
	ctx := context.Background()

	shown, err := hs.svc.ShowOverlay(ctx, typesOverlay(4, "toast", "hi"))
	require.NoError(t, err)
	require.NotEmpty(t, shown.GUID)

	d, err := hs.svc.Dispatch(ctx, config.DefaultNotifyOpenedEvent, []any{"manual", 1})
	require.NoError(t, err)
	require.Equal(t, 2, d.Invoked, "journal plus the shown view's listener")
	require.Empty(t, d.Conditions)

	_, err = hs.svc.Dispatch(ctx, 999, nil)
	require.True(t, IsNotFound(err))

	closed, err := hs.svc.CloseOverlay(ctx, shown.GUID, false)
	require.NoError(t, err)
	require.Equal(t, 4, closed.UIID)

	_, err = hs.svc.CloseOverlay(ctx, shown.GUID, false)
	require.True(t, IsNotFound(err))

	st, err := hs.svc.Status(ctx)
	require.NoError(t, err)
	require.Equal(t, string(host.StateReady), st.State)
	require.Equal(t, uint64(3), st.Stats.Dispatched)
	require.Equal(t, uint64(5), st.Stats.Invoked)
	require.Equal(t, uint64(1), st.Stats.NotFound)
	require.Equal(t, 0, st.Overlays)
}

func TestService_DispatchReportsOnlyOwnConditions(t *testing.T) {
	hs := startApp(t)
	ctx := context.Background()

	require.NoError(t, hs.h.Call(ctx, func() {
		d := hs.svc.events.Dispatcher()
		d.AddListener(5, event.NewAction("relay", func() { d.Dispatch(777) }), nil)
	}))

	resp, err := hs.svc.Dispatch(ctx, 5, nil)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Invoked)
	require.Empty(t, resp.Conditions)

	_, err = hs.svc.Dispatch(ctx, 777, nil)
	require.True(t, IsNotFound(err))
}

func TestService_DispatchRecoversCaptureAfterPanic(t *testing.T) {
	hs := startApp(t)
	ctx := context.Background()

	require.NoError(t, hs.h.Call(ctx, func() {
		d := hs.svc.events.Dispatcher()
		d.AddListener(6, event.NewAction("boom", func() { panic("boom") }), nil)
	}))
	_, err := hs.svc.Dispatch(ctx, 6, nil)
	require.Error(t, err)

	var armed bool
	require.NoError(t, hs.h.Call(ctx, func() { armed = hs.svc.capture.d != nil }))
	require.False(t, armed)

	resp, err := hs.svc.Dispatch(ctx, config.DefaultNotifyClosedEvent, nil)
	require.NoError(t, err)
	require.Equal(t, 1, resp.Invoked)
	require.Empty(t, resp.Conditions)
}

func TestService_ClosedViewListenerIsDead(t *testing.T) {
	hs := startApp(t)
	ctx := context.Background()

	shown, err := hs.svc.ShowOverlay(ctx, typesOverlay(1, "toast", "a"))
	require.NoError(t, err)
	ev, err := hs.svc.Events(ctx)
	require.NoError(t, err)
	require.Equal(t, 3, ev.Total)

	_, err = hs.svc.CloseOverlay(ctx, shown.GUID, false)
	require.NoError(t, err)

	d, err := hs.svc.Dispatch(ctx, config.DefaultNotifyOpenedEvent, []any{"manual", 2})
	require.NoError(t, err)
	require.Equal(t, 1, d.Invoked)
	require.Equal(t, []string{"listener_dead"}, d.Conditions)

	// the cached view is reused and its listener runs again
	again, err := hs.svc.ShowOverlay(ctx, typesOverlay(2, "toast", "b"))
	require.NoError(t, err)
	d, err = hs.svc.Dispatch(ctx, config.DefaultNotifyOpenedEvent, []any{"manual", 3})
	require.NoError(t, err)
	require.Equal(t, 2, d.Invoked)
	require.Empty(t, d.Conditions)

	_, err = hs.svc.CloseOverlay(ctx, again.GUID, true)
	require.NoError(t, err)
	ev, err = hs.svc.Events(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, ev.Total)
}

func TestApp_GaugeTracksListeners(t *testing.T) {
	hs := startApp(t)
	require.Eventually(t, func() bool {
		n, err := testutil.GatherAndCount(hs.reg, "evbus_registered_listeners")
		if err != nil || n != 1 {
			return false
		}
		mfs, err := hs.reg.Gather()
		if err != nil {
			return false
		}
		for _, mf := range mfs {
			if mf.GetName() == "evbus_registered_listeners" {
				return mf.GetMetric()[0].GetGauge().GetValue() == 2
			}
		}
		return false
	}, time.Second, 5*time.Millisecond)
}

func TestApp_StopTerminatesModules(t *testing.T) {
	hs := startApp(t)
	hs.stop()

	require.False(t, hs.svc.Ready())
	require.Equal(t, host.StateStopped, hs.h.Snapshot().State)

	_, err := hs.svc.Dispatch(context.Background(), 1, nil)
	require.Error(t, err)
	se, ok := err.(statusError)
	require.True(t, ok)
	require.Equal(t, http.StatusServiceUnavailable, se.StatusCode())
}
