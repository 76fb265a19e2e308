package app

import (
	"context"
	"fmt"

	"evbus/internal/event"
	"evbus/internal/host"
	"evbus/internal/overlay"
	"evbus/pkg/types"
)

// Service implements httpapi.Service. Every dispatcher and overlay access
// runs on the host loop through host.Call.
type Service struct {
	host    *host.Host
	events  *event.Module
	layer   *overlay.Layer
	journal *journalModule
	capture *capture
}

func newService(h *host.Host, events *event.Module, layer *overlay.Layer, j *journalModule, c *capture) *Service {
	return &Service{host: h, events: events, layer: layer, journal: j, capture: c}
}

func (s *Service) Ready() bool { return s.host.Ready() }

func (s *Service) Status(ctx context.Context) (types.StatusResponse, error) {
	snap := s.host.Snapshot()
	resp := types.StatusResponse{
		State:        string(snap.State),
		Modules:      snap.Modules,
		Updates:      snap.Updates,
		FixedUpdates: snap.FixedUpdates,
	}
	if !snap.Running {
		return resp, nil
	}
	err := s.host.Call(ctx, func() {
		resp.Overlays = s.layer.Len()
		if d := s.events.Dispatcher(); d != nil {
			st := d.Stats()
			resp.Stats = types.StatsResponse{
				Dispatched: st.Dispatched,
				Invoked:    st.Invoked,
				NotFound:   st.NotFound,
				Dead:       st.Dead,
				Loops:      st.Loops,
				Duplicates: st.Duplicates,
			}
		}
	})
	return resp, callErr(err)
}

func (s *Service) Events(ctx context.Context) (types.EventsResponse, error) {
	var resp types.EventsResponse
	var stopped bool
	err := s.host.Call(ctx, func() {
		d := s.events.Dispatcher()
		if d == nil {
			stopped = true
			return
		}
		counts := d.Counts()
		resp.Events = make([]types.EventInfo, 0, len(counts))
		for _, id := range d.Events() {
			resp.Events = append(resp.Events, types.EventInfo{ID: int(id), Listeners: counts[id]})
		}
		resp.Total = d.Total()
	})
	if err != nil {
		return resp, callErr(err)
	}
	if stopped {
		return resp, errStopped
	}
	return resp, nil
}

func (s *Service) Dispatch(ctx context.Context, id int, args []any) (types.DispatchResponse, error) {
	resp := types.DispatchResponse{ID: id}
	var (
		reasons []event.Reason
		stopped bool
		unknown bool
	)
	err := s.host.Call(ctx, func() {
		d := s.events.Dispatcher()
		if d == nil {
			stopped = true
			return
		}
		eid := event.ID(id)
		_, known := d.Len(eid)
		unknown = !known
		before := d.Stats().Invoked
		s.capture.arm(d, eid)
		defer func() { reasons = s.capture.disarm() }()
		if args == nil {
			d.Dispatch(eid)
		} else {
			d.DispatchArgs(eid, args...)
		}
		resp.Invoked = int(d.Stats().Invoked - before)
	})
	if err != nil {
		return resp, callErr(err)
	}
	if stopped {
		return resp, errStopped
	}
	if unknown {
		return resp, notFound(fmt.Sprintf("event %d not found", id))
	}
	for _, r := range reasons {
		resp.Conditions = append(resp.Conditions, r.String())
	}
	return resp, nil
}

func (s *Service) ShowOverlay(ctx context.Context, req types.OverlayRequest) (types.OverlayResponse, error) {
	resp := types.OverlayResponse{UIID: req.UIID}
	err := s.host.Call(ctx, func() {
		resp.GUID = s.layer.Show(req.UIID, overlay.ViewConfig{Asset: req.Asset}, req.Content, s.journal.callbacks())
	})
	return resp, callErr(err)
}

func (s *Service) CloseOverlay(ctx context.Context, guid string, destroy bool) (types.OverlayResponse, error) {
	resp := types.OverlayResponse{GUID: guid}
	var found bool
	err := s.host.Call(ctx, func() {
		if _, found = s.layer.Get(guid); found {
			resp.UIID = s.layer.CloseByGUID(guid, destroy)
		}
	})
	if err != nil {
		return resp, callErr(err)
	}
	if !found {
		return resp, notFound("overlay " + guid + " not found")
	}
	return resp, nil
}
