package httpapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"evbus/pkg/types"
)

type mockService struct {
	ready  bool
	status types.StatusResponse
	events types.EventsResponse
	err    error

	gotID      int
	gotArgs    []any
	gotOverlay types.OverlayRequest
	gotGUID    string
	gotDestroy bool
}

func (m *mockService) Ready() bool { return m.ready }
func (m *mockService) Status(ctx context.Context) (types.StatusResponse, error) {
	return m.status, m.err
}
func (m *mockService) Events(ctx context.Context) (types.EventsResponse, error) {
	return m.events, m.err
}
func (m *mockService) Dispatch(ctx context.Context, id int, args []any) (types.DispatchResponse, error) {
	m.gotID, m.gotArgs = id, args
	return types.DispatchResponse{ID: id, Invoked: 1}, m.err
}
func (m *mockService) ShowOverlay(ctx context.Context, req types.OverlayRequest) (types.OverlayResponse, error) {
	m.gotOverlay = req
	return types.OverlayResponse{GUID: "g-1", UIID: req.UIID}, m.err
}
func (m *mockService) CloseOverlay(ctx context.Context, guid string, destroy bool) (types.OverlayResponse, error) {
	m.gotGUID, m.gotDestroy = guid, destroy
	return types.OverlayResponse{GUID: guid, UIID: 3}, m.err
}

type mockHTTPError struct {
	msg  string
	code int
}

func (e mockHTTPError) Error() string   { return e.msg }
func (e mockHTTPError) StatusCode() int { return e.code }

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	w := serve(NewMux(&mockService{}, Options{}), http.MethodGet, "/healthz", "")
	if w.Code != http.StatusOK || w.Body.String() != "ok" {
		t.Fatalf("status=%d body=%q", w.Code, w.Body.String())
	}
	if got := w.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Fatalf("expected X-Content-Type-Options=nosniff, got %q", got)
	}
}

func TestReadyz(t *testing.T) {
	w := serve(NewMux(&mockService{ready: true}, Options{}), http.MethodGet, "/readyz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestReadyz_NotReady(t *testing.T) {
	w := serve(NewMux(&mockService{}, Options{}), http.MethodGet, "/readyz", "")
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "loading") {
		t.Fatalf("body=%q", w.Body.String())
	}
}

func TestStatusHandler(t *testing.T) {
	svc := &mockService{status: types.StatusResponse{State: "ready", Modules: []string{"event"}}}
	w := serve(NewMux(svc, Options{}), http.MethodGet, "/status", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var body types.StatusResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.State != "ready" || len(body.Modules) != 1 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestEventsHandler(t *testing.T) {
	svc := &mockService{events: types.EventsResponse{Events: []types.EventInfo{{ID: 1, Listeners: 2}}, Total: 2}}
	w := serve(NewMux(svc, Options{}), http.MethodGet, "/events", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.Contains(ct, "application/json") {
		t.Fatalf("content-type=%s", ct)
	}
	var body types.EventsResponse
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("json: %v", err)
	}
	if body.Total != 2 || body.Events[0].ID != 1 {
		t.Fatalf("unexpected body: %+v", body)
	}
}

func TestDispatch_NoBodyIsNoArgDispatch(t *testing.T) {
	svc := &mockService{}
	w := serve(NewMux(svc, Options{}), http.MethodPost, "/events/7/dispatch", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if svc.gotID != 7 || svc.gotArgs != nil {
		t.Fatalf("id=%d args=%v", svc.gotID, svc.gotArgs)
	}
}

func TestDispatch_WithArgs(t *testing.T) {
	svc := &mockService{}
	w := serve(NewMux(svc, Options{}), http.MethodPost, "/events/7/dispatch", `{"args":["a",2]}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	if len(svc.gotArgs) != 2 || svc.gotArgs[0] != "a" || svc.gotArgs[1] != float64(2) {
		t.Fatalf("args=%#v", svc.gotArgs)
	}
}

func TestDispatch_EmptyArgsIsArgDispatch(t *testing.T) {
	svc := &mockService{}
	serve(NewMux(svc, Options{}), http.MethodPost, "/events/7/dispatch", `{"args":[]}`)
	if svc.gotArgs == nil || len(svc.gotArgs) != 0 {
		t.Fatalf("args=%#v", svc.gotArgs)
	}
}

func TestDispatch_BadInput(t *testing.T) {
	h := NewMux(&mockService{}, Options{})
	if w := serve(h, http.MethodPost, "/events/x/dispatch", ""); w.Code != http.StatusBadRequest {
		t.Fatalf("bad id status=%d", w.Code)
	}
	if w := serve(h, http.MethodPost, "/events/1/dispatch", "not-json"); w.Code != http.StatusBadRequest {
		t.Fatalf("bad json status=%d", w.Code)
	}
	req := httptest.NewRequest(http.MethodPost, "/events/1/dispatch", bytes.NewBufferString(`{}`))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	if w.Code != http.StatusUnsupportedMediaType {
		t.Fatalf("content-type status=%d", w.Code)
	}
}

func TestDispatch_BodyTooLarge(t *testing.T) {
	h := NewMux(&mockService{}, Options{MaxBodyBytes: 8})
	w := serve(h, http.MethodPost, "/events/1/dispatch", `{"args":["aaaaaaaaaaaaaaaa"]}`)
	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestErrorMapping(t *testing.T) {
	cases := []struct {
		err  error
		want int
	}{
		{mockHTTPError{msg: "event not found", code: http.StatusNotFound}, http.StatusNotFound},
		{mockHTTPError{msg: "not running", code: http.StatusServiceUnavailable}, http.StatusServiceUnavailable},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, c := range cases {
		w := serve(NewMux(&mockService{err: c.err}, Options{}), http.MethodPost, "/events/1/dispatch", "")
		if w.Code != c.want {
			t.Fatalf("%v: status=%d want %d", c.err, w.Code, c.want)
		}
		var body types.ErrorResponse
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("json: %v", err)
		}
		if body.Code != c.want || body.Error != c.err.Error() {
			t.Fatalf("unexpected error body: %+v", body)
		}
	}
}

func TestOverlays(t *testing.T) {
	svc := &mockService{}
	h := NewMux(svc, Options{})

	w := serve(h, http.MethodPost, "/overlays", `{"ui_id":4,"asset":"toast","content":"hi"}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("show status=%d body=%s", w.Code, w.Body.String())
	}
	if svc.gotOverlay.Asset != "toast" || svc.gotOverlay.UIID != 4 || svc.gotOverlay.Content != "hi" {
		t.Fatalf("overlay=%+v", svc.gotOverlay)
	}

	if w := serve(h, http.MethodPost, "/overlays", `{"ui_id":4}`); w.Code != http.StatusBadRequest {
		t.Fatalf("missing asset status=%d", w.Code)
	}

	w = serve(h, http.MethodDelete, "/overlays/g-1?destroy=true", "")
	if w.Code != http.StatusOK {
		t.Fatalf("close status=%d", w.Code)
	}
	if svc.gotGUID != "g-1" || !svc.gotDestroy {
		t.Fatalf("guid=%q destroy=%v", svc.gotGUID, svc.gotDestroy)
	}
}

func TestCORSHeaders(t *testing.T) {
	h := NewMux(&mockService{ready: true}, Options{CORSEnabled: true, CORSAllowedOrigins: []string{"http://example.com"}})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "http://example.com" {
		t.Fatalf("expected CORS allow origin, got %q", got)
	}
}

func TestCORSDisabledByDefault(t *testing.T) {
	h := NewMux(&mockService{}, Options{})
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "http://example.com")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Fatalf("unexpected CORS header %q", got)
	}
}

func TestSwaggerDoc(t *testing.T) {
	w := serve(NewMux(&mockService{}, Options{}), http.MethodGet, "/swagger/doc.json", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "evbus API") || !strings.Contains(w.Body.String(), "/events/{id}/dispatch") {
		t.Fatalf("unexpected doc: %.200s", w.Body.String())
	}
}
