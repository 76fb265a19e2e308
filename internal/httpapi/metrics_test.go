package httpapi

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestMetrics_UsesRoutePattern ensures requests are labelled by the chi route
// pattern instead of the raw URL path.
func TestMetrics_UsesRoutePattern(t *testing.T) {
	reg := prometheus.NewRegistry()
	h := NewMux(&mockService{}, Options{Registry: reg})

	serve(h, http.MethodPost, "/events/42/dispatch", "")
	serve(h, http.MethodPost, "/events/43/dispatch", "")

	count, err := testutil.GatherAndCount(reg, "evbus_http_requests_total")
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected a single series for the dispatch route, got %d", count)
	}

	mrr := httptest.NewRecorder()
	h.ServeHTTP(mrr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if mrr.Code != http.StatusOK {
		t.Fatalf("/metrics status=%d", mrr.Code)
	}
	body := mrr.Body.Bytes()
	if !bytes.Contains(body, []byte(`path="/events/{id}/dispatch"`)) {
		preview := body
		if len(preview) > 400 {
			preview = preview[:400]
		}
		t.Fatalf("expected route pattern label; got: %q", string(preview))
	}
}

func TestMetrics_CountsStatus(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := newHTTPMetrics(reg)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	rr := httptest.NewRecorder()
	m.middleware(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/x", nil))

	if got := testutil.ToFloat64(m.requests.WithLabelValues("/x", "GET", "418")); got != 1 {
		t.Fatalf("requests{418}=%v", got)
	}
	if got := testutil.ToFloat64(m.inflight); got != 0 {
		t.Fatalf("inflight=%v", got)
	}
}
