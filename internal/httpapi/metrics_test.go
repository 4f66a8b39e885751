package httpapi

import (
	"bufio"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"napd/internal/power"
)

func TestMetricsMiddlewareCountsRequests(t *testing.T) {
	svc, _ := newTestService(t)
	r := NewMux(svc)

	before := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/healthz", "GET", "200"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	after := testutil.ToFloat64(httpRequestsTotal.WithLabelValues("/healthz", "GET", "200"))
	if after != before+1 {
		t.Fatalf("requests_total did not increment: %v -> %v", before, after)
	}
}

func TestMetricsEndpointExposed(t *testing.T) {
	svc, _ := newTestService(t)
	r := NewMux(svc)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
}

func TestMetricsPublisherTracksAssertions(t *testing.T) {
	var p MetricsPublisher

	base := testutil.ToFloat64(assertionsActive)
	p.Publish(power.Event{Name: power.EventAssertionCreated, AssertionID: "a"})
	if got := testutil.ToFloat64(assertionsActive); got != base+1 {
		t.Fatalf("active gauge=%v want %v", got, base+1)
	}
	p.Publish(power.Event{Name: power.EventAssertionReleased, AssertionID: "a"})
	if got := testutil.ToFloat64(assertionsActive); got != base {
		t.Fatalf("active gauge=%v want %v", got, base)
	}
}

func TestMetricsPublisherTracksObserver(t *testing.T) {
	var p MetricsPublisher
	p.Publish(power.Event{Name: power.EventAttach})
	if got := testutil.ToFloat64(observerAttached); got != 1 {
		t.Fatalf("observer gauge=%v", got)
	}
	p.Publish(power.Event{Name: power.EventDetach})
	if got := testutil.ToFloat64(observerAttached); got != 0 {
		t.Fatalf("observer gauge=%v", got)
	}
}

// streamingRecorder exposes Hijacker and Flusher so the middleware wrapper
// can be checked for passing them through.
type streamingRecorder struct {
	*httptest.ResponseRecorder
	hijacked bool
	flushed  bool
}

func (s *streamingRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	s.hijacked = true
	return nil, nil, nil
}

func (s *streamingRecorder) Flush() { s.flushed = true }

func TestMetricsMiddlewarePreservesStreamingInterfaces(t *testing.T) {
	rec := &streamingRecorder{ResponseRecorder: httptest.NewRecorder()}
	h := MetricsMiddleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f, ok := w.(http.Flusher)
		if !ok {
			t.Fatalf("flusher hidden by middleware wrapper")
		}
		f.Flush()
		hj, ok := w.(http.Hijacker)
		if !ok {
			t.Fatalf("hijacker hidden by middleware wrapper")
		}
		if _, _, err := hj.Hijack(); err != nil {
			t.Fatalf("hijack: %v", err)
		}
	}))
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/events/ws", nil))
	if !rec.hijacked || !rec.flushed {
		t.Fatalf("passthrough missed: hijacked=%v flushed=%v", rec.hijacked, rec.flushed)
	}
}

func TestItoa(t *testing.T) {
	for n, want := range map[int]string{0: "0", 200: "200", 404: "404", 503: "503"} {
		if got := itoa(n); got != want {
			t.Fatalf("itoa(%d)=%q", n, got)
		}
	}
}
