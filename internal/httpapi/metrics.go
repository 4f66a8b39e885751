package httpapi

import (
	"bufio"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"napd/internal/power"
)

var (
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "napd",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"path", "method", "status"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "napd",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"path", "method", "status"},
	)

	sleepEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "napd",
			Subsystem: "power",
			Name:      "sleep_events_total",
			Help:      "Dispatched sleep/wake events by kind",
		},
		[]string{"kind"},
	)

	droppedEventsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "napd",
			Subsystem: "power",
			Name:      "dropped_events_total",
			Help:      "Raw events dropped because the dispatch queue was full",
		},
	)

	assertionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "napd",
			Subsystem: "power",
			Name:      "assertions_active",
			Help:      "Idle-sleep-deny assertions currently held",
		},
	)

	assertionsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "napd",
			Subsystem: "power",
			Name:      "assertions_created_total",
			Help:      "Total idle-sleep-deny assertions created",
		},
	)

	assertionReleaseFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "napd",
			Subsystem: "power",
			Name:      "assertion_release_failures_total",
			Help:      "Backend release failures (state still forced to released)",
		},
	)

	observerAttached = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "napd",
			Subsystem: "power",
			Name:      "observer_attached",
			Help:      "1 while the OS notification hook is registered",
		},
	)
)

func init() {
	prometheus.MustRegister(
		httpRequestsTotal, httpRequestDuration,
		sleepEventsTotal, droppedEventsTotal,
		assertionsActive, assertionsCreatedTotal, assertionReleaseFailures,
		observerAttached,
	)
}

// statusRecorder wraps http.ResponseWriter to capture the status code. It
// forwards Flush and Hijack so the streaming handlers (NDJSON flushing,
// websocket upgrades) keep working under the middleware.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Flush() {
	if f, ok := sr.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (sr *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hj, ok := sr.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, errors.New("underlying response writer does not support hijacking")
	}
	return hj.Hijack()
}

// MetricsMiddleware instruments requests for Prometheus.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path := routePatternOrPath(r)
		method := r.Method

		sr := &statusRecorder{ResponseWriter: w, status: 200}
		start := time.Now()
		next.ServeHTTP(sr, r)
		statusLabel := itoa(sr.status)
		dur := time.Since(start).Seconds()
		httpRequestsTotal.WithLabelValues(path, method, statusLabel).Inc()
		httpRequestDuration.WithLabelValues(path, method, statusLabel).Observe(dur)
	})
}

// routePatternOrPath returns the chi route pattern if available, otherwise
// falls back to URL path. This avoids high-cardinality label values.
func routePatternOrPath(r *http.Request) string {
	if rc := chi.RouteContext(r.Context()); rc != nil {
		if p := rc.RoutePattern(); p != "" {
			return p
		}
	}
	return r.URL.Path
}

// MetricsPublisher bridges power lifecycle events into the Prometheus
// collectors above.
type MetricsPublisher struct{}

func (MetricsPublisher) Publish(e power.Event) {
	switch e.Name {
	case power.EventAttach:
		observerAttached.Set(1)
	case power.EventDetach:
		observerAttached.Set(0)
	case power.EventDispatch:
		if kind, ok := e.Fields["kind"].(string); ok {
			sleepEventsTotal.WithLabelValues(kind).Inc()
		}
	case power.EventDropped:
		droppedEventsTotal.Inc()
	case power.EventAssertionCreated:
		assertionsCreatedTotal.Inc()
		assertionsActive.Inc()
	case power.EventAssertionReleased:
		assertionsActive.Dec()
	case power.EventReleaseFailed:
		assertionReleaseFailures.Inc()
		assertionsActive.Dec()
	}
}

// fast integer to ascii for the small set of status codes
func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	var buf [4]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}
