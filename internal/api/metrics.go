package api

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	backendRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "codeassess_backend_requests_total",
		Help: "Requests sent to the grading backend, by method and status.",
	}, []string{"method", "status"})

	backendDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "codeassess_backend_request_duration_seconds",
		Help:    "Latency of grading backend requests.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
)

func init() {
	prometheus.MustRegister(backendRequests, backendDuration)
}

type instrumentedTransport struct {
	next http.RoundTripper
}

// instrument wraps next so every backend round trip is counted
func instrument(next http.RoundTripper) http.RoundTripper {
	return &instrumentedTransport{next: next}
}

func (t *instrumentedTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.next.RoundTrip(req)
	backendDuration.WithLabelValues(req.Method).Observe(time.Since(start).Seconds())

	status := "error"
	if err == nil {
		status = strconv.Itoa(resp.StatusCode)
	}
	backendRequests.WithLabelValues(req.Method, status).Inc()
	return resp, err
}
