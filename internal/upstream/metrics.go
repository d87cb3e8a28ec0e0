package upstream

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records remote API calls.
type Metrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics registers upstream collectors on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "sevadhara_upstream_requests_total",
		Help: "Remote API calls by method and status code.",
	}, []string{"method", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "sevadhara_upstream_request_duration_seconds",
		Help:    "Remote API call latency by method.",
		Buckets: prometheus.DefBuckets,
	}, []string{"method"})
	if reg != nil {
		reg.MustRegister(requests, duration)
	}
	return &Metrics{requests: requests, duration: duration}
}

func (m *Metrics) observe(method string, status int, started time.Time) {
	if m == nil {
		return
	}
	code := "error"
	if status > 0 {
		code = strconv.Itoa(status)
	}
	m.requests.WithLabelValues(method, code).Inc()
	m.duration.WithLabelValues(method).Observe(time.Since(started).Seconds())
}
