package server

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/agbru/euclid/internal/metrics"
)

// Metrics holds the HTTP metrics of the server. They are registered next
// to the trace metrics of the recorder, so /metrics exposes both.
type Metrics struct {
	activeRequests prometheus.Gauge
	requestsTotal  *prometheus.CounterVec
	handler        http.Handler
}

// NewMetrics registers the HTTP and Go runtime collectors in the registry of
// recorder (a fresh recorder when nil) and returns the server metrics.
func NewMetrics(recorder *metrics.Recorder) *Metrics {
	if recorder == nil {
		recorder = metrics.NewRecorder()
	}
	reg := recorder.Registry()

	m := &Metrics{
		activeRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "euclid_http_active_requests",
			Help: "Number of HTTP requests being served.",
		}),
		requestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "euclid_http_requests_total",
			Help: "Number of HTTP requests served, by route and status code.",
		}, []string{"route", "code"}),
	}
	reg.MustRegister(
		m.activeRequests,
		m.requestsTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	m.handler = promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
	return m
}

// IncrementActiveRequests marks the start of a request.
func (m *Metrics) IncrementActiveRequests() { m.activeRequests.Inc() }

// DecrementActiveRequests marks the end of a request.
func (m *Metrics) DecrementActiveRequests() { m.activeRequests.Dec() }

// ObserveRequest counts a finished request.
func (m *Metrics) ObserveRequest(route string, code int) {
	m.requestsTotal.WithLabelValues(route, strconv.Itoa(code)).Inc()
}

// WritePrometheus serves the registry in the Prometheus exposition format.
func (m *Metrics) WritePrometheus(w http.ResponseWriter, r *http.Request) {
	m.handler.ServeHTTP(w, r)
}
