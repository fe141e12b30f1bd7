// Package metrics records trace statistics in a Prometheus registry.
package metrics

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	apperrors "github.com/agbru/euclid/internal/errors"
)

// Outcome label values of euclid_traces_total.
const (
	OutcomeOK           = "ok"
	OutcomeInvalidInput = "invalid_input"
	OutcomeInvariant    = "invariant"
	OutcomeCanceled     = "canceled"
	OutcomeError        = "error"
)

// Recorder collects per-trace metrics. A nil *Recorder discards everything.
type Recorder struct {
	registry *prometheus.Registry
	traces   *prometheus.CounterVec
	steps    prometheus.Histogram
	duration prometheus.Histogram
}

// NewRecorder creates a Recorder backed by its own registry, so several
// recorders never collide on metric names.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		traces: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "euclid_traces_total",
			Help: "Number of extended Euclidean traces computed, by outcome.",
		}, []string{"outcome"}),
		steps: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "euclid_trace_steps",
			Help:    "Number of rows in successful traces.",
			Buckets: prometheus.LinearBuckets(1, 8, 12),
		}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "euclid_trace_duration_seconds",
			Help:    "Time spent computing a trace.",
			Buckets: prometheus.ExponentialBuckets(1e-7, 10, 8),
		}),
	}
	r.registry.MustRegister(r.traces, r.steps, r.duration)
	return r
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry { return r.registry }

// ObserveTrace records one finished trace. rows is ignored for failed traces.
func (r *Recorder) ObserveTrace(rows int, d time.Duration, err error) {
	if r == nil {
		return
	}
	outcome := Outcome(err)
	r.traces.WithLabelValues(outcome).Inc()
	r.duration.Observe(d.Seconds())
	if outcome == OutcomeOK {
		r.steps.Observe(float64(rows))
	}
}

// Outcome classifies err into an outcome label value.
func Outcome(err error) string {
	if err == nil {
		return OutcomeOK
	}
	var invErr *apperrors.InvariantError
	var valErr apperrors.ValidationError
	switch {
	case errors.As(err, &invErr):
		return OutcomeInvariant
	case errors.As(err, &valErr):
		return OutcomeInvalidInput
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return OutcomeCanceled
	default:
		return OutcomeError
	}
}

// WriteText writes all metrics in the Prometheus text exposition format.
func (r *Recorder) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return apperrors.WrapError(err, "gathering metrics")
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return apperrors.WrapError(err, "writing metric family %s", mf.GetName())
		}
	}
	return nil
}

// TraceCounts returns the number of traces recorded per outcome, read back
// from the registry.
func (r *Recorder) TraceCounts() (map[string]float64, error) {
	counts := map[string]float64{}
	if r == nil {
		return counts, nil
	}
	families, err := r.registry.Gather()
	if err != nil {
		return nil, apperrors.WrapError(err, "gathering metrics")
	}
	for _, mf := range families {
		if mf.GetName() != "euclid_traces_total" || mf.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, m := range mf.GetMetric() {
			counts[labelValue(m, "outcome")] += m.GetCounter().GetValue()
		}
	}
	return counts, nil
}

func labelValue(m *dto.Metric, name string) string {
	for _, lp := range m.GetLabel() {
		if lp.GetName() == name {
			return lp.GetValue()
		}
	}
	return ""
}
