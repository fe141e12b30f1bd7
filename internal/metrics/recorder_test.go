package metrics

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	apperrors "github.com/agbru/euclid/internal/errors"
)

func TestOutcome(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, OutcomeOK},
		{"validation", apperrors.ValidationError{Field: "a"}, OutcomeInvalidInput},
		{"invariant", &apperrors.InvariantError{Check: "r == x mod y"}, OutcomeInvariant},
		{"canceled", apperrors.WrapError(context.Canceled, "pair 1"), OutcomeCanceled},
		{"deadline", context.DeadlineExceeded, OutcomeCanceled},
		{"other", errors.New("boom"), OutcomeError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := Outcome(tt.err); got != tt.want {
				t.Errorf("Outcome(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestRecorder_ObserveTrace(t *testing.T) {
	t.Parallel()
	r := NewRecorder()

	r.ObserveTrace(4, 3*time.Microsecond, nil)
	r.ObserveTrace(1, time.Microsecond, nil)
	r.ObserveTrace(0, time.Microsecond, apperrors.ValidationError{Field: "b"})

	if got := testutil.ToFloat64(r.traces.WithLabelValues(OutcomeOK)); got != 2 {
		t.Errorf("ok traces = %v, want 2", got)
	}
	if got := testutil.ToFloat64(r.traces.WithLabelValues(OutcomeInvalidInput)); got != 1 {
		t.Errorf("invalid_input traces = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(r.steps); got != 1 {
		t.Errorf("steps histogram series = %d, want 1", got)
	}
}

func TestRecorder_NilIsNoop(t *testing.T) {
	t.Parallel()
	var r *Recorder
	r.ObserveTrace(3, time.Millisecond, nil)
}

func TestRecorder_WriteText(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	r.ObserveTrace(4, 2*time.Microsecond, nil)

	var buf bytes.Buffer
	if err := r.WriteText(&buf); err != nil {
		t.Fatalf("WriteText: %v", err)
	}
	out := buf.String()
	for _, want := range []string{
		`euclid_traces_total{outcome="ok"} 1`,
		"euclid_trace_steps_count 1",
		"# TYPE euclid_trace_duration_seconds histogram",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("metrics output should contain %q, got:\n%s", want, out)
		}
	}
}

func TestRecorder_TraceCounts(t *testing.T) {
	t.Parallel()
	r := NewRecorder()
	r.ObserveTrace(4, time.Microsecond, nil)
	r.ObserveTrace(4, time.Microsecond, nil)
	r.ObserveTrace(0, time.Microsecond, context.Canceled)

	counts, err := r.TraceCounts()
	if err != nil {
		t.Fatal(err)
	}
	if counts[OutcomeOK] != 2 || counts[OutcomeCanceled] != 1 || len(counts) != 2 {
		t.Errorf("counts = %v", counts)
	}

	var nilRec *Recorder
	if counts, err := nilRec.TraceCounts(); err != nil || len(counts) != 0 {
		t.Errorf("nil recorder: %v, %v", counts, err)
	}
}
