//go:generate mockgen -source=interfaces.go -destination=mocks/mock_interfaces.go -package=mocks

package orchestration

import (
	"io"
	"time"

	"github.com/agbru/euclid/internal/config"
	"github.com/agbru/euclid/internal/euclid"
)

// TraceResult encapsulates the outcome of tracing a single input pair.
// It serves as the shared domain type between orchestration and presentation layers.
type TraceResult struct {
	// Index is the position of the pair in the batch.
	Index int
	// Pair is the input that was traced.
	Pair config.Pair
	// Steps holds every row, the final one last. It is nil if an error occurred.
	Steps []euclid.Step
	// Duration is the time taken to compute the trace.
	Duration time.Duration
	// Err contains any error that occurred while tracing.
	Err error
}

// Final returns the last row of a successful trace.
func (r TraceResult) Final() (euclid.Step, bool) {
	if r.Err != nil || len(r.Steps) == 0 {
		return euclid.Step{}, false
	}
	return r.Steps[len(r.Steps)-1], true
}

// TracePresenter defines the interface for presenting a successful trace.
// Implementations decide the format (table, JSON, ...); the orchestration
// layer only decides what gets presented and in which order.
type TracePresenter interface {
	// PresentTrace renders one trace and its summary to out.
	PresentTrace(result TraceResult, out io.Writer) error
}

// ErrorHandler handles trace errors and returns exit codes.
type ErrorHandler interface {
	// HandleError reports err for pair on out and returns the exit code it maps to.
	HandleError(pair config.Pair, err error, out io.Writer) int
}
