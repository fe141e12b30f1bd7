package orchestration

import (
	"context"
	"errors"
	"io"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/agbru/euclid/internal/config"
	apperrors "github.com/agbru/euclid/internal/errors"
	"github.com/agbru/euclid/internal/euclid"
	"github.com/agbru/euclid/internal/logging"
	"github.com/agbru/euclid/internal/metrics"
)

const tracerName = "github.com/agbru/euclid/internal/orchestration"

// TraceFunc computes the rows for one pair.
type TraceFunc func(ctx context.Context, a, b int64) ([]euclid.Step, error)

// DefaultTraceFunc walks the euclid sequence, checking ctx between rows.
func DefaultTraceFunc(ctx context.Context, a, b int64) ([]euclid.Step, error) {
	seq, err := euclid.Sequence(a, b)
	if err != nil {
		return nil, err
	}
	var rows []euclid.Step
	for st := range seq {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows = append(rows, st)
	}
	return rows, nil
}

// ExecOptions configures ExecuteTraces. The zero value runs every pair
// concurrently with DefaultTraceFunc and no logging or metrics.
type ExecOptions struct {
	// Concurrency bounds the number of traces computed at once (0 = unbounded).
	Concurrency int
	// Trace overrides the trace computation (DefaultTraceFunc when nil).
	Trace TraceFunc
	// Recorder receives per-trace metrics. May be nil.
	Recorder *metrics.Recorder
	// Logger receives debug entries. May be nil.
	Logger logging.Logger
}

// ExecuteTraces computes the trace of every pair concurrently.
//
// Results are returned in input order. A failing pair never stops the
// others; its error is stored in its TraceResult. A broken invariant
// (an *apperrors.InvariantError panic) is recovered at the goroutine
// boundary and reported as that pair's error.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - pairs: The inputs to trace.
//   - opts: Execution options.
//
// Returns:
//   - []TraceResult: One result per pair, in input order.
func ExecuteTraces(ctx context.Context, pairs []config.Pair, opts ExecOptions) []TraceResult {
	traceFn := opts.Trace
	if traceFn == nil {
		traceFn = DefaultTraceFunc
	}

	results := make([]TraceResult, len(pairs))
	g, gctx := errgroup.WithContext(ctx)
	if opts.Concurrency > 0 {
		g.SetLimit(opts.Concurrency)
	}

	for i, p := range pairs {
		g.Go(func() error {
			results[i] = runOne(gctx, i, p, traceFn, opts)
			return nil
		})
	}
	_ = g.Wait()

	return results
}

func runOne(ctx context.Context, index int, p config.Pair, traceFn TraceFunc, opts ExecOptions) (res TraceResult) {
	res = TraceResult{Index: index, Pair: p}

	ctx, span := otel.Tracer(tracerName).Start(ctx, "euclid.trace",
		trace.WithAttributes(
			attribute.Int64("euclid.a", p.A),
			attribute.Int64("euclid.b", p.B),
		))
	start := time.Now()

	defer func() {
		if r := recover(); r != nil {
			invErr, ok := r.(*apperrors.InvariantError)
			if !ok {
				panic(r)
			}
			res.Steps = nil
			res.Err = invErr
		}
		res.Duration = time.Since(start)
		finish(span, res, opts)
	}()

	if err := ctx.Err(); err != nil {
		res.Err = err
		return res
	}
	res.Steps, res.Err = traceFn(ctx, p.A, p.B)
	return res
}

func finish(span trace.Span, res TraceResult, opts ExecOptions) {
	defer span.End()
	opts.Recorder.ObserveTrace(len(res.Steps), res.Duration, res.Err)

	if res.Err != nil {
		span.RecordError(res.Err)
		span.SetStatus(codes.Error, res.Err.Error())
		if opts.Logger != nil {
			opts.Logger.Debug("trace failed",
				logging.String("pair", res.Pair.String()),
				logging.Err(res.Err))
		}
		return
	}

	final, _ := res.Final()
	span.SetAttributes(
		attribute.Int("euclid.rows", len(res.Steps)),
		attribute.Int64("euclid.gcd", final.Y()),
	)
	if opts.Logger != nil {
		opts.Logger.Debug("trace computed",
			logging.String("pair", res.Pair.String()),
			logging.Int("rows", len(res.Steps)),
			logging.Int64("gcd", final.Y()),
			logging.String("duration", res.Duration.String()))
	}
}

// AnalyzeResults presents every result in input order and returns the exit
// code of the batch.
//
// Successful traces go to presenter, failures to handler. The exit code is
// ExitSuccess when every pair succeeded; otherwise the first failure's code,
// except that a broken invariant always takes precedence since it signals a
// defect rather than bad input.
//
// Parameters:
//   - results: The trace results to analyze.
//   - presenter: Renders successful traces.
//   - handler: Reports failures.
//   - out: The io.Writer for the report.
//
// Returns:
//   - int: An exit code indicating success (0) or the type of failure.
func AnalyzeResults(results []TraceResult, presenter TracePresenter, handler ErrorHandler, out io.Writer) int {
	exitCode := apperrors.ExitSuccess
	for _, res := range results {
		code := apperrors.ExitSuccess
		if res.Err != nil {
			code = handler.HandleError(res.Pair, res.Err, out)
		} else if err := presenter.PresentTrace(res, out); err != nil {
			code = handler.HandleError(res.Pair, apperrors.WrapError(err, "presenting trace"), out)
		}

		var invErr *apperrors.InvariantError
		switch {
		case code == apperrors.ExitSuccess:
		case errors.As(res.Err, &invErr):
			exitCode = apperrors.ExitErrorInvariant
		case exitCode == apperrors.ExitSuccess:
			exitCode = code
		}
	}
	return exitCode
}
