package cli

import (
	"fmt"
	"io"

	"github.com/agbru/euclid/internal/config"
	apperrors "github.com/agbru/euclid/internal/errors"
	"github.com/agbru/euclid/internal/format"
	"github.com/agbru/euclid/internal/orchestration"
	"github.com/agbru/euclid/internal/ui"
)

// CLITracePresenter implements orchestration.TracePresenter for terminal output.
type CLITracePresenter struct {
	// Format is one of config.Formats.
	Format string
	// ShowIndex adds the row index column to tables.
	ShowIndex bool
	// Quiet prints only the gcd.
	Quiet bool
	// Verbose adds the number of rows and the computation time.
	Verbose bool
}

// CLIErrorHandler implements orchestration.ErrorHandler for terminal output.
type CLIErrorHandler struct {
	// Out, when set, receives error reports instead of the trace writer, so
	// machine-readable output stays parseable.
	Out io.Writer
}

// CLIColorProvider implements apperrors.ColorProvider with the active theme.
type CLIColorProvider struct{}

// Verify interface compliance.
var (
	_ orchestration.TracePresenter = CLITracePresenter{}
	_ orchestration.ErrorHandler   = CLIErrorHandler{}
	_ apperrors.ColorProvider      = CLIColorProvider{}
)

// Red returns the error color.
func (CLIColorProvider) Red() string { return ui.ColorRed() }

// Yellow returns the warning color.
func (CLIColorProvider) Yellow() string { return ui.ColorYellow() }

// Reset returns the reset sequence.
func (CLIColorProvider) Reset() string { return ui.ColorReset() }

// PresentTrace displays one successful trace.
func (p CLITracePresenter) PresentTrace(res orchestration.TraceResult, out io.Writer) error {
	final, ok := res.Final()
	if !ok {
		return apperrors.NewConfigError("pair %s has no trace", res.Pair)
	}

	if p.Quiet {
		_, err := fmt.Fprintln(out, final.Y())
		return err
	}
	if res.Index > 0 {
		fmt.Fprint(out, separator(p.Format))
	}

	if p.Format == config.FormatTable {
		fmt.Fprintln(out, RenderTable(res.Steps, p.ShowIndex))
		DisplaySummary(out, final)
	} else if err := DisplayTrace(out, res.Steps, p.Format, p.ShowIndex); err != nil {
		return err
	}

	if p.Verbose && (p.Format == config.FormatTable || p.Format == config.FormatPlain) {
		fmt.Fprintf(out, "%s%d row(s) computed in %s%s\n",
			ui.ColorSecondary(), len(res.Steps), format.FormatExecutionDuration(res.Duration), ui.ColorReset())
	}
	return nil
}

// HandleError reports a failed pair and returns its exit code.
func (h CLIErrorHandler) HandleError(pair config.Pair, err error, out io.Writer) int {
	if h.Out != nil {
		out = h.Out
	}
	fmt.Fprintf(out, "%s(%d, %d)%s ", ui.ColorBold(), pair.A, pair.B, ui.ColorReset())
	return apperrors.HandleCalculationError(err, out, CLIColorProvider{})
}
