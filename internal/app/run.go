package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/agbru/euclid/internal/cli"
	"github.com/agbru/euclid/internal/config"
	apperrors "github.com/agbru/euclid/internal/errors"
	"github.com/agbru/euclid/internal/logging"
	"github.com/agbru/euclid/internal/orchestration"
	"github.com/agbru/euclid/internal/server"
	"github.com/agbru/euclid/internal/tui"
	"github.com/agbru/euclid/internal/ui"
)

// runBatch traces every configured pair and prints the results.
func (a *Application) runBatch(ctx context.Context, out io.Writer) int {
	// Setup lifecycle (timeout + signals)
	ctx, cancelTimeout := context.WithTimeout(ctx, a.Config.Timeout)
	defer cancelTimeout()
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	results := orchestration.ExecuteTraces(ctx, a.Config.Pairs, orchestration.ExecOptions{
		Concurrency: a.Config.Concurrency,
		Recorder:    a.recorder,
		Logger:      a.logger,
	})

	presenter := cli.CLITracePresenter{
		Format:    a.Config.Format,
		ShowIndex: a.Config.ShowIndex,
		Quiet:     a.Config.Quiet,
		Verbose:   a.Config.Verbose,
	}
	handler := cli.CLIErrorHandler{}
	if !a.humanReadable() {
		handler.Out = a.ErrWriter
	}

	exitCode := orchestration.AnalyzeResults(results, presenter, handler, out)
	a.logOutcomes()

	if a.Config.OutputFile != "" {
		if code := a.saveTraces(results, out); exitCode == apperrors.ExitSuccess {
			exitCode = code
		}
	}
	if a.Config.MetricsOut != "" {
		if code := a.writeMetrics(); exitCode == apperrors.ExitSuccess {
			exitCode = code
		}
	}
	return exitCode
}

// logOutcomes logs how many traces ended with each outcome.
func (a *Application) logOutcomes() {
	counts, err := a.recorder.TraceCounts()
	if err != nil {
		a.logger.Error("reading metrics", err)
		return
	}
	fields := make([]logging.Field, 0, len(counts))
	for outcome, n := range counts {
		fields = append(fields, logging.Float64(outcome, n))
	}
	a.logger.Debug("batch finished", fields...)
}

// humanReadable reports whether stdout carries table or plain text, in
// which case status lines may be mixed into it.
func (a *Application) humanReadable() bool {
	return a.Config.Format == config.FormatTable || a.Config.Format == config.FormatPlain
}

func (a *Application) saveTraces(results []orchestration.TraceResult, out io.Writer) int {
	n, err := cli.WriteTracesToFile(a.Config.OutputFile, results, a.Config.Format, a.Config.ShowIndex)
	if err != nil {
		a.logger.Error("saving traces", err, logging.String("path", a.Config.OutputFile))
		fmt.Fprintf(a.ErrWriter, "%sError saving traces: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}
	if !a.Config.Quiet && a.humanReadable() {
		fmt.Fprintf(out, "\n%s✓ %d trace(s) saved to: %s%s%s\n",
			ui.ColorGreen(), n, ui.ColorPrimary(), a.Config.OutputFile, ui.ColorReset())
	}
	return apperrors.ExitSuccess
}

// writeMetrics dumps the run's metrics in the Prometheus text format.
func (a *Application) writeMetrics() int {
	var w io.Writer = a.ErrWriter
	if a.Config.MetricsOut != "-" {
		f, err := os.Create(a.Config.MetricsOut)
		if err != nil {
			fmt.Fprintf(a.ErrWriter, "%sError writing metrics: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			return apperrors.ExitErrorGeneric
		}
		defer f.Close()
		w = f
	}
	if err := a.recorder.WriteText(w); err != nil {
		a.logger.Error("writing metrics", err, logging.String("path", a.Config.MetricsOut))
		fmt.Fprintf(a.ErrWriter, "%sError writing metrics: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}

// runTUI launches the interactive stepper on the first pair. It is not
// subject to the batch timeout: a person drives it.
func (a *Application) runTUI(ctx context.Context, out io.Writer) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	if len(a.Config.Pairs) > 1 {
		a.logger.Info("interactive mode steps through the first pair only",
			logging.Int("ignored", len(a.Config.Pairs)-1))
	}
	return tui.Run(ctx, a.Config.Pairs[0], Version, out)
}

// runREPL starts the interactive prompt.
func (a *Application) runREPL(out io.Writer) int {
	repl := cli.NewREPL(cli.REPLConfig{
		Format:    a.Config.Format,
		ShowIndex: a.Config.ShowIndex,
	}, a.logger)
	repl.SetInput(a.In)
	repl.SetOutput(out)
	repl.Start()
	return apperrors.ExitSuccess
}

// runServer serves traces over HTTP until SIGINT or SIGTERM. The timeout
// bounds each request rather than the server's lifetime.
func (a *Application) runServer(ctx context.Context) int {
	ctx, stopSignals := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stopSignals()

	srv := server.New(a.Config.ServeAddr, a.recorder, a.logger,
		server.WithRequestTimeout(a.Config.Timeout))
	fmt.Fprintf(a.ErrWriter, "Serving /trace, /metrics and /health on %s\n", a.Config.ServeAddr)
	if err := srv.Start(ctx); err != nil {
		a.logger.Error("server failed", err, logging.String("addr", a.Config.ServeAddr))
		fmt.Fprintf(a.ErrWriter, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
		return apperrors.ExitErrorGeneric
	}
	return apperrors.ExitSuccess
}
