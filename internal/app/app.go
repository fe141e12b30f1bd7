package app

import (
	"context"
	"errors"
	"flag"
	"io"
	"os"

	"github.com/agbru/euclid/internal/config"
	"github.com/agbru/euclid/internal/logging"
	"github.com/agbru/euclid/internal/metrics"
	"github.com/agbru/euclid/internal/ui"
)

// Application represents the euclid application instance.
type Application struct {
	Config    config.AppConfig
	ErrWriter io.Writer
	// In feeds the REPL.
	In io.Reader

	logger   logging.Logger
	recorder *metrics.Recorder
}

// AppOption configures an Application during construction.
type AppOption func(*Application)

// WithInput sets the reader the REPL consumes (os.Stdin by default).
func WithInput(r io.Reader) AppOption {
	return func(a *Application) { a.In = r }
}

// New creates a new Application instance by parsing command-line arguments.
// args[0] is the program name.
func New(args []string, errWriter io.Writer, opts ...AppOption) (*Application, error) {
	app := &Application{ErrWriter: errWriter, In: os.Stdin}
	for _, opt := range opts {
		opt(app)
	}

	programName := "euclid"
	var cmdArgs []string
	if len(args) > 0 {
		programName = args[0]
		cmdArgs = args[1:]
	}

	cfg, err := config.ParseConfig(programName, cmdArgs, errWriter)
	if err != nil {
		return nil, err
	}

	app.Config = cfg
	app.logger = logging.NewLeveledLogger(errWriter, "euclid", cfg.Verbose)
	app.recorder = metrics.NewRecorder()
	return app, nil
}

// Run executes the application based on the configured mode.
func (a *Application) Run(ctx context.Context, out io.Writer) int {
	ui.InitTheme(a.Config.NoColor)

	a.logger.Debug("starting",
		logging.String("version", Version),
		logging.String("format", a.Config.Format),
		logging.Int("pairs", len(a.Config.Pairs)))

	switch {
	case a.Config.ServeAddr != "":
		return a.runServer(ctx)
	case a.Config.REPL:
		return a.runREPL(out)
	case a.Config.Interactive:
		return a.runTUI(ctx, out)
	default:
		return a.runBatch(ctx, out)
	}
}

// IsHelpError checks if the error is a help flag error (--help was used).
func IsHelpError(err error) bool {
	return errors.Is(err, flag.ErrHelp)
}
