package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/agbru/euclid/internal/config"
	"github.com/agbru/euclid/internal/euclid"
	"github.com/agbru/euclid/internal/logging"
	"github.com/agbru/euclid/internal/orchestration"
	"github.com/agbru/euclid/internal/ui"
)

// REPLConfig holds configuration for the REPL session.
type REPLConfig struct {
	// Format is the initial output format.
	Format string
	// ShowIndex adds the row index column to tables.
	ShowIndex bool
}

// REPL is an interactive prompt reading pairs and printing their traces.
type REPL struct {
	config  REPLConfig
	history int
	logger  logging.Logger
	in      io.Reader
	out     io.Writer
}

// NewREPL creates a new REPL instance reading stdin and writing stdout.
func NewREPL(cfg REPLConfig, logger logging.Logger) *REPL {
	if cfg.Format == "" {
		cfg.Format = config.FormatTable
	}
	return &REPL{
		config: cfg,
		logger: logger,
		in:     os.Stdin,
		out:    os.Stdout,
	}
}

// SetInput sets a custom input reader (useful for testing).
func (r *REPL) SetInput(in io.Reader) {
	r.in = in
}

// SetOutput sets a custom output writer (useful for testing).
func (r *REPL) SetOutput(out io.Writer) {
	r.out = out
}

// Start runs the session until "exit" or EOF.
func (r *REPL) Start() {
	r.printBanner()
	r.printHelp()
	fmt.Fprintln(r.out)

	reader := bufio.NewReader(r.in)

	for {
		fmt.Fprint(r.out, ui.ColorGreen()+"euclid> "+ui.ColorReset())

		input, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			fmt.Fprintf(r.out, "%sRead error: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
			return
		}

		line := strings.TrimSpace(input)
		if line != "" && !r.processCommand(line) {
			return
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(r.out, "\nGoodbye!")
			return
		}
	}
}

func (r *REPL) printBanner() {
	fmt.Fprintf(r.out, "\n%s╔══════════════════════════════════════════════════╗%s\n", ui.ColorPrimary(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s║%s   %sExtended Euclidean Algorithm - Interactive%s     %s║%s\n",
		ui.ColorPrimary(), ui.ColorReset(), ui.ColorBold(), ui.ColorReset(), ui.ColorPrimary(), ui.ColorReset())
	fmt.Fprintf(r.out, "%s╚══════════════════════════════════════════════════╝%s\n\n", ui.ColorPrimary(), ui.ColorReset())
}

func (r *REPL) printHelp() {
	fmt.Fprintf(r.out, "%sAvailable commands:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %s<a> <b>%s         - Trace the extended Euclidean algorithm for a and b\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sgcd <a> <b>%s     - Print only the gcd and Bézout coefficients\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sformat <name>%s   - Change output format (%s)\n", ui.ColorYellow(), ui.ColorReset(), strings.Join(config.Formats, ", "))
	fmt.Fprintf(r.out, "  %sindex%s           - Toggle the row index column\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sstatus%s          - Display current settings\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %shelp%s            - Display this help\n", ui.ColorYellow(), ui.ColorReset())
	fmt.Fprintf(r.out, "  %sexit%s / %squit%s     - Leave interactive mode\n", ui.ColorYellow(), ui.ColorReset(), ui.ColorYellow(), ui.ColorReset())
}

// processCommand parses and executes a user command.
// Returns false if the REPL should exit.
func (r *REPL) processCommand(input string) bool {
	parts := strings.Fields(strings.ReplaceAll(input, ",", " "))
	cmd := strings.ToLower(parts[0])
	args := parts[1:]

	switch cmd {
	case "trace", "t":
		r.cmdTrace(args, false)
	case "gcd", "g":
		r.cmdTrace(args, true)
	case "format", "f":
		r.cmdFormat(args)
	case "index":
		r.config.ShowIndex = !r.config.ShowIndex
		fmt.Fprintf(r.out, "Row index: %s%t%s\n", ui.ColorGreen(), r.config.ShowIndex, ui.ColorReset())
	case "status", "st":
		r.cmdStatus()
	case "help", "h", "?":
		r.printHelp()
	case "exit", "quit", "q":
		fmt.Fprintf(r.out, "%sGoodbye!%s\n", ui.ColorGreen(), ui.ColorReset())
		return false
	default:
		// Two bare integers are a trace request.
		if _, err := strconv.ParseInt(cmd, 10, 64); err == nil {
			r.cmdTrace(parts, false)
		} else {
			fmt.Fprintf(r.out, "%sUnknown command: %s%s\n", ui.ColorRed(), cmd, ui.ColorReset())
			fmt.Fprintf(r.out, "Type %shelp%s to see available commands.\n", ui.ColorYellow(), ui.ColorReset())
		}
	}
	return true
}

// parsePair reads two integers from args.
func parsePair(args []string) (config.Pair, error) {
	if len(args) != 2 {
		return config.Pair{}, fmt.Errorf("expected two integers, got %d value(s)", len(args))
	}
	a, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return config.Pair{}, fmt.Errorf("invalid integer %q", args[0])
	}
	b, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return config.Pair{}, fmt.Errorf("invalid integer %q", args[1])
	}
	return config.Pair{A: a, B: b}, nil
}

func (r *REPL) cmdTrace(args []string, gcdOnly bool) {
	pair, err := parsePair(args)
	if err != nil {
		fmt.Fprintf(r.out, "%sUsage: <a> <b> (%v)%s\n", ui.ColorRed(), err, ui.ColorReset())
		return
	}

	start := time.Now()
	steps, err := euclid.Trace(pair.A, pair.B)
	res := orchestration.TraceResult{Pair: pair, Steps: steps, Duration: time.Since(start), Err: err}
	if err != nil {
		CLIErrorHandler{}.HandleError(pair, err, r.out)
		return
	}
	r.history++
	if r.logger != nil {
		r.logger.Debug("repl trace", logging.String("pair", pair.String()), logging.Int("rows", len(steps)))
	}

	final, _ := res.Final()
	if gcdOnly {
		fmt.Fprintf(r.out, "gcd(%d, %d) = %s%d%s = (%d)*%d + (%d)*%d\n",
			pair.A, pair.B, ui.ColorGreen(), final.Y(), ui.ColorReset(),
			final.S(), pair.A, final.T(), pair.B)
		return
	}

	presenter := CLITracePresenter{Format: r.config.Format, ShowIndex: r.config.ShowIndex}
	if err := presenter.PresentTrace(res, r.out); err != nil {
		fmt.Fprintf(r.out, "%sError: %v%s\n", ui.ColorRed(), err, ui.ColorReset())
	}
}

func (r *REPL) cmdFormat(args []string) {
	if len(args) == 0 || !slices.Contains(config.Formats, strings.ToLower(args[0])) {
		fmt.Fprintf(r.out, "%sUsage: format <%s>%s\n", ui.ColorRed(), strings.Join(config.Formats, "|"), ui.ColorReset())
		return
	}
	r.config.Format = strings.ToLower(args[0])
	fmt.Fprintf(r.out, "Format changed to: %s%s%s\n", ui.ColorGreen(), r.config.Format, ui.ColorReset())
}

func (r *REPL) cmdStatus() {
	fmt.Fprintf(r.out, "\n%sCurrent settings:%s\n", ui.ColorBold(), ui.ColorReset())
	fmt.Fprintf(r.out, "  Format:     %s%s%s\n", ui.ColorPrimary(), r.config.Format, ui.ColorReset())
	fmt.Fprintf(r.out, "  Row index:  %s%t%s\n", ui.ColorPrimary(), r.config.ShowIndex, ui.ColorReset())
	fmt.Fprintf(r.out, "  Traces run: %s%d%s\n", ui.ColorPrimary(), r.history, ui.ColorReset())
	fmt.Fprintln(r.out)
}
