// Package config parses command-line flags and environment variables into
// the application configuration.
package config

import (
	"flag"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"
	"time"

	apperrors "github.com/agbru/euclid/internal/errors"
)

// EnvPrefix is prepended to every environment variable read by this package.
const EnvPrefix = "EUCLID_"

// Output formats accepted by --format.
const (
	FormatTable = "table"
	FormatPlain = "plain"
	FormatJSON  = "json"
	FormatYAML  = "yaml"
	FormatCSV   = "csv"
)

// Formats lists the supported output formats.
var Formats = []string{FormatTable, FormatPlain, FormatJSON, FormatYAML, FormatCSV}

// DefaultTimeout bounds a whole run, including interactive sessions.
const DefaultTimeout = 5 * time.Minute

// Pair is one (a, b) input of the algorithm.
type Pair struct {
	A int64
	B int64
}

// String renders the pair as "a,b".
func (p Pair) String() string { return fmt.Sprintf("%d,%d", p.A, p.B) }

// AppConfig aggregates the application's configuration parameters.
type AppConfig struct {
	// Pairs are the inputs to trace, in command-line order.
	Pairs []Pair
	// Format selects the trace rendering (see Formats).
	Format string
	// OutputFile, when set, also writes the rendered traces to this path.
	OutputFile string
	// MetricsOut, when set, writes Prometheus metrics in text format to this path
	// ("-" for stderr) after the run.
	MetricsOut string
	// Timeout bounds the whole run.
	Timeout time.Duration
	// Concurrency bounds how many traces are computed at once (0 = unbounded).
	Concurrency int
	// Quiet prints only the gcd of each pair.
	Quiet bool
	// Verbose enables debug logging.
	Verbose bool
	// NoColor disables ANSI colors.
	NoColor bool
	// ShowIndex adds the row index column to tables.
	ShowIndex bool
	// Interactive starts the step-by-step TUI for the first pair.
	Interactive bool
	// REPL starts the interactive prompt.
	REPL bool
	// ServeAddr, when set, serves traces and metrics over HTTP on this address.
	ServeAddr string
}

// ParseConfig parses the command-line arguments and environment into an
// AppConfig. Flags take precedence over EUCLID_* variables, which take
// precedence over defaults.
//
// Inputs come either from -a/-b or from positional integers read two at a
// time, so "euclid 99 79 240 46" traces two pairs. Flags may appear before,
// between or after the pairs.
//
// Parameters:
//   - programName: The name used in usage messages.
//   - args: The arguments without the program name.
//   - errorWriter: Destination of usage and parse errors.
//
// Returns:
//   - AppConfig: The parsed configuration.
//   - error: flag.ErrHelp for -h, or a ConfigError.
func ParseConfig(programName string, args []string, errorWriter io.Writer) (AppConfig, error) {
	fs := flag.NewFlagSet(programName, flag.ContinueOnError)
	fs.SetOutput(errorWriter)
	fs.Usage = func() {
		fmt.Fprintf(errorWriter, "Usage: %s [flags] [a b]... [flags]\n\n", programName)
		fmt.Fprintf(errorWriter, "Prints the extended Euclidean algorithm trace for each pair of positive, distinct integers.\n\nFlags:\n")
		fs.PrintDefaults()
	}

	config := AppConfig{}
	var a, b int64
	fs.Int64Var(&a, "a", 0, "First input (positive).")
	fs.Int64Var(&b, "b", 0, "Second input (positive, different from a).")
	fs.StringVar(&config.Format, "format", FormatTable, "Output format: table, plain, json, yaml or csv.")
	fs.StringVar(&config.Format, "f", FormatTable, "Output format (shorthand).")
	fs.StringVar(&config.OutputFile, "output", "", "Also write the traces to this file.")
	fs.StringVar(&config.OutputFile, "o", "", "Output file (shorthand).")
	fs.StringVar(&config.MetricsOut, "metrics-out", "", "Write Prometheus metrics to this file after the run (\"-\" for stderr).")
	fs.DurationVar(&config.Timeout, "timeout", DefaultTimeout, "Maximum duration of the run.")
	fs.IntVar(&config.Concurrency, "concurrency", 0, "Maximum number of traces computed at once (0 = unbounded).")
	fs.BoolVar(&config.Quiet, "quiet", false, "Print only the gcd of each pair.")
	fs.BoolVar(&config.Quiet, "q", false, "Quiet mode (shorthand).")
	fs.BoolVar(&config.Verbose, "verbose", false, "Enable debug logging on stderr.")
	fs.BoolVar(&config.Verbose, "v", false, "Verbose mode (shorthand).")
	fs.BoolVar(&config.NoColor, "no-color", false, "Disable colored output.")
	fs.BoolVar(&config.ShowIndex, "index", true, "Show the row index column in tables.")
	fs.BoolVar(&config.Interactive, "interactive", false, "Step through the first pair interactively.")
	fs.BoolVar(&config.Interactive, "i", false, "Interactive mode (shorthand).")
	fs.BoolVar(&config.REPL, "repl", false, "Start an interactive prompt.")
	fs.StringVar(&config.ServeAddr, "serve", "", "Serve traces and metrics over HTTP on this address (e.g. :8080).")

	if err := fs.Parse(flagsFirst(fs, args)); err != nil {
		return AppConfig{}, err
	}

	applyEnvOverrides(&config, fs)

	if isFlagSetAny(fs, "a", "b") || hasEnvPair() {
		if !isFlagSetAny(fs, "a") {
			a = getEnvInt64("A", a)
		}
		if !isFlagSetAny(fs, "b") {
			b = getEnvInt64("B", b)
		}
		config.Pairs = append(config.Pairs, Pair{A: a, B: b})
	}

	positional, err := parsePairs(fs.Args())
	if err != nil {
		return AppConfig{}, err
	}
	config.Pairs = append(config.Pairs, positional...)

	if err := config.Validate(); err != nil {
		return AppConfig{}, err
	}
	return config, nil
}

// flagsFirst moves the flags of args ahead of the positional inputs, since
// flag.FlagSet stops at the first non-flag argument. Integers such as "-5"
// stay positional, as does everything after "--".
func flagsFirst(fs *flag.FlagSet, args []string) []string {
	flags := make([]string, 0, len(args)+1)
	var positional []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			positional = append(positional, args[i+1:]...)
			break
		}
		if !isFlagArg(arg) {
			positional = append(positional, arg)
			continue
		}
		flags = append(flags, arg)
		name := strings.TrimLeft(arg, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if f := fs.Lookup(name); f != nil && !isBoolFlag(f) && i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}
	flags = append(flags, "--")
	return append(flags, positional...)
}

func isFlagArg(arg string) bool {
	if len(arg) < 2 || arg[0] != '-' {
		return false
	}
	_, err := strconv.ParseInt(arg, 10, 64)
	return err != nil
}

func isBoolFlag(f *flag.Flag) bool {
	b, ok := f.Value.(interface{ IsBoolFlag() bool })
	return ok && b.IsBoolFlag()
}

// parsePairs groups positional integers two by two.
func parsePairs(args []string) ([]Pair, error) {
	if len(args)%2 != 0 {
		return nil, apperrors.NewConfigError("positional inputs come in pairs, got %d value(s)", len(args))
	}
	pairs := make([]Pair, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		a, err := strconv.ParseInt(args[i], 10, 64)
		if err != nil {
			return nil, apperrors.NewConfigError("invalid integer %q", args[i])
		}
		b, err := strconv.ParseInt(args[i+1], 10, 64)
		if err != nil {
			return nil, apperrors.NewConfigError("invalid integer %q", args[i+1])
		}
		pairs = append(pairs, Pair{A: a, B: b})
	}
	return pairs, nil
}

// Validate checks option consistency. Whether a pair is a valid input to
// the algorithm is decided by the euclid package, per pair.
func (c AppConfig) Validate() error {
	if !slices.Contains(Formats, c.Format) {
		return apperrors.NewConfigError("unknown format %q (valid: %v)", c.Format, Formats)
	}
	if c.Timeout <= 0 {
		return apperrors.NewConfigError("timeout must be positive, got %s", c.Timeout)
	}
	if c.Concurrency < 0 {
		return apperrors.NewConfigError("concurrency must not be negative, got %d", c.Concurrency)
	}
	if c.Quiet && c.Verbose {
		return apperrors.NewConfigError("--quiet and --verbose are mutually exclusive")
	}
	if len(c.Pairs) == 0 && !c.REPL && c.ServeAddr == "" {
		return apperrors.NewConfigError("no input: pass -a and -b, positional pairs, --repl or --serve")
	}
	return nil
}
