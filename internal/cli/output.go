// # Naming Conventions
//
// Functions in this package follow consistent naming patterns based on their behavior:
//
//   - Display* functions write formatted output to an [io.Writer].
//     They handle presentation logic and colorization.
//     Examples: [DisplayTrace], [DisplaySummary].
//
//   - Format* and Render* functions return a formatted string without performing I/O.
//     They are pure functions suitable for composition.
//     Examples: [RenderTable], [FormatJSON], [FormatCSV].
//
//   - Write* functions write data to files on the filesystem.
//     Examples: [WriteTracesToFile].

package cli

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"gopkg.in/yaml.v3"

	"github.com/agbru/euclid/internal/config"
	apperrors "github.com/agbru/euclid/internal/errors"
	"github.com/agbru/euclid/internal/euclid"
	"github.com/agbru/euclid/internal/orchestration"
	"github.com/agbru/euclid/internal/ui"
)

// SummaryPrefix introduces the closing line of human-readable traces.
const SummaryPrefix = "==> "

// TraceDocument is the serialized form of a trace for JSON and YAML output.
type TraceDocument struct {
	A    int64           `json:"a" yaml:"a"`
	B    int64           `json:"b" yaml:"b"`
	GCD  int64           `json:"gcd" yaml:"gcd"`
	Rows []euclid.Record `json:"rows" yaml:"rows"`
}

// NewTraceDocument builds the serialized form of a non-empty trace.
func NewTraceDocument(steps []euclid.Step) TraceDocument {
	final := steps[len(steps)-1]
	doc := TraceDocument{A: final.A(), B: final.B(), GCD: final.Y(), Rows: make([]euclid.Record, len(steps))}
	for i, st := range steps {
		doc.Rows[i] = st.Record()
	}
	return doc
}

// headers returns the column headers, with an empty index header when requested.
func headers(showIndex bool) []string {
	if !showIndex {
		return euclid.Columns
	}
	return append([]string{""}, euclid.Columns...)
}

// cells returns the string cells of every row.
func cells(steps []euclid.Step, showIndex bool) [][]string {
	rows := make([][]string, len(steps))
	for i, st := range steps {
		row := make([]string, 0, len(euclid.Columns)+1)
		if showIndex {
			row = append(row, strconv.Itoa(i))
		}
		for _, v := range st.Values() {
			row = append(row, strconv.FormatInt(v, 10))
		}
		rows[i] = row
	}
	return rows
}

// RenderTable renders the rows as a bordered table with right-aligned
// columns x, y, q, r, u, s, v, t, preceded by the row index if showIndex.
func RenderTable(steps []euclid.Step, showIndex bool) string {
	theme := ui.GetCurrentTUITheme()
	base := lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Right)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(theme.Border)).
		Headers(headers(showIndex)...).
		Rows(cells(steps, showIndex)...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return base.Bold(true).Foreground(theme.Accent)
			case showIndex && col == 0:
				return base.Foreground(theme.Dim)
			case row == len(steps)-1:
				return base.Foreground(theme.Success)
			default:
				return base.Foreground(theme.Text)
			}
		})
	return t.String()
}

// FormatPlain renders the rows as an undecorated, right-aligned text table.
func FormatPlain(steps []euclid.Step, showIndex bool) string {
	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 0, 2, ' ', tabwriter.AlignRight)
	writeRow := func(row []string) {
		for _, c := range row {
			fmt.Fprintf(w, "%s\t", c)
		}
		fmt.Fprintln(w)
	}
	writeRow(headers(showIndex))
	for _, row := range cells(steps, showIndex) {
		writeRow(row)
	}
	w.Flush()
	return buf.String()
}

// FormatJSON renders the trace as an indented JSON document.
func FormatJSON(steps []euclid.Step) (string, error) {
	data, err := json.MarshalIndent(NewTraceDocument(steps), "", "  ")
	if err != nil {
		return "", apperrors.WrapError(err, "encoding JSON")
	}
	return string(data) + "\n", nil
}

// FormatYAML renders the trace as a YAML document.
func FormatYAML(steps []euclid.Step) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(NewTraceDocument(steps)); err != nil {
		return "", apperrors.WrapError(err, "encoding YAML")
	}
	if err := enc.Close(); err != nil {
		return "", apperrors.WrapError(err, "encoding YAML")
	}
	return buf.String(), nil
}

// FormatCSV renders the rows as CSV with a header line.
func FormatCSV(steps []euclid.Step) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	records := append([][]string{euclid.Columns}, cells(steps, false)...)
	if err := w.WriteAll(records); err != nil {
		return "", apperrors.WrapError(err, "encoding CSV")
	}
	return buf.String(), nil
}

// FormatSummary returns the closing line of a human-readable trace.
func FormatSummary(final euclid.Step) string {
	return SummaryPrefix + final.Summary()
}

// RenderTrace renders a successful trace in the given format. Human-readable
// formats end with the summary line; machine formats carry the gcd in their
// own structure (JSON, YAML) or omit it (CSV).
func RenderTrace(steps []euclid.Step, format string, showIndex bool) (string, error) {
	if len(steps) == 0 {
		return "", apperrors.NewConfigError("empty trace")
	}
	final := steps[len(steps)-1]

	switch format {
	case config.FormatTable:
		return RenderTable(steps, showIndex) + "\n" + FormatSummary(final) + "\n", nil
	case config.FormatPlain:
		return FormatPlain(steps, showIndex) + FormatSummary(final) + "\n", nil
	case config.FormatJSON:
		return FormatJSON(steps)
	case config.FormatYAML:
		return FormatYAML(steps)
	case config.FormatCSV:
		return FormatCSV(steps)
	default:
		return "", apperrors.NewConfigError("unknown format %q", format)
	}
}

// separator returns what goes between two consecutive traces in format.
func separator(format string) string {
	switch format {
	case config.FormatYAML:
		return "---\n"
	case config.FormatJSON:
		return ""
	default:
		return "\n"
	}
}

// DisplayTrace writes a rendered trace to out.
//
// Parameters:
//   - out: The output writer.
//   - steps: The rows of the trace, final row last.
//   - format: One of config.Formats.
//   - showIndex: Whether tables get an index column.
//
// Returns:
//   - error: An error if rendering or writing fails.
func DisplayTrace(out io.Writer, steps []euclid.Step, format string, showIndex bool) error {
	rendered, err := RenderTrace(steps, format, showIndex)
	if err != nil {
		return err
	}
	_, err = io.WriteString(out, rendered)
	return err
}

// DisplaySummary writes the colorized summary line for the final row.
func DisplaySummary(out io.Writer, final euclid.Step) {
	fmt.Fprintf(out, "%s%s%sThe GCD of %d and %d is %s%d%s\n",
		ui.ColorBold(), SummaryPrefix, ui.ColorReset(),
		final.A(), final.B(),
		ui.ColorPrimary(), final.Y(), ui.ColorReset())
}

// WriteTracesToFile writes every successful trace to path in the given
// format, creating parent directories as needed.
//
// Returns:
//   - int: The number of traces written.
//   - error: An error if the file cannot be written.
func WriteTracesToFile(path string, results []orchestration.TraceResult, format string, showIndex bool) (int, error) {
	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return 0, fmt.Errorf("failed to create directory: %w", err)
		}
	}

	var sb strings.Builder
	written := 0
	for _, res := range results {
		if res.Err != nil {
			continue
		}
		rendered, err := RenderTrace(res.Steps, format, showIndex)
		if err != nil {
			return 0, err
		}
		if written > 0 {
			sb.WriteString(separator(format))
		}
		sb.WriteString(rendered)
		written++
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0o644); err != nil {
		return 0, fmt.Errorf("failed to write output file: %w", err)
	}
	return written, nil
}
