package cli

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/sebdah/goldie/v2"
	"gopkg.in/yaml.v3"

	"github.com/agbru/euclid/internal/config"
	apperrors "github.com/agbru/euclid/internal/errors"
	"github.com/agbru/euclid/internal/euclid"
	"github.com/agbru/euclid/internal/orchestration"
)

func mustTrace(t *testing.T, a, b int64) []euclid.Step {
	t.Helper()
	steps, err := euclid.Trace(a, b)
	if err != nil {
		t.Fatalf("Trace(%d, %d): %v", a, b, err)
	}
	return steps
}

func TestFormatJSONGolden(t *testing.T) {
	t.Parallel()
	out, err := FormatJSON(mustTrace(t, 99, 79))
	if err != nil {
		t.Fatalf("FormatJSON: %v", err)
	}
	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "trace_99_79_json", []byte(out))
}

func TestFormatYAML(t *testing.T) {
	t.Parallel()
	steps := mustTrace(t, 99, 79)
	out, err := FormatYAML(steps)
	if err != nil {
		t.Fatalf("FormatYAML: %v", err)
	}

	var doc TraceDocument
	if err := yaml.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v\n%s", err, out)
	}
	if diff := cmp.Diff(NewTraceDocument(steps), doc); diff != "" {
		t.Errorf("decoded document mismatch (-want +got):\n%s", diff)
	}
	if !strings.HasPrefix(out, "a: 99\nb: 79\ngcd: 1\nrows:\n") {
		t.Errorf("unexpected YAML layout:\n%s", out)
	}
}

func TestFormatCSV(t *testing.T) {
	t.Parallel()
	out, err := FormatCSV(mustTrace(t, 99, 79))
	if err != nil {
		t.Fatalf("FormatCSV: %v", err)
	}
	records, err := csv.NewReader(strings.NewReader(out)).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	want := [][]string{
		{"x", "y", "q", "r", "u", "s", "v", "t"},
		{"99", "79", "1", "20", "1", "0", "0", "1"},
		{"79", "20", "3", "19", "0", "1", "1", "-1"},
		{"20", "19", "1", "1", "1", "-3", "-1", "4"},
		{"19", "1", "19", "0", "-3", "4", "4", "-5"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("CSV mismatch (-want +got):\n%s", diff)
	}
}

func TestFormatPlain(t *testing.T) {
	t.Parallel()
	out := FormatPlain(mustTrace(t, 99, 79), false)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5:\n%s", len(lines), out)
	}
	if got := strings.Fields(lines[0]); !cmp.Equal(got, euclid.Columns) {
		t.Errorf("header = %v, want %v", got, euclid.Columns)
	}
	if got := strings.Fields(lines[4]); !cmp.Equal(got, []string{"19", "1", "19", "0", "-3", "4", "4", "-5"}) {
		t.Errorf("final row = %v", got)
	}
}

func TestFormatPlainIndex(t *testing.T) {
	t.Parallel()
	out := FormatPlain(mustTrace(t, 99, 79), true)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if got := strings.Fields(lines[2])[0]; got != "1" {
		t.Errorf("index of second row = %q, want 1", got)
	}
}

func TestRenderTable(t *testing.T) {
	t.Parallel()
	out := RenderTable(mustTrace(t, 10, 2), true)
	for _, want := range []string{"x", "y", "q", "r", "u", "s", "v", "t", "10", "5"} {
		if !strings.Contains(out, want) {
			t.Errorf("table should contain %q:\n%s", want, out)
		}
	}
	// header, one row, two borders and the header separator
	if got := strings.Count(out, "\n") + 1; got != 5 {
		t.Errorf("table has %d lines, want 5:\n%s", got, out)
	}
}

func TestRenderTrace(t *testing.T) {
	t.Parallel()
	steps := mustTrace(t, 99, 79)
	summary := "==> The GCD of 99 and 79 is 1\n"

	for _, format := range []string{config.FormatTable, config.FormatPlain} {
		t.Run(format, func(t *testing.T) {
			t.Parallel()
			out, err := RenderTrace(steps, format, true)
			if err != nil {
				t.Fatalf("RenderTrace: %v", err)
			}
			if !strings.HasSuffix(out, summary) {
				t.Errorf("output should end with %q:\n%s", summary, out)
			}
		})
	}

	t.Run("unknown format", func(t *testing.T) {
		t.Parallel()
		_, err := RenderTrace(steps, "xml", false)
		var cfgErr apperrors.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected ConfigError, got %v", err)
		}
	})

	t.Run("empty trace", func(t *testing.T) {
		t.Parallel()
		if _, err := RenderTrace(nil, config.FormatTable, false); err == nil {
			t.Error("expected an error for an empty trace")
		}
	})
}

func TestWriteTracesToFile(t *testing.T) {
	t.Parallel()
	tmpDir := t.TempDir()

	results := []orchestration.TraceResult{
		{Index: 0, Pair: config.Pair{A: 99, B: 79}, Steps: mustTrace(t, 99, 79)},
		{Index: 1, Pair: config.Pair{A: 5, B: 5}, Err: euclid.ErrInvalidInput},
		{Index: 2, Pair: config.Pair{A: 10, B: 2}, Steps: mustTrace(t, 10, 2)},
	}

	testCases := []struct {
		name   string
		format string
		check  func(t *testing.T, content string)
	}{
		{
			name:   "yaml documents",
			format: config.FormatYAML,
			check: func(t *testing.T, content string) {
				dec := yaml.NewDecoder(strings.NewReader(content))
				var gcds []int64
				for {
					var doc TraceDocument
					if err := dec.Decode(&doc); err != nil {
						break
					}
					gcds = append(gcds, doc.GCD)
				}
				if !cmp.Equal(gcds, []int64{1, 2}) {
					t.Errorf("decoded gcds = %v, want [1 2]", gcds)
				}
			},
		},
		{
			name:   "plain summaries",
			format: config.FormatPlain,
			check: func(t *testing.T, content string) {
				if strings.Count(content, SummaryPrefix) != 2 {
					t.Errorf("expected two summaries:\n%s", content)
				}
				if strings.Contains(content, "The GCD of 5 and 5") {
					t.Error("failed pair must not be written")
				}
			},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			path := filepath.Join(tmpDir, "nested", tc.format, "trace.out")
			n, err := WriteTracesToFile(path, results, tc.format, false)
			if err != nil {
				t.Fatalf("WriteTracesToFile: %v", err)
			}
			if n != 2 {
				t.Errorf("wrote %d traces, want 2", n)
			}
			content, err := os.ReadFile(path)
			if err != nil {
				t.Fatalf("failed to read output file: %v", err)
			}
			tc.check(t, string(content))
		})
	}
}
