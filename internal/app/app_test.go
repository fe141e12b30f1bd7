package app

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	apperrors "github.com/agbru/euclid/internal/errors"
)

func newTestApp(t *testing.T, args ...string) (*Application, *bytes.Buffer) {
	t.Helper()
	var errBuf bytes.Buffer
	a, err := New(append([]string{"euclid", "--no-color"}, args...), &errBuf)
	if err != nil {
		t.Fatalf("New(%v): %v\n%s", args, err, errBuf.String())
	}
	return a, &errBuf
}

func TestNew_ParsesConfig(t *testing.T) {
	a, _ := newTestApp(t, "-format", "plain", "99", "79", "10", "2")
	if got := len(a.Config.Pairs); got != 2 {
		t.Fatalf("pairs = %d, want 2", got)
	}
	if a.Config.Format != "plain" {
		t.Errorf("format = %q", a.Config.Format)
	}
}

func TestNew_Errors(t *testing.T) {
	var errBuf bytes.Buffer
	_, err := New([]string{"euclid", "-h"}, &errBuf)
	if !IsHelpError(err) {
		t.Errorf("expected help error, got %v", err)
	}
	if !strings.Contains(errBuf.String(), "Usage: euclid") {
		t.Errorf("usage not printed:\n%s", errBuf.String())
	}

	_, err = New([]string{"euclid", "99"}, &bytes.Buffer{})
	if apperrors.ExitCodeFor(err) != apperrors.ExitErrorConfig {
		t.Errorf("odd positional count should be a config error, got %v", err)
	}
	if IsHelpError(err) {
		t.Error("config error must not be reported as help")
	}
}

func TestRun_Batch(t *testing.T) {
	a, _ := newTestApp(t, "99", "79")
	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d\n%s", code, out.String())
	}
	if !strings.Contains(out.String(), "==> The GCD of 99 and 79 is 1") {
		t.Errorf("missing summary:\n%s", out.String())
	}
}

func TestRun_InvalidPair(t *testing.T) {
	a, _ := newTestApp(t, "10", "2", "5", "5")
	var out bytes.Buffer
	code := a.Run(context.Background(), &out)
	if code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
	got := out.String()
	if !strings.Contains(got, "The GCD of 10 and 2 is 2") {
		t.Errorf("valid pair should still be traced:\n%s", got)
	}
	if !strings.Contains(got, "(5, 5) Invalid input") {
		t.Errorf("invalid pair should be reported:\n%s", got)
	}
}

func TestRun_JSONKeepsStdoutClean(t *testing.T) {
	a, errBuf := newTestApp(t, "-format", "json", "0", "3")
	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}
	if out.Len() != 0 {
		t.Errorf("stdout should be empty, got %q", out.String())
	}
	if !strings.Contains(errBuf.String(), "must be positive, got 0") {
		t.Errorf("error should go to stderr:\n%s", errBuf.String())
	}
}

func TestRun_JSON(t *testing.T) {
	a, _ := newTestApp(t, "-f", "json", "240", "46")
	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Fatalf("exit code = %d", code)
	}
	var doc struct {
		GCD  int64            `json:"gcd"`
		Rows []map[string]int `json:"rows"`
	}
	if err := json.Unmarshal(out.Bytes(), &doc); err != nil {
		t.Fatalf("stdout is not JSON: %v\n%s", err, out.String())
	}
	if doc.GCD != 2 {
		t.Errorf("gcd = %d, want 2", doc.GCD)
	}
}

func TestRun_Quiet(t *testing.T) {
	a, _ := newTestApp(t, "-q", "99", "79", "12", "8")
	var out bytes.Buffer
	a.Run(context.Background(), &out)
	if out.String() != "1\n4\n" {
		t.Errorf("quiet output = %q, want %q", out.String(), "1\n4\n")
	}
}

func TestRun_OutputAndMetricsFiles(t *testing.T) {
	dir := t.TempDir()
	outFile := filepath.Join(dir, "traces", "out.csv")
	metricsFile := filepath.Join(dir, "metrics.prom")

	a, _ := newTestApp(t, "-f", "csv", "-o", outFile, "-metrics-out", metricsFile, "99", "79", "7", "7")
	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitErrorConfig {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorConfig)
	}

	saved, err := os.ReadFile(outFile)
	if err != nil {
		t.Fatalf("output file: %v", err)
	}
	if !strings.HasPrefix(string(saved), "x,y,q,r,u,s,v,t\n99,79,1,20,1,0,0,1\n") {
		t.Errorf("unexpected CSV:\n%s", saved)
	}

	m, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("metrics file: %v", err)
	}
	for _, want := range []string{
		`euclid_traces_total{outcome="ok"} 1`,
		`euclid_traces_total{outcome="invalid_input"} 1`,
		"euclid_trace_steps_bucket",
	} {
		if !strings.Contains(string(m), want) {
			t.Errorf("metrics should contain %q:\n%s", want, m)
		}
	}
}

func TestRun_REPL(t *testing.T) {
	var errBuf bytes.Buffer
	a, err := New([]string{"euclid", "--no-color", "--repl"}, &errBuf, WithInput(strings.NewReader("12 8\nexit\n")))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var out bytes.Buffer
	if code := a.Run(context.Background(), &out); code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d", code)
	}
	if !strings.Contains(out.String(), "The GCD of 12 and 8 is 4") {
		t.Errorf("REPL did not trace the pair:\n%s", out.String())
	}
}

func TestRun_Canceled(t *testing.T) {
	a, _ := newTestApp(t, "99", "79")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var out bytes.Buffer
	if code := a.Run(ctx, &out); code != apperrors.ExitErrorCanceled {
		t.Errorf("exit code = %d, want %d", code, apperrors.ExitErrorCanceled)
	}
}

func TestRun_ServeStopsWithContext(t *testing.T) {
	a, errBuf := newTestApp(t, "-serve", "127.0.0.1:0")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if code := a.Run(ctx, &bytes.Buffer{}); code != apperrors.ExitSuccess {
		t.Errorf("exit code = %d\n%s", code, errBuf.String())
	}
	if !strings.Contains(errBuf.String(), "Serving /trace") {
		t.Errorf("missing startup line:\n%s", errBuf.String())
	}
}

func TestVersion(t *testing.T) {
	tests := []struct {
		args []string
		want bool
	}{
		{[]string{"--version"}, true},
		{[]string{"-f", "json", "-version"}, true},
		{[]string{"99", "79"}, false},
		{[]string{"--", "--version"}, false},
		{[]string{"-v"}, false},
	}
	for _, tt := range tests {
		if got := HasVersionFlag(tt.args); got != tt.want {
			t.Errorf("HasVersionFlag(%v) = %v, want %v", tt.args, got, tt.want)
		}
	}

	var buf bytes.Buffer
	PrintVersion(&buf)
	if !strings.HasPrefix(buf.String(), "euclid "+Version+"\n") {
		t.Errorf("unexpected version output:\n%s", buf.String())
	}
}
