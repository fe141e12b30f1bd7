package ui

import (
	"os"
	"testing"
)

// Tests in this file mutate the global theme and therefore do not run in parallel.

func TestSetTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	tests := []struct {
		name string
		want string
	}{
		{"dark", "dark"},
		{"light", "light"},
		{"none", "none"},
		{"unknown", "dark"},
	}
	for _, tt := range tests {
		SetTheme(tt.name)
		if got := GetCurrentTheme().Name; got != tt.want {
			t.Errorf("SetTheme(%q) -> %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestInitTheme(t *testing.T) {
	defer SetCurrentTheme(GetCurrentTheme())

	t.Run("flag disables colors", func(t *testing.T) {
		InitTheme(true)
		if ColorGreen() != "" || ColorReset() != "" {
			t.Error("colors should be empty with --no-color")
		}
		if GetCurrentTUITheme() != NoColorTUITheme {
			t.Error("TUI theme should follow the no-color theme")
		}
	})

	t.Run("NO_COLOR disables colors", func(t *testing.T) {
		t.Setenv("NO_COLOR", "1")
		InitTheme(false)
		if GetCurrentTheme().Name != "none" {
			t.Errorf("theme = %q, want none", GetCurrentTheme().Name)
		}
	})

	t.Run("terminal defaults to dark", func(t *testing.T) {
		if _, set := os.LookupEnv("NO_COLOR"); set {
			t.Skip("NO_COLOR is set in the environment")
		}
		withTerminal(t, true)
		InitTheme(false)
		if GetCurrentTheme().Name != "dark" {
			t.Errorf("theme = %q, want dark", GetCurrentTheme().Name)
		}
		if ColorPrimary() == "" {
			t.Error("dark theme should have a primary color")
		}
	})

	t.Run("redirected output disables colors", func(t *testing.T) {
		withTerminal(t, false)
		InitTheme(false)
		if GetCurrentTheme().Name != "none" {
			t.Errorf("theme = %q, want none", GetCurrentTheme().Name)
		}
		if ColorBold() != "" || ColorReset() != "" {
			t.Error("piped output should carry no escape codes")
		}
	})
}

// withTerminal makes InitTheme see stdout as a terminal (or not) for the
// duration of the test.
func withTerminal(t *testing.T, isTerm bool) {
	t.Helper()
	orig := stdoutIsTerminal
	stdoutIsTerminal = func() bool { return isTerm }
	t.Cleanup(func() { stdoutIsTerminal = orig })
}
