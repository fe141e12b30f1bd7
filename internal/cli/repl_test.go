package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/agbru/euclid/internal/config"
)

func runREPL(t *testing.T, cfg REPLConfig, input string) string {
	t.Helper()
	var out bytes.Buffer
	repl := NewREPL(cfg, nil)
	repl.SetInput(strings.NewReader(input))
	repl.SetOutput(&out)
	repl.Start()
	return out.String()
}

func TestREPL_Commands(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name  string
		input string
		want  []string
		avoid []string
	}{
		{
			name:  "bare pair traces",
			input: "99 79\nexit\n",
			want:  []string{"==> The GCD of 99 and 79 is 1", "Goodbye!"},
		},
		{
			name:  "trace command with comma",
			input: "trace 240,46\nquit\n",
			want:  []string{"The GCD of 240 and 46 is 2"},
		},
		{
			name:  "gcd command prints coefficients",
			input: "gcd 99 79\n",
			want:  []string{"gcd(99, 79) = 1 = (4)*99 + (-5)*79"},
		},
		{
			name:  "invalid pair is reported",
			input: "5 5\n",
			want:  []string{"(5, 5) Invalid input: must differ from a (both are 5)"},
		},
		{
			name:  "missing operand",
			input: "trace 12\n",
			want:  []string{"Usage: <a> <b>"},
		},
		{
			name:  "format switch",
			input: "format csv\n99 79\n",
			want:  []string{"Format changed to: csv", "x,y,q,r,u,s,v,t", "19,1,19,0,-3,4,4,-5"},
			avoid: []string{"==> The GCD"},
		},
		{
			name:  "bad format",
			input: "format xml\nstatus\n",
			want:  []string{"Usage: format <", "Format:     table"},
		},
		{
			name:  "index toggle and status",
			input: "index\nstatus\n",
			want:  []string{"Row index: false", "Traces run: 0"},
		},
		{
			name:  "unknown command",
			input: "frobnicate\n",
			want:  []string{"Unknown command: frobnicate"},
		},
		{
			name:  "EOF without newline",
			input: "10 2",
			want:  []string{"The GCD of 10 and 2 is 2", "Goodbye!"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			out := runREPL(t, REPLConfig{Format: config.FormatTable, ShowIndex: true}, tt.input)
			for _, w := range tt.want {
				if !strings.Contains(out, w) {
					t.Errorf("output should contain %q:\n%s", w, out)
				}
			}
			for _, a := range tt.avoid {
				if strings.Contains(out, a) {
					t.Errorf("output should not contain %q:\n%s", a, out)
				}
			}
		})
	}
}

func TestREPL_DefaultFormat(t *testing.T) {
	t.Parallel()
	out := runREPL(t, REPLConfig{}, "status\n")
	if !strings.Contains(out, "Format:     table") {
		t.Errorf("default format should be table:\n%s", out)
	}
}
