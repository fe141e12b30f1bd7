package tui

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/euclid/internal/cli"
	"github.com/agbru/euclid/internal/config"
	apperrors "github.com/agbru/euclid/internal/errors"
	"github.com/agbru/euclid/internal/euclid"
)

// ContextCancelledMsg is sent when the session context ends.
type ContextCancelledMsg struct {
	Err error
}

// Model is the bubbletea model of the interactive stepper. Every key press
// bound to Next reveals one more row of the trace.
type Model struct {
	header  HeaderModel
	keymap  KeyMap
	help    help.Model
	stepper *euclid.Stepper
	rows    []euclid.Step

	ctx      context.Context
	cancel   context.CancelFunc
	err      error
	exitCode int
	width    int
}

// NewModel creates a stepper positioned on the initial row of pair. It
// fails with the validation error of euclid.New for unusable inputs.
func NewModel(parentCtx context.Context, pair config.Pair, version string) (Model, error) {
	stepper, err := euclid.NewStepper(pair.A, pair.B)
	if err != nil {
		return Model{}, err
	}
	ctx, cancel := context.WithCancel(parentCtx)
	return Model{
		header:   NewHeaderModel(version, pair.A, pair.B),
		keymap:   DefaultKeyMap(),
		help:     help.New(),
		stepper:  stepper,
		rows:     []euclid.Step{stepper.Current()},
		ctx:      ctx,
		cancel:   cancel,
		exitCode: apperrors.ExitSuccess,
	}, nil
}

// Init returns the initial commands.
func (m Model) Init() tea.Cmd {
	return watchContextCmd(m.ctx)
}

// Update handles all incoming messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.header.SetWidth(msg.Width)
		m.help.Width = msg.Width
		return m, nil

	case ContextCancelledMsg:
		if m.exitCode == apperrors.ExitSuccess {
			m.exitCode = apperrors.ExitCodeFor(msg.Err)
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Next):
		if m.err == nil {
			m.advance()
		}
		return m, nil

	case key.Matches(msg, m.keymap.Reset):
		m.stepper.Reset()
		m.rows = []euclid.Step{m.stepper.Current()}
		m.err = nil
		m.exitCode = apperrors.ExitSuccess
		return m, nil

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}
	return m, nil
}

// advance reveals the next row. A broken invariant stops the session on
// the last good row.
func (m *Model) advance() {
	defer func() {
		if r := recover(); r != nil {
			inv, ok := r.(*apperrors.InvariantError)
			if !ok {
				panic(r)
			}
			m.err = inv
			m.exitCode = apperrors.ExitErrorInvariant
		}
	}()
	if m.stepper.Advance() {
		m.rows = append(m.rows[:len(m.rows):len(m.rows)], m.stepper.Current())
	}
}

// Rows returns the rows revealed so far.
func (m Model) Rows() []euclid.Step { return m.rows }

// Done reports whether the final row has been revealed.
func (m Model) Done() bool { return m.stepper.Current().Done() }

// ExitCode returns the exit code the session ends with.
func (m Model) ExitCode() int { return m.exitCode }

// View renders the stepper.
func (m Model) View() string {
	cur := m.stepper.Current()
	sections := []string{
		m.header.View(m.stepper.Index(), m.Done(), m.err != nil),
		cli.RenderTable(m.rows, true),
		renderChecks(cur),
	}

	switch {
	case m.err != nil:
		sections = append(sections, statusErrorStyle.Render(m.err.Error()))
	case m.Done():
		sections = append(sections, summaryStyle.Render(cli.FormatSummary(cur)))
	}

	sections = append(sections, m.help.View(m.keymap))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// renderChecks shows the identities of st with the numbers plugged in.
func renderChecks(st euclid.Step) string {
	a, b := st.A(), st.B()
	lines := []struct {
		label string
		ok    bool
		expr  string
	}{
		{"r = x mod y", st.X()%st.Y() == st.R(),
			fmt.Sprintf("%d = %d mod %d", st.R(), st.X(), st.Y())},
		{"y = s*a + t*b", st.S()*a+st.T()*b == st.Y(),
			fmt.Sprintf("%d = %d*%d + %d*%d", st.Y(), st.S(), a, st.T(), b)},
		{"x = u*a + v*b", st.U()*a+st.V()*b == st.X(),
			fmt.Sprintf("%d = %d*%d + %d*%d", st.X(), st.U(), a, st.V(), b)},
	}

	var sb strings.Builder
	for _, l := range lines {
		mark := checkPassStyle.Render("✓")
		if !l.ok {
			mark = checkFailStyle.Render("✗")
		}
		fmt.Fprintf(&sb, " %s %-14s %s\n", mark, l.label, dimStyle.Render(l.expr))
	}
	return strings.TrimRight(sb.String(), "\n")
}

// Run is the public entry point for the interactive mode.
// It creates the bubbletea program, runs it, and returns the exit code.
// The final table and summary are written to out once the session ends.
func Run(ctx context.Context, pair config.Pair, version string, out io.Writer) int {
	// Rebuild styles from the current ui theme (set by app.Run via InitTheme).
	initTUIStyles()

	model, err := NewModel(ctx, pair, version)
	if err != nil {
		return apperrors.HandleCalculationError(err, out, nil)
	}
	defer model.cancel()

	p := tea.NewProgram(model, tea.WithAltScreen())
	finalModel, err := p.Run()
	if err != nil {
		fmt.Fprintf(out, "Error: %v\n", err)
		return apperrors.ExitErrorGeneric
	}

	m, ok := finalModel.(Model)
	if !ok {
		return apperrors.ExitSuccess
	}
	if m.err != nil {
		apperrors.HandleCalculationError(m.err, out, nil)
	} else if m.Done() {
		fmt.Fprintln(out, cli.RenderTable(m.rows, true))
		fmt.Fprintln(out, cli.FormatSummary(m.stepper.Current()))
	}
	return m.exitCode
}

// watchContextCmd waits for context cancellation and sends a message.
func watchContextCmd(ctx context.Context) tea.Cmd {
	return func() tea.Msg {
		<-ctx.Done()
		return ContextCancelledMsg{Err: ctx.Err()}
	}
}
