package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/agbru/euclid/internal/ui"
)

// Style variables for the stepper.
// Initialized from the ui theme system via initTUIStyles().
var (
	headerStyle      lipgloss.Style
	titleStyle       lipgloss.Style
	dimStyle         lipgloss.Style
	checkPassStyle   lipgloss.Style
	checkFailStyle   lipgloss.Style
	summaryStyle     lipgloss.Style
	statusDoneStyle  lipgloss.Style
	statusStepStyle  lipgloss.Style
	statusErrorStyle lipgloss.Style
)

func init() {
	initTUIStyles()
}

// initTUIStyles rebuilds all styles from the current ui theme.
// Called at package init and again from Run() after InitTheme has been invoked.
func initTUIStyles() {
	t := ui.GetCurrentTUITheme()

	headerStyle = lipgloss.NewStyle().
		Foreground(t.Text).
		Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(t.Accent)

	dimStyle = lipgloss.NewStyle().
		Foreground(t.Dim)

	checkPassStyle = lipgloss.NewStyle().
		Foreground(t.Success)

	checkFailStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)

	summaryStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true).
		Padding(0, 1)

	statusDoneStyle = lipgloss.NewStyle().
		Foreground(t.Success).
		Bold(true)

	statusStepStyle = lipgloss.NewStyle().
		Foreground(t.Accent).
		Bold(true)

	statusErrorStyle = lipgloss.NewStyle().
		Foreground(t.Error).
		Bold(true)
}
