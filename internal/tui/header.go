package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
)

// HeaderModel renders the top bar: title, version, inputs and position.
type HeaderModel struct {
	version string
	a, b    int64
	width   int
}

// NewHeaderModel creates a new header for the pair a, b.
func NewHeaderModel(version string, a, b int64) HeaderModel {
	return HeaderModel{version: version, a: a, b: b}
}

// SetWidth updates the available width.
func (h *HeaderModel) SetWidth(w int) {
	h.width = w
}

// View renders the header for the row at index.
func (h HeaderModel) View(index int, done, failed bool) string {
	titleText := "Euclid Stepper"
	if h.version != "" && h.version != "dev" {
		titleText += " " + h.version
	}
	title := titleStyle.Render(titleText)
	pipe := dimStyle.Render(" | ")
	inputs := fmt.Sprintf("a=%d b=%d", h.a, h.b)

	var status string
	switch {
	case failed:
		status = statusErrorStyle.Render("FAILED")
	case done:
		status = statusDoneStyle.Render(fmt.Sprintf("DONE after %d row(s)", index+1))
	default:
		status = statusStepStyle.Render(fmt.Sprintf("row %d", index))
	}

	row := title + pipe + inputs + pipe + status
	if gap := h.width - 2 - lipgloss.Width(row); gap > 0 {
		row += spaces(gap)
	}
	return headerStyle.Render(row)
}

// spaces returns a string of n space characters.
func spaces(n int) string {
	if n <= 0 {
		return ""
	}
	b := make([]byte, n)
	for i := range b {
		b[i] = ' '
	}
	return string(b)
}
