package output

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette. Never use inline lipgloss.Color literals elsewhere.
var (
	// ColorCyan is used for ref names.
	ColorCyan = lipgloss.Color("14")

	// ColorBlue is used for table headers.
	ColorBlue = lipgloss.Color("12")

	// ColorDimGray is used for borders and other structural chrome.
	ColorDimGray = lipgloss.Color("240")
)

// Semantic styles.
var (
	// StyleNoun styles ref names.
	StyleNoun = lipgloss.NewStyle().Foreground(ColorCyan)

	// StyleLabel styles field labels such as "Title:".
	StyleLabel = lipgloss.NewStyle().Bold(true)

	// StyleDim styles sizes and other secondary values.
	StyleDim = lipgloss.NewStyle().Faint(true)

	// StyleHeader styles table header cells.
	StyleHeader = lipgloss.NewStyle().Bold(true).Foreground(ColorBlue)
)

// styler applies styles only when color output is enabled.
type styler struct {
	enabled bool
}

func (s styler) render(style lipgloss.Style, text string) string {
	if !s.enabled {
		return text
	}
	return style.Render(text)
}
