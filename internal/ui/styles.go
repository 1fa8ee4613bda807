package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

var (
	ColorGreen  = lipgloss.Color("#00FF00")
	ColorYellow = lipgloss.Color("#FFFF00")
	ColorRed    = lipgloss.Color("#FF0000")
	ColorCyan   = lipgloss.Color("#00FFFF")
	ColorGray   = lipgloss.Color("8")
)

var (
	PassStyle   = lipgloss.NewStyle().Foreground(ColorGreen).Bold(true)
	FailStyle   = lipgloss.NewStyle().Foreground(ColorRed).Bold(true)
	ShaStyle    = lipgloss.NewStyle().Foreground(ColorCyan)
	DetailStyle = lipgloss.NewStyle().Foreground(ColorGray)
)

// Colored reports whether the terminal supports styled output
func Colored() bool {
	return termenv.EnvColorProfile() != termenv.Ascii
}

// styled applies a style only when the terminal supports it
func styled(style lipgloss.Style, s string) string {
	if !Colored() {
		return s
	}
	return style.Render(s)
}
