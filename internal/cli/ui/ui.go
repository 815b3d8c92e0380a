// Package ui holds the CLI design system: styles, symbols, and
// terminal-aware helpers. All CLI visual output goes through these.
package ui

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
)

// Colors — ANSI 4-bit for maximum terminal compatibility.
var (
	ColorCyan   = lipgloss.Color("6")
	ColorGreen  = lipgloss.Color("2")
	ColorYellow = lipgloss.Color("3")
	ColorRed    = lipgloss.Color("1")
)

// Semantic styles.
var (
	StyleBold     = lipgloss.NewStyle().Bold(true)
	StyleDim      = lipgloss.NewStyle().Faint(true)
	StyleBoldCyan = lipgloss.NewStyle().Bold(true).Foreground(ColorCyan)
	StyleBoldRed  = lipgloss.NewStyle().Bold(true).Foreground(ColorRed)

	StyleSuccess = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleWarning = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleError   = lipgloss.NewStyle().Foreground(ColorRed)

	StyleCode = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleHint = lipgloss.NewStyle().Faint(true)
)

// Unicode status symbols.
const (
	SymbolCheck = "✓"
	SymbolCross = "✗"
	SymbolDot   = "●"
	SymbolArrow = "→"
)

// ColorEnabled returns whether stderr is a TTY that supports color.
// Respects NO_COLOR (https://no-color.org/).
func ColorEnabled() bool {
	if termenv.EnvNoColor() {
		return false
	}
	return isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())
}

// FormatError renders an error line for the terminal, followed by any
// fix suggestions.
func FormatError(msg string, suggestions ...string) string {
	out := StyleBoldRed.Render("Error:") + " " + msg + "\n"
	if len(suggestions) == 0 {
		return out
	}
	out += "\n" + StyleHint.Render("  Try:") + "\n"
	for _, s := range suggestions {
		out += "    " + StyleHint.Render(SymbolArrow) + " " + s + "\n"
	}
	return out
}
