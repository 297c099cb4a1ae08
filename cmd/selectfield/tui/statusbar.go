package tui

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/x/ansi"
)

// StatusBar renders the bottom row with the selection count, the catalog
// source and either a flash message or the short key help.
type StatusBar struct {
	chosen   int
	total    int
	disabled bool
	source   string
	flash    string
	warn     bool
	width    int
	theme    Theme
	keys     KeyMap
	help     help.Model
}

// NewStatusBar creates a status bar drawn with theme.
func NewStatusBar(theme Theme, keys KeyMap) StatusBar {
	h := help.New()
	h.ShortSeparator = " · "
	h.Styles.ShortKey = theme.StatusBarKey
	h.Styles.ShortDesc = theme.StatusBar.UnsetPadding()
	h.Styles.ShortSeparator = theme.StatusBar.UnsetPadding()
	return StatusBar{theme: theme, keys: keys, help: h}
}

// SetWidth sets the available width for rendering.
func (s *StatusBar) SetWidth(w int) {
	s.width = w
}

// SetSource sets the catalog path shown on the left.
func (s *StatusBar) SetSource(path string) {
	s.source = path
}

// Update refreshes the counts.
func (s *StatusBar) Update(chosen, total int, disabled bool) {
	s.chosen = chosen
	s.total = total
	s.disabled = disabled
}

// Flash shows message in place of the key help until ClearFlash.
// Warnings and errors are highlighted.
func (s *StatusBar) Flash(message string, level slog.Level) {
	s.flash = message
	s.warn = level >= slog.LevelWarn
}

// ClearFlash restores the key help.
func (s *StatusBar) ClearFlash() {
	s.flash = ""
	s.warn = false
}

// Flashing returns the message currently shown, if any.
func (s StatusBar) Flashing() string {
	return s.flash
}

// View renders the status bar.
func (s StatusBar) View() string {
	leftPart := fmt.Sprintf("%d/%d chosen", s.chosen, s.total)
	if s.disabled {
		leftPart += " · disabled"
	}
	if s.source != "" {
		leftPart += " · " + s.source
	}

	var rightPart string
	switch {
	case s.flash != "" && s.warn:
		rightPart = s.theme.StatusWarning.Render(s.flash)
	case s.flash != "":
		rightPart = s.flash
	default:
		rightPart = s.help.ShortHelpView(s.keys.ShortHelp())
	}

	availableWidth := s.width - 2 // account for StatusBar padding
	leftWidth := ansi.StringWidth(leftPart)
	if room := availableWidth - leftWidth - 1; room > 0 {
		rightPart = fit(rightPart, room)
	}
	gap := max(availableWidth-leftWidth-ansi.StringWidth(rightPart), 1)

	content := leftPart + strings.Repeat(" ", gap) + rightPart
	return s.theme.StatusBar.Width(max(s.width, 0)).Render(content)
}

// fit truncates line to width cells. Non-positive widths leave it as is.
func fit(line string, width int) string {
	if width <= 0 || ansi.StringWidth(line) <= width {
		return line
	}
	return ansi.Truncate(line, width, "…")
}
