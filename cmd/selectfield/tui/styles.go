package tui

import (
	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
	"github.com/ruminaider/selectfield/internal/selectfield"
)

// DefaultTheme is used when no theme is configured.
const DefaultTheme = "mocha"

var flavors = map[string]catppuccin.Flavor{
	"mocha":     catppuccin.Mocha,
	"macchiato": catppuccin.Macchiato,
	"frappe":    catppuccin.Frappe,
	"latte":     catppuccin.Latte,
}

// Theme holds every style the host renders with, derived from one
// Catppuccin flavor.
type Theme struct {
	Name  string
	Field selectfield.Styles

	Header  lipgloss.Style // title row above the field
	Section lipgloss.Style // event log title
	Muted   lipgloss.Style

	// Event log entries.
	Selected lipgloss.Style
	Removed  lipgloss.Style
	Changed  lipgloss.Style

	StatusBar     lipgloss.Style
	StatusBarKey  lipgloss.Style
	StatusWarning lipgloss.Style

	Overlay               lipgloss.Style
	OverlayTitle          lipgloss.Style
	OverlayButtonActive   lipgloss.Style
	OverlayButtonInactive lipgloss.Style
}

// ThemeFor returns the theme for a flavor name. Unknown names report false
// and yield the default theme.
func ThemeFor(name string) (Theme, bool) {
	flavor, ok := flavors[name]
	if !ok {
		return newTheme(DefaultTheme, catppuccin.Mocha), false
	}
	return newTheme(name, flavor), true
}

func newTheme(name string, flavor catppuccin.Flavor) Theme {
	var (
		colorBase     = lipgloss.Color(flavor.Base().Hex)
		colorMantle   = lipgloss.Color(flavor.Mantle().Hex)
		colorSurface0 = lipgloss.Color(flavor.Surface0().Hex)
		colorSurface1 = lipgloss.Color(flavor.Surface1().Hex)
		colorText     = lipgloss.Color(flavor.Text().Hex)
		colorSubtext0 = lipgloss.Color(flavor.Subtext0().Hex)
		colorOverlay0 = lipgloss.Color(flavor.Overlay0().Hex)
		colorBlue     = lipgloss.Color(flavor.Blue().Hex)
		colorGreen    = lipgloss.Color(flavor.Green().Hex)
		colorRed      = lipgloss.Color(flavor.Red().Hex)
		colorYellow   = lipgloss.Color(flavor.Yellow().Hex)
		colorPeach    = lipgloss.Color(flavor.Peach().Hex)
		colorMauve    = lipgloss.Color(flavor.Mauve().Hex)
	)

	return Theme{
		Name:  name,
		Field: selectfield.StylesFor(flavor),

		Header: lipgloss.NewStyle().
			Foreground(colorMauve).
			Bold(true),
		Section: lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true),
		Muted: lipgloss.NewStyle().
			Foreground(colorOverlay0),

		Selected: lipgloss.NewStyle().
			Foreground(colorGreen),
		Removed: lipgloss.NewStyle().
			Foreground(colorRed),
		Changed: lipgloss.NewStyle().
			Foreground(colorSubtext0),

		StatusBar: lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorSurface0).
			Padding(0, 1),
		StatusBarKey: lipgloss.NewStyle().
			Foreground(colorYellow).
			Background(colorSurface0).
			Bold(true),
		StatusWarning: lipgloss.NewStyle().
			Foreground(colorPeach).
			Background(colorSurface0).
			Bold(true),

		Overlay: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBlue).
			Background(colorMantle).
			Foreground(colorText).
			Padding(1, 2),
		OverlayTitle: lipgloss.NewStyle().
			Foreground(colorBlue).
			Bold(true),
		OverlayButtonActive: lipgloss.NewStyle().
			Foreground(colorBase).
			Background(colorBlue).
			Padding(0, 2),
		OverlayButtonInactive: lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorSurface1).
			Padding(0, 2),
	}
}
