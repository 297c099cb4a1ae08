package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
)

// OverlayType identifies the kind of modal overlay.
type OverlayType int

const (
	OverlayConfirm OverlayType = iota // Cancel/OK confirmation
	OverlayHelp                       // Read-only text, any dismiss key closes
)

// OverlayCloseMsg is produced when an overlay closes.
type OverlayCloseMsg struct {
	Type      OverlayType
	Confirmed bool
}

// Overlay renders a centered modal box on top of existing content.
type Overlay struct {
	overlayType OverlayType
	title       string
	body        string
	cursor      int // button index for Confirm: 0=Cancel, 1=OK
	width       int
	theme       Theme
	active      bool
}

// NewConfirmOverlay creates a confirmation dialog with Cancel/OK buttons.
// Cancel is preselected.
func NewConfirmOverlay(theme Theme, title, message string) Overlay {
	return Overlay{
		overlayType: OverlayConfirm,
		title:       title,
		body:        message,
		theme:       theme,
		active:      true,
	}
}

// NewHelpOverlay creates a dismissable text box.
func NewHelpOverlay(theme Theme, title, body string) Overlay {
	return Overlay{
		overlayType: OverlayHelp,
		title:       title,
		body:        strings.TrimRight(body, "\n"),
		theme:       theme,
		active:      true,
	}
}

// Active returns whether the overlay is currently shown.
func (o Overlay) Active() bool {
	return o.active
}

// SetWidth sets the box width. Zero sizes the box to its content.
func (o *Overlay) SetWidth(w int) {
	o.width = max(w, 0)
}

// Update handles key messages for the overlay.
func (o Overlay) Update(msg tea.Msg) (Overlay, tea.Cmd) {
	if !o.active {
		return o, nil
	}
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch o.overlayType {
	case OverlayConfirm:
		switch keyMsg.String() {
		case "esc", "n":
			return o.close(false)
		case "tab", "left", "right", "h", "l":
			o.cursor = 1 - o.cursor
		case "y":
			return o.close(true)
		case "enter":
			return o.close(o.cursor == 1)
		}
	case OverlayHelp:
		switch keyMsg.String() {
		case "esc", "enter", "q", "?", "f1":
			return o.close(false)
		}
	}
	return o, nil
}

func (o Overlay) close(confirmed bool) (Overlay, tea.Cmd) {
	o.active = false
	t := o.overlayType
	return o, func() tea.Msg {
		return OverlayCloseMsg{Type: t, Confirmed: confirmed}
	}
}

// View renders the overlay box. It does not composite over a background;
// that is the caller's responsibility using Composite().
func (o Overlay) View() string {
	if !o.active {
		return ""
	}

	var b strings.Builder
	b.WriteString(o.theme.OverlayTitle.Render(o.title))
	b.WriteString("\n\n")
	b.WriteString(o.body)
	if o.overlayType == OverlayConfirm {
		b.WriteString("\n\n")
		b.WriteString(o.renderButtons("Cancel", "OK"))
	}
	style := o.theme.Overlay
	if o.width > 0 {
		style = style.Width(o.width)
	}
	return style.Render(b.String())
}

// renderButtons draws two side-by-side buttons with the cursor on one.
func (o Overlay) renderButtons(cancel, ok string) string {
	active, inactive := o.theme.OverlayButtonActive, o.theme.OverlayButtonInactive
	if o.cursor == 0 {
		return active.Render(cancel) + "  " + inactive.Render(ok)
	}
	return inactive.Render(cancel) + "  " + active.Render(ok)
}

// Composite places the overlay box centered on top of the background string.
// Background cells covered by the box are replaced; the rest keep their
// styling.
func Composite(background string, overlay string, totalWidth, totalHeight int) string {
	if overlay == "" {
		return background
	}

	bgLines := strings.Split(background, "\n")
	for len(bgLines) < totalHeight {
		bgLines = append(bgLines, "")
	}

	overlayLines := strings.Split(overlay, "\n")
	overlayWidth := 0
	for _, line := range overlayLines {
		overlayWidth = max(overlayWidth, ansi.StringWidth(line))
	}

	startRow := max((totalHeight-len(overlayLines))/2, 0)
	startCol := max((totalWidth-overlayWidth)/2, 0)

	for i, overlayLine := range overlayLines {
		row := startRow + i
		if row >= len(bgLines) {
			break
		}

		bgLine := bgLines[row]
		bgWidth := ansi.StringWidth(bgLine)

		left := ansi.Truncate(bgLine, startCol, "")
		if pad := startCol - bgWidth; pad > 0 {
			left += strings.Repeat(" ", pad)
		}

		right := ""
		if end := startCol + ansi.StringWidth(overlayLine); end < bgWidth {
			right = ansi.TruncateLeft(bgLine, end, "")
		}

		bgLines[row] = left + overlayLine + right
	}

	return strings.Join(bgLines[:max(totalHeight, 0)], "\n")
}

// OverlayMaxWidth returns a reasonable maximum width for the overlay content.
func OverlayMaxWidth(termWidth int) int {
	return min(max(termWidth*2/3, 40), 72)
}
