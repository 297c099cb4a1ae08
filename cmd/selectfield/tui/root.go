package tui

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ruminaider/selectfield/internal/catalog"
	"github.com/ruminaider/selectfield/internal/selectfield"
)

// FieldSelector is the surface the host mounts its field on.
const FieldSelector = "#field"

// Loader reads a fresh catalog for the reload key.
type Loader func() ([]catalog.Item[string], error)

// Config holds what the host needs to build its model.
type Config struct {
	Items   []catalog.Item[string]
	Options selectfield.Options[string]
	Source  string // shown in the status bar, usually the catalog path
	Theme   Theme
	Keys    *KeyMap
	Loader  Loader
	Logger  *slog.Logger
}

// overlayContext tracks what the currently-active overlay was opened for.
type overlayContext int

const (
	overlayNone         overlayContext = iota
	overlayClearConfirm                // remove every chosen value
	overlayHelp                        // key help
)

// Model is the root bubbletea model hosting a single select field.
type Model struct {
	field  *selectfield.Field[string]
	events *EventLog
	loader Loader
	log    *slog.Logger

	theme     Theme
	keys      KeyMap
	statusBar StatusBar
	overlay   Overlay

	overlayCtx overlayContext
	flashSeq   int

	width, height int
	ready         bool // set after first WindowSizeMsg
	quitting      bool
	accepted      bool
}

// New mounts a field on a fresh page and builds the host around it.
func New(cfg Config) (Model, error) {
	if cfg.Theme.Name == "" {
		cfg.Theme, _ = ThemeFor(DefaultTheme)
	}
	keys := DefaultKeyMap
	if cfg.Keys != nil {
		keys = *cfg.Keys
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	opts := cfg.Options
	if opts.Styles == nil {
		styles := cfg.Theme.Field
		opts.Styles = &styles
	}
	if opts.Logger == nil {
		opts.Logger = logger
	}

	page := selectfield.NewPage()
	page.Add(FieldSelector)
	field, err := selectfield.Mount(page, FieldSelector, cfg.Items, opts)
	if err != nil {
		return Model{}, err
	}

	m := Model{
		field:     field,
		events:    NewEventLog(field.Surface()),
		loader:    cfg.Loader,
		log:       logger,
		theme:     cfg.Theme,
		keys:      keys,
		statusBar: NewStatusBar(cfg.Theme, keys),
	}
	m.statusBar.SetSource(cfg.Source)
	m.syncStatusBar()
	return m, nil
}

// Field returns the hosted field.
func (m Model) Field() *selectfield.Field[string] {
	return m.field
}

// Events returns the host's event log.
func (m Model) Events() *EventLog {
	return m.events
}

// Accepted reports whether the user left with the accept key.
func (m Model) Accepted() bool {
	return m.accepted
}

// Chosen returns the field's chosen values.
func (m Model) Chosen() []string {
	return m.field.Chosen()
}

// Init satisfies tea.Model.
func (m Model) Init() tea.Cmd {
	return m.field.Focus()
}

// Update satisfies tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.field.SetWidth(msg.Width)
		m.field.SetOrigin(0, 1) // below the header row
		m.statusBar.SetWidth(msg.Width)
		return m, nil

	case catalogLoadedMsg:
		if msg.err != nil {
			m.log.Warn("catalog reload failed", "error", msg.err)
			return m, nil
		}
		m.field.SetItems(msg.items)
		m.syncStatusBar()
		return m.flash(fmt.Sprintf("catalog reloaded (%d items)", len(msg.items)), slog.LevelInfo)

	case logRecordMsg:
		return m.flash(msg.summary, msg.level)

	case flashClearMsg:
		if msg.seq == m.flashSeq {
			m.statusBar.ClearFlash()
		}
		return m, nil
	}

	// When overlay is active, route input to the overlay. Field timers
	// still reach the field below.
	if m.overlay.Active() {
		switch msg.(type) {
		case tea.KeyMsg:
			return m.updateOverlay(msg)
		case tea.MouseMsg:
			return m, nil
		}
	}

	if msg, ok := msg.(tea.KeyMsg); ok {
		if model, cmd, handled := m.handleKey(msg); handled {
			return model, cmd
		}
	}

	cmd := m.field.Update(msg)
	m.syncStatusBar()
	return m, cmd
}

// handleKey runs the host's global bindings. Unhandled keys go to the
// field.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd, bool) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.Accept):
		m.quitting = true
		m.accepted = true
		return m, tea.Quit, true

	case key.Matches(msg, m.keys.ToggleFocus):
		if m.field.Focused() {
			return m, m.field.Blur(), true
		}
		if m.field.IsDisabled() {
			model, cmd := m.flash("field is disabled", slog.LevelInfo)
			return model, cmd, true
		}
		return m, m.field.Focus(), true

	case key.Matches(msg, m.keys.Blur):
		return m, m.field.Blur(), true

	case key.Matches(msg, m.keys.ClearAll):
		if len(m.field.Chosen()) == 0 {
			model, cmd := m.flash("nothing to clear", slog.LevelInfo)
			return model, cmd, true
		}
		m.overlay = NewConfirmOverlay(m.theme, "Clear",
			fmt.Sprintf("Remove all %d chosen items?", len(m.field.Chosen())))
		m.overlay.SetWidth(OverlayMaxWidth(m.width))
		m.overlayCtx = overlayClearConfirm
		return m, nil, true

	case key.Matches(msg, m.keys.ClearSearch):
		m.field.ClearSearch()
		return m, nil, true

	case key.Matches(msg, m.keys.Disable):
		m.field.SetDisabled(!m.field.IsDisabled())
		m.syncStatusBar()
		if m.field.IsDisabled() {
			model, cmd := m.flash("field disabled", slog.LevelInfo)
			return model, cmd, true
		}
		model, cmd := m.flash("field enabled", slog.LevelInfo)
		return model, cmd, true

	case key.Matches(msg, m.keys.Reload):
		if m.loader == nil {
			model, cmd := m.flash("no catalog source to reload", slog.LevelInfo)
			return model, cmd, true
		}
		return m, reloadCatalog(m.loader), true

	case key.Matches(msg, m.keys.Help):
		// ? is a search character while the input has focus.
		if msg.String() == "?" && m.field.Focused() {
			return m, nil, false
		}
		m.overlay = NewHelpOverlay(m.theme, "Keys", KeyHelp(m.keys))
		m.overlay.SetWidth(OverlayMaxWidth(m.width))
		m.overlayCtx = overlayHelp
		return m, nil, true
	}
	return m, nil, false
}

func reloadCatalog(load Loader) tea.Cmd {
	return func() tea.Msg {
		items, err := load()
		return catalogLoadedMsg{items: items, err: err}
	}
}

// View satisfies tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	if !m.ready {
		return "Loading..."
	}

	header := m.theme.Header.Render("selectfield")
	fieldView := m.field.View()
	statusView := m.statusBar.View()

	used := 1 + lineCount(fieldView) + 1 + lineCount(statusView)
	logView := m.events.View(m.theme, m.width, m.height-used)

	lines := []string{header}
	lines = append(lines, strings.Split(fieldView, "\n")...)
	lines = append(lines, "")
	if logView != "" {
		lines = append(lines, strings.Split(logView, "\n")...)
	}
	for len(lines) < m.height-lineCount(statusView) {
		lines = append(lines, "")
	}
	frame := strings.Join(lines, "\n") + "\n" + statusView

	if m.overlay.Active() {
		return Composite(frame, m.overlay.View(), m.width, m.height)
	}
	return frame
}

func lineCount(s string) int {
	if s == "" {
		return 0
	}
	return strings.Count(s, "\n") + 1
}

// --- Update helpers ---

func (m Model) updateOverlay(msg tea.Msg) (tea.Model, tea.Cmd) {
	wasActive := m.overlay.Active()
	var cmd tea.Cmd
	m.overlay, cmd = m.overlay.Update(msg)

	// When the overlay just closed, the cmd is an OverlayCloseMsg producer.
	// Handle it directly instead of sending through the event loop.
	if wasActive && !m.overlay.Active() && cmd != nil {
		if closeMsg := extractOverlayClose(cmd); closeMsg != nil {
			return m.handleOverlayClose(*closeMsg)
		}
	}
	return m, cmd
}

func (m Model) handleOverlayClose(msg OverlayCloseMsg) (tea.Model, tea.Cmd) {
	ctx := m.overlayCtx
	m.overlayCtx = overlayNone

	switch ctx {
	case overlayClearConfirm:
		if !msg.Confirmed {
			return m, nil
		}
		removed := len(m.field.Chosen())
		m.field.Clear()
		m.syncStatusBar()
		return m.flash(fmt.Sprintf("cleared %d items", removed), slog.LevelInfo)
	}
	return m, nil
}

// flash shows message in the status bar and schedules its removal.
func (m Model) flash(message string, level slog.Level) (tea.Model, tea.Cmd) {
	m.flashSeq++
	m.statusBar.Flash(message, level)
	seq := m.flashSeq
	return m, tea.Tick(flashDuration, func(time.Time) tea.Msg {
		return flashClearMsg{seq: seq}
	})
}

func (m *Model) syncStatusBar() {
	m.statusBar.Update(len(m.field.Chosen()), len(m.field.Items()), m.field.IsDisabled())
}

// extractOverlayClose runs cmd synchronously to get its close message.
func extractOverlayClose(cmd tea.Cmd) *OverlayCloseMsg {
	if cmd == nil {
		return nil
	}
	if msg, ok := cmd().(OverlayCloseMsg); ok {
		return &msg
	}
	return nil
}
