package selectfield

import (
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"slices"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
)

var (
	// ErrNoSurface is returned by New when no surface is given.
	ErrNoSurface = errors.New("selectfield: no surface to mount on")

	// ErrNilCatalog is returned by New when the item slice is nil.
	ErrNilCatalog = errors.New("selectfield: items must be a slice")

	// ErrSurfaceNotFound is returned by Mount when the selector does not
	// resolve on the page.
	ErrSurfaceNotFound = errors.New("selectfield: surface not found")
)

const (
	inputPrompt = "/ "

	// minInputWidth applies when the field has no width of its own.
	minInputWidth = 20
)

// reopenMsg reopens the menu after a choice.
type reopenMsg struct {
	field string
	epoch uint64
}

// closeMsg closes the menu after a blur.
type closeMsg struct {
	field string
	epoch uint64
}

// Field is a multi-select combobox mounted on a Surface.
type Field[V comparable] struct {
	id      string
	surface *Surface
	opts    Options[V]
	log     *slog.Logger

	state   State[V]
	input   textinput.Model
	focused bool
	restore bool

	// epoch invalidates scheduled messages once the field is destroyed.
	epoch     uint64
	destroyed bool

	width   int
	originX int
	originY int
	layout  layout
}

// Mount resolves selector on page and mounts a new field there.
func Mount[V comparable](page *Page, selector string, items []Item[V], opts Options[V]) (*Field[V], error) {
	if page == nil {
		return nil, fmt.Errorf("mount %q: %w", selector, ErrSurfaceNotFound)
	}
	surface, ok := page.Lookup(selector)
	if !ok {
		return nil, fmt.Errorf("mount %q: %w", selector, ErrSurfaceNotFound)
	}
	return New(surface, items, opts)
}

// New mounts a field on surface, replacing whatever was rendered there.
// Nothing is mounted when an error is returned.
func New[V comparable](surface *Surface, items []Item[V], opts Options[V]) (*Field[V], error) {
	if surface == nil {
		return nil, ErrNoSurface
	}
	if items == nil {
		return nil, fmt.Errorf("mount %q: %w", surface.ID(), ErrNilCatalog)
	}

	opts = opts.withDefaults()
	id := "select-field-" + uuid.NewString()

	ti := textinput.New()
	ti.Prompt = inputPrompt
	ti.PromptStyle = opts.Styles.Prompt
	ti.Placeholder = sanitize(opts.Placeholder)
	ti.PlaceholderStyle = opts.Styles.Empty
	ti.Width = inputWidth(0, ti.Placeholder)

	f := &Field[V]{
		id:      id,
		surface: surface,
		opts:    opts,
		log:     opts.Logger.With("field", id, "surface", surface.ID()),
		state: State[V]{
			Catalog:  slices.Clone(items),
			Chosen:   []V{},
			Disabled: opts.Disabled,
		},
		input: ti,
	}

	surface.SetLogger(opts.Logger)
	f.layout = f.project()
	surface.mount(id, f.layout.String())
	return f, nil
}

// ID returns the field instance identifier.
func (f *Field[V]) ID() string { return f.id }

// Surface returns the surface the field is mounted on.
func (f *Field[V]) Surface() *Surface { return f.surface }

// State returns a copy of the current state.
func (f *Field[V]) State() State[V] { return f.state.clone() }

// Chosen returns a copy of the chosen values in choice order.
func (f *Field[V]) Chosen() []V { return slices.Clone(f.state.Chosen) }

// Items returns a copy of the catalog.
func (f *Field[V]) Items() []Item[V] { return slices.Clone(f.state.Catalog) }

// Candidates returns the items the menu currently offers.
func (f *Field[V]) Candidates() []Item[V] { return f.state.Candidates() }

// Search returns the current search text.
func (f *Field[V]) Search() string { return f.state.Search }

// MenuOpen reports whether the candidate menu is shown.
func (f *Field[V]) MenuOpen() bool { return f.state.MenuOpen }

// Focused reports whether the search input has focus.
func (f *Field[V]) Focused() bool { return f.focused }

// IsDisabled reports whether the field ignores user input.
func (f *Field[V]) IsDisabled() bool { return f.state.Disabled }

// SetWidth sets the width the field renders into. Zero means unbounded.
func (f *Field[V]) SetWidth(w int) {
	f.width = max(w, 0)
	f.input.Width = inputWidth(f.width, f.input.Placeholder)
	f.render()
}

// inputWidth is the width of the text area next to the prompt, leaving a
// cell for the cursor.
func inputWidth(total int, placeholder string) int {
	if total <= 0 {
		return max(lipgloss.Width(placeholder)+1, minInputWidth)
	}
	return max(total-lipgloss.Width(inputPrompt)-1, 1)
}

// SetOrigin sets the screen cell of the field's top-left corner, used to
// translate mouse coordinates.
func (f *Field[V]) SetOrigin(x, y int) {
	f.originX, f.originY = x, y
}

// SetOnSelect replaces the select callback. nil detaches it.
func (f *Field[V]) SetOnSelect(fn func(Detail[V])) {
	f.opts.OnSelect = fn
}

// SetOnRemove replaces the remove callback. nil detaches it.
func (f *Field[V]) SetOnRemove(fn func(Detail[V])) {
	f.opts.OnRemove = fn
}

// SetItems replaces the catalog and reconciles the chosen values with the
// configured policy. A change notification follows when the chosen values
// differ afterwards. A nil slice is ignored.
func (f *Field[V]) SetItems(items []Item[V]) {
	if f.destroyed {
		return
	}
	if items == nil {
		f.log.Debug("ignoring nil catalog")
		return
	}

	next, changed := f.state.ReplaceCatalog(items, f.opts.Reconcile)
	f.state = next
	f.render()
	f.log.Debug("catalog replaced",
		"items", len(items),
		"chosen", len(f.state.Chosen),
		"policy", f.opts.Reconcile.String())
	if changed {
		f.surface.publish(ChangeEvent[V]{Chosen: slices.Clone(f.state.Chosen)})
	}
}

// Clear removes every chosen value in choice order, notifying each
// removal, then clears the search text. It works on a disabled field.
func (f *Field[V]) Clear() {
	if f.destroyed {
		return
	}
	for _, v := range slices.Clone(f.state.Chosen) {
		next, ok := f.state.without(v)
		if !ok {
			continue
		}
		f.state = next
		f.render()
		f.notify(EventRemove, detailFor(f.state.Catalog, v, f.state.Chosen))
	}
	f.ClearSearch()
}

// ClearSearch empties the search text and the input.
func (f *Field[V]) ClearSearch() {
	if f.destroyed {
		return
	}
	f.state = f.state.ClearSearch()
	f.input.SetValue("")
	f.render()
}

// Disable closes the menu, blurs the input and makes the field ignore user
// input until Enable is called.
func (f *Field[V]) Disable() {
	if f.destroyed {
		return
	}
	f.state = f.state.Disable()
	f.input.Blur()
	f.focused = false
	f.restore = false
	f.render()
}

// Enable makes the field accept user input again.
func (f *Field[V]) Enable() {
	if f.destroyed {
		return
	}
	f.state = f.state.Enable()
	f.render()
}

// SetDisabled calls Disable or Enable.
func (f *Field[V]) SetDisabled(disabled bool) {
	if disabled {
		f.Disable()
		return
	}
	f.Enable()
}

// Focus focuses the search input and opens the menu. It does nothing on a
// disabled field.
func (f *Field[V]) Focus() tea.Cmd {
	if f.destroyed || f.state.Disabled {
		return nil
	}
	f.focused = true
	cmd := f.input.Focus()
	f.state = f.state.Open()
	f.render()
	return cmd
}

// Blur releases input focus. The menu closes after the blur delay unless
// the field is focused again before then.
func (f *Field[V]) Blur() tea.Cmd {
	if f.destroyed || (!f.focused && !f.state.MenuOpen) {
		return nil
	}
	f.focused = false
	f.input.Blur()
	f.render()
	return f.opts.Scheduler.After(f.opts.BlurDelay, closeMsg{field: f.id, epoch: f.epoch})
}

// Destroy unmounts the field. Pending timers are dropped and every later
// call is a no-op.
func (f *Field[V]) Destroy() {
	if f.destroyed {
		return
	}
	f.destroyed = true
	f.epoch++
	f.focused = false
	f.restore = false
	f.input.Blur()
	f.layout = layout{}
	f.surface.release(f.id)
	f.log.Debug("field destroyed")
}

// Update handles keys, mouse presses, terminal focus changes and the
// field's own timers. The field keeps its identity across updates, so
// callbacks and surface listeners observe the state Update committed.
func (f *Field[V]) Update(msg tea.Msg) tea.Cmd {
	if f.destroyed {
		return nil
	}

	switch msg := msg.(type) {
	case reopenMsg:
		if msg.field != f.id || msg.epoch != f.epoch || f.state.Disabled {
			return nil
		}
		return f.Focus()

	case closeMsg:
		if msg.field != f.id || msg.epoch != f.epoch || f.focused {
			return nil
		}
		f.state = f.state.Close()
		f.render()
		return nil

	case tea.BlurMsg:
		wasFocused := f.focused
		cmd := f.Blur()
		f.restore = wasFocused
		return cmd

	case tea.FocusMsg:
		if !f.restore {
			return nil
		}
		f.restore = false
		return f.Focus()

	case tea.KeyMsg:
		if !f.focused || f.state.Disabled {
			return nil
		}
		if msg.Type == tea.KeyEnter {
			candidates := f.state.Candidates()
			if len(candidates) == 0 {
				return nil
			}
			return f.chooseItem(candidates[0].Value)
		}
		var cmd tea.Cmd
		f.input, cmd = f.input.Update(msg)
		if value := f.input.Value(); value != f.state.Search {
			f.state = f.state.WithSearch(value)
		}
		f.render()
		return cmd

	case tea.MouseMsg:
		if msg.Action != tea.MouseActionPress || msg.Button != tea.MouseButtonLeft {
			return nil
		}
		return f.press(msg.X-f.originX, msg.Y-f.originY)
	}

	var cmd tea.Cmd
	f.input, cmd = f.input.Update(msg)
	f.render()
	return cmd
}

// View renders the field.
func (f *Field[V]) View() string {
	if f.destroyed {
		return ""
	}
	return f.layout.String()
}

// press handles a left mouse press at x, y relative to the field.
func (f *Field[V]) press(x, y int) tea.Cmd {
	if f.state.Disabled {
		return nil
	}

	r, ok := f.layout.hit(x, y)
	if !ok {
		if f.inside(x, y) {
			return nil
		}
		return f.Blur()
	}

	switch r.kind {
	case regionInput:
		return f.Focus()
	case regionCandidate:
		candidates := f.state.Candidates()
		if r.index >= len(candidates) {
			return nil
		}
		return f.chooseItem(candidates[r.index].Value)
	case regionRemove:
		if r.index >= len(f.state.Chosen) {
			return nil
		}
		return f.removeItem(f.state.Chosen[r.index])
	}
	return nil
}

func (f *Field[V]) inside(x, y int) bool {
	w := f.width
	if w == 0 {
		w = f.layout.width()
	}
	return y >= 0 && y < len(f.layout.lines) && x >= 0 && x < w
}

// chooseItem appends v to the chosen values, notifies, and schedules the
// menu to reopen.
func (f *Field[V]) chooseItem(v V) tea.Cmd {
	next, ok := f.state.Choose(v)
	if !ok {
		return nil
	}
	f.state = next
	f.input.SetValue("")
	f.render()

	detail := detailFor(f.state.Catalog, v, f.state.Chosen)
	f.log.Info("item selected", "value", v, "text", detail.Item.DisplayText)
	f.notify(EventSelect, detail)

	return f.opts.Scheduler.After(f.opts.ReopenDelay, reopenMsg{field: f.id, epoch: f.epoch})
}

// removeItem drops v from the chosen values, notifies, and refocuses the
// input.
func (f *Field[V]) removeItem(v V) tea.Cmd {
	next, ok := f.state.Remove(v)
	if !ok {
		return nil
	}
	f.state = next
	f.render()

	f.log.Info("item removed", "value", v)
	f.notify(EventRemove, detailFor(f.state.Catalog, v, f.state.Chosen))

	if f.destroyed {
		return nil
	}
	return f.Focus()
}

// notify runs the callback for kind, then publishes the event and the
// change that follows it on the surface.
func (f *Field[V]) notify(kind EventKind, detail Detail[V]) {
	var (
		callback func(Detail[V])
		event    Event
	)
	switch kind {
	case EventSelect:
		callback = f.opts.OnSelect
		event = SelectEvent[V]{Detail: withChosen(detail)}
	case EventRemove:
		callback = f.opts.OnRemove
		event = RemoveEvent[V]{Detail: withChosen(detail)}
	default:
		return
	}

	if callback != nil {
		f.call(kind, callback, detail)
	}
	f.surface.publish(event)
	f.surface.publish(ChangeEvent[V]{Chosen: slices.Clone(detail.Chosen)})
}

func (f *Field[V]) call(kind EventKind, callback func(Detail[V]), detail Detail[V]) {
	defer func() {
		if r := recover(); r != nil {
			f.log.Error("callback panicked",
				"event", string(kind),
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()
	callback(detail)
}

// withChosen copies the chosen snapshot so listeners cannot share it.
func withChosen[V comparable](d Detail[V]) Detail[V] {
	d.Chosen = slices.Clone(d.Chosen)
	return d
}

func (f *Field[V]) project() layout {
	return renderLayout(f.state, view{
		label:      f.opts.Label,
		input:      f.input.View(),
		width:      f.width,
		menuHeight: f.opts.MenuHeight,
		styles:     *f.opts.Styles,
	})
}

// render recomputes the layout and mirrors it onto the surface.
func (f *Field[V]) render() {
	if f.destroyed {
		return
	}
	f.layout = f.project()
	f.surface.replace(f.id, f.layout.String())
}
