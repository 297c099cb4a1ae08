package selectfield

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/ruminaider/selectfield/internal/schedule"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type harness struct {
	field *Field[string]
	clock *schedule.Manual
	logs  *bytes.Buffer
	seen  *recorder
}

func newHarness(t *testing.T, opts Options[string]) *harness {
	t.Helper()

	var logs bytes.Buffer
	clock := schedule.NewManual()
	opts.Scheduler = clock
	opts.Logger = slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	surface := NewSurface("tags")
	seen := record(surface)
	f, err := New(surface, greek(), opts)
	require.NoError(t, err)

	return &harness{field: f, clock: clock, logs: &logs, seen: seen}
}

func (h *harness) typeText(s string) {
	for _, r := range s {
		h.field.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
}

func (h *harness) enter() {
	h.field.Update(tea.KeyMsg{Type: tea.KeyEnter})
}

func (h *harness) press(x, y int) {
	h.field.Update(tea.MouseMsg{X: x, Y: y, Action: tea.MouseActionPress, Button: tea.MouseButtonLeft})
}

func (h *harness) advance(d time.Duration) {
	for _, msg := range h.clock.Advance(d) {
		h.field.Update(msg)
	}
}

type recorder struct {
	events []Event
}

func record(s *Surface) *recorder {
	r := &recorder{}
	for _, kind := range []EventKind{EventSelect, EventRemove, EventChange} {
		s.Subscribe(kind, func(e Event) { r.events = append(r.events, e) })
	}
	return r
}

func (r *recorder) kinds() []EventKind {
	out := make([]EventKind, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Kind())
	}
	return out
}

func TestNew_Errors(t *testing.T) {
	_, err := New[string](nil, greek(), Options[string]{})
	assert.ErrorIs(t, err, ErrNoSurface)

	surface := NewSurface("tags")
	_, err = New[string](surface, nil, Options[string]{})
	assert.ErrorIs(t, err, ErrNilCatalog)
	assert.Empty(t, surface.Content(), "nothing is mounted on error")
	assert.Empty(t, surface.Owner())
}

func TestNew_EmptyCatalog(t *testing.T) {
	surface := NewSurface("tags")
	f, err := New(surface, []Item[string]{}, Options[string]{Scheduler: schedule.NewManual()})
	require.NoError(t, err)

	f.Focus()
	assert.Contains(t, ansi.Strip(f.View()), "No results")
	assert.Empty(t, f.Candidates())
}

func TestMount(t *testing.T) {
	page := NewPage()
	surface := page.Add("tags")

	f, err := Mount(page, "#tags", greek(), Options[string]{Label: "Greek"})
	require.NoError(t, err)
	assert.Same(t, surface, f.Surface())
	assert.Equal(t, f.ID(), surface.Owner())
	assert.True(t, strings.HasPrefix(f.ID(), "select-field-"))
	assert.Contains(t, ansi.Strip(surface.Content()), "Greek")

	_, err = Mount(page, "#missing", greek(), Options[string]{})
	assert.ErrorIs(t, err, ErrSurfaceNotFound)

	_, err = Mount[string](nil, "#tags", greek(), Options[string]{})
	assert.ErrorIs(t, err, ErrSurfaceNotFound)
}

func TestField_InitialState(t *testing.T) {
	h := newHarness(t, Options[string]{})
	f := h.field

	assert.Empty(t, f.Chosen())
	assert.NotNil(t, f.Chosen())
	assert.Equal(t, greek(), f.Items())
	assert.False(t, f.MenuOpen())
	assert.False(t, f.Focused())
	assert.False(t, f.IsDisabled())
	assert.Contains(t, ansi.Strip(f.View()), "Select items")
	assert.Equal(t, f.View(), f.Surface().Content())
}

func TestField_FocusOpensMenu(t *testing.T) {
	h := newHarness(t, Options[string]{})
	h.field.Focus()

	assert.True(t, h.field.Focused())
	assert.True(t, h.field.MenuOpen())
	view := ansi.Strip(h.field.View())
	for _, text := range []string{"Alpha", "Beta", "Gamma"} {
		assert.Contains(t, view, text)
	}
}

func TestField_TypingFilters(t *testing.T) {
	h := newHarness(t, Options[string]{})
	h.field.Focus()
	h.typeText("BE")
	assert.Equal(t, "BE", h.field.Search())
	assert.True(t, h.field.MenuOpen())
	assert.Equal(t, []string{"b"}, values(h.field.Candidates()))

	view := ansi.Strip(h.field.View())
	assert.Contains(t, view, "Beta")
	assert.NotContains(t, view, "Gamma")
}

func TestField_TypingIgnoredWithoutFocus(t *testing.T) {
	h := newHarness(t, Options[string]{})
	h.typeText("be")
	assert.Empty(t, h.field.Search())
	assert.False(t, h.field.MenuOpen())
}

func TestField_EnterChoosesFirstCandidate(t *testing.T) {
	var details []Detail[string]
	h := newHarness(t, Options[string]{
		OnSelect: func(d Detail[string]) { details = append(details, d) },
	})
	h.field.Focus()
	h.typeText("a")
	h.enter()

	assert.Equal(t, []string{"a"}, h.field.Chosen())
	assert.Empty(t, h.field.Search())
	assert.False(t, h.field.MenuOpen())
	assert.Equal(t, []string{"b", "g"}, values(h.field.Candidates()))

	require.Len(t, details, 1)
	assert.Equal(t, "a", details[0].Value)
	assert.Equal(t, Item[string]{Value: "a", DisplayText: "Alpha"}, details[0].Item)
	assert.Equal(t, []string{"a"}, details[0].Chosen)

	assert.Equal(t, []EventKind{EventSelect, EventChange}, h.seen.kinds())
	sel := h.seen.events[0].(SelectEvent[string])
	assert.Equal(t, "a", sel.Value)
	change := h.seen.events[1].(ChangeEvent[string])
	assert.Equal(t, []string{"a"}, change.Chosen)

	assert.Contains(t, h.logs.String(), "item selected")
	assert.Contains(t, ansi.Strip(h.field.Surface().Content()), "Alpha ×")
}

func TestField_MenuReopensAfterChoice(t *testing.T) {
	h := newHarness(t, Options[string]{})
	h.field.Focus()
	h.enter()
	require.False(t, h.field.MenuOpen())

	h.advance(49 * time.Millisecond)
	assert.False(t, h.field.MenuOpen())

	h.advance(time.Millisecond)
	assert.True(t, h.field.MenuOpen())
	assert.True(t, h.field.Focused())
}

func TestField_EnterWithoutCandidates(t *testing.T) {
	h := newHarness(t, Options[string]{})
	h.field.Focus()
	h.typeText("zzz")
	h.enter()

	assert.Empty(t, h.field.Chosen())
	assert.Empty(t, h.seen.events)
	assert.Contains(t, ansi.Strip(h.field.View()), "No results")
	assert.Equal(t, 0, h.clock.Pending())
}

func TestField_ChoosingEverything(t *testing.T) {
	h := newHarness(t, Options[string]{})
	h.field.Focus()
	for range 3 {
		h.enter()
		h.advance(DefaultReopenDelay)
	}
	h.enter()

	assert.Equal(t, []string{"a", "b", "g"}, h.field.Chosen())
	assert.Empty(t, h.field.Candidates())
	assert.Contains(t, ansi.Strip(h.field.View()), "No results")
	assert.Len(t, h.seen.events, 6)
}

func TestField_BlurClosesMenuAfterDelay(t *testing.T) {
	h := newHarness(t, Options[string]{})
	h.field.Focus()
	h.field.Blur()
	assert.False(t, h.field.Focused())

	h.advance(149 * time.Millisecond)
	assert.True(t, h.field.MenuOpen())

	h.advance(time.Millisecond)
	assert.False(t, h.field.MenuOpen())
}

func TestField_RefocusKeepsMenuOpen(t *testing.T) {
	h := newHarness(t, Options[string]{})
	h.field.Focus()
	h.field.Blur()
	h.advance(100 * time.Millisecond)
	h.field.Focus()
	h.advance(100 * time.Millisecond)

	assert.True(t, h.field.MenuOpen())
	assert.True(t, h.field.Focused())
}

func TestField_BlurWhenIdleSchedulesNothing(t *testing.T) {
	h := newHarness(t, Options[string]{})
	assert.Nil(t, h.field.Blur())
	assert.Equal(t, 0, h.clock.Pending())
}

func TestField_TerminalFocusRestore(t *testing.T) {
	h := newHarness(t, Options[string]{})
	h.field.Focus()

	h.field.Update(tea.BlurMsg{})
	assert.False(t, h.field.Focused())
	h.advance(DefaultBlurDelay)
	assert.False(t, h.field.MenuOpen())

	h.field.Update(tea.FocusMsg{})
	assert.True(t, h.field.Focused())
	assert.True(t, h.field.MenuOpen())

	h.field.Blur()
	h.field.Update(tea.FocusMsg{})
	assert.False(t, h.field.Focused(), "only a terminal blur is restored")
}

func TestField_MousePresses(t *testing.T) {
	h := newHarness(t, Options[string]{})
	h.field.SetOrigin(2, 5)

	// rows: label, input, then candidates
	h.press(2+1, 5+1)
	require.True(t, h.field.MenuOpen())
	require.True(t, h.field.Focused())

	h.press(2+3, 5+3)
	assert.Equal(t, []string{"b"}, h.field.Chosen())
	h.advance(DefaultReopenDelay)

	// rows: label, chips, input
	h.press(2+1, 5+0)
	assert.Equal(t, []string{"b"}, h.field.Chosen(), "label is inert")

	h.press(2+6, 5+1)
	assert.Empty(t, h.field.Chosen())
	assert.True(t, h.field.Focused())
	assert.True(t, h.field.MenuOpen())

	assert.Equal(t, []EventKind{EventSelect, EventChange, EventRemove, EventChange}, h.seen.kinds())
	removed := h.seen.events[2].(RemoveEvent[string])
	assert.Equal(t, "b", removed.Value)
	assert.Equal(t, "Beta", removed.Item.DisplayText)
	assert.Empty(t, removed.Chosen)
}

func TestField_PressOutsideBlurs(t *testing.T) {
	h := newHarness(t, Options[string]{})
	h.field.SetOrigin(2, 5)
	h.field.Focus()

	h.press(0, 0)
	assert.False(t, h.field.Focused())
	h.advance(DefaultBlurDelay)
	assert.False(t, h.field.MenuOpen())
}

func TestField_IgnoresOtherMouseEvents(t *testing.T) {
	h := newHarness(t, Options[string]{})
	h.field.Update(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft})
	h.field.Update(tea.MouseMsg{X: 1, Y: 1, Action: tea.MouseActionPress, Button: tea.MouseButtonRight})
	assert.False(t, h.field.Focused())
}

func TestField_DisabledIsInert(t *testing.T) {
	h := newHarness(t, Options[string]{Disabled: true})
	f := h.field
	require.True(t, f.IsDisabled())

	assert.Nil(t, f.Focus())
	h.typeText("a")
	h.enter()
	h.press(1, 1)
	h.press(3, 2)

	assert.False(t, f.Focused())
	assert.False(t, f.MenuOpen())
	assert.Empty(t, f.Search())
	assert.Empty(t, f.Chosen())
	assert.Empty(t, h.seen.events)
}

func TestField_DisableClosesMenu(t *testing.T) {
	h := newHarness(t, Options[string]{})
	h.field.Focus()
	h.enter()

	h.field.Disable()
	assert.False(t, h.field.MenuOpen())
	assert.False(t, h.field.Focused())

	h.advance(DefaultReopenDelay)
	assert.False(t, h.field.MenuOpen(), "reopen is skipped while disabled")

	h.press(7, 1)
	assert.Equal(t, []string{"a"}, h.field.Chosen(), "chip removal ignored while disabled")

	h.field.SetDisabled(false)
	assert.False(t, h.field.IsDisabled())
	h.field.Focus()
	assert.True(t, h.field.MenuOpen())
}

func TestField_DisableEnableIdempotent(t *testing.T) {
	h := newHarness(t, Options[string]{})
	h.field.Focus()
	h.typeText("a")
	h.enter()
	h.advance(DefaultReopenDelay)

	h.field.Disable()
	once, onceView := h.field.State(), h.field.Surface().Content()
	events := len(h.seen.events)
	h.field.Disable()
	assert.Equal(t, once, h.field.State())
	assert.Equal(t, onceView, h.field.Surface().Content())
	assert.Len(t, h.seen.events, events)

	h.field.Enable()
	once, onceView = h.field.State(), h.field.Surface().Content()
	h.field.Enable()
	assert.Equal(t, once, h.field.State())
	assert.Equal(t, onceView, h.field.Surface().Content())
	assert.Len(t, h.seen.events, events)
	assert.False(t, h.field.IsDisabled())
}

func TestField_Clear(t *testing.T) {
	h := newHarness(t, Options[string]{})
	h.field.Focus()
	for range 3 {
		h.enter()
	}
	h.typeText("x")
	h.seen.events = nil

	var removed []string
	h.field.SetOnRemove(func(d Detail[string]) { removed = append(removed, d.Value) })
	h.field.Disable()
	h.field.Clear()

	assert.Empty(t, h.field.Chosen())
	assert.Empty(t, h.field.Search())
	assert.Equal(t, []string{"a", "b", "g"}, removed)
	assert.Equal(t, []EventKind{
		EventRemove, EventChange,
		EventRemove, EventChange,
		EventRemove, EventChange,
	}, h.seen.kinds())
	last := h.seen.events[5].(ChangeEvent[string])
	assert.Empty(t, last.Chosen)
}

func TestField_ClearSearch(t *testing.T) {
	h := newHarness(t, Options[string]{})
	h.field.Focus()
	h.typeText("gam")
	h.field.ClearSearch()

	assert.Empty(t, h.field.Search())
	assert.Len(t, h.field.Candidates(), 3)
}

func TestField_CallbackPanicIsContained(t *testing.T) {
	h := newHarness(t, Options[string]{
		OnSelect: func(Detail[string]) { panic("callback failed") },
	})
	h.field.Focus()

	assert.NotPanics(t, h.enter)
	assert.Equal(t, []string{"a"}, h.field.Chosen())
	assert.Equal(t, []EventKind{EventSelect, EventChange}, h.seen.kinds())
	assert.Contains(t, h.logs.String(), "callback panicked")
	assert.Contains(t, h.logs.String(), "callback failed")
}

func TestField_CallbackSeesCommittedState(t *testing.T) {
	h := newHarness(t, Options[string]{})
	var chosen []string
	var content string
	h.field.SetOnSelect(func(Detail[string]) {
		chosen = h.field.Chosen()
		content = h.field.Surface().Content()
	})
	h.field.Focus()
	h.enter()

	assert.Equal(t, []string{"a"}, chosen)
	assert.Contains(t, ansi.Strip(content), "Alpha ×")
}

func TestField_DetachCallbacks(t *testing.T) {
	called := false
	h := newHarness(t, Options[string]{
		OnSelect: func(Detail[string]) { called = true },
	})
	h.field.SetOnSelect(nil)
	h.field.Focus()
	h.enter()

	assert.False(t, called)
	assert.Len(t, h.seen.events, 2)
}

func TestField_SetItems(t *testing.T) {
	h := newHarness(t, Options[string]{})
	h.field.Focus()
	h.enter()
	h.enter()
	h.seen.events = nil

	h.field.SetItems(nil)
	assert.Equal(t, greek(), h.field.Items())
	assert.Contains(t, h.logs.String(), "ignoring nil catalog")

	h.field.SetItems(append(greek(), Item[string]{Value: "d", DisplayText: "Delta"}))
	assert.Empty(t, h.seen.events, "no change when the chosen values survive")

	h.field.SetItems([]Item[string]{{Value: "b", DisplayText: "Beta"}, {Value: "e", DisplayText: "Epsilon"}})
	assert.Equal(t, []string{"b"}, h.field.Chosen())
	require.Equal(t, []EventKind{EventChange}, h.seen.kinds())
	assert.Equal(t, []string{"b"}, h.seen.events[0].(ChangeEvent[string]).Chosen)
	assert.Equal(t, []string{"e"}, values(h.field.Candidates()))
}

func TestField_SetItemsSelectAll(t *testing.T) {
	h := newHarness(t, Options[string]{Reconcile: ReconcileSelectAll})
	h.field.SetItems([]Item[string]{{Value: "x", DisplayText: "X"}, {Value: "y", DisplayText: "Y"}})

	assert.Equal(t, []string{"x", "y"}, h.field.Chosen())
	assert.Equal(t, []EventKind{EventChange}, h.seen.kinds())
}

func TestField_Destroy(t *testing.T) {
	h := newHarness(t, Options[string]{})
	surface := h.field.Surface()
	h.field.Focus()
	h.enter()

	h.field.Destroy()
	assert.Empty(t, surface.Content())
	assert.Empty(t, h.field.View())
	assert.False(t, h.field.Focused())

	h.seen.events = nil
	h.advance(time.Second)
	assert.False(t, h.field.MenuOpen(), "pending reopen is dropped")

	assert.Nil(t, h.field.Focus())
	h.typeText("b")
	h.enter()
	h.field.Clear()
	h.field.SetItems([]Item[string]{})
	assert.Equal(t, []string{"a"}, h.field.Chosen())
	assert.Empty(t, h.seen.events)

	assert.NotPanics(t, h.field.Destroy)
}

func TestField_StaleTimersFromAnotherField(t *testing.T) {
	first := newHarness(t, Options[string]{})
	second := newHarness(t, Options[string]{})
	first.field.Focus()
	first.enter()

	for _, msg := range first.clock.Advance(DefaultReopenDelay) {
		second.field.Update(msg)
	}
	assert.False(t, second.field.MenuOpen())
	assert.False(t, second.field.Focused())
}

func TestField_RemountReplacesContent(t *testing.T) {
	surface := NewSurface("tags")
	old, err := New(surface, greek(), Options[string]{Label: "Old", Scheduler: schedule.NewManual()})
	require.NoError(t, err)
	fresh, err := New(surface, greek(), Options[string]{Label: "New", Scheduler: schedule.NewManual()})
	require.NoError(t, err)

	old.Focus()
	assert.Contains(t, ansi.Strip(surface.Content()), "New")
	assert.NotContains(t, ansi.Strip(surface.Content()), "Old")

	old.Destroy()
	assert.Equal(t, fresh.View(), surface.Content())
}

func TestField_ChosenIsACopy(t *testing.T) {
	h := newHarness(t, Options[string]{})
	h.field.Focus()
	h.enter()

	chosen := h.field.Chosen()
	chosen[0] = "zzz"
	assert.Equal(t, []string{"a"}, h.field.Chosen())
}

func TestDetailFor_StandIn(t *testing.T) {
	d := detailFor([]Item[int]{}, 7, []int{7})
	assert.Equal(t, Item[int]{Value: 7, DisplayText: "7"}, d.Item)
	assert.Equal(t, []int{7}, d.Chosen)
}
