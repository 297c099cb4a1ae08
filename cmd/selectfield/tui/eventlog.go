package tui

import (
	"fmt"
	"strings"
	"sync"

	"github.com/ruminaider/selectfield/internal/selectfield"
)

// eventLogCapacity bounds the number of retained entries.
const eventLogCapacity = 100

type entryKind int

const (
	entrySelected entryKind = iota
	entryRemoved
	entryChanged
)

type entry struct {
	kind entryKind
	text string
}

// EventLog records the notifications a surface publishes, newest last.
type EventLog struct {
	mu       sync.Mutex
	entries  []entry
	capacity int
	cancel   []func()
}

// NewEventLog subscribes to every event kind on surface.
func NewEventLog(surface *selectfield.Surface) *EventLog {
	l := &EventLog{capacity: eventLogCapacity}
	l.cancel = []func(){
		surface.Subscribe(selectfield.EventSelect, l.record),
		surface.Subscribe(selectfield.EventRemove, l.record),
		surface.Subscribe(selectfield.EventChange, l.record),
	}
	return l
}

func (l *EventLog) record(e selectfield.Event) {
	var next entry
	switch e := e.(type) {
	case selectfield.SelectEvent[string]:
		next = entry{entrySelected, fmt.Sprintf("+ %s (%s)", e.Item.DisplayText, e.Value)}
	case selectfield.RemoveEvent[string]:
		next = entry{entryRemoved, fmt.Sprintf("− %s (%s)", e.Item.DisplayText, e.Value)}
	case selectfield.ChangeEvent[string]:
		next = entry{entryChanged, fmt.Sprintf("= [%s]", strings.Join(e.Chosen, ", "))}
	default:
		return
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, next)
	if over := len(l.entries) - l.capacity; over > 0 {
		l.entries = append(l.entries[:0], l.entries[over:]...)
	}
}

// Lines returns the entry texts, oldest first.
func (l *EventLog) Lines() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	lines := make([]string, len(l.entries))
	for i, e := range l.entries {
		lines[i] = e.text
	}
	return lines
}

// Close unsubscribes from the surface. Recorded entries are kept.
func (l *EventLog) Close() {
	for _, cancel := range l.cancel {
		cancel()
	}
	l.cancel = nil
}

// View renders the newest entries that fit in height rows, including the
// section title.
func (l *EventLog) View(theme Theme, width, height int) string {
	if height < 1 {
		return ""
	}

	l.mu.Lock()
	entries := l.entries
	if room := height - 1; len(entries) > room {
		entries = entries[len(entries)-room:]
	}
	entries = append([]entry(nil), entries...)
	l.mu.Unlock()

	lines := []string{theme.Section.Render("Events")}
	if len(entries) == 0 && height > 1 {
		lines = append(lines, theme.Muted.Render("  nothing yet"))
	}
	for _, e := range entries {
		style := theme.Changed
		switch e.kind {
		case entrySelected:
			style = theme.Selected
		case entryRemoved:
			style = theme.Removed
		}
		lines = append(lines, style.Render(fit("  "+e.text, width)))
	}
	return strings.Join(lines, "\n")
}
