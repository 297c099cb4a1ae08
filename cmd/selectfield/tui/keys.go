package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines the host's key bindings. Keys that are not bound here go
// to the field.
type KeyMap struct {
	Accept      key.Binding
	Quit        key.Binding
	ToggleFocus key.Binding
	Blur        key.Binding
	Choose      key.Binding // Handled by the field itself.
	ClearAll    key.Binding
	ClearSearch key.Binding
	Disable     key.Binding
	Reload      key.Binding
	Help        key.Binding
}

// DefaultKeyMap is the built-in key binding set.
var DefaultKeyMap = KeyMap{
	Accept: key.NewBinding(
		key.WithKeys("ctrl+s"),
		key.WithHelp("C-s", "accept"),
	),
	Quit: key.NewBinding(
		key.WithKeys("ctrl+c"),
		key.WithHelp("C-c", "quit"),
	),
	ToggleFocus: key.NewBinding(
		key.WithKeys("tab"),
		key.WithHelp("tab", "focus/blur"),
	),
	Blur: key.NewBinding(
		key.WithKeys("esc"),
		key.WithHelp("esc", "blur"),
	),
	Choose: key.NewBinding(
		key.WithKeys("enter"),
		key.WithHelp("enter", "choose first match"),
	),
	ClearAll: key.NewBinding(
		key.WithKeys("ctrl+l"),
		key.WithHelp("C-l", "clear all"),
	),
	ClearSearch: key.NewBinding(
		key.WithKeys("ctrl+u"),
		key.WithHelp("C-u", "clear search"),
	),
	Disable: key.NewBinding(
		key.WithKeys("ctrl+d"),
		key.WithHelp("C-d", "enable/disable"),
	),
	Reload: key.NewBinding(
		key.WithKeys("ctrl+r"),
		key.WithHelp("C-r", "reload catalog"),
	),
	Help: key.NewBinding(
		key.WithKeys("f1", "?"),
		key.WithHelp("F1/?", "help"),
	),
}

// ShortHelp satisfies help.KeyMap.
func (k KeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Accept, k.ToggleFocus, k.ClearAll, k.Help}
}

// FullHelp satisfies help.KeyMap.
func (k KeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.ToggleFocus, k.Blur, k.Choose, k.ClearSearch},
		{k.ClearAll, k.Disable, k.Reload},
		{k.Accept, k.Quit, k.Help},
	}
}

// KeyHelp renders every binding as plain text, one per line, followed by
// the mouse controls.
func KeyHelp(k KeyMap) string {
	var b strings.Builder
	b.WriteString("Keys\n")
	for _, group := range k.FullHelp() {
		for _, binding := range group {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-8s %s\n", h.Key, h.Desc)
		}
	}
	b.WriteString("\nMouse\n")
	b.WriteString("  click input       focus and open the menu\n")
	b.WriteString("  click candidate   choose it\n")
	b.WriteString("  click ×           remove the chip\n")
	b.WriteString("  click elsewhere   blur\n")
	b.WriteString("\nTyping filters the menu. Help opens with ? only while the input is blurred.\n")
	return b.String()
}
