package selectfield

import (
	"strings"

	"github.com/charmbracelet/x/ansi"
)

// sanitize makes caller-supplied text safe to place on the screen: escape
// sequences are stripped and line breaks folded so a value can never move
// the cursor or break the single-line layout of chips and rows.
func sanitize(s string) string {
	s = ansi.Strip(s)
	s = strings.Map(func(r rune) rune {
		switch r {
		case '\n', '\r', '\t', '\v', '\f':
			return ' '
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, s)
	return s
}
