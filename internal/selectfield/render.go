package selectfield

import (
	"fmt"
	"strconv"
	"strings"

	catppuccin "github.com/catppuccin/go"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/ruminaider/selectfield/internal/catalog"
)

const (
	noResultsText = "No results"
	removeGlyph   = "×"
	cursorGlyph   = "›"
)

// Styles holds the lipgloss styles a Field renders with.
type Styles struct {
	Label      lipgloss.Style
	Chip       lipgloss.Style
	ChipRemove lipgloss.Style
	Prompt     lipgloss.Style
	Candidate  lipgloss.Style
	Match      lipgloss.Style
	Cursor     lipgloss.Style
	Empty      lipgloss.Style
	More       lipgloss.Style
	Disabled   lipgloss.Style
}

// DefaultStyles returns the Catppuccin Mocha styles.
func DefaultStyles() Styles {
	return StylesFor(catppuccin.Mocha)
}

// StylesFor builds styles from a Catppuccin flavor.
func StylesFor(flavor catppuccin.Flavor) Styles {
	var (
		text     = lipgloss.Color(flavor.Text().Hex)
		surface0 = lipgloss.Color(flavor.Surface0().Hex)
		overlay0 = lipgloss.Color(flavor.Overlay0().Hex)
		mauve    = lipgloss.Color(flavor.Mauve().Hex)
		blue     = lipgloss.Color(flavor.Blue().Hex)
		red      = lipgloss.Color(flavor.Red().Hex)
		yellow   = lipgloss.Color(flavor.Yellow().Hex)
	)
	return Styles{
		Label: lipgloss.NewStyle().
			Foreground(mauve).
			Bold(true),
		Chip: lipgloss.NewStyle().
			Foreground(text).
			Background(surface0).
			PaddingLeft(1),
		ChipRemove: lipgloss.NewStyle().
			Foreground(red).
			Background(surface0).
			PaddingRight(1),
		Prompt: lipgloss.NewStyle().
			Foreground(blue),
		Candidate: lipgloss.NewStyle().
			Foreground(text),
		Match: lipgloss.NewStyle().
			Foreground(yellow).
			Bold(true),
		Cursor: lipgloss.NewStyle().
			Foreground(blue).
			Bold(true),
		Empty: lipgloss.NewStyle().
			Foreground(overlay0).
			Italic(true),
		More: lipgloss.NewStyle().
			Foreground(overlay0),
		Disabled: lipgloss.NewStyle().
			Foreground(overlay0),
	}
}

// dimmed recolors every part with the Disabled foreground, keeping the
// spacing of the enabled styles.
func (s Styles) dimmed() Styles {
	fg := s.Disabled.GetForeground()
	dim := func(st lipgloss.Style) lipgloss.Style {
		return st.Foreground(fg).UnsetBackground().UnsetBold()
	}
	return Styles{
		Label:      dim(s.Label),
		Chip:       dim(s.Chip),
		ChipRemove: dim(s.ChipRemove),
		Prompt:     dim(s.Prompt),
		Candidate:  dim(s.Candidate),
		Match:      dim(s.Match),
		Cursor:     dim(s.Cursor),
		Empty:      dim(s.Empty),
		More:       dim(s.More),
		Disabled:   s.Disabled,
	}
}

type regionKind int

const (
	regionInput regionKind = iota
	regionCandidate
	regionRemove
)

// region is a clickable span of one rendered line. Columns are cells,
// end exclusive. index points into the candidates or the chosen values.
type region struct {
	kind  regionKind
	row   int
	start int
	end   int
	index int
}

func (r region) contains(x, y int) bool {
	return y == r.row && x >= r.start && x < r.end
}

// layout is the rendered field: its lines and their clickable regions.
type layout struct {
	lines   []string
	regions []region
}

func (l layout) String() string {
	return strings.Join(l.lines, "\n")
}

// width is the widest line in cells.
func (l layout) width() int {
	w := 0
	for _, line := range l.lines {
		w = max(w, ansi.StringWidth(line))
	}
	return w
}

// hit returns the region under the cell at x, y.
func (l layout) hit(x, y int) (region, bool) {
	for _, r := range l.regions {
		if r.contains(x, y) {
			return r, true
		}
	}
	return region{}, false
}

// view carries everything renderLayout needs besides the state.
type view struct {
	label      string
	input      string
	width      int
	menuHeight int
	styles     Styles
}

// renderLayout projects st onto lines: the label, the chips (wrapped to
// width), the input and, while the menu is open, the candidate rows.
// It has no side effects.
func renderLayout[V comparable](st State[V], v view) layout {
	styles := v.styles
	if st.Disabled {
		styles = styles.dimmed()
	}

	var l layout
	l.lines = append(l.lines, fit(styles.Label.Render(sanitize(v.label)), v.width))

	renderChips(&l, st, styles, v.width)

	row := len(l.lines)
	input := fit(v.input, v.width)
	l.lines = append(l.lines, input)
	l.regions = append(l.regions, region{
		kind:  regionInput,
		row:   row,
		end:   max(v.width, ansi.StringWidth(input)),
		index: -1,
	})

	if st.MenuOpen && !st.Disabled {
		renderMenu(&l, st, styles, v)
	}
	return l
}

// renderChips lays the chosen values out as chips, starting a new line
// whenever the next chip would overflow width.
func renderChips[V comparable](l *layout, st State[V], styles Styles, width int) {
	if len(st.Chosen) == 0 {
		return
	}

	var (
		line strings.Builder
		x    int
		row  = len(l.lines)
	)
	for i, value := range st.Chosen {
		label := styles.Chip.Render(chipText(st.Catalog, value) + " ")
		remove := styles.ChipRemove.Render(removeGlyph)
		labelW, removeW := ansi.StringWidth(label), ansi.StringWidth(remove)

		if x > 0 && width > 0 && x+labelW+removeW > width {
			l.lines = append(l.lines, fit(line.String(), width))
			line.Reset()
			x = 0
			row++
		}
		// Wider than the field: cut the label, never the remove control.
		if width > 0 && labelW+removeW > width {
			label = ansi.Truncate(label, max(width-removeW, 0), "…")
			labelW = ansi.StringWidth(label)
		}

		line.WriteString(label)
		line.WriteString(remove)
		l.regions = append(l.regions, region{
			kind:  regionRemove,
			row:   row,
			start: x + labelW,
			end:   x + labelW + removeW,
			index: i,
		})
		x += labelW + removeW
	}
	l.lines = append(l.lines, fit(line.String(), width))
}

// renderMenu appends the candidate rows, or the placeholder row when no
// candidate matches. Rows past menuHeight are summarized on one line.
func renderMenu[V comparable](l *layout, st State[V], styles Styles, v view) {
	candidates := st.Candidates()
	if len(candidates) == 0 {
		l.lines = append(l.lines, fit("  "+styles.Empty.Render(noResultsText), v.width))
		return
	}

	shown := candidates
	if v.menuHeight > 0 && len(shown) > v.menuHeight {
		shown = shown[:v.menuHeight]
	}
	for i, it := range shown {
		marker := "  "
		if i == 0 {
			marker = styles.Cursor.Render(cursorGlyph) + " "
		}
		line := fit(marker+highlight(sanitize(it.DisplayText), st.Search, styles), v.width)
		l.regions = append(l.regions, region{
			kind:  regionCandidate,
			row:   len(l.lines),
			end:   max(v.width, ansi.StringWidth(line)),
			index: i,
		})
		l.lines = append(l.lines, line)
	}
	if hidden := len(candidates) - len(shown); hidden > 0 {
		l.lines = append(l.lines, fit("  "+styles.More.Render("↓ "+strconv.Itoa(hidden)+" more"), v.width))
	}
}

// highlight renders text with the part matching query emphasized.
func highlight(text, query string, styles Styles) string {
	start, end, ok := matchSpan(text, query, nil)
	if !ok {
		return styles.Candidate.Render(text)
	}
	runes := []rune(text)
	return styles.Candidate.Render(string(runes[:start])) +
		styles.Match.Render(string(runes[start:end])) +
		styles.Candidate.Render(string(runes[end:]))
}

// chipText is the sanitized display text of a chosen value, falling back
// to its text form once the catalog no longer holds it.
func chipText[V comparable](items []Item[V], value V) string {
	if it, ok := catalog.Lookup(items, value); ok {
		return sanitize(it.DisplayText)
	}
	return sanitize(fmt.Sprint(value))
}

// fit truncates line to width cells. Zero width leaves it untouched.
func fit(line string, width int) string {
	if width <= 0 || ansi.StringWidth(line) <= width {
		return line
	}
	return ansi.Truncate(line, width, "…")
}
