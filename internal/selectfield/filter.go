package selectfield

import (
	"strings"
	"sync"

	"github.com/junegunn/fzf/src/algo"
	"github.com/junegunn/fzf/src/util"
)

// normalize trims and lower-cases text for matching.
func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Candidates returns the items that can still be chosen: not in chosen and
// with a display text containing search, both compared trimmed and
// lower-cased. Catalog order is kept.
func Candidates[V comparable](items []Item[V], chosen []V, search string) []Item[V] {
	query := normalize(search)
	taken := make(map[V]struct{}, len(chosen))
	for _, v := range chosen {
		taken[v] = struct{}{}
	}

	out := make([]Item[V], 0, len(items))
	for _, it := range items {
		if _, ok := taken[it.Value]; ok {
			continue
		}
		if !strings.Contains(normalize(it.DisplayText), query) {
			continue
		}
		out = append(out, it)
	}
	return out
}

var initMatcher sync.Once

// matchSpan locates the best case-insensitive occurrence of query in text
// and returns its rune range. It only drives highlighting; membership is
// decided by Candidates.
func matchSpan(text, query string, slab *util.Slab) (start, end int, ok bool) {
	pattern := []rune(normalize(query))
	if len(pattern) == 0 {
		return 0, 0, false
	}
	initMatcher.Do(func() { algo.Init("default") })

	chars := util.ToChars([]byte(text))
	result, _ := algo.ExactMatchNaive(false, false, true, &chars, pattern, false, slab)
	if result.Start < 0 || result.End <= result.Start {
		return 0, 0, false
	}
	return result.Start, result.End, true
}
