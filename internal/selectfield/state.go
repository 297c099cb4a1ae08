package selectfield

import "slices"

// State is the complete, render-relevant state of a Field. Transition
// methods never mutate the receiver and never share slices with it.
type State[V comparable] struct {
	Catalog  []Item[V]
	Chosen   []V
	Search   string
	MenuOpen bool
	Disabled bool
}

func (s State[V]) clone() State[V] {
	next := s
	next.Catalog = slices.Clone(s.Catalog)
	next.Chosen = slices.Clone(s.Chosen)
	return next
}

// Has reports whether v is chosen.
func (s State[V]) Has(v V) bool {
	return slices.Contains(s.Chosen, v)
}

// Candidates returns the catalog items currently offered in the menu.
func (s State[V]) Candidates() []Item[V] {
	return Candidates(s.Catalog, s.Chosen, s.Search)
}

// Open opens the menu. A disabled state stays closed.
func (s State[V]) Open() State[V] {
	next := s.clone()
	if !next.Disabled {
		next.MenuOpen = true
	}
	return next
}

// Close closes the menu.
func (s State[V]) Close() State[V] {
	next := s.clone()
	next.MenuOpen = false
	return next
}

// WithSearch records typed text and opens the menu. Ignored while disabled.
func (s State[V]) WithSearch(text string) State[V] {
	if s.Disabled {
		return s.clone()
	}
	next := s.clone()
	next.Search = text
	next.MenuOpen = true
	return next
}

// Choose appends v to the chosen values, clears the search and closes the
// menu. It reports false, leaving the state unchanged, when disabled, when
// v is already chosen or when v is not in the catalog.
func (s State[V]) Choose(v V) (State[V], bool) {
	if s.Disabled || s.Has(v) {
		return s.clone(), false
	}
	if !slices.ContainsFunc(s.Catalog, func(it Item[V]) bool { return it.Value == v }) {
		return s.clone(), false
	}

	next := s.clone()
	next.Chosen = append(next.Chosen, v)
	next.Search = ""
	next.MenuOpen = false
	return next, true
}

// Remove drops v from the chosen values. It reports false when disabled or
// when v is not chosen.
func (s State[V]) Remove(v V) (State[V], bool) {
	if s.Disabled {
		return s.clone(), false
	}
	return s.without(v)
}

func (s State[V]) without(v V) (State[V], bool) {
	next := s.clone()
	i := slices.Index(next.Chosen, v)
	if i < 0 {
		return next, false
	}
	next.Chosen = slices.Delete(next.Chosen, i, i+1)
	return next, true
}

// ClearSearch empties the search text.
func (s State[V]) ClearSearch() State[V] {
	next := s.clone()
	next.Search = ""
	return next
}

// Disable marks the state disabled and closes the menu.
func (s State[V]) Disable() State[V] {
	next := s.clone()
	next.Disabled = true
	next.MenuOpen = false
	return next
}

// Enable clears the disabled flag. The menu stays closed until opened.
func (s State[V]) Enable() State[V] {
	next := s.clone()
	next.Disabled = false
	return next
}

// ReplaceCatalog swaps the catalog and reconciles the chosen values with
// policy. It reports whether the chosen values changed.
func (s State[V]) ReplaceCatalog(items []Item[V], policy Reconcile) (State[V], bool) {
	next := s.clone()
	next.Catalog = append([]Item[V](nil), items...)

	present := make(map[V]struct{}, len(items))
	for _, it := range items {
		present[it.Value] = struct{}{}
	}

	var chosen []V
	switch policy {
	case ReconcileSelectAll:
		seen := make(map[V]struct{}, len(items))
		chosen = make([]V, 0, len(items))
		for _, it := range items {
			if _, dup := seen[it.Value]; dup {
				continue
			}
			seen[it.Value] = struct{}{}
			chosen = append(chosen, it.Value)
		}
	default:
		chosen = make([]V, 0, len(s.Chosen))
		for _, v := range s.Chosen {
			if _, ok := present[v]; ok {
				chosen = append(chosen, v)
			}
		}
	}
	next.Chosen = chosen
	return next, !slices.Equal(s.Chosen, chosen)
}
