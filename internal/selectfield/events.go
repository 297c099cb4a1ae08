package selectfield

import (
	"fmt"

	"github.com/ruminaider/selectfield/internal/catalog"
)

// Item is a catalog entry offered by a Field.
type Item[V comparable] = catalog.Item[V]

// EventKind names a notification published on a Surface.
type EventKind string

const (
	EventSelect EventKind = "select"
	EventRemove EventKind = "remove"
	EventChange EventKind = "change"
)

// Event is the interface for all notifications published on a Surface.
// Subscribers type-assert to SelectEvent, RemoveEvent or ChangeEvent.
type Event interface {
	Kind() EventKind
}

// Detail describes a single choice or removal. Chosen is a snapshot taken
// after the mutation.
type Detail[V comparable] struct {
	Value  V
	Item   Item[V]
	Chosen []V
}

// SelectEvent is published after a value was added to the chosen set.
type SelectEvent[V comparable] struct {
	Detail[V]
}

func (SelectEvent[V]) Kind() EventKind { return EventSelect }

// RemoveEvent is published after a value was removed from the chosen set.
type RemoveEvent[V comparable] struct {
	Detail[V]
}

func (RemoveEvent[V]) Kind() EventKind { return EventRemove }

// ChangeEvent follows every select and remove, and any catalog replacement
// that altered the chosen set.
type ChangeEvent[V comparable] struct {
	Chosen []V
}

func (ChangeEvent[V]) Kind() EventKind { return EventChange }

// detailFor builds the notification payload for value. When the catalog no
// longer holds value a stand-in item is synthesized from its text form.
func detailFor[V comparable](items []Item[V], value V, chosen []V) Detail[V] {
	item, ok := catalog.Lookup(items, value)
	if !ok {
		item = Item[V]{Value: value, DisplayText: fmt.Sprint(value)}
	}
	return Detail[V]{
		Value:  value,
		Item:   item,
		Chosen: cloneValues(chosen),
	}
}

func cloneValues[V comparable](values []V) []V {
	out := make([]V, len(values))
	copy(out, values)
	return out
}
