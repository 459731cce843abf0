package taxonomy

import (
	"github.com/xiy/reflective-mcp/pkg/types"
)

// Table is a read-only, declaration-ordered lookup table keyed by identifier.
type Table[T any] struct {
	label   string
	subject string
	items   []T
	index   map[string]int
}

// NewTable indexes items by id. Label is the singular noun used in error
// messages and subject the plural used for the list of alternatives.
// Duplicate ids panic since tables are built from literals at init.
func NewTable[T any](label, subject string, id func(T) string, items []T) *Table[T] {
	t := &Table[T]{
		label:   label,
		subject: subject,
		items:   items,
		index:   make(map[string]int, len(items)),
	}
	for i, it := range items {
		key := id(it)
		if _, dup := t.index[key]; dup {
			panic("taxonomy: duplicate " + label + " id " + key)
		}
		t.index[key] = i
	}
	return t
}

// Get returns the entry for id or an unknown-identifier error listing all ids.
func (t *Table[T]) Get(id string) (T, error) {
	i, ok := t.index[id]
	if !ok {
		var zero T
		return zero, types.UnknownIdentifier(t.label, t.subject, id, t.IDs())
	}
	return t.items[i], nil
}

// Has reports whether id is present.
func (t *Table[T]) Has(id string) bool {
	_, ok := t.index[id]
	return ok
}

// IDs returns identifiers in declaration order.
func (t *Table[T]) IDs() []string {
	ids := make([]string, len(t.items))
	for k, i := range t.index {
		ids[i] = k
	}
	return ids
}

// All returns a copy of the entries in declaration order.
func (t *Table[T]) All() []T {
	out := make([]T, len(t.items))
	copy(out, t.items)
	return out
}

// Len returns the number of entries.
func (t *Table[T]) Len() int { return len(t.items) }
