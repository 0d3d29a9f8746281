package lang

import (
	"iter"
	"slices"
)

// Table maps constant names to their evaluated values in declaration order.
//
// A Table is produced by evaluation and is read-only to callers. When a name
// is declared more than once, the later value replaces the earlier one but
// the name keeps its original place in the order.
type Table struct {
	names  []string
	values map[string]Value
}

// Entry is a single name/value binding of a [Table].
type Entry struct {
	Name  string
	Value Value
}

func newTable() *Table {
	return &Table{values: make(map[string]Value)}
}

// define binds name to v, reporting whether name was already bound.
func (t *Table) define(name string, v Value) (replaced bool) {
	if _, replaced = t.values[name]; !replaced {
		t.names = append(t.names, name)
	}

	t.values[name] = v

	return replaced
}

// Lookup returns the value bound to name.
func (t *Table) Lookup(name string) (Value, bool) {
	if t == nil {
		return Value{}, false
	}

	v, ok := t.values[name]

	return v, ok
}

// Len returns the number of distinct names bound in t.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}

	return len(t.names)
}

// Names returns the bound names in declaration order.
func (t *Table) Names() []string {
	if t == nil {
		return nil
	}

	return slices.Clone(t.names)
}

// All returns an iterator over the bindings of t in declaration order.
func (t *Table) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if t == nil {
			return
		}

		for _, name := range t.names {
			if !yield(name, t.values[name]) {
				return
			}
		}
	}
}

// Entries returns the bindings of t in declaration order.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, 0, t.Len())

	for name, v := range t.All() {
		entries = append(entries, Entry{Name: name, Value: v})
	}

	return entries
}

// clone returns a copy of t that can be extended without affecting t.
func (t *Table) clone() *Table {
	c := newTable()

	for name, v := range t.All() {
		c.define(name, v)
	}

	return c
}
