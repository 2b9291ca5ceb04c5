// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package annotations

import (
	"bytes"
	"encoding/json"
	"iter"
	"slices"

	"github.com/z5labs/annotations/config"
	"github.com/z5labs/annotations/key"
	"github.com/z5labs/annotations/value"
)

// Entry holds the value(s) declared for a single annotation key.
// An Entry is a list once more than one value was declared for its key,
// whether by repeating the marker or by listing several literals on one line.
type Entry struct {
	values []value.Value
	list   bool
}

// IsList reports whether the entry holds an ordered list of values.
func (e Entry) IsList() bool {
	return e.list
}

// Len returns the number of values held by the entry.
func (e Entry) Len() int {
	return len(e.values)
}

// Value returns the scalar value of the entry, or the first
// value if the entry is a list.
func (e Entry) Value() value.Value {
	if len(e.values) == 0 {
		return value.Null()
	}
	return e.values[0]
}

// Values returns every value of the entry in declaration order.
func (e Entry) Values() []value.Value {
	return slices.Clone(e.values)
}

// Interface returns the native Go representation of the entry: the
// scalar's native value or a []any of native values for a list.
func (e Entry) Interface() any {
	if !e.list {
		return e.Value().Interface()
	}
	vs := make([]any, len(e.values))
	for i, v := range e.values {
		vs[i] = v.Interface()
	}
	return vs
}

// Equal reports whether e and other hold equal values with the same multiplicity.
func (e Entry) Equal(other Entry) bool {
	return e.list == other.list && slices.EqualFunc(e.values, other.values, value.Value.Equal)
}

// MarshalJSON implements the [json.Marshaler] interface.
func (e Entry) MarshalJSON() ([]byte, error) {
	if e.list {
		return json.Marshal(e.values)
	}
	return json.Marshal(e.Value())
}

// Bag is the ordered, immutable mapping from annotation key to [Entry]
// produced by parsing a single docblock.
type Bag struct {
	keys    []string
	entries map[string]Entry
}

// Len returns the number of keys in the bag.
func (b Bag) Len() int {
	return len(b.keys)
}

// Keys returns the keys of the bag in the order they were first declared.
func (b Bag) Keys() []string {
	return slices.Clone(b.keys)
}

// Has reports whether k was declared.
func (b Bag) Has(k string) bool {
	_, ok := b.entries[k]
	return ok
}

// Get returns the entry for k.
func (b Bag) Get(k string) (Entry, bool) {
	e, ok := b.entries[k]
	return e, ok
}

// Value returns the scalar value of k, or its first value if k is a list.
func (b Bag) Value(k string) (value.Value, bool) {
	e, ok := b.entries[k]
	if !ok {
		return value.Value{}, false
	}
	return e.Value(), true
}

// Values returns every value of k in declaration order.
func (b Bag) Values(k string) []value.Value {
	return b.entries[k].Values()
}

// All iterates over the bag in key order.
func (b Bag) All() iter.Seq2[string, Entry] {
	return func(yield func(string, Entry) bool) {
		for _, k := range b.keys {
			if !yield(k, b.entries[k]) {
				return
			}
		}
	}
}

// Map returns the native Go representation of the bag, see [Entry.Interface].
func (b Bag) Map() map[string]any {
	m := make(map[string]any, len(b.keys))
	for k, e := range b.All() {
		m[k] = e.Interface()
	}
	return m
}

// Equal reports whether b and other hold the same keys, in the same order,
// with equal entries.
func (b Bag) Equal(other Bag) bool {
	if !slices.Equal(b.keys, other.keys) {
		return false
	}
	for k, e := range b.All() {
		if !e.Equal(other.entries[k]) {
			return false
		}
	}
	return true
}

// MarshalJSON implements the [json.Marshaler] interface.
// Keys are written in declaration order.
func (b Bag) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range b.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')

		eb, err := json.Marshal(b.entries[k])
		if err != nil {
			return nil, err
		}
		buf.Write(eb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Apply implements the [config.Source] interface. Dotted keys are
// nested, so "route.path" can be unmarshalled into a Route struct field.
func (b Bag) Apply(store config.Store) error {
	for k, e := range b.All() {
		err := store.Set(key.Split(k), e.Interface())
		if err != nil {
			return err
		}
	}
	return nil
}
