// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package value implements the typed values held by an annotation
// and the coercion of raw annotation text into them.
package value

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strconv"
)

// Kind identifies which variant of a [Value] is active.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindStructured
	KindObject
)

var kindNames = [...]string{
	KindNull:       "null",
	KindBool:       "boolean",
	KindInt:        "integer",
	KindFloat:      "float",
	KindString:     "string",
	KindStructured: "structured",
	KindObject:     "object",
}

// String implements the [fmt.Stringer] interface.
func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
	return kindNames[k]
}

// Value is a tagged union over the values an annotation may hold.
// The zero Value is null.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	v    any
}

// Null returns the null Value.
func Null() Value {
	return Value{}
}

// Bool returns a boolean Value.
func Bool(b bool) Value {
	return Value{kind: KindBool, b: b}
}

// Int returns an integer Value.
func Int(i int64) Value {
	return Value{kind: KindInt, i: i}
}

// Float returns a float Value.
func Float(f float64) Value {
	return Value{kind: KindFloat, f: f}
}

// String returns a string Value.
func String(s string) Value {
	return Value{kind: KindString, s: s}
}

// Structured returns a Value holding decoded JSON, i.e. one of
// map[string]any, []any or a JSON scalar.
func Structured(v any) Value {
	return Value{kind: KindStructured, v: v}
}

// Object returns a Value holding a hydrated instance.
func Object(o any) Value {
	return Value{kind: KindObject, v: o}
}

// Kind returns the active variant.
func (v Value) Kind() Kind {
	return v.kind
}

// IsNull reports whether v is null.
func (v Value) IsNull() bool {
	return v.kind == KindNull
}

// Bool returns the boolean held by v.
func (v Value) Bool() (bool, bool) {
	return v.b, v.kind == KindBool
}

// Int returns the integer held by v.
func (v Value) Int() (int64, bool) {
	return v.i, v.kind == KindInt
}

// Float returns the float held by v.
func (v Value) Float() (float64, bool) {
	return v.f, v.kind == KindFloat
}

// Str returns the string held by v.
func (v Value) Str() (string, bool) {
	return v.s, v.kind == KindString
}

// Structured returns a copy of the decoded JSON held by v. Maps and
// slices are copied deeply so callers never mutate a shared Value.
func (v Value) Structured() (any, bool) {
	if v.kind != KindStructured {
		return nil, false
	}
	return cloneJSON(v.v), true
}

// Object returns the hydrated instance held by v.
func (v Value) Object() (any, bool) {
	if v.kind != KindObject {
		return nil, false
	}
	return v.v, true
}

// Interface returns the native Go representation of v.
func (v Value) Interface() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	case KindStructured:
		return cloneJSON(v.v)
	case KindObject:
		return v.v
	default:
		return nil
	}
}

// Equal reports whether v and other hold the same variant and contents.
// Hydrated objects are compared by deep equality.
func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindNull:
		return true
	case KindBool:
		return v.b == other.b
	case KindInt:
		return v.i == other.i
	case KindFloat:
		return v.f == other.f
	case KindString:
		return v.s == other.s
	default:
		return reflect.DeepEqual(v.v, other.v)
	}
}

// MarshalJSON implements the [json.Marshaler] interface.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

func cloneJSON(v any) any {
	switch x := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, e := range x {
			m[k] = cloneJSON(e)
		}
		return m
	case []any:
		l := make([]any, len(x))
		for i, e := range x {
			l[i] = cloneJSON(e)
		}
		return l
	default:
		return x
	}
}

// GoString implements the [fmt.GoStringer] interface.
func (v Value) GoString() string {
	return fmt.Sprintf("value.Value{%s: %#v}", v.kind, v.Interface())
}
