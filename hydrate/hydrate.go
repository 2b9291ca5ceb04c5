// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package hydrate constructs and populates instances of known types
// from structured annotation values.
//
// A JSON array is bound positionally to the constructor parameters of
// the type. A JSON object is applied through the setters of the type,
// optionally after passing the array held by its "__construct" key to
// the constructor.
package hydrate

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// ConstructKey is the JSON object key whose array value is passed to the
// constructor before the remaining keys are applied through setters.
const ConstructKey = "__construct"

// Constructor builds new instances of a type from positional arguments.
type Constructor interface {
	// Arity returns the number of required parameters and the total
	// number of parameters. A negative total means any number of
	// trailing arguments is accepted.
	Arity() (required, total int)

	New(args []any) (any, error)
}

// Setter sets a named property on an instance.
type Setter interface {
	Arity() int
	Set(instance any, args []any) error
}

// TypeResolver resolves type names to their hydration surface.
// Implementations must be safe for concurrent reads.
type TypeResolver interface {
	ResolveConstructor(name string) (Constructor, bool)

	// ResolveSetters returns the setters of the named type keyed by
	// their normalized property name, see [NormalizeName].
	ResolveSetters(name string) (map[string]Setter, bool)
}

var (
	ErrUnknownType   = errors.New("type is not resolvable")
	ErrInvalidShape  = errors.New("structured value must be a json array or object")
	ErrArity         = errors.New("argument count does not match parameters")
	ErrNoSetters     = errors.New("type has no setters")
	ErrUnknownSetter = errors.New("no setter for property")
)

// HydrationError occurs when a structured value can't be bound to its type.
type HydrationError struct {
	Type string

	// Member is the constructor or setter being bound, if any.
	Member string

	Cause error
}

// Error implements the [builtin.error] interface.
func (e HydrationError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("failed to hydrate %s: %s", e.Type, e.Cause)
	}
	return fmt.Sprintf("failed to hydrate %s (%s): %s", e.Type, e.Member, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e HydrationError) Unwrap() error {
	return e.Cause
}

// Resolvable reports whether name is a type known to r.
func Resolvable(r TypeResolver, name string) bool {
	if r == nil {
		return false
	}
	_, ok := r.ResolveConstructor(name)
	return ok
}

// Hydrate builds an instance of the named type from structured, which
// must be the decoded form of a JSON array or object.
func Hydrate(r TypeResolver, name string, structured any) (any, error) {
	if r == nil {
		return nil, HydrationError{Type: name, Cause: ErrUnknownType}
	}
	ctor, ok := r.ResolveConstructor(name)
	if !ok {
		return nil, HydrationError{Type: name, Cause: ErrUnknownType}
	}

	switch x := structured.(type) {
	case []any:
		return construct(name, ctor, x)
	case map[string]any:
		return configure(r, name, ctor, x)
	default:
		return nil, HydrationError{Type: name, Cause: ErrInvalidShape}
	}
}

func construct(name string, ctor Constructor, args []any) (any, error) {
	required, total := ctor.Arity()
	if len(args) < required || (total >= 0 && len(args) > total) {
		return nil, HydrationError{
			Type:   name,
			Member: "constructor",
			Cause:  fmt.Errorf("%w: got %d, want %s", ErrArity, len(args), arityString(required, total)),
		}
	}
	v, err := ctor.New(args)
	if err != nil {
		return nil, HydrationError{Type: name, Member: "constructor", Cause: err}
	}
	return v, nil
}

func configure(r TypeResolver, name string, ctor Constructor, props map[string]any) (any, error) {
	var args []any
	if raw, ok := props[ConstructKey]; ok {
		args, ok = raw.([]any)
		if !ok {
			return nil, HydrationError{Type: name, Member: ConstructKey, Cause: ErrInvalidShape}
		}
	}

	keys := make([]string, 0, len(props))
	for k := range props {
		if k == ConstructKey {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	setters, _ := r.ResolveSetters(name)
	if len(setters) == 0 && (len(keys) > 0 || args == nil) {
		return nil, HydrationError{Type: name, Cause: ErrNoSetters}
	}

	inst, err := construct(name, ctor, args)
	if err != nil {
		return nil, err
	}

	for _, k := range keys {
		setter, ok := lookupSetter(setters, k)
		if !ok {
			return nil, HydrationError{Type: name, Member: k, Cause: ErrUnknownSetter}
		}

		setArgs := []any{props[k]}
		if n := setter.Arity(); n > 1 {
			arr, ok := props[k].([]any)
			if !ok || len(arr) != n {
				return nil, HydrationError{
					Type:   name,
					Member: k,
					Cause:  fmt.Errorf("%w: setter takes %d arguments", ErrArity, n),
				}
			}
			setArgs = arr
		}

		err = setter.Set(inst, setArgs)
		if err != nil {
			return nil, HydrationError{Type: name, Member: k, Cause: err}
		}
	}
	return inst, nil
}

func lookupSetter(setters map[string]Setter, prop string) (Setter, bool) {
	n := NormalizeName(prop)
	if s, ok := setters[n]; ok {
		return s, true
	}
	if rest, ok := strings.CutPrefix(n, "set"); ok && rest != "" {
		s, ok := setters[rest]
		return s, ok
	}
	return nil, false
}

// NormalizeName folds a property name for setter matching, so
// "foo_bar", "fooBar" and "FooBar" all address SetFooBar.
func NormalizeName(s string) string {
	s = strings.ToLower(s)
	return strings.NewReplacer("_", "", "-", "").Replace(s)
}

func arityString(required, total int) string {
	switch {
	case total < 0:
		return fmt.Sprintf("at least %d", required)
	case required == total:
		return fmt.Sprintf("%d", total)
	default:
		return fmt.Sprintf("%d to %d", required, total)
	}
}
