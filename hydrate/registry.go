// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package hydrate

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"sync"

	"github.com/go-viper/mapstructure/v2"
)

// InvalidConstructorError occurs when registering something which
// is not a func returning a single value, optionally followed by an error.
type InvalidConstructorError struct {
	Name string
	Type reflect.Type
}

// Error implements the [builtin.error] interface.
func (e InvalidConstructorError) Error() string {
	return fmt.Sprintf("invalid constructor for %s: %v", e.Name, e.Type)
}

// DuplicateTypeError occurs when a type name is registered twice.
type DuplicateTypeError struct {
	Name string
}

// Error implements the [builtin.error] interface.
func (e DuplicateTypeError) Error() string {
	return fmt.Sprintf("type already registered: %s", e.Name)
}

// Registry is a [TypeResolver] backed by reflection over registered
// constructor funcs. It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	types map[string]registered
}

type registered struct {
	ctor    funcConstructor
	setters map[string]Setter
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]registered),
	}
}

var errorType = reflect.TypeOf((*error)(nil)).Elem()

// Register makes the type built by fn resolvable under name. fn must be a
// func returning a single value, or a value and an error. Its parameters
// become the constructor parameters and the exported SetXxx methods of its
// result become the setters.
func (r *Registry) Register(name string, fn any) error {
	fv := reflect.ValueOf(fn)
	if !fv.IsValid() {
		return InvalidConstructorError{Name: name}
	}
	ft := fv.Type()
	if ft.Kind() != reflect.Func {
		return InvalidConstructorError{Name: name, Type: ft}
	}
	switch {
	case ft.NumOut() == 1 && ft.Out(0) != errorType:
	case ft.NumOut() == 2 && ft.Out(1) == errorType:
	default:
		return InvalidConstructorError{Name: name, Type: ft}
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[name]; exists {
		return DuplicateTypeError{Name: name}
	}
	r.types[name] = registered{
		ctor:    funcConstructor{fn: fv},
		setters: settersOf(ft.Out(0)),
	}
	return nil
}

// MustRegister is like [Registry.Register] but panics on error.
func (r *Registry) MustRegister(name string, fn any) {
	err := r.Register(name, fn)
	if err != nil {
		panic(err)
	}
}

// RegisterType makes *T resolvable under name with a constructor
// taking no parameters.
func RegisterType[T any](r *Registry, name string) error {
	return r.Register(name, func() *T {
		return new(T)
	})
}

// ResolveConstructor implements the [TypeResolver] interface.
func (r *Registry) ResolveConstructor(name string) (Constructor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	if !ok {
		return nil, false
	}
	return t.ctor, true
}

// ResolveSetters implements the [TypeResolver] interface.
func (r *Registry) ResolveSetters(name string) (map[string]Setter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.types[name]
	if !ok {
		return nil, false
	}
	return t.setters, true
}

type funcConstructor struct {
	fn reflect.Value
}

func (c funcConstructor) Arity() (int, int) {
	ft := c.fn.Type()
	if ft.IsVariadic() {
		return ft.NumIn() - 1, -1
	}
	return ft.NumIn(), ft.NumIn()
}

func (c funcConstructor) New(args []any) (any, error) {
	ft := c.fn.Type()
	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		pt := paramType(ft, i)
		v, err := convert(arg, pt)
		if err != nil {
			return nil, ArgumentError{Index: i, Cause: err}
		}
		in[i] = v
	}

	out := c.fn.Call(in)
	if len(out) == 2 && !out[1].IsNil() {
		return nil, out[1].Interface().(error)
	}
	return out[0].Interface(), nil
}

func paramType(ft reflect.Type, i int) reflect.Type {
	if ft.IsVariadic() && i >= ft.NumIn()-1 {
		return ft.In(ft.NumIn() - 1).Elem()
	}
	return ft.In(i)
}

type methodSetter struct {
	name string
	typ  reflect.Type
}

func (s methodSetter) Arity() int {
	return s.typ.NumIn() - 1
}

func (s methodSetter) Set(instance any, args []any) error {
	m := reflect.ValueOf(instance).MethodByName(s.name)
	if !m.IsValid() {
		return fmt.Errorf("method not found: %s", s.name)
	}

	in := make([]reflect.Value, len(args))
	for i, arg := range args {
		v, err := convert(arg, s.typ.In(i+1))
		if err != nil {
			return ArgumentError{Index: i, Cause: err}
		}
		in[i] = v
	}

	out := m.Call(in)
	for _, o := range out {
		if o.Type() == errorType && !o.IsNil() {
			return o.Interface().(error)
		}
	}
	return nil
}

func settersOf(t reflect.Type) map[string]Setter {
	setters := make(map[string]Setter)
	for i := range t.NumMethod() {
		m := t.Method(i)
		prop, ok := strings.CutPrefix(m.Name, "Set")
		if !ok || prop == "" || m.Type.NumIn() < 2 || m.Type.IsVariadic() {
			continue
		}
		setters[NormalizeName(prop)] = methodSetter{name: m.Name, typ: m.Type}
	}
	return setters
}

// ArgumentError occurs when a structured value can't be converted
// into the type of the parameter it binds to.
type ArgumentError struct {
	Index int
	Cause error
}

// Error implements the [builtin.error] interface.
func (e ArgumentError) Error() string {
	return fmt.Sprintf("argument %d: %s", e.Index, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e ArgumentError) Unwrap() error {
	return e.Cause
}

var errNilArgument = errors.New("nil is not assignable")

// ErrFractionalNumber is the cause of an [ArgumentError] when a number
// with a fractional part binds to an integer parameter.
var ErrFractionalNumber = errors.New("fractional number is not assignable to an integer")

func rejectFractions(from, to reflect.Type, data any) (any, error) {
	switch from.Kind() {
	case reflect.Float32, reflect.Float64:
	default:
		return data, nil
	}
	switch to.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
	default:
		return data, nil
	}
	f := reflect.ValueOf(data).Float()
	if f != math.Trunc(f) {
		return nil, ErrFractionalNumber
	}
	return data, nil
}

func convert(arg any, t reflect.Type) (reflect.Value, error) {
	if arg == nil {
		switch t.Kind() {
		case reflect.Interface, reflect.Pointer, reflect.Map, reflect.Slice:
			return reflect.Zero(t), nil
		default:
			return reflect.Value{}, errNilArgument
		}
	}

	ptr := reflect.New(t)
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      ptr.Interface(),
		ErrorUnused: true,
		DecodeHook:  mapstructure.DecodeHookFuncType(rejectFractions),
	})
	if err != nil {
		return reflect.Value{}, err
	}
	err = dec.Decode(arg)
	if err != nil {
		return reflect.Value{}, err
	}
	return ptr.Elem(), nil
}
