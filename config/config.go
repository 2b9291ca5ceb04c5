// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"reflect"

	"github.com/z5labs/annotations/key"

	"github.com/go-viper/mapstructure/v2"
)

// Store represents a general key value structure.
type Store interface {
	Set(key.Keyer, any) error
}

// Source defines valid config sources as those who can
// serialize themselves into a key value like structure.
type Source interface {
	Apply(Store) error
}

// Manager holds the merged values of one or more Sources.
type Manager struct {
	store Map
}

// Read applies every source, in order, to a fresh store.
// Subsequent sources override previous sources.
func Read(srcs ...Source) (*Manager, error) {
	store := make(Map)
	for _, src := range srcs {
		err := src.Apply(store)
		if err != nil {
			return nil, err
		}
	}
	return &Manager{store: store}, nil
}

// Apply implements the Source interface.
func (m *Manager) Apply(store Store) error {
	return m.store.Apply(store)
}

// Unmarshal decodes the merged values into v. Struct fields are
// matched using the "config" tag. Values are weakly typed so strings
// from environment variables or rendered templates decode into bools
// and numbers. Strings are also decoded into [encoding.TextUnmarshaler]
// and [time.Duration] fields.
func (m *Manager) Unmarshal(v any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "config",
		Result:           v,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			coercing(mapstructure.TextUnmarshallerHookFunc()),
			coercing(mapstructure.StringToTimeDurationHookFunc()),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(map[string]any(m.store))
}

// TypeCoercionError occurs when a config value can't be
// converted into the type of the field it's decoded into.
type TypeCoercionError struct {
	From  reflect.Type
	To    reflect.Type
	Cause error
}

// Error implements the [builtin.error] interface.
func (e TypeCoercionError) Error() string {
	return fmt.Sprintf("failed to coerce value from %s to %s: %s", e.From, e.To, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e TypeCoercionError) Unwrap() error {
	return e.Cause
}

func coercing(h mapstructure.DecodeHookFunc) mapstructure.DecodeHookFuncValue {
	return func(from, to reflect.Value) (any, error) {
		v, err := mapstructure.DecodeHookExec(h, from, to)
		if err != nil {
			return nil, TypeCoercionError{
				From:  from.Type(),
				To:    to.Type(),
				Cause: err,
			}
		}
		return v, nil
	}
}
