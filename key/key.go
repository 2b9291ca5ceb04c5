// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package key provides types for strongly typed annotation keys and the
// flattening of indentation nested markers into dotted keys.
package key

import (
	"strings"
)

// Separator joins the segments of a [Chain].
const Separator = "."

// Keyer is a common interface all annotation key types must implement.
type Keyer interface {
	Key() string
}

// Chain represents nested keys.
type Chain []Keyer

// Key implements the [Keyer] interface.
func (k Chain) Key() string {
	ss := make([]string, len(k))
	for i := range len(k) {
		ss[i] = k[i].Key()
	}
	return strings.Join(ss, Separator)
}

// Name represents a single key. Name can be used other keys.
type Name string

// Key implements the [Keyer] interface.
func (k Name) Key() string {
	return string(k)
}

// Split breaks a flattened key back into a [Chain] of [Name]s.
func Split(k string) Chain {
	parts := strings.Split(k, Separator)
	chain := make(Chain, 0, len(parts))
	for _, p := range parts {
		chain = append(chain, Name(p))
	}
	return chain
}
