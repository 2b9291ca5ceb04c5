// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package key

// Marker is the namespacing view of a single annotation marker.
type Marker struct {
	Name  string
	Depth int

	// Scope reports whether the marker only introduces a namespace
	// for the deeper markers which follow it.
	Scope bool
}

type scope struct {
	depth int
	name  Name
}

// Namespacer flattens indentation nested markers into dotted keys.
// A Namespacer is not safe for concurrent use and is meant to live
// for the duration of a single docblock.
type Namespacer struct {
	open []scope
}

// Flatten returns the flattened key for m, given every marker seen before it.
// Scope markers return false since they never directly hold a value.
func (n *Namespacer) Flatten(m Marker) (Chain, bool) {
	for len(n.open) > 0 && n.open[len(n.open)-1].depth >= m.Depth {
		n.open = n.open[:len(n.open)-1]
	}

	if m.Scope {
		n.open = append(n.open, scope{depth: m.Depth, name: Name(m.Name)})
		return nil, false
	}

	chain := make(Chain, 0, len(n.open)+1)
	for _, s := range n.open {
		chain = append(chain, s.name)
	}
	return append(chain, Name(m.Name)), true
}

// Reset closes every open scope.
func (n *Namespacer) Reset() {
	n.open = n.open[:0]
}
