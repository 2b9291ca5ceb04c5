// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package scan

import (
	"strings"

	"github.com/z5labs/annotations/key"
	"github.com/z5labs/annotations/value"
)

// Token is a raw value token along with the line its marker was declared on.
type Token struct {
	value.Token

	Line int
}

// Group holds every token declared for a single flattened key.
type Group struct {
	Key    string
	Tokens []Token
}

// Aggregate flattens the declaration names into dotted keys and groups
// their value tokens by key. Groups are ordered by first occurrence and
// tokens keep declaration order.
func Aggregate(decls []Declaration) []Group {
	var (
		ns     key.Namespacer
		groups []Group
		index  = make(map[string]int)
	)
	for i, d := range decls {
		chain, ok := ns.Flatten(key.Marker{
			Name:  d.Name,
			Depth: d.Depth,
			Scope: opensScope(decls, i),
		})
		if !ok {
			continue
		}

		k := chain.Key()
		gi, seen := index[k]
		if !seen {
			gi = len(groups)
			index[k] = gi
			groups = append(groups, Group{Key: k})
		}
		for _, tok := range Split(d.Raw) {
			groups[gi].Tokens = append(groups[gi].Tokens, Token{Token: tok, Line: d.Line})
		}
	}
	return groups
}

// a bare marker ending its line opens a namespace when the
// next marker sits on a later, deeper indented line
func opensScope(decls []Declaration, i int) bool {
	d := decls[i]
	if !d.Bare() || !d.LastOnLine || i+1 >= len(decls) {
		return false
	}
	next := decls[i+1]
	return next.Line > d.Line && next.Depth > d.Depth
}

// Split breaks a raw value into its tokens. A single line made up solely of
// literals separated by whitespace or commas yields one token per literal,
// anything else is kept whole. An empty value yields [value.ImplicitToken].
func Split(raw string) []value.Token {
	if raw == "" {
		return []value.Token{value.ImplicitToken}
	}
	whole := []value.Token{{Text: raw}}
	if strings.ContainsRune(raw, '\n') {
		return whole
	}
	if cast, _ := value.SplitCast(raw); cast != value.NoCast {
		return whole
	}

	fields := splitFields(raw)
	if len(fields) < 2 {
		return whole
	}
	toks := make([]value.Token, 0, len(fields))
	for _, f := range fields {
		if !value.IsLiteral(f) {
			return whole
		}
		toks = append(toks, value.Token{Text: f})
	}
	return toks
}

func splitFields(s string) []string {
	var (
		fields []string
		sb     strings.Builder
		quote  byte
	)
	flush := func() {
		if sb.Len() > 0 {
			fields = append(fields, sb.String())
			sb.Reset()
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			sb.WriteByte(c)
			if c == '\\' && quote == '"' && i+1 < len(s) {
				i++
				sb.WriteByte(s[i])
				continue
			}
			if c == quote {
				quote = 0
			}
		case c == '"' || c == '\'':
			quote = c
			sb.WriteByte(c)
		case c == ',' || isSpace(c):
			flush()
		default:
			sb.WriteByte(c)
		}
	}
	flush()
	return fields
}
