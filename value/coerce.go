// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package value

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Cast is an explicit type cast written in front of a value, e.g. `@port integer 8080`.
type Cast string

const (
	NoCast       Cast = ""
	CastString   Cast = "string"
	CastInteger  Cast = "integer"
	CastFloat    Cast = "float"
	CastJSON     Cast = "json"
	CastConcrete Cast = "->"
)

// Token is a single raw value awaiting coercion.
type Token struct {
	Text string

	// Implicit marks the token of a marker written without any value.
	Implicit bool
}

// ImplicitToken is the token recorded for a bare marker.
var ImplicitToken = Token{Implicit: true}

var (
	castPattern      = regexp.MustCompile(`(?s)^(string|integer|float|json|->)\s+(\S.*)$`)
	intPattern       = regexp.MustCompile(`^-?[0-9]+$`)
	floatPattern     = regexp.MustCompile(`^[+-]?([0-9]+\.[0-9]*|\.[0-9]+)$`)
	intCastPattern   = regexp.MustCompile(`^[+-]?[0-9]+$`)
	floatCastPattern = regexp.MustCompile(`^[+-]?([0-9]+\.?[0-9]*|\.[0-9]+)([eE][+-]?[0-9]+)?$`)
)

// ErrInvalidInteger is the cause of a [CoercionError] for text
// which doesn't satisfy the integer grammar.
var ErrInvalidInteger = errors.New("invalid integer")

// ErrInvalidFloat is the cause of a [CoercionError] for text
// which doesn't satisfy the float grammar.
var ErrInvalidFloat = errors.New("invalid float")

// CoercionError occurs when an explicit cast can't be satisfied by
// the literal text or when text which looks like structured data
// fails to parse.
type CoercionError struct {
	Cast  Cast
	Text  string
	Cause error
}

// Error implements the [builtin.error] interface.
func (e CoercionError) Error() string {
	target := string(e.Cast)
	if e.Cast == NoCast {
		target = "detected literal"
	}
	return fmt.Sprintf("failed to coerce %q as %s: %s", e.Text, target, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e CoercionError) Unwrap() error {
	return e.Cause
}

// SplitCast separates an explicit cast prefix from the rest of the text.
// A cast keyword only counts when it's followed by whitespace and more text,
// so a reserved word written on its own stays a plain value.
func SplitCast(text string) (Cast, string) {
	m := castPattern.FindStringSubmatch(strings.TrimLeft(text, " \t"))
	if m == nil {
		return NoCast, text
	}
	return Cast(m[1]), strings.TrimSpace(m[2])
}

// Coerce converts a raw token into its typed [Value], honouring
// an explicit cast prefix if one is present.
func Coerce(tok Token) (Value, error) {
	if tok.Implicit {
		return Bool(true), nil
	}
	cast, text := SplitCast(tok.Text)
	return CoerceAs(cast, text)
}

// CoerceAs converts text under the given cast. [NoCast] auto-detects the type.
// [CastConcrete] only parses the structured data, hydration is left to the caller.
func CoerceAs(cast Cast, text string) (Value, error) {
	switch cast {
	case NoCast:
		return detect(text)
	case CastString:
		return String(text), nil
	case CastInteger:
		if !intCastPattern.MatchString(text) {
			return Value{}, CoercionError{Cast: cast, Text: text, Cause: ErrInvalidInteger}
		}
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, CoercionError{Cast: cast, Text: text, Cause: err}
		}
		return Int(i), nil
	case CastFloat:
		if !floatCastPattern.MatchString(text) {
			return Value{}, CoercionError{Cast: cast, Text: text, Cause: ErrInvalidFloat}
		}
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Value{}, CoercionError{Cast: cast, Text: text, Cause: err}
		}
		return Float(f), nil
	case CastJSON, CastConcrete:
		v, err := decodeJSON(text)
		if err != nil {
			return Value{}, CoercionError{Cast: cast, Text: text, Cause: err}
		}
		return Structured(v), nil
	default:
		return Value{}, CoercionError{Cast: cast, Text: text, Cause: fmt.Errorf("unknown cast: %s", cast)}
	}
}

// detect ignores leading indentation when recognising a literal but a
// plain string keeps it.
func detect(raw string) (Value, error) {
	text := strings.TrimLeft(raw, " \t")
	switch text {
	case "", "null":
		return Null(), nil
	case "true":
		return Bool(true), nil
	case "false":
		return Bool(false), nil
	}

	if s, ok := unquote(text); ok {
		return String(s), nil
	}

	if intPattern.MatchString(text) {
		i, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return Value{}, CoercionError{Text: text, Cause: err}
		}
		return Int(i), nil
	}

	if floatPattern.MatchString(text) {
		f, err := strconv.ParseFloat(text, 64)
		if err == nil {
			return Float(f), nil
		}
	}

	if text[0] == '{' || text[0] == '[' {
		v, err := decodeJSON(text)
		if err != nil {
			return Value{}, CoercionError{Text: text, Cause: err}
		}
		return Structured(v), nil
	}

	return String(raw), nil
}

// IsLiteral reports whether s is a self contained literal: null, a boolean,
// a number or a quoted string. Only literals may share a line as separate values.
func IsLiteral(s string) bool {
	switch s {
	case "null", "true", "false":
		return true
	}
	if intPattern.MatchString(s) || floatPattern.MatchString(s) {
		return true
	}
	_, ok := unquote(s)
	return ok
}

func unquote(s string) (string, bool) {
	if len(s) < 2 || s[0] != s[len(s)-1] {
		return "", false
	}
	q := s[0]
	if q != '"' && q != '\'' {
		return "", false
	}
	if q == '"' {
		var out string
		if err := json.Unmarshal([]byte(s), &out); err == nil {
			return out, true
		}
	}
	inner := s[1 : len(s)-1]
	if strings.IndexByte(inner, q) >= 0 {
		return "", false
	}
	return inner, true
}

func decodeJSON(text string) (any, error) {
	var v any
	err := json.Unmarshal([]byte(text), &v)
	if err != nil {
		return nil, err
	}
	return v, nil
}
