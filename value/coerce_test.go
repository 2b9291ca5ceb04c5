// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package value

import (
	"encoding/json"
	"errors"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
)

func mustDecode(t *testing.T, s string) any {
	t.Helper()
	var v any
	require.NoError(t, json.Unmarshal([]byte(s), &v))
	return v
}

func TestCoerce(t *testing.T) {
	testCases := []struct {
		name     string
		token    Token
		expected Value
	}{
		{name: "implicit boolean", token: ImplicitToken, expected: Bool(true)},
		{name: "empty text", token: Token{Text: ""}, expected: Null()},
		{name: "null literal", token: Token{Text: "null"}, expected: Null()},
		{name: "true literal", token: Token{Text: "true"}, expected: Bool(true)},
		{name: "false literal", token: Token{Text: "false"}, expected: Bool(false)},
		{name: "quoted true", token: Token{Text: `"true"`}, expected: String("true")},
		{name: "quoted false", token: Token{Text: `"false"`}, expected: String("false")},
		{name: "quoted empty string", token: Token{Text: `""`}, expected: String("")},
		{name: "quoted number", token: Token{Text: `"123"`}, expected: String("123")},
		{name: "quoted trailing space", token: Token{Text: `"abc "`}, expected: String("abc ")},
		{name: "single quoted", token: Token{Text: `'abc'`}, expected: String("abc")},
		{name: "escaped double quoted", token: Token{Text: `"a\"b"`}, expected: String(`a"b`)},
		{name: "plain word", token: Token{Text: "abc"}, expected: String("abc")},
		{name: "integer", token: Token{Text: "123"}, expected: Int(123)},
		{name: "negative integer", token: Token{Text: "-23"}, expected: Int(-23)},
		{name: "leading point float", token: Token{Text: ".45"}, expected: Float(.45)},
		{name: "float", token: Token{Text: "0.45"}, expected: Float(0.45)},
		{name: "trailing point float", token: Token{Text: "45."}, expected: Float(45)},
		{name: "negative float", token: Token{Text: "-4.5"}, expected: Float(-4.5)},
		{name: "explicitly positive float", token: Token{Text: "+4.5"}, expected: Float(4.5)},
		{name: "explicitly positive integer", token: Token{Text: "+1"}, expected: String("+1")},
		{name: "version like text", token: Token{Text: "1.2.3"}, expected: String("1.2.3")},
		{name: "email", token: Token{Text: "test@example.com"}, expected: String("test@example.com")},
		{name: "reserved word", token: Token{Text: "integer"}, expected: String("integer")},
		{name: "reserved word prefix", token: Token{Text: "integers"}, expected: String("integers")},
		{
			name:     "unrecognized type prefix",
			token:    Token{Text: "footype Tolerate me. DockBlocks can't be evaluated rigidly."},
			expected: String("footype Tolerate me. DockBlocks can't be evaluated rigidly."),
		},
		{name: "string cast", token: Token{Text: "string 45"}, expected: String("45")},
		{name: "string cast keeps quotes", token: Token{Text: `string "abc"`}, expected: String(`"abc"`)},
		{name: "integer cast", token: Token{Text: "integer 45"}, expected: Int(45)},
		{name: "integer cast negative", token: Token{Text: "integer -45"}, expected: Int(-45)},
		{name: "integer cast explicit sign", token: Token{Text: "integer +45"}, expected: Int(45)},
		{name: "float cast", token: Token{Text: "float .45"}, expected: Float(.45)},
		{name: "float cast integral", token: Token{Text: "float 45"}, expected: Float(45)},
		{name: "float cast trailing point", token: Token{Text: "float 4."}, expected: Float(4)},
		{name: "float cast exponent", token: Token{Text: "float 1e3"}, expected: Float(1000)},
		{name: "json cast scalar", token: Token{Text: `json "x"`}, expected: Structured("x")},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Coerce(tc.token)
			require.NoError(t, err)
			require.True(t, tc.expected.Equal(v), "expected %#v but got %#v", tc.expected, v)
		})
	}
}

func TestCoerce_Structured(t *testing.T) {
	testCases := []string{
		`["x", "y"]`,
		`{"x": {"y": "z"}}`,
		`{"x": {"y": ["z", "p"]}}`,
		"{\n  \"x\": {\n    \"y\": [\n      \"z\", \"p\"\n    ]\n  }\n}",
	}

	for _, text := range testCases {
		t.Run(text, func(t *testing.T) {
			v, err := Coerce(Token{Text: text})
			require.NoError(t, err)
			require.Equal(t, KindStructured, v.Kind())

			s, ok := v.Structured()
			require.True(t, ok)
			require.Equal(t, mustDecode(t, text), s)

			v, err = Coerce(Token{Text: "json " + text})
			require.NoError(t, err)
			require.Equal(t, KindStructured, v.Kind())
			require.Equal(t, mustDecode(t, text), v.Interface())
		})
	}
}

func TestCoerce_Errors(t *testing.T) {
	testCases := []struct {
		name  string
		text  string
		cast  Cast
		cause error
	}{
		{name: "bad integer", text: "integer 045f", cast: CastInteger, cause: ErrInvalidInteger},
		{name: "float under integer cast", text: "integer 4.5", cast: CastInteger, cause: ErrInvalidInteger},
		{name: "integer overflow", text: "integer 99999999999999999999", cast: CastInteger, cause: strconv.ErrRange},
		{name: "bad float", text: "float 2.1.2", cast: CastFloat, cause: ErrInvalidFloat},
		{name: "word under float cast", text: "float abc", cast: CastFloat, cause: ErrInvalidFloat},
		{name: "bad json", text: "json {x}", cast: CastJSON},
		{name: "bad concrete json", text: "-> {x}", cast: CastConcrete},
		{name: "auto detected integer overflow", text: "99999999999999999999", cast: NoCast, cause: strconv.ErrRange},
		{name: "bad auto detected json", text: `{"x": }`, cast: NoCast},
		{name: "bad auto detected array", text: `["x",`, cast: NoCast},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Coerce(Token{Text: tc.text})

			var cerr CoercionError
			require.True(t, errors.As(err, &cerr))
			require.Equal(t, tc.cast, cerr.Cast)
			require.NotEmpty(t, cerr.Error())
			if tc.cause != nil {
				require.ErrorIs(t, err, tc.cause)
			}
		})
	}
}

func TestSplitCast(t *testing.T) {
	testCases := []struct {
		name string
		text string
		cast Cast
		rest string
	}{
		{name: "no cast", text: "abc", cast: NoCast, rest: "abc"},
		{name: "reserved word alone", text: "string", cast: NoCast, rest: "string"},
		{name: "reserved word as prefix of word", text: "stringed value", cast: NoCast, rest: "stringed value"},
		{name: "string cast", text: "string abc def", cast: CastString, rest: "abc def"},
		{name: "json cast across lines", text: "json\n[1]", cast: CastJSON, rest: "[1]"},
		{name: "concrete cast", text: `-> ["a"]`, cast: CastConcrete, rest: `["a"]`},
		{name: "cast keyword not leading", text: "abc string def", cast: NoCast, rest: "abc string def"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cast, rest := SplitCast(tc.text)
			require.Equal(t, tc.cast, cast)
			require.Equal(t, tc.rest, rest)
		})
	}
}

func TestIsLiteral(t *testing.T) {
	for _, s := range []string{"null", "true", "false", "1", "-1", ".5", "5.", "+4.5", `"a b"`, `'x'`, `""`} {
		require.True(t, IsLiteral(s), s)
	}
	for _, s := range []string{"x", "abc", "1.2.3", `"a`, `'a"`, "[1]", `"a" "b"`, "+1"} {
		require.False(t, IsLiteral(s), s)
	}
}

func TestValue(t *testing.T) {
	t.Run("will default to null", func(t *testing.T) {
		var v Value
		require.True(t, v.IsNull())
		require.Nil(t, v.Interface())
	})

	t.Run("will not widen between integer and float", func(t *testing.T) {
		require.False(t, Int(1).Equal(Float(1)))

		_, ok := Int(1).Float()
		require.False(t, ok)
	})

	t.Run("will marshal to its native json form", func(t *testing.T) {
		b, err := json.Marshal([]Value{Null(), Bool(true), Int(1), Float(1.5), String("x"), Structured([]any{"a"})})
		require.NoError(t, err)
		require.JSONEq(t, `[null, true, 1, 1.5, "x", ["a"]]`, string(b))
	})

	t.Run("will name its kind", func(t *testing.T) {
		require.Equal(t, "integer", KindInt.String())
		require.Equal(t, "Kind(42)", Kind(42).String())
	})
}
