// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package scan

import (
	"testing"

	"github.com/z5labs/annotations/value"

	"github.com/stretchr/testify/require"
)

func names(decls []Declaration) []string {
	ns := make([]string, len(decls))
	for i, d := range decls {
		ns[i] = d.Name
	}
	return ns
}

func TestTokenize(t *testing.T) {
	t.Run("will return no declarations", func(t *testing.T) {
		testCases := []struct {
			name string
			text string
		}{
			{name: "for empty text", text: ""},
			{name: "for an empty docblock", text: "/**\n */"},
			{name: "for prose only", text: "/**\n * Just some prose mentioning user@example.com.\n */"},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				require.Empty(t, Tokenize(tc.text))
			})
		}
	})

	t.Run("will strip comment decoration", func(t *testing.T) {
		testCases := []struct {
			name string
			text string
		}{
			{name: "from a multi line docblock", text: "/**\n * @value foo\n */"},
			{name: "from an inline docblock", text: "/** @value foo */"},
			{name: "from a plain block comment", text: "/* @value foo */"},
			{name: "from line comments", text: "// @value foo"},
			{name: "from undecorated text", text: "@value foo"},
		}

		for _, tc := range testCases {
			t.Run(tc.name, func(t *testing.T) {
				decls := Tokenize(tc.text)
				require.Len(t, decls, 1)
				require.Equal(t, "value", decls[0].Name)
				require.Equal(t, "foo", decls[0].Raw)
			})
		}
	})

	t.Run("will find several markers", func(t *testing.T) {
		t.Run("if they share a physical line", func(t *testing.T) {
			decls := Tokenize("/**\n * @get @post @ajax\n * @alpha @beta @gamma\n */")
			require.Equal(t, []string{"get", "post", "ajax", "alpha", "beta", "gamma"}, names(decls))
			for _, d := range decls {
				require.True(t, d.Bare())
			}
			require.False(t, decls[0].LastOnLine)
			require.True(t, decls[2].LastOnLine)
			require.Equal(t, 2, decls[0].Line)
			require.Equal(t, 3, decls[3].Line)
		})

		t.Run("if a value sits between them", func(t *testing.T) {
			decls := Tokenize("/** @value foo @flag */")
			require.Equal(t, []string{"value", "flag"}, names(decls))
			require.Equal(t, "foo", decls[0].Raw)
			require.True(t, decls[1].Bare())
		})
	})

	t.Run("will not treat an @ as a marker", func(t *testing.T) {
		t.Run("if it is not preceded by whitespace", func(t *testing.T) {
			decls := Tokenize("/**\n * @bar test@example.com\n * @toto @tata\n * @number 2.1\n */")
			require.Equal(t, []string{"bar", "toto", "tata", "number"}, names(decls))
			require.Equal(t, "test@example.com", decls[0].Raw)
		})

		t.Run("if it appears in prose before the first marker line", func(t *testing.T) {
			text := "/**\n * Lorem ipsum dolor sit amet.\n * Proin tincidunt @feugiat mi.\n *\n * @return void\n */"
			decls := Tokenize(text)
			require.Equal(t, []string{"return"}, names(decls))
			require.Equal(t, "void", decls[0].Raw)
		})

		t.Run("if it is not followed by an identifier", func(t *testing.T) {
			decls := Tokenize("/**\n * @value a @ b\n */")
			require.Equal(t, []string{"value"}, names(decls))
			require.Equal(t, "a @ b", decls[0].Raw)
		})
	})

	t.Run("will continue a value", func(t *testing.T) {
		t.Run("if the following lines hold no marker", func(t *testing.T) {
			text := "/**\n" +
				" * @multiline_string Lorem ipsum dolor sit amet.\n" +
				" * Etiam malesuada mauris justo.\n" +
				" *\n" +
				" * Morbi imperdiet lacus non purus.\n" +
				" * @after\n" +
				" */"
			decls := Tokenize(text)
			require.Equal(t, []string{"multiline_string", "after"}, names(decls))
			require.Equal(t, "Lorem ipsum dolor sit amet.\nEtiam malesuada mauris justo.\n\nMorbi imperdiet lacus non purus.", decls[0].Raw)
		})

		t.Run("if the following lines are indented", func(t *testing.T) {
			text := "/**\n" +
				" * @cow\n" +
				" * ------\n" +
				" * < moo >\n" +
				" * ------ \n" +
				" *         \\   ^__^\n" +
				" *          \\  (oo)\\_______\n" +
				" */"
			decls := Tokenize(text)
			require.Len(t, decls, 1)
			require.Equal(t, "------\n< moo >\n------ \n        \\   ^__^\n         \\  (oo)\\_______", decls[0].Raw)
		})

		t.Run("if the value starts on the line after its marker", func(t *testing.T) {
			text := "/**\n" +
				" * @art\n" +
				" *\n" +
				" *    /\\\n" +
				" *   /  \\\n" +
				" */"
			decls := Tokenize(text)
			require.Len(t, decls, 1)
			require.Equal(t, "   /\\\n  /  \\", decls[0].Raw)
			require.False(t, decls[0].Bare())
		})

		t.Run("if text precedes a marker on the same line", func(t *testing.T) {
			decls := Tokenize("/**\n * @a first\n * second @b\n */")
			require.Equal(t, []string{"a", "b"}, names(decls))
			require.Equal(t, "first\nsecond", decls[0].Raw)
			require.True(t, decls[1].Bare())
		})
	})

	t.Run("will record indentation depth", func(t *testing.T) {
		decls := Tokenize("/**\n * @path\n *   @to cheers!\n */")
		require.Equal(t, 0, decls[0].Depth)
		require.Equal(t, 2, decls[1].Depth)
	})
}

func TestAggregate(t *testing.T) {
	t.Run("will group repeated keys", func(t *testing.T) {
		groups := Aggregate(Tokenize("/**\n * @value x\n * @other 1\n * @value y\n * @value z\n */"))
		require.Len(t, groups, 2)
		require.Equal(t, "value", groups[0].Key)
		require.Equal(t, "other", groups[1].Key)

		var texts []string
		for _, tok := range groups[0].Tokens {
			texts = append(texts, tok.Text)
		}
		require.Equal(t, []string{"x", "y", "z"}, texts)
		require.Equal(t, 4, groups[0].Tokens[1].Line)
	})

	t.Run("will flatten namespaced markers", func(t *testing.T) {
		text := "/**\n" +
			" * @path\n" +
			" *   @to\n" +
			" *     @the\n" +
			" *       @treasure cheers!\n" +
			" *       @cake the cake is a lie\n" +
			" * @another\n" +
			" *   @path.to.cake foo\n" +
			" */"
		groups := Aggregate(Tokenize(text))

		var keys []string
		for _, g := range groups {
			keys = append(keys, g.Key)
		}
		require.Equal(t, []string{"path.to.the.treasure", "path.to.the.cake", "another.path.to.cake"}, keys)
		require.Equal(t, "cheers!", groups[0].Tokens[0].Text)
	})

	t.Run("will not open a namespace", func(t *testing.T) {
		t.Run("if the bare marker is followed on its line by another marker", func(t *testing.T) {
			groups := Aggregate(Tokenize("/**\n * @a @b\n *   @c\n */"))
			require.Len(t, groups, 2)
			require.Equal(t, "a", groups[0].Key)
			require.Equal(t, "b.c", groups[1].Key)
		})

		t.Run("if the marker holds a value", func(t *testing.T) {
			groups := Aggregate(Tokenize("/**\n * @a 1\n *   @c 2\n */"))
			require.Len(t, groups, 2)
			require.Equal(t, "a", groups[0].Key)
			require.Equal(t, "c", groups[1].Key)
		})
	})

	t.Run("will record the implicit token", func(t *testing.T) {
		groups := Aggregate(Tokenize("/** @alpha */"))
		require.Len(t, groups, 1)
		require.Equal(t, []Token{{Token: value.ImplicitToken, Line: 1}}, groups[0].Tokens)
	})
}

func TestSplit(t *testing.T) {
	testCases := []struct {
		name     string
		raw      string
		expected []string
	}{
		{name: "single word", raw: "abc", expected: []string{"abc"}},
		{name: "prose", raw: "the cake is a lie", expected: []string{"the cake is a lie"}},
		{name: "integers", raw: "1 2 3", expected: []string{"1", "2", "3"}},
		{name: "signed floats", raw: "-4.5 +4.5", expected: []string{"-4.5", "+4.5"}},
		{name: "comma separated", raw: "true, false, null", expected: []string{"true", "false", "null"}},
		{name: "quoted strings", raw: `"a b" 'c'`, expected: []string{`"a b"`, `'c'`}},
		{name: "quoted string with escaped quote", raw: `"a\" b" 1`, expected: []string{`"a\" b"`, "1"}},
		{name: "mixed with a word", raw: "1 two 3", expected: []string{"1 two 3"}},
		{name: "cast prefix", raw: "integer 1", expected: []string{"integer 1"}},
		{name: "structured data", raw: `["x", "y"]`, expected: []string{`["x", "y"]`}},
		{name: "multiple lines", raw: "1\n2", expected: []string{"1\n2"}},
		{name: "trailing comma", raw: "1,", expected: []string{"1,"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			var texts []string
			for _, tok := range Split(tc.raw) {
				require.False(t, tok.Implicit)
				texts = append(texts, tok.Text)
			}
			require.Equal(t, tc.expected, texts)
		})
	}

	t.Run("will return the implicit token", func(t *testing.T) {
		t.Run("if the raw value is empty", func(t *testing.T) {
			require.Equal(t, []value.Token{value.ImplicitToken}, Split(""))
		})
	})
}
