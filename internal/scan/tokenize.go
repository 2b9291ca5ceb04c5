// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package scan locates annotation markers inside a docblock and
// groups the raw value text following them.
package scan

import (
	"regexp"
	"strings"
	"unicode"
)

// Declaration is one unparsed marker occurrence, in source order.
type Declaration struct {
	// Name is the marker identifier without the leading '@'.
	Name string

	// Raw is the value text, possibly spanning several lines. Trailing
	// whitespace is trimmed. A value starting on the line after its marker
	// keeps that line's indentation so preformatted text survives as written.
	Raw string

	// Line is the 1-based line the marker was found on.
	Line int

	// Depth is the indentation width of the marker's line once
	// comment decoration has been removed.
	Depth int

	// LastOnLine reports whether no other marker follows on the same line.
	LastOnLine bool
}

// Bare reports whether the marker was written without any value text.
func (d Declaration) Bare() bool {
	return d.Raw == ""
}

var (
	openPattern  = regexp.MustCompile(`^\s*/\*+`)
	closePattern = regexp.MustCompile(`\s*\*+/\s*$`)
	starPattern  = regexp.MustCompile(`^\s*\*(\s)?`)
	slashPattern = regexp.MustCompile(`^\s*//(\s)?`)
)

// Tokenize returns every marker declared in the docblock text.
// Description prose written before the first marker line is skipped.
func Tokenize(text string) []Declaration {
	lines := sanitize(text)

	start := -1
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " \t")
		if len(trimmed) > 1 && trimmed[0] == '@' && isNameStart(trimmed[1]) {
			start = i
			break
		}
	}
	if start < 0 {
		return nil
	}

	var (
		decls []Declaration
		vals  [][]string
	)
	for i := start; i < len(lines); i++ {
		line := lines[i]
		markers := findMarkers(line)
		if len(markers) == 0 {
			if strings.TrimSpace(line) == "" {
				line = ""
			}
			last := len(vals) - 1
			vals[last] = append(vals[last], line)
			continue
		}

		if before := line[:markers[0].at]; strings.TrimSpace(before) != "" {
			last := len(vals) - 1
			vals[last] = append(vals[last], strings.TrimRight(before, " \t"))
		}

		depth := len(line) - len(strings.TrimLeft(line, " \t"))
		for j, m := range markers {
			end := len(line)
			if j+1 < len(markers) {
				end = markers[j+1].at
			}
			decls = append(decls, Declaration{
				Name:       m.name,
				Line:       i + 1,
				Depth:      depth,
				LastOnLine: j == len(markers)-1,
			})
			vals = append(vals, []string{line[m.at+1+len(m.name) : end]})
		}
	}

	for i := range decls {
		decls[i].Raw = joinRaw(vals[i])
	}
	return decls
}

func joinRaw(parts []string) string {
	parts[0] = strings.TrimLeft(parts[0], " \t")
	if parts[0] == "" {
		for len(parts) > 0 && strings.TrimSpace(parts[0]) == "" {
			parts = parts[1:]
		}
	}
	return strings.TrimRightFunc(strings.Join(parts, "\n"), unicode.IsSpace)
}

func sanitize(text string) []string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")

	lines[0] = openPattern.ReplaceAllString(lines[0], "")
	last := len(lines) - 1
	lines[last] = closePattern.ReplaceAllString(lines[last], "")

	for i, line := range lines {
		switch {
		case starPattern.MatchString(line):
			lines[i] = starPattern.ReplaceAllString(line, "")
		case slashPattern.MatchString(line):
			lines[i] = slashPattern.ReplaceAllString(line, "")
		}
	}
	return lines
}

type marker struct {
	at   int
	name string
}

func findMarkers(line string) []marker {
	var ms []marker
	for i := 0; i < len(line)-1; i++ {
		if line[i] != '@' || !isNameStart(line[i+1]) {
			continue
		}
		if i > 0 && !isSpace(line[i-1]) {
			continue
		}
		j := i + 2
		for j < len(line) && isNameChar(line[j]) {
			j++
		}
		ms = append(ms, marker{at: i, name: line[i+1 : j]})
		i = j - 1
	}
	return ms
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t'
}

func isNameStart(c byte) bool {
	return c == '_' || c == '\\' || ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z')
}

func isNameChar(c byte) bool {
	return isNameStart(c) || c == '.' || c == '-' || ('0' <= c && c <= '9')
}
