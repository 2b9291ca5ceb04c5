// Copyright (c) 2023 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package slogfield standardizes the attribute keys used across the
// parser, its hydration layer and the docblock command.
package slogfield

import (
	"log/slog"
)

// Error returns the slog.Attr for a error.
func Error(err error) slog.Attr {
	return slog.Any("error", err)
}

// String returns an slog.Attr for a string.
func String(key, value string) slog.Attr {
	return slog.String(key, value)
}

// Int returns an slog.Attr for a int.
func Int(key string, n int) slog.Attr {
	return slog.Int(key, n)
}

// Annotation identifies a fully qualified annotation key, e.g. route.path.
func Annotation(key string) slog.Attr {
	return slog.String("annotation", key)
}

// Annotations lists the keys of a parsed docblock in declaration order.
func Annotations(keys []string) slog.Attr {
	return slog.Any("annotations", keys)
}

// Line is a 1-based line number within a docblock.
func Line(n int) slog.Attr {
	return slog.Int("line", n)
}

// Type names the Go type an annotation was hydrated into.
func Type(name string) slog.Attr {
	return slog.String("type", name)
}

// Source names where a docblock was read from: a file path or "stdin".
func Source(name string) slog.Attr {
	return slog.String("source", name)
}

// Symbol is the Go declaration, in Name or Type.Member form, a docblock belongs to.
func Symbol(name string) slog.Attr {
	return slog.String("symbol", name)
}
