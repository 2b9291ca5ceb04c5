// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/z5labs/annotations/internal/try"

	"gopkg.in/yaml.v3"
)

// Encoded is a Source whose values are decoded from a JSON or YAML document.
// The underlying io.Reader is closed once read if it's an [io.Closer].
type Encoded struct {
	r      io.Reader
	format string
	decode func([]byte, any) error
}

// FromJson returns a Source which applies the JSON object read from r.
func FromJson(r io.Reader) Encoded {
	return Encoded{r: r, format: "json", decode: json.Unmarshal}
}

// FromYaml returns a Source which applies the YAML mapping read from r.
func FromYaml(r io.Reader) Encoded {
	return Encoded{r: r, format: "yaml", decode: yaml.Unmarshal}
}

// DecodeError occurs if the document isn't valid for its format.
type DecodeError struct {
	Format string
	Cause  error
}

// Error implements the [builtin.error] interface.
func (e DecodeError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Format, e.Cause)
}

// Unwrap implements the implicit interface used by [errors.Is] and [errors.As].
func (e DecodeError) Unwrap() error {
	return e.Cause
}

// Apply implements the Source interface. An empty document sets nothing.
func (src Encoded) Apply(store Store) (err error) {
	defer try.Close(&err, src.r)

	b, err := io.ReadAll(src.r)
	if err != nil {
		return err
	}
	if len(bytes.TrimSpace(b)) == 0 {
		return nil
	}

	m := make(map[string]any)
	err = src.decode(b, &m)
	if err != nil {
		return DecodeError{Format: src.format, Cause: err}
	}
	return Map(m).Apply(store)
}
