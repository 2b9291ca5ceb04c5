// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"os"
	"strings"

	"github.com/z5labs/annotations/key"
)

// Env represents a Source where its underlying values
// are extracted from environment variables.
type Env struct {
	prefix  string
	environ func() []string
}

// FromEnv returns a Source which will apply its config from the
// environment variables, available to the current process, whose
// names start with prefix. The prefix is stripped and the remaining
// name is lower cased and split on '_' into a key.Chain, so with the
// prefix "DOCBLOCK_" the variable DOCBLOCK_LOG_LEVEL sets log.level.
func FromEnv(prefix string) Env {
	return Env{
		prefix:  prefix,
		environ: os.Environ,
	}
}

// Apply implements the Source interface.
func (src Env) Apply(store Store) error {
	env := src.environ()
	for _, pair := range env {
		k, v, ok := strings.Cut(pair, "=")
		if !ok {
			continue
		}
		name, ok := strings.CutPrefix(k, src.prefix)
		if !ok || name == "" {
			continue
		}

		var chain key.Chain
		for _, part := range strings.Split(strings.ToLower(name), "_") {
			if part == "" {
				continue
			}
			chain = append(chain, key.Name(part))
		}
		if len(chain) == 0 {
			continue
		}

		err := store.Set(chain, v)
		if err != nil {
			return err
		}
	}
	return nil
}
