// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"log/slog"
	"path"
	"strings"

	"github.com/z5labs/annotations/config"
	"github.com/z5labs/annotations/key"

	"github.com/spf13/cobra"
)

// EnvPrefix is the prefix of environment variables read as config.
const EnvPrefix = "DOCBLOCK_"

// Config is the merged configuration of a docblock invocation. Values are
// read from the config file, then DOCBLOCK_ environment variables and
// finally command line flags, with later sources taking precedence.
type Config struct {
	Format string `config:"format"`

	Log struct {
		Level slog.Level `config:"level"`
	} `config:"log"`

	Trace struct {
		Enabled     bool   `config:"enabled"`
		ServiceName string `config:"service"`
	} `config:"trace"`
}

var defaults = config.Map{
	"format": "json",
	"log": map[string]any{
		"level": "warn",
	},
	"trace": map[string]any{
		"enabled": false,
		"service": "docblock",
	},
}

// flagSource applies the flags which were explicitly set on the command line.
type flagSource struct {
	cmd *cobra.Command
}

var flagKeys = map[string]key.Chain{
	"format":    {key.Name("format")},
	"log-level": {key.Name("log"), key.Name("level")},
	"trace":     {key.Name("trace"), key.Name("enabled")},
}

// Apply implements the config.Source interface.
func (src flagSource) Apply(store config.Store) error {
	flags := src.cmd.Flags()
	for name, chain := range flagKeys {
		f := flags.Lookup(name)
		if f == nil || !f.Changed {
			continue
		}

		err := store.Set(chain, f.Value.String())
		if err != nil {
			return err
		}
	}
	return nil
}

func (app *App) configSources(cmd *cobra.Command, file string) []config.Source {
	srcs := []config.Source{defaults}
	if file != "" {
		r := config.RenderTextTemplate(
			app.open(file),
			config.TemplateEnv(),
		)

		switch strings.ToLower(path.Ext(file)) {
		case ".json":
			srcs = append(srcs, config.FromJson(r))
		default:
			srcs = append(srcs, config.FromYaml(r))
		}
	}
	return append(srcs, config.FromEnv(EnvPrefix), flagSource{cmd: cmd})
}
