// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package config merges key value Sources and unmarshals them into structs.
//
// A Source serializes itself into a Store. Sources are applied in order by
// Read, with later sources overriding earlier ones, and the merged result
// is decoded into a struct using the "config" tag:
//
//	m, err := config.Read(
//	    config.FromYaml(config.RenderTextTemplate(config.NewFileReader(os.DirFS("."), "docblock.yaml"))),
//	    config.FromEnv("DOCBLOCK_"),
//	)
//	if err != nil {
//	    return err
//	}
//
//	var cfg Config
//	err = m.Unmarshal(&cfg)
//
// An annotations.Bag is itself a Source, so namespaced annotations such as
// route.method and route.path unmarshal into nested structs.
package config
