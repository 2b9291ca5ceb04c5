// Copyright (c) 2024 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package config

import (
	"fmt"
	"strings"
)

func Example() {
	m, err := Read(
		FromYaml(strings.NewReader("format: json\nlog:\n  level: info")),
		Map{"format": "yaml"},
	)
	if err != nil {
		fmt.Println(err)
		return
	}

	var cfg struct {
		Format string `config:"format"`
		Log    struct {
			Level string `config:"level"`
		} `config:"log"`
	}
	err = m.Unmarshal(&cfg)
	if err != nil {
		fmt.Println(err)
		return
	}

	fmt.Println(cfg.Format)
	fmt.Println(cfg.Log.Level)
	// Output:
	// yaml
	// info
}
