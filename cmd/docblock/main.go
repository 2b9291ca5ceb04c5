// Copyright (c) 2026 Z5Labs and Contributors
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Command docblock prints the annotations found in docblocks.
//
//	docblock parse handler.txt
//	docblock inspect handlers.go Users.List --format yaml
//
// Settings are read from an optional --config file, which is rendered as
// a text/template with env and envOr functions, then from DOCBLOCK_
// environment variables and finally from flags.
package main

import (
	"fmt"
	"os"
)

func main() {
	err := New().Run(os.Args[1:]...)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
