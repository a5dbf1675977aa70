// dartscan reports the imports and instance fields of Dart source files.
// Single binary, zero config; reports render as text, markdown, or JSON.
package main

import (
	"os"

	"github.com/corey/dartscan/cmd/dartscan/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
