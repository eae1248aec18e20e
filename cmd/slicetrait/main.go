// Package main provides the CLI entrypoint for slicetrait.
//
// slicetrait resolves slice traits of multi-dimensional containers:
//   - resolve: the type obtained by slicing a container along an axis
//   - list: the registered mappings (built-in and from YAML files)
//   - check: validate YAML mapping files
//   - audit: report which Go container types have mappings
//   - gen: generate Go registration code from a YAML mapping file
package main

import (
	"os"

	"slicetrait/internal/cli"
)

func main() {
	os.Exit(cli.Execute())
}
