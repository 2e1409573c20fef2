// Package main implements the cfgviz CLI.
// It renders Python functions as control flow diagrams.
package main

import (
	"os"

	"github.com/l3aro/cfgviz/cmd/cfgviz/commands"
)

var version = "dev"

func main() {
	commands.RootCmd.Version = version
	commands.RootCmd.SetVersionTemplate(`cfgviz version {{.Version}}
`)

	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
