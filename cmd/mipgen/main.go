// Package main provides the entry point for the mipgen CLI tool.
package main

import (
	"github.com/upytools/mipgen/cmd/mipgen/cmd"
)

// Version information populated by goreleaser.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	cmd.Execute(version, commit, date)
}
