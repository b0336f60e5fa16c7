// Package main is the entry point for the romple CLI application.
package main

import (
	"github.com/dbmrq/romple/cmd/romple/cmd"
)

// Version information - set via ldflags at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	cmd.Version = version
	cmd.Commit = commit
	cmd.Date = date
	cmd.Execute()
}
