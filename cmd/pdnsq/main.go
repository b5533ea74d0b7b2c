// Command pdnsq is a CLI client for passive DNS (pDNS) query services.
package main

import (
	"fmt"
	"os"

	"pdnsq/cmd/pdnsq/commands"
)

// Build-time variables injected via ldflags.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	commands.Version = version
	commands.Commit = commit
	commands.Date = date

	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "pdnsq:", err)
		os.Exit(1)
	}
}
