package main

import (
	"os"

	"github.com/traPtitech/identfavicon/cmd"
)

var (
	version  = "UNKNOWN"
	revision = "UNKNOWN"
)

func main() {
	cmd.Version = version
	cmd.Revision = revision
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
