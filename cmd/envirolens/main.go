// Command envirolens is the EnviroLens command line: it serves the API and
// dashboard, runs the analytics once, and exports workbooks and charts.
package main

import (
	"os"

	"github.com/turtacn/EnviroLens/internal/interfaces/cli"
)

// Build-time variables injected via ldflags.
var (
	version   = "dev"
	commit    = "unknown"
	buildDate = "unknown"
)

func init() {
	cli.Version = version
	cli.GitCommit = commit
	cli.BuildDate = buildDate
}

func main() {
	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}

//Personal.AI order the ending
