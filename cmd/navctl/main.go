// Command navctl snapshots, reports and refreshes a user's NAV from the
// command line, against the same database as the API. It also lists the
// user's audit trail.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	commander.Register(commander.HelpCommand(), "")
	commander.Register(commander.FlagsCommand(), "")
	commander.Register(&snapshotCmd{}, "nav")
	commander.Register(&reportCmd{}, "nav")
	commander.Register(&activityCmd{}, "nav")
	commander.Register(&refreshCmd{}, "prices")

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
