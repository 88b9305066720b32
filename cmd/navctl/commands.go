package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"navtracker/internal/report"
	"navtracker/internal/services"
)

type snapshotCmd struct {
	username string
	dryRun   bool
}

func (*snapshotCmd) Name() string     { return "snapshot" }
func (*snapshotCmd) Synopsis() string { return "record the current NAV of a user as a snapshot" }
func (*snapshotCmd) Usage() string {
	return `navctl snapshot -u <username> [-n]

  Computes the user's current net asset value and stores it as an immutable
  snapshot. With -n the figure is only displayed.
`
}

func (c *snapshotCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "username whose NAV is recorded")
	f.BoolVar(&c.dryRun, "n", false, "display the current NAV without storing a snapshot")
}

func (c *snapshotCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	user, err := a.user(c.username)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	var b strings.Builder
	if c.dryRun {
		nav, err := a.svc.NAV.CalculateCurrentNAV(user.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error computing NAV: %v\n", err)
			return subcommands.ExitFailure
		}
		report.NAV(&b, user.Username, nav)
	} else {
		snapshot, err := a.svc.NAV.CreateSnapshot(user.ID)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating snapshot: %v\n", err)
			return subcommands.ExitFailure
		}
		a.svc.Audit.Log(user.ID, services.AuditActionCreate, services.AuditResourceNAVSnapshot, snapshot.ID, "", map[string]interface{}{
			"net_asset_value": snapshot.NetAssetValue.String(),
			"source":          "navctl",
		})
		if err := report.Snapshot(&b, user.Username, snapshot, a.rates.Base()); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			return subcommands.ExitFailure
		}
	}

	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type reportCmd struct {
	username string
	year     int
	years    int
}

func (*reportCmd) Name() string     { return "report" }
func (*reportCmd) Synopsis() string { return "display the monthly and yearly NAV series of a user" }
func (*reportCmd) Usage() string {
	return `navctl report -u <username> [-y <year>] [-years <n>]

  Lists the snapshots recorded during a year and across the last n years.
`
}

func (c *reportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "username to report on")
	f.IntVar(&c.year, "y", time.Now().UTC().Year(), "year of the monthly series")
	f.IntVar(&c.years, "years", services.DefaultYearlySpan, "number of years in the yearly series")
}

func (c *reportCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.years < 1 {
		fmt.Fprintln(os.Stderr, "Error: -years must be at least 1")
		return subcommands.ExitUsageError
	}

	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	user, err := a.user(c.username)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	monthly, err := a.svc.NAV.GetMonthlySnapshots(user.ID, c.year)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading snapshots: %v\n", err)
		return subcommands.ExitFailure
	}
	yearly, err := a.svc.NAV.GetYearlySnapshots(user.ID, c.years)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading snapshots: %v\n", err)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	report.Series(&b, user.Username, c.year, monthly, yearly, a.rates.Base())
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type activityCmd struct {
	username string
	limit    int
}

func (*activityCmd) Name() string     { return "activity" }
func (*activityCmd) Synopsis() string { return "list a user's latest recorded changes" }
func (*activityCmd) Usage() string {
	return `navctl activity -u <username> [-n <count>]

  Shows the audit trail of creates, updates, deletes and refreshes, newest first.
`
}

func (c *activityCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "username whose activity is listed")
	f.IntVar(&c.limit, "n", services.DefaultActivityLimit, "number of entries")
}

func (c *activityCmd) Execute(_ context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	user, err := a.user(c.username)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	entries, err := a.svc.Audit.ListRecent(user.ID, c.limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading activity: %v\n", err)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	report.Activity(&b, user.Username, entries)
	printMarkdown(b.String())
	return subcommands.ExitSuccess
}

type refreshCmd struct {
	username string
	timeout  time.Duration
}

func (*refreshCmd) Name() string     { return "refresh" }
func (*refreshCmd) Synopsis() string { return "revalue a user's tracked assets from the price source" }
func (*refreshCmd) Usage() string {
	return `navctl refresh -u <username> [-timeout <duration>]

  Fetches current prices for every asset linked to a token, with a single
  request, and records a price history entry for each changed value.
`
}

func (c *refreshCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.username, "u", "", "username whose assets are refreshed")
	f.DurationVar(&c.timeout, "timeout", time.Minute, "overall time limit")
}

func (c *refreshCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, err := openApp()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitFailure
	}
	defer a.Close()

	user, err := a.user(c.username)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return subcommands.ExitUsageError
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	summary, err := a.svc.Asset.RefreshAllPrices(ctx, user.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error refreshing prices: %v\n", err)
		return subcommands.ExitFailure
	}
	assets, err := a.svc.Asset.GetAllWithGroup(user.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading assets: %v\n", err)
		return subcommands.ExitFailure
	}

	var b strings.Builder
	report.Refresh(&b, user.Username, summary, assets)
	printMarkdown(b.String())

	if summary.Failed > 0 {
		return subcommands.ExitFailure
	}
	return subcommands.ExitSuccess
}
