// Package report renders NAV figures, snapshot series and refresh results as
// markdown for the terminal.
package report

import (
	"fmt"
	"io"

	"github.com/charmbracelet/glamour"
	"github.com/shopspring/decimal"

	"navtracker/internal/models"
	"navtracker/internal/services"
)

const dateLayout = "2006-01-02 15:04"

// NAV writes the current NAV with its group breakdown.
func NAV(w io.Writer, username string, nav *services.NAV) {
	fmt.Fprintf(w, "# Net asset value of %s\n\n", username)
	figures(w, nav.TotalAssets, nav.TotalDebts, nav.NetAssetValue, nav.Currency)
	groups(w, nav.Breakdown, nav.Currency)
}

// Snapshot writes one stored snapshot with its decoded breakdown.
func Snapshot(w io.Writer, username string, snapshot *models.NAVSnapshot, base string) error {
	breakdown, err := services.DecodeBreakdown(snapshot)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "# Snapshot for %s\n\n", username)
	fmt.Fprintf(w, "Recorded %s UTC\n\n", snapshot.CreatedAt.UTC().Format(dateLayout))
	figures(w, snapshot.TotalAssets, snapshot.TotalDebts, snapshot.NetAssetValue, base)
	groups(w, *breakdown, base)
	return nil
}

// Series writes the monthly snapshots of year and the yearly snapshots of the
// last years.
func Series(w io.Writer, username string, year int, monthly, yearly []models.NAVSnapshot, base string) {
	fmt.Fprintf(w, "# NAV report for %s\n\n", username)

	fmt.Fprintf(w, "## %d\n\n", year)
	table(w, monthly, base)

	fmt.Fprintf(w, "## All years\n\n")
	table(w, yearly, base)
}

// Refresh writes the outcome of a price refresh. assets supplies names and
// currencies for the outcomes; outcomes for unknown ids are listed by id.
func Refresh(w io.Writer, username string, summary *services.RefreshSummary, assets []models.Asset) {
	byID := make(map[string]models.Asset, len(assets))
	for _, a := range assets {
		byID[a.ID] = a
	}

	fmt.Fprintf(w, "# Price refresh for %s\n\n", username)
	fmt.Fprintf(w, "Updated **%d**, unchanged **%d**, failed **%d**\n\n", summary.Updated, summary.Unchanged, summary.Failed)
	if len(summary.Outcomes) == 0 {
		fmt.Fprintln(w, "_No tracked assets._")
		return
	}

	fmt.Fprintln(w, "| Asset | Status | Old value | New value |")
	fmt.Fprintln(w, "|---|---|--:|--:|")
	for _, o := range summary.Outcomes {
		name, code := o.AssetID, ""
		if a, ok := byID[o.AssetID]; ok {
			name, code = a.Name, a.Currency
		}
		newValue := "-"
		if o.Status != services.RefreshUnavailable {
			newValue = amount(o.NewValue, code)
		}
		fmt.Fprintf(w, "| %s | %s | %s | %s |\n", escape(name), o.Status, amount(o.OldValue, code), newValue)
	}
	fmt.Fprintln(w)
}

// Activity writes the user's latest audit entries, newest first.
func Activity(w io.Writer, username string, entries []models.AuditLog) {
	fmt.Fprintf(w, "# Recent activity of %s\n\n", username)
	if len(entries) == 0 {
		fmt.Fprintln(w, "_No activity recorded._")
		return
	}
	fmt.Fprintln(w, "| When | Action | Resource | Origin |")
	fmt.Fprintln(w, "|---|---|---|---|")
	for _, e := range entries {
		fmt.Fprintf(w, "| %s | %s | %s `%s` | %s |\n",
			e.CreatedAt.UTC().Format(dateLayout), e.Action, e.ResourceType, e.ResourceID, escape(e.Origin()))
	}
	fmt.Fprintln(w)
}

// Render turns markdown into styled terminal output. style is a glamour
// standard style name; "auto" picks one from the terminal background.
func Render(md, style string, width int) (string, error) {
	opts := []glamour.TermRendererOption{glamour.WithWordWrap(width)}
	if style == "" || style == "auto" {
		opts = append(opts, glamour.WithAutoStyle())
	} else {
		opts = append(opts, glamour.WithStandardStyle(style))
	}
	r, err := glamour.NewTermRenderer(opts...)
	if err != nil {
		return "", fmt.Errorf("create markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}

func figures(w io.Writer, assets, debts, nav decimal.Decimal, code string) {
	fmt.Fprintln(w, "| | Amount |")
	fmt.Fprintln(w, "|---|--:|")
	fmt.Fprintf(w, "| Total assets | %s |\n", amount(assets, code))
	fmt.Fprintf(w, "| Active debts | %s |\n", amount(debts, code))
	fmt.Fprintf(w, "| **Net asset value** | **%s** |\n\n", amount(nav, code))
}

func groups(w io.Writer, b services.Breakdown, code string) {
	if len(b.AssetGroups) == 0 {
		return
	}
	fmt.Fprintf(w, "## Asset groups\n\n")
	fmt.Fprintln(w, "| Group | Type | Assets | Value |")
	fmt.Fprintln(w, "|---|---|--:|--:|")
	for _, g := range b.AssetGroups {
		fmt.Fprintf(w, "| %s | %s | %d | %s |\n", escape(g.Name), g.Type, g.AssetCount, amount(g.TotalValue, code))
	}
	fmt.Fprintf(w, "\n%d assets, %d active debts\n\n", b.AssetCount, b.DebtCount)
}

func table(w io.Writer, snapshots []models.NAVSnapshot, code string) {
	if len(snapshots) == 0 {
		fmt.Fprintf(w, "_No snapshots._\n\n")
		return
	}
	fmt.Fprintln(w, "| Date | Assets | Debts | NAV |")
	fmt.Fprintln(w, "|---|--:|--:|--:|")
	for _, s := range snapshots {
		fmt.Fprintf(w, "| %s | %s | %s | %s |\n",
			s.CreatedAt.UTC().Format(dateLayout),
			amount(s.TotalAssets, code), amount(s.TotalDebts, code), amount(s.NetAssetValue, code))
	}
	fmt.Fprintln(w)
}
