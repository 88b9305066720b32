package report

import (
	"strings"
	"testing"
	"time"

	"navtracker/internal/models"
	"navtracker/internal/services"
	"navtracker/internal/testutil"
)

var d = testutil.Dec

func assertContains(t *testing.T, md, want string) {
	t.Helper()
	if !strings.Contains(md, want) {
		t.Errorf("expected output to contain %q, got:\n%s", want, md)
	}
}

func TestNAV(t *testing.T) {
	var b strings.Builder
	NAV(&b, "alice", &services.NAV{
		TotalAssets:   d("3050000000"),
		TotalDebts:    d("20000000"),
		NetAssetValue: d("3030000000"),
		Currency:      "VND",
		Breakdown: services.Breakdown{
			AssetGroups: []services.GroupTotal{
				{Name: "Savings", Type: models.AssetGroupTypeSavings, TotalValue: d("50000000"), AssetCount: 1},
				{Name: "Crypto | cold", Type: models.AssetGroupTypeCrypto, TotalValue: d("3000000000"), AssetCount: 1},
			},
			AssetCount: 2,
			DebtCount:  1,
		},
	})
	md := b.String()

	assertContains(t, md, "# Net asset value of alice")
	assertContains(t, md, "| **Net asset value** | **3,030,000,000 ₫** |")
	assertContains(t, md, "| Savings | savings | 1 | 50,000,000 ₫ |")
	assertContains(t, md, `Crypto \| cold`)
	assertContains(t, md, "2 assets, 1 active debts")
}

func TestNAV_NoGroups(t *testing.T) {
	var b strings.Builder
	NAV(&b, "bob", &services.NAV{NetAssetValue: d("-250000"), Currency: "VND"})

	assertContains(t, b.String(), "-250,000 ₫")
	if strings.Contains(b.String(), "## Asset groups") {
		t.Error("expected no group table without groups")
	}
}

func TestSnapshot(t *testing.T) {
	snapshot := &models.NAVSnapshot{
		TotalAssets:   d("100"),
		TotalDebts:    d("0"),
		NetAssetValue: d("100"),
		Breakdown:     `{"asset_groups":[{"name":"Stocks","type":"stocks","total_value":"100","asset_count":3}],"asset_count":3,"debt_count":0}`,
		CreatedAt:     time.Date(2024, 5, 1, 9, 30, 0, 0, time.UTC),
	}

	var b strings.Builder
	testutil.AssertNoError(t, Snapshot(&b, "alice", snapshot, "USD"))

	assertContains(t, b.String(), "Recorded 2024-05-01 09:30 UTC")
	assertContains(t, b.String(), "| Stocks | stocks | 3 | $100.00 |")

	snapshot.Breakdown = "{broken"
	if err := Snapshot(&b, "alice", snapshot, "USD"); err == nil {
		t.Error("expected error for malformed breakdown")
	}
}

func TestSeries(t *testing.T) {
	monthly := []models.NAVSnapshot{
		{TotalAssets: d("10"), TotalDebts: d("2"), NetAssetValue: d("8"), CreatedAt: time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC)},
		{TotalAssets: d("12"), TotalDebts: d("2"), NetAssetValue: d("10"), CreatedAt: time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
	}

	var b strings.Builder
	Series(&b, "alice", 2024, monthly, nil, "USD")
	md := b.String()

	assertContains(t, md, "## 2024")
	assertContains(t, md, "| 2024-02-29 00:00 | $12.00 | $2.00 | $10.00 |")
	if n := strings.Count(md, "_No snapshots._"); n != 1 {
		t.Errorf("expected one empty table, got %d", n)
	}
}

func TestRefresh(t *testing.T) {
	assets := []models.Asset{
		{Base: models.Base{ID: "a1"}, Name: "BTC", Currency: "USD"},
		{Base: models.Base{ID: "a2"}, Name: "ETH", Currency: "USD"},
	}
	summary := &services.RefreshSummary{
		Updated: 1,
		Failed:  1,
		Outcomes: []services.RefreshOutcome{
			{AssetID: "a1", Status: services.RefreshUpdated, OldValue: d("100000"), NewValue: d("120000")},
			{AssetID: "a2", Status: services.RefreshUnavailable, OldValue: d("10"), NewValue: d("10")},
		},
	}

	var b strings.Builder
	Refresh(&b, "alice", summary, assets)
	md := b.String()

	assertContains(t, md, "Updated **1**, unchanged **0**, failed **1**")
	assertContains(t, md, "| BTC | updated | $100,000.00 | $120,000.00 |")
	assertContains(t, md, "| ETH | unavailable | $10.00 | - |")

	b.Reset()
	Refresh(&b, "alice", &services.RefreshSummary{}, nil)
	assertContains(t, b.String(), "_No tracked assets._")
}

func TestActivity(t *testing.T) {
	at := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	entries := []models.AuditLog{
		{Base: models.Base{ID: "b", CreatedAt: at}, Action: "refresh", ResourceType: "asset", ResourceID: "a-1", IPAddress: "10.0.0.1"},
		{Base: models.Base{ID: "a", CreatedAt: at.Add(-time.Hour)}, Action: "create", ResourceType: "nav_snapshot", ResourceID: "s-1"},
	}

	var b strings.Builder
	Activity(&b, "alice", entries)
	md := b.String()

	assertContains(t, md, "# Recent activity of alice")
	assertContains(t, md, "| 2025-03-01 09:30 | refresh | asset `a-1` | 10.0.0.1 |")
	assertContains(t, md, "| 2025-03-01 08:30 | create | nav_snapshot `s-1` | cli |")

	b.Reset()
	Activity(&b, "bob", nil)
	assertContains(t, b.String(), "_No activity recorded._")
}

func TestRender(t *testing.T) {
	out, err := Render("# Net asset value\n\nTotal **42**\n", "notty", 80)
	testutil.AssertNoError(t, err)

	assertContains(t, out, "Net asset value")
	assertContains(t, out, "42")
}
