package currency

import (
	"reflect"
	"testing"

	"navtracker/internal/testutil"
)

var d = testutil.Dec

func TestDefault(t *testing.T) {
	table := Default()

	if table.Base() != "VND" {
		t.Errorf("expected VND base, got %s", table.Base())
	}
	if codes := table.Codes(); !reflect.DeepEqual(codes, []string{"VND", "USD"}) {
		t.Errorf("unexpected codes %v", codes)
	}
	if !table.Supported("usd") {
		t.Error("expected usd to be supported case-insensitively")
	}
	if table.Supported("EUR") {
		t.Error("EUR should not be supported by default")
	}

	usd, ok := table.Lookup("USD")
	if !ok {
		t.Fatal("expected USD in the default table")
	}
	if usd.Symbol != "$" || usd.Locale != "en-US" {
		t.Errorf("unexpected USD entry %+v", usd)
	}
}

func TestToBase(t *testing.T) {
	table := Default()

	tests := []struct {
		name   string
		amount string
		code   string
		want   string
	}{
		{"base currency", "1500000", "VND", "1500000"},
		{"usd", "100.50", "USD", "2512500"},
		{"lower case code", "2", "usd", "50000"},
		{"unknown code falls back to rate 1", "42.42", "EUR", "42.42"},
		{"empty code falls back to rate 1", "7", "", "7"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			testutil.AssertDecimal(t, table.ToBase(d(tt.amount), tt.code), tt.want)
		})
	}
}

func TestConvert(t *testing.T) {
	table := Default()

	testutil.AssertDecimal(t, table.Convert(d("2"), "USD", "VND"), "50000")
	testutil.AssertDecimal(t, table.Convert(d("50000"), "VND", "USD"), "2")
	testutil.AssertDecimal(t, table.Convert(d("100.01"), "USD", "USD"), "100.01")
}

func TestNewTable_Validation(t *testing.T) {
	tests := []struct {
		name       string
		base       string
		currencies []Currency
	}{
		{"base missing", "EUR", []Currency{{Code: "USD", RateToBase: d("1")}}},
		{"base rate must be 1", "USD", []Currency{{Code: "USD", RateToBase: d("2")}}},
		{"rate must be positive", "USD", []Currency{{Code: "USD", RateToBase: d("1")}, {Code: "EUR", RateToBase: d("0")}}},
		{"duplicate code", "USD", []Currency{{Code: "USD", RateToBase: d("1")}, {Code: "usd", RateToBase: d("1")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewTable(tt.base, tt.currencies); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestParse(t *testing.T) {
	raw := []byte(`
base: usd
currencies:
  - code: USD
    name: US Dollar
    symbol: "$"
    locale: en-US
    rate_to_base: "1"
  - code: EUR
    name: Euro
    symbol: "€"
    locale: de-DE
    rate_to_base: "1.08"
`)
	table, err := Parse(raw)
	testutil.AssertNoError(t, err)

	if table.Base() != "USD" {
		t.Errorf("expected USD base, got %s", table.Base())
	}
	testutil.AssertDecimal(t, table.ToBase(d("100"), "EUR"), "108")

	if _, err := Parse([]byte("base: USD\ncurrencies:\n  - code: USD\n    rate_to_base: abc\n")); err == nil {
		t.Error("expected error for a non-numeric rate")
	}
}

func TestFormat(t *testing.T) {
	if got := Format(d("1234.5"), "USD"); got != "$1,234.50" {
		t.Errorf("expected $1,234.50, got %s", got)
	}
	if got := Format(d("1500000"), "VND"); got != "1,500,000 ₫" {
		t.Errorf("expected 1,500,000 ₫, got %s", got)
	}
}
