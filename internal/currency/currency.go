// Package currency normalizes amounts in the supported currencies into a
// single base currency using static, configured exchange rates.
//
// There are no live FX rates. A code missing from the table converts at
// rate 1, i.e. the amount is taken as already being in the base currency.
// API input is validated against the table, so only rows written outside the
// API (or before a table change) can reach that fallback.
package currency

import (
	"fmt"
	"os"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// Currency describes one supported currency.
type Currency struct {
	Code       string          `json:"code"`
	Name       string          `json:"name"`
	Symbol     string          `json:"symbol"`
	Locale     string          `json:"locale"`
	RateToBase decimal.Decimal `json:"rate_to_base"`
}

// Table is an immutable set of currencies and their rates into the base currency.
type Table struct {
	base       string
	currencies []Currency
	byCode     map[string]Currency
}

// Default returns the built-in table: VND as base, USD at 25000 VND.
func Default() *Table {
	t, _ := NewTable("VND", []Currency{
		{Code: "VND", Name: "Dong Viet Nam", Symbol: "₫", Locale: "vi-VN", RateToBase: decimal.NewFromInt(1)},
		{Code: "USD", Name: "US Dollar", Symbol: "$", Locale: "en-US", RateToBase: decimal.NewFromInt(25000)},
	})
	return t
}

// NewTable builds a table. The base currency must be present with rate 1 and
// every rate must be positive.
func NewTable(base string, currencies []Currency) (*Table, error) {
	base = strings.ToUpper(base)
	t := &Table{base: base, byCode: make(map[string]Currency, len(currencies))}
	for _, c := range currencies {
		c.Code = strings.ToUpper(c.Code)
		if c.Code == "" {
			return nil, fmt.Errorf("currency code is required")
		}
		if _, dup := t.byCode[c.Code]; dup {
			return nil, fmt.Errorf("duplicate currency %s", c.Code)
		}
		if !c.RateToBase.IsPositive() {
			return nil, fmt.Errorf("currency %s: rate must be positive", c.Code)
		}
		t.byCode[c.Code] = c
		t.currencies = append(t.currencies, c)
	}

	b, ok := t.byCode[base]
	if !ok {
		return nil, fmt.Errorf("base currency %s is not in the table", base)
	}
	if !b.RateToBase.Equal(decimal.NewFromInt(1)) {
		return nil, fmt.Errorf("base currency %s must have rate 1", base)
	}
	return t, nil
}

type fileCurrency struct {
	Code   string `yaml:"code"`
	Name   string `yaml:"name"`
	Symbol string `yaml:"symbol"`
	Locale string `yaml:"locale"`
	Rate   string `yaml:"rate_to_base"`
}

type fileTable struct {
	Base       string         `yaml:"base"`
	Currencies []fileCurrency `yaml:"currencies"`
}

// LoadFile reads a YAML currency table:
//
//	base: VND
//	currencies:
//	  - {code: VND, name: Dong Viet Nam, symbol: "₫", locale: vi-VN, rate_to_base: "1"}
//	  - {code: USD, name: US Dollar, symbol: "$", locale: en-US, rate_to_base: "25000"}
func LoadFile(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read currency table: %w", err)
	}
	return Parse(raw)
}

// Parse decodes a YAML currency table.
func Parse(raw []byte) (*Table, error) {
	var ft fileTable
	if err := yaml.Unmarshal(raw, &ft); err != nil {
		return nil, fmt.Errorf("decode currency table: %w", err)
	}

	currencies := make([]Currency, 0, len(ft.Currencies))
	for _, fc := range ft.Currencies {
		rate, err := decimal.NewFromString(fc.Rate)
		if err != nil {
			return nil, fmt.Errorf("currency %s: invalid rate %q: %w", fc.Code, fc.Rate, err)
		}
		currencies = append(currencies, Currency{
			Code:       fc.Code,
			Name:       fc.Name,
			Symbol:     fc.Symbol,
			Locale:     fc.Locale,
			RateToBase: rate,
		})
	}
	return NewTable(ft.Base, currencies)
}

// Base returns the base currency code.
func (t *Table) Base() string { return t.base }

// All returns the currencies in table order.
func (t *Table) All() []Currency {
	out := make([]Currency, len(t.currencies))
	copy(out, t.currencies)
	return out
}

// Codes returns the supported currency codes in table order.
func (t *Table) Codes() []string {
	codes := make([]string, len(t.currencies))
	for i, c := range t.currencies {
		codes[i] = c.Code
	}
	return codes
}

// Lookup returns the currency for code.
func (t *Table) Lookup(code string) (Currency, bool) {
	c, ok := t.byCode[strings.ToUpper(code)]
	return c, ok
}

// Supported reports whether code is in the table.
func (t *Table) Supported(code string) bool {
	_, ok := t.Lookup(code)
	return ok
}

// Rate returns the rate into the base currency, or 1 for an unknown code.
func (t *Table) Rate(code string) decimal.Decimal {
	if c, ok := t.Lookup(code); ok {
		return c.RateToBase
	}
	return decimal.NewFromInt(1)
}

// ToBase converts amount in code into the base currency.
func (t *Table) ToBase(amount decimal.Decimal, code string) decimal.Decimal {
	return amount.Mul(t.Rate(code))
}

// Convert converts amount between two currencies through the base currency.
func (t *Table) Convert(amount decimal.Decimal, from, to string) decimal.Decimal {
	if strings.EqualFold(from, to) {
		return amount
	}
	return amount.Mul(t.Rate(from)).Div(t.Rate(to))
}

// Format renders amount with the currency's symbol and grouping, e.g. "$1,234.50".
func Format(amount decimal.Decimal, code string) string {
	cur := money.New(0, strings.ToUpper(code)).Currency()
	minor := amount.Shift(int32(cur.Fraction)).Round(0).IntPart()
	return money.New(minor, cur.Code).Display()
}
