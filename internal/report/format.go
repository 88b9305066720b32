package report

import (
	"strings"

	"github.com/shopspring/decimal"

	"navtracker/internal/currency"
)

// amount formats a decimal in code; without a code the plain number is used.
func amount(d decimal.Decimal, code string) string {
	if code == "" {
		return d.StringFixed(2)
	}
	return currency.Format(d, code)
}

var cellEscaper = strings.NewReplacer("|", `\|`, "\n", " ")

func escape(s string) string {
	return cellEscaper.Replace(s)
}
