package validator

import (
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"navtracker/internal/currency"
)

type sample struct {
	Currency string           `validate:"omitempty,currency_code"`
	Type     string           `validate:"omitempty,asset_group_type"`
	Status   string           `validate:"omitempty,debt_status"`
	Avatar   string           `validate:"omitempty,avatar"`
	Value    decimal.Decimal  `validate:"gte=0"`
	Quantity *decimal.Decimal `validate:"omitempty,gt=0"`
}

func newValidate() *validator.Validate {
	v := validator.New()
	registerOn(v)
	return v
}

func TestCustomTags(t *testing.T) {
	v := newValidate()
	neg := decimal.RequireFromString("-0.5")
	zero := decimal.Zero
	one := decimal.NewFromInt(1)

	tests := []struct {
		name  string
		input sample
		valid bool
	}{
		{"empty", sample{}, true},
		{"supported_currency", sample{Currency: "USD"}, true},
		{"lower_case_currency", sample{Currency: "vnd"}, true},
		{"unsupported_currency", sample{Currency: "EUR"}, false},
		{"group_type", sample{Type: "real_estate"}, true},
		{"unknown_group_type", sample{Type: "boat"}, false},
		{"debt_status", sample{Status: "paid_off"}, true},
		{"unknown_debt_status", sample{Status: "forgiven"}, false},
		{"avatar", sample{Avatar: "default-3.svg"}, true},
		{"unknown_avatar", sample{Avatar: "me.png"}, false},
		{"negative_value", sample{Value: neg}, false},
		{"zero_quantity", sample{Quantity: &zero}, false},
		{"positive_quantity", sample{Quantity: &one}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.input)
			if tt.valid && err != nil {
				t.Errorf("expected valid, got %v", err)
			}
			if !tt.valid && err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestSetCurrencies(t *testing.T) {
	v := newValidate()
	table, err := currency.NewTable("USD", []currency.Currency{
		{Code: "USD", RateToBase: decimal.NewFromInt(1)},
		{Code: "EUR", RateToBase: decimal.RequireFromString("1.08")},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	SetCurrencies(table)
	defer SetCurrencies(currency.Default())

	if err := v.Struct(sample{Currency: "EUR"}); err != nil {
		t.Errorf("expected EUR to be accepted, got %v", err)
	}
	if err := v.Struct(sample{Currency: "VND"}); err == nil {
		t.Error("expected VND to be rejected")
	}
}
