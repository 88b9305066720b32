package handlers

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"navtracker/internal/currency"
	"navtracker/internal/models"
)

func TestReferenceHandler_GetCurrencies(t *testing.T) {
	rates, err := currency.NewTable("USD", []currency.Currency{
		{Code: "USD", Name: "US Dollar", Symbol: "$", RateToBase: decimal.NewFromInt(1)},
		{Code: "EUR", Name: "Euro", Symbol: "€", RateToBase: decimal.RequireFromString("1.08")},
	})
	if err != nil {
		t.Fatalf("build table: %v", err)
	}
	r := gin.New()
	r.GET("/currencies", NewReferenceHandler(rates).GetCurrencies)

	rec := doRequest(r, "GET", "/currencies", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := parseJSON(t, rec)
	if body["base"] != "USD" {
		t.Errorf("expected base USD, got %v", body["base"])
	}
	list := body["currencies"].([]interface{})
	if len(list) != 2 {
		t.Fatalf("expected 2 currencies, got %d", len(list))
	}
	eur := list[1].(map[string]interface{})
	if eur["code"] != "EUR" || eur["rate_to_base"] != "1.08" {
		t.Errorf("unexpected currency %v", eur)
	}
	if types := body["group_types"].([]interface{}); len(types) != len(models.AssetGroupTypes) {
		t.Errorf("expected %d group types, got %d", len(models.AssetGroupTypes), len(types))
	}
	if avatars := body["avatars"].([]interface{}); len(avatars) != len(models.Avatars) {
		t.Errorf("expected %d avatars, got %d", len(models.Avatars), len(avatars))
	}
}

func TestReferenceHandler_GetTokens(t *testing.T) {
	r := gin.New()
	r.GET("/tokens", NewReferenceHandler(currency.Default()).GetTokens)

	rec := doRequest(r, "GET", "/tokens", "")

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	tokens := parseJSON(t, rec)["tokens"].([]interface{})
	if len(tokens) == 0 {
		t.Fatal("expected at least one token")
	}
	first := tokens[0].(map[string]interface{})
	if first["id"] == "" || first["id"] == nil {
		t.Errorf("expected token id, got %v", first)
	}
}
