// Package validator provides custom validation functions for Gin's binding engine.
package validator

import (
	"reflect"
	"sync"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"navtracker/internal/currency"
	"navtracker/internal/models"
)

var (
	mu     sync.RWMutex
	rates  = currency.Default()
	called sync.Once
)

// SetCurrencies replaces the table that currency_code validates against.
func SetCurrencies(t *currency.Table) {
	if t == nil {
		return
	}
	mu.Lock()
	rates = t
	mu.Unlock()
}

// Register registers all custom validators with the Gin binding engine.
// Calling it more than once is harmless.
func Register() {
	called.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			registerOn(v)
		}
	})
}

func registerOn(v *validator.Validate) {
	v.RegisterCustomTypeFunc(decimalValue, decimal.Decimal{})
	_ = v.RegisterValidation("currency_code", validateCurrencyCode)
	_ = v.RegisterValidation("asset_group_type", validateAssetGroupType)
	_ = v.RegisterValidation("debt_status", validateDebtStatus)
	_ = v.RegisterValidation("avatar", validateAvatar)
}

// decimalValue lets numeric tags such as gte=0 apply to decimal fields.
func decimalValue(field reflect.Value) interface{} {
	if d, ok := field.Interface().(decimal.Decimal); ok {
		f, _ := d.Float64()
		return f
	}
	return nil
}

func validateCurrencyCode(fl validator.FieldLevel) bool {
	mu.RLock()
	defer mu.RUnlock()
	return rates.Supported(fl.Field().String())
}

func validateAssetGroupType(fl validator.FieldLevel) bool {
	return models.AssetGroupType(fl.Field().String()).IsValid()
}

func validateDebtStatus(fl validator.FieldLevel) bool {
	return models.DebtStatus(fl.Field().String()).IsValid()
}

func validateAvatar(fl validator.FieldLevel) bool {
	return models.IsValidAvatar(fl.Field().String())
}
