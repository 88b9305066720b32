package models

import "github.com/shopspring/decimal"

// Asset is a single holding inside an asset group. CryptoTokenID links the
// asset to the external price source; it is nil for manually valued assets.
type Asset struct {
	Base
	UserID        string          `gorm:"type:uuid;not null;index" json:"user_id"`
	AssetGroupID  string          `gorm:"type:uuid;not null;index" json:"asset_group_id"`
	Name          string          `gorm:"size:100;not null" json:"name"`
	Description   string          `gorm:"type:text" json:"description"`
	CurrentValue  decimal.Decimal `gorm:"type:decimal(20,2);not null;default:0" json:"current_value"`
	Quantity      decimal.Decimal `gorm:"type:decimal(28,8);not null" json:"quantity"`
	Currency      string          `gorm:"size:3;not null;default:'VND'" json:"currency"`
	CryptoTokenID *string         `gorm:"size:100" json:"crypto_token_id,omitempty"`

	// Relationships
	AssetGroup   *AssetGroup    `gorm:"foreignKey:AssetGroupID" json:"asset_group,omitempty"`
	PriceHistory []PriceHistory `gorm:"foreignKey:AssetID;constraint:OnDelete:CASCADE" json:"price_history,omitempty"`
}

// IsTracked reports whether the asset follows a live price feed.
func (a *Asset) IsTracked() bool {
	return a.CryptoTokenID != nil && *a.CryptoTokenID != ""
}
