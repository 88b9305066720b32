package models

import (
	"time"

	"navtracker/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// NAVSnapshot is a point-in-time copy of a user's net asset value, in the
// base currency. This is immutable time-series data: no Base embed, no
// UpdatedAt. Breakdown holds the JSON-encoded group totals and counts.
type NAVSnapshot struct {
	ID            string          `gorm:"type:uuid;primaryKey" json:"id"`
	UserID        string          `gorm:"type:uuid;not null;index:idx_nav_snapshots_user_created,priority:1" json:"user_id"`
	TotalAssets   decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"total_assets"`
	TotalDebts    decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"total_debts"`
	NetAssetValue decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"net_asset_value"`
	Breakdown     string          `gorm:"type:text" json:"breakdown"`
	CreatedAt     time.Time       `gorm:"not null;index:idx_nav_snapshots_user_created,priority:2" json:"created_at"`
}

// TableName pins the table name used by the SQL migrations.
func (NAVSnapshot) TableName() string { return "nav_snapshots" }

// BeforeCreate hook generates a UUIDv7 for new records
func (s *NAVSnapshot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New()
	}
	return nil
}
