package models

import (
	"time"

	"navtracker/internal/uuid"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PriceHistoryNote tags why a price history entry was recorded. Display text
// for a note is owned by the presentation layer.
type PriceHistoryNote string

const (
	PriceNoteInitial      PriceHistoryNote = "initial"
	PriceNoteManualUpdate PriceHistoryNote = "manual_update"
	PriceNoteRefresh      PriceHistoryNote = "refresh"
)

// PriceHistory is one immutable value observation for an asset. Quantity is
// the asset's quantity at the time of recording.
type PriceHistory struct {
	ID         string           `gorm:"type:uuid;primaryKey" json:"id"`
	AssetID    string           `gorm:"type:uuid;not null;index:idx_price_history_asset_recorded,priority:1" json:"asset_id"`
	Value      decimal.Decimal  `gorm:"type:decimal(20,2);not null" json:"value"`
	Quantity   decimal.Decimal  `gorm:"type:decimal(28,8);not null" json:"quantity"`
	Note       PriceHistoryNote `gorm:"size:50" json:"note"`
	RecordedAt time.Time        `gorm:"not null;index:idx_price_history_asset_recorded,priority:2" json:"recorded_at"`
}

// TableName pins the table name used by the SQL migrations.
func (PriceHistory) TableName() string { return "price_history" }

// BeforeCreate hook generates a UUIDv7 for new records
func (p *PriceHistory) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.New()
	}
	return nil
}
