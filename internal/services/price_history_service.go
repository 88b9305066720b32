package services

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	apperrors "navtracker/internal/errors"
	"navtracker/internal/models"
)

// priceHistoryService maintains the append-only price history of assets.
type priceHistoryService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewPriceHistoryService creates a new PriceHistoryServicer.
func NewPriceHistoryService(db *gorm.DB) PriceHistoryServicer {
	return &priceHistoryService{db: db, now: time.Now}
}

// Record appends one entry inside tx. No ordering or monotonicity checks are
// made against earlier entries.
func (s *priceHistoryService) Record(tx *gorm.DB, assetID string, value, quantity decimal.Decimal, note models.PriceHistoryNote) (*models.PriceHistory, error) {
	if tx == nil {
		tx = s.db
	}
	entry := &models.PriceHistory{
		AssetID:    assetID,
		Value:      value,
		Quantity:   quantity,
		Note:       note,
		RecordedAt: s.now().UTC(),
	}
	if err := tx.Create(entry).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entry, nil
}

// HistoryFor returns the asset's entries most recent first. An asset that is
// missing or owned by someone else yields an empty list.
func (s *priceHistoryService) HistoryFor(userID, assetID string) ([]models.PriceHistory, error) {
	return s.list(userID, assetID, "recorded_at DESC, id DESC")
}

// ChartSeries returns the asset's entries in chronological order.
func (s *priceHistoryService) ChartSeries(userID, assetID string) ([]models.PriceHistory, error) {
	return s.list(userID, assetID, "recorded_at ASC, id ASC")
}

func (s *priceHistoryService) list(userID, assetID, order string) ([]models.PriceHistory, error) {
	var asset models.Asset
	if err := s.db.Select("id").Where("id = ? AND user_id = ?", assetID, userID).First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return []models.PriceHistory{}, nil
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	entries := []models.PriceHistory{}
	if err := s.db.Where("asset_id = ?", asset.ID).Order(order).Find(&entries).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return entries, nil
}
