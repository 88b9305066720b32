package services

import (
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"navtracker/internal/currency"
	apperrors "navtracker/internal/errors"
	"navtracker/internal/models"
)

// aggregatorService sums a user's assets and debts in the base currency.
// Nothing is cached; every call reads current rows.
type aggregatorService struct {
	db    *gorm.DB
	rates *currency.Table
}

// NewAggregatorService creates a new AggregatorServicer.
func NewAggregatorService(db *gorm.DB, rates *currency.Table) AggregatorServicer {
	return &aggregatorService{db: db, rates: rates}
}

// TotalAssetsFor sums the current value of every asset the user owns.
func (s *aggregatorService) TotalAssetsFor(userID string) (decimal.Decimal, error) {
	var assets []models.Asset
	if err := s.db.Select("current_value", "currency").
		Where("user_id = ?", userID).
		Find(&assets).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	total := decimal.Zero
	for i := range assets {
		total = total.Add(s.rates.ToBase(assets[i].CurrentValue, assets[i].Currency))
	}
	return total, nil
}

// TotalActiveDebtFor sums the amount of the user's active debts.
func (s *aggregatorService) TotalActiveDebtFor(userID string) (decimal.Decimal, error) {
	var debts []models.Debt
	if err := s.db.Select("amount", "currency").
		Where("user_id = ? AND status = ?", userID, models.DebtStatusActive).
		Find(&debts).Error; err != nil {
		return decimal.Zero, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	total := decimal.Zero
	for i := range debts {
		total = total.Add(s.rates.ToBase(debts[i].Amount, debts[i].Currency))
	}
	return total, nil
}

// GroupBreakdown returns one row per asset group, in creation order. Groups
// without assets are included with a zero total.
func (s *aggregatorService) GroupBreakdown(userID string) ([]GroupTotal, error) {
	var groups []models.AssetGroup
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Find(&groups).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var assets []models.Asset
	if err := s.db.Select("asset_group_id", "current_value", "currency").
		Where("user_id = ?", userID).
		Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	rows := make([]GroupTotal, len(groups))
	index := make(map[string]int, len(groups))
	for i, g := range groups {
		index[g.ID] = i
		rows[i] = GroupTotal{
			GroupID:    g.ID,
			Name:       g.Name,
			Type:       g.Type,
			Icon:       g.Icon,
			Currency:   g.Currency,
			TotalValue: decimal.Zero,
		}
	}
	for i := range assets {
		idx, ok := index[assets[i].AssetGroupID]
		if !ok {
			continue
		}
		rows[idx].TotalValue = rows[idx].TotalValue.Add(s.rates.ToBase(assets[i].CurrentValue, assets[i].Currency))
		rows[idx].AssetCount++
	}
	return rows, nil
}

// CountAssets returns the number of assets the user owns.
func (s *aggregatorService) CountAssets(userID string) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Asset{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}

// CountActiveDebts returns the number of the user's active debts.
func (s *aggregatorService) CountActiveDebts(userID string) (int64, error) {
	var count int64
	if err := s.db.Model(&models.Debt{}).
		Where("user_id = ? AND status = ?", userID, models.DebtStatusActive).
		Count(&count).Error; err != nil {
		return 0, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return count, nil
}
