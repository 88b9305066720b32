package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"navtracker/internal/currency"
	apperrors "navtracker/internal/errors"
	"navtracker/internal/models"
)

// assetGroupService handles asset group business logic.
type assetGroupService struct {
	db    *gorm.DB
	rates *currency.Table
}

// NewAssetGroupService creates a new AssetGroupServicer.
func NewAssetGroupService(db *gorm.DB, rates *currency.Table) AssetGroupServicer {
	return &assetGroupService{db: db, rates: rates}
}

// CreateAssetGroup creates a new asset group. Icon defaults to the generic
// icon and currency to the base currency.
func (s *assetGroupService) CreateAssetGroup(userID, name, description string, groupType models.AssetGroupType, icon, currencyCode string) (*models.AssetGroup, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset group name is required")
	}
	if !groupType.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid asset group type")
	}
	if icon == "" {
		icon = models.DefaultAssetGroupIcon
	}
	code, err := normalizeCurrency(s.rates, currencyCode)
	if err != nil {
		return nil, err
	}

	group := &models.AssetGroup{
		UserID:      userID,
		Name:        name,
		Description: description,
		Type:        groupType,
		Icon:        icon,
		Currency:    code,
	}
	if err := s.db.Create(group).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return group, nil
}

// GetUserAssetGroups lists the user's groups, newest first.
func (s *assetGroupService) GetUserAssetGroups(userID string) ([]models.AssetGroup, error) {
	groups := []models.AssetGroup{}
	if err := s.db.Where("user_id = ?", userID).Order("created_at DESC, id DESC").Find(&groups).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return groups, nil
}

// GetAssetGroupByID retrieves a single group owned by the user.
func (s *assetGroupService) GetAssetGroupByID(userID, groupID string) (*models.AssetGroup, error) {
	var group models.AssetGroup
	if err := s.db.Where("id = ? AND user_id = ?", groupID, userID).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetGroupNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &group, nil
}

// GetByIDWithAssets retrieves a group together with its assets and each
// asset's price history, most recent entry first. Three queries are issued
// regardless of the number of assets.
func (s *assetGroupService) GetByIDWithAssets(userID, groupID string) (*models.AssetGroup, error) {
	group, err := s.GetAssetGroupByID(userID, groupID)
	if err != nil {
		return nil, err
	}

	assets := []models.Asset{}
	if err := s.db.Where("asset_group_id = ? AND user_id = ?", group.ID, userID).
		Order("created_at DESC, id DESC").
		Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	if len(assets) > 0 {
		ids := make([]string, len(assets))
		for i := range assets {
			ids[i] = assets[i].ID
		}
		var history []models.PriceHistory
		if err := s.db.Where("asset_id IN ?", ids).
			Order("recorded_at DESC, id DESC").
			Find(&history).Error; err != nil {
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		byAsset := make(map[string][]models.PriceHistory, len(assets))
		for _, h := range history {
			byAsset[h.AssetID] = append(byAsset[h.AssetID], h)
		}
		for i := range assets {
			assets[i].PriceHistory = byAsset[assets[i].ID]
		}
	}

	group.Assets = assets
	return group, nil
}

// UpdateAssetGroup applies the non-nil changes. A currency change is copied
// onto every asset of the group without touching values or price history.
func (s *assetGroupService) UpdateAssetGroup(userID, groupID string, name, description *string, groupType *models.AssetGroupType, icon, currencyCode *string) (*models.AssetGroup, error) {
	group, err := s.GetAssetGroupByID(userID, groupID)
	if err != nil {
		return nil, err
	}

	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset group name is required")
		}
		group.Name = trimmed
	}
	if description != nil {
		group.Description = *description
	}
	if groupType != nil {
		if !groupType.IsValid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid asset group type")
		}
		group.Type = *groupType
	}
	if icon != nil && *icon != "" {
		group.Icon = *icon
	}

	currencyChanged := false
	if currencyCode != nil {
		code, err := normalizeCurrency(s.rates, *currencyCode)
		if err != nil {
			return nil, err
		}
		currencyChanged = code != group.Currency
		group.Currency = code
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(group).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if currencyChanged {
			if err := tx.Model(&models.Asset{}).
				Where("asset_group_id = ? AND user_id = ?", group.ID, userID).
				Update("currency", group.Currency).Error; err != nil {
				return apperrors.Wrap(apperrors.ErrInternalServer, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return group, nil
}

// DeleteAssetGroup removes an empty group. A group that still owns assets,
// or is not found, is reported in the result rather than as an error.
func (s *assetGroupService) DeleteAssetGroup(userID, groupID string) (DeleteResult, error) {
	var result DeleteResult
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var group models.AssetGroup
		if err := tx.Where("id = ? AND user_id = ?", groupID, userID).First(&group).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				result = DeleteResult{Reason: DeleteReasonNotFound}
				return nil
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}

		var assetCount int64
		if err := tx.Model(&models.Asset{}).Where("asset_group_id = ?", group.ID).Count(&assetCount).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if assetCount > 0 {
			result = DeleteResult{Reason: DeleteReasonHasAssets}
			return nil
		}

		if err := tx.Delete(&group).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		result = DeleteResult{Success: true}
		return nil
	})
	if err != nil {
		return DeleteResult{}, err
	}
	return result, nil
}

// normalizeCurrency upper-cases code and checks it against the table. An
// empty code selects the base currency.
func normalizeCurrency(rates *currency.Table, code string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return rates.Base(), nil
	}
	if !rates.Supported(code) {
		return "", apperrors.WithMessage(apperrors.ErrInvalidInput, "unsupported currency "+code)
	}
	return code, nil
}
