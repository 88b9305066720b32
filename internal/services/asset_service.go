package services

import (
	"context"
	"errors"
	"strings"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"navtracker/internal/currency"
	apperrors "navtracker/internal/errors"
	"navtracker/internal/logger"
	"navtracker/internal/metrics"
	"navtracker/internal/models"
	"navtracker/internal/pagination"
)

// priceQuoteCurrency is the currency prices from the price source are quoted in.
const priceQuoteCurrency = "USD"

// refreshEpsilon is the smallest value change a refresh will apply.
var refreshEpsilon = decimal.RequireFromString("0.01")

// assetService handles asset business logic.
type assetService struct {
	db      *gorm.DB
	history PriceHistoryServicer
	prices  PriceSource
	rates   *currency.Table
	metrics *metrics.Metrics
}

// NewAssetService creates a new AssetServicer. prices may be nil, in which
// case every refresh reports the price as unavailable.
func NewAssetService(db *gorm.DB, history PriceHistoryServicer, prices PriceSource, rates *currency.Table, m *metrics.Metrics) AssetServicer {
	return &assetService{db: db, history: history, prices: prices, rates: rates, metrics: m}
}

// CreateAsset creates an asset and its initial price history entry in one
// transaction.
func (s *assetService) CreateAsset(userID string, input CreateAssetInput) (*models.Asset, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset name is required")
	}
	if input.CurrentValue.IsNegative() || input.Quantity.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "value and quantity must not be negative")
	}

	var group models.AssetGroup
	if err := s.db.Where("id = ? AND user_id = ?", input.AssetGroupID, userID).First(&group).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetGroupNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	code := group.Currency
	if strings.TrimSpace(input.Currency) != "" {
		var err error
		if code, err = normalizeCurrency(s.rates, input.Currency); err != nil {
			return nil, err
		}
	}

	asset := &models.Asset{
		UserID:        userID,
		AssetGroupID:  group.ID,
		Name:          name,
		Description:   input.Description,
		CurrentValue:  input.CurrentValue.Round(2),
		Quantity:      input.Quantity,
		Currency:      code,
		CryptoTokenID: normalizeTokenID(input.CryptoTokenID),
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(asset).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		_, err := s.history.Record(tx, asset.ID, asset.CurrentValue, asset.Quantity, models.PriceNoteInitial)
		return err
	})
	if err != nil {
		return nil, err
	}

	return asset, nil
}

// GetAllWithGroup lists the user's assets, newest first, each with its group.
func (s *assetService) GetAllWithGroup(userID string) ([]models.Asset, error) {
	assets := []models.Asset{}
	if err := s.db.Preload("AssetGroup").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return assets, nil
}

// GetUserAssets retrieves a paginated list of the user's assets with groups.
func (s *assetService) GetUserAssets(userID string, page pagination.PageRequest) (*pagination.PageResponse[models.Asset], error) {
	page.Defaults()

	var totalItems int64
	base := s.db.Model(&models.Asset{}).Where("user_id = ?", userID)
	if err := base.Count(&totalItems).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	var assets []models.Asset
	if err := base.Preload("AssetGroup").
		Order("created_at DESC, id DESC").
		Scopes(pagination.Paginate(page)).
		Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	result := pagination.NewPageResponse(assets, page.Page, page.PageSize, totalItems)
	return &result, nil
}

// GetRecentAssets returns up to limit of the user's most recently created assets.
func (s *assetService) GetRecentAssets(userID string, limit int) ([]models.Asset, error) {
	if limit <= 0 {
		limit = 5
	}
	assets := []models.Asset{}
	if err := s.db.Preload("AssetGroup").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return assets, nil
}

// GetAssetByID retrieves an asset owned by the user, with its group.
func (s *assetService) GetAssetByID(userID, assetID string) (*models.Asset, error) {
	var asset models.Asset
	if err := s.db.Preload("AssetGroup").
		Where("id = ? AND user_id = ?", assetID, userID).
		First(&asset).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrAssetNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &asset, nil
}

// GetByIDWithHistory retrieves an asset with its group and its price history,
// most recent entry first.
func (s *assetService) GetByIDWithHistory(userID, assetID string) (*models.Asset, error) {
	asset, err := s.GetAssetByID(userID, assetID)
	if err != nil {
		return nil, err
	}
	history, err := s.history.HistoryFor(userID, asset.ID)
	if err != nil {
		return nil, err
	}
	asset.PriceHistory = history
	return asset, nil
}

// UpdateAsset applies the non-nil changes. A change to the value or the
// quantity appends exactly one manual_update entry in the same transaction;
// other changes append nothing.
func (s *assetService) UpdateAsset(userID, assetID string, input UpdateAssetInput) (*models.Asset, error) {
	asset, err := s.GetAssetByID(userID, assetID)
	if err != nil {
		return nil, err
	}

	if input.AssetGroupID != nil && *input.AssetGroupID != asset.AssetGroupID {
		var group models.AssetGroup
		if err := s.db.Where("id = ? AND user_id = ?", *input.AssetGroupID, userID).First(&group).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, apperrors.ErrAssetGroupNotFound
			}
			return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		asset.AssetGroupID = group.ID
		asset.AssetGroup = &group
	}
	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "asset name is required")
		}
		asset.Name = name
	}
	if input.Description != nil {
		asset.Description = *input.Description
	}
	if input.Currency != nil {
		code, err := normalizeCurrency(s.rates, *input.Currency)
		if err != nil {
			return nil, err
		}
		asset.Currency = code
	}
	if input.CryptoTokenID != nil {
		asset.CryptoTokenID = normalizeTokenID(input.CryptoTokenID)
	}

	valueChanged := false
	if input.CurrentValue != nil {
		if input.CurrentValue.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "value must not be negative")
		}
		value := input.CurrentValue.Round(2)
		if !value.Equal(asset.CurrentValue) {
			asset.CurrentValue = value
			valueChanged = true
		}
	}
	if input.Quantity != nil {
		if input.Quantity.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "quantity must not be negative")
		}
		if !input.Quantity.Equal(asset.Quantity) {
			asset.Quantity = *input.Quantity
			valueChanged = true
		}
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("AssetGroup", "PriceHistory").Save(asset).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if !valueChanged {
			return nil
		}
		_, err := s.history.Record(tx, asset.ID, asset.CurrentValue, asset.Quantity, models.PriceNoteManualUpdate)
		return err
	})
	if err != nil {
		return nil, err
	}

	return asset, nil
}

// DeleteAsset removes an asset and its price history.
func (s *assetService) DeleteAsset(userID, assetID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var asset models.Asset
		if err := tx.Where("id = ? AND user_id = ?", assetID, userID).First(&asset).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.ErrAssetNotFound
			}
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Where("asset_id = ?", asset.ID).Delete(&models.PriceHistory{}).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		if err := tx.Delete(&asset).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		return nil
	})
}

// RefreshPrice fetches the current price for a tracked asset and applies it.
// A missing price is reported as RefreshUnavailable, not as an error.
func (s *assetService) RefreshPrice(ctx context.Context, userID, assetID string) (*RefreshOutcome, error) {
	asset, err := s.GetAssetByID(userID, assetID)
	if err != nil {
		return nil, err
	}
	if !asset.IsTracked() {
		return nil, apperrors.ErrAssetNotTracked
	}

	var price decimal.Decimal
	ok := false
	if s.prices != nil {
		price, ok = s.prices.GetPrice(ctx, *asset.CryptoTokenID)
	}
	if !ok {
		outcome := &RefreshOutcome{
			AssetID:  asset.ID,
			Status:   RefreshUnavailable,
			OldValue: asset.CurrentValue,
			NewValue: asset.CurrentValue,
		}
		s.metrics.ObserveRefresh(string(outcome.Status))
		return outcome, nil
	}

	return s.applyPrice(asset, price)
}

// RefreshAllPrices refreshes every tracked asset of the user with a single
// price source request. Assets without a price are counted as failed and left
// untouched.
func (s *assetService) RefreshAllPrices(ctx context.Context, userID string) (*RefreshSummary, error) {
	var assets []models.Asset
	if err := s.db.Where("user_id = ? AND crypto_token_id IS NOT NULL AND crypto_token_id <> ''", userID).
		Order("created_at ASC, id ASC").
		Find(&assets).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}

	summary := &RefreshSummary{Outcomes: []RefreshOutcome{}}
	if len(assets) == 0 {
		return summary, nil
	}

	tokenIDs := make([]string, 0, len(assets))
	for i := range assets {
		tokenIDs = append(tokenIDs, *assets[i].CryptoTokenID)
	}

	var prices map[string]decimal.Decimal
	if s.prices != nil {
		prices = s.prices.GetPrices(ctx, tokenIDs)
	}

	for i := range assets {
		asset := &assets[i]
		price, ok := prices[*asset.CryptoTokenID]
		if !ok {
			summary.Failed++
			summary.Outcomes = append(summary.Outcomes, RefreshOutcome{
				AssetID:  asset.ID,
				Status:   RefreshUnavailable,
				OldValue: asset.CurrentValue,
				NewValue: asset.CurrentValue,
			})
			s.metrics.ObserveRefresh(string(RefreshUnavailable))
			continue
		}

		outcome, err := s.applyPrice(asset, price)
		if err != nil {
			return nil, err
		}
		if outcome.Status == RefreshUpdated {
			summary.Updated++
		} else {
			summary.Unchanged++
		}
		summary.Outcomes = append(summary.Outcomes, *outcome)
	}

	logger.Get().Infow("Refreshed asset prices",
		"user_id", userID,
		"updated", summary.Updated,
		"unchanged", summary.Unchanged,
		"failed", summary.Failed,
	)
	return summary, nil
}

// applyPrice values the asset at price per unit, converted from the quote
// currency into the asset's currency and rounded to cents. The new value is
// written, with one refresh entry, only when it differs from the current
// value by more than refreshEpsilon.
func (s *assetService) applyPrice(asset *models.Asset, price decimal.Decimal) (*RefreshOutcome, error) {
	newValue := s.rates.Convert(price.Mul(asset.Quantity), priceQuoteCurrency, asset.Currency).Round(2)
	outcome := &RefreshOutcome{
		AssetID:  asset.ID,
		Price:    price,
		OldValue: asset.CurrentValue,
		NewValue: asset.CurrentValue,
		Status:   RefreshUnchanged,
	}

	if asset.CurrentValue.Sub(newValue).Abs().LessThanOrEqual(refreshEpsilon) {
		s.metrics.ObserveRefresh(string(outcome.Status))
		return outcome, nil
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Asset{}).
			Where("id = ?", asset.ID).
			Update("current_value", newValue).Error; err != nil {
			return apperrors.Wrap(apperrors.ErrInternalServer, err)
		}
		_, err := s.history.Record(tx, asset.ID, newValue, asset.Quantity, models.PriceNoteRefresh)
		return err
	})
	if err != nil {
		return nil, err
	}

	asset.CurrentValue = newValue
	outcome.NewValue = newValue
	outcome.Status = RefreshUpdated
	s.metrics.ObserveRefresh(string(outcome.Status))
	return outcome, nil
}

// normalizeTokenID lower-cases a price source id; blank ids become nil.
func normalizeTokenID(id *string) *string {
	if id == nil {
		return nil
	}
	normalized := strings.ToLower(strings.TrimSpace(*id))
	if normalized == "" {
		return nil
	}
	return &normalized
}
