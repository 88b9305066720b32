package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	apperrors "navtracker/internal/errors"
	"navtracker/internal/pagination"
	"navtracker/internal/services"
)

// AssetHandler handles asset requests, including price refreshes.
type AssetHandler struct {
	assetService   services.AssetServicer
	historyService services.PriceHistoryServicer
	auditService   services.AuditServicer
}

// NewAssetHandler creates a new AssetHandler.
func NewAssetHandler(assetService services.AssetServicer, historyService services.PriceHistoryServicer, auditService services.AuditServicer) *AssetHandler {
	return &AssetHandler{assetService: assetService, historyService: historyService, auditService: auditService}
}

// CreateAssetRequest represents the request payload for creating an asset.
// Currency defaults to the group's currency.
type CreateAssetRequest struct {
	AssetGroupID  string           `json:"asset_group_id" binding:"required,uuid"`
	Name          string           `json:"name" binding:"required,min=1,max=100"`
	Description   string           `json:"description" binding:"max=500"`
	CurrentValue  decimal.Decimal  `json:"current_value" swaggertype:"string" binding:"gte=0"`
	Quantity      *decimal.Decimal `json:"quantity" swaggertype:"string" binding:"omitempty,gte=0"`
	Currency      string           `json:"currency" binding:"omitempty,currency_code"`
	CryptoTokenID *string          `json:"crypto_token_id" binding:"omitempty,max=100"`
}

// UpdateAssetRequest represents the request payload for updating an asset.
// An empty crypto_token_id unlinks the asset from the price source.
type UpdateAssetRequest struct {
	AssetGroupID  *string          `json:"asset_group_id" binding:"omitempty,uuid"`
	Name          *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description   *string          `json:"description" binding:"omitempty,max=500"`
	CurrentValue  *decimal.Decimal `json:"current_value" swaggertype:"string" binding:"omitempty,gte=0"`
	Quantity      *decimal.Decimal `json:"quantity" swaggertype:"string" binding:"omitempty,gte=0"`
	Currency      *string          `json:"currency" binding:"omitempty,currency_code"`
	CryptoTokenID *string          `json:"crypto_token_id" binding:"omitempty,max=100"`
}

// CreateAsset handles the creation of an asset.
// @Summary     Create an asset
// @Description Creates the asset and its initial price history entry.
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAssetRequest true "Asset details"
// @Success     201 {object} models.Asset "Asset created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Asset group not found"
// @Router      /assets [post]
func (h *AssetHandler) CreateAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	quantity := decimal.NewFromInt(1)
	if req.Quantity != nil {
		quantity = *req.Quantity
	}

	asset, err := h.assetService.CreateAsset(userID, services.CreateAssetInput{
		AssetGroupID:  req.AssetGroupID,
		Name:          req.Name,
		Description:   req.Description,
		CurrentValue:  req.CurrentValue,
		Quantity:      quantity,
		Currency:      req.Currency,
		CryptoTokenID: req.CryptoTokenID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionCreate, services.AuditResourceAsset, asset.ID, c.ClientIP(),
		map[string]interface{}{"name": asset.Name, "current_value": asset.CurrentValue.String(), "currency": asset.Currency})

	c.JSON(http.StatusCreated, gin.H{"asset": asset})
}

// GetAssets lists the user's assets.
// @Summary     List assets
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       page      query int false "Page number (default 1)"
// @Param       page_size query int false "Items per page (default 20, max 100)"
// @Success     200 {object} pagination.PageResponse[models.Asset] "Paginated assets"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /assets [get]
func (h *AssetHandler) GetAssets(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var page pagination.PageRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	result, err := h.assetService.GetUserAssets(userID, page)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetAsset returns one asset with its price history.
// @Summary     Get asset
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Success     200 {object} models.Asset "Asset with history"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /assets/{id} [get]
func (h *AssetHandler) GetAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	asset, err := h.assetService.GetByIDWithHistory(userID, assetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// GetAssetHistory returns an asset's price history.
// @Summary     Get asset price history
// @Description Most recent entry first; order=asc returns the chart series oldest first.
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       id    path  string true  "Asset ID"
// @Param       order query string false "asc or desc (default desc)"
// @Success     200 {array} models.PriceHistory "Price history"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /assets/{id}/history [get]
func (h *AssetHandler) GetAssetHistory(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var order struct {
		Order string `form:"order" binding:"omitempty,oneof=asc desc"`
	}
	if err := c.ShouldBindQuery(&order); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	fetch := h.historyService.HistoryFor
	if order.Order == "asc" {
		fetch = h.historyService.ChartSeries
	}
	history, err := fetch(userID, assetID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"history": history})
}

// UpdateAsset applies partial changes to an asset.
// @Summary     Update asset
// @Description A value or quantity change appends one manual_update history entry.
// @Tags        assets
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string             true "Asset ID"
// @Param       request body UpdateAssetRequest true "Changes"
// @Success     200 {object} models.Asset "Updated asset"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /assets/{id} [put]
func (h *AssetHandler) UpdateAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	asset, err := h.assetService.UpdateAsset(userID, assetID, services.UpdateAssetInput{
		AssetGroupID:  req.AssetGroupID,
		Name:          req.Name,
		Description:   req.Description,
		CurrentValue:  req.CurrentValue,
		Quantity:      req.Quantity,
		Currency:      req.Currency,
		CryptoTokenID: req.CryptoTokenID,
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionUpdate, services.AuditResourceAsset, assetID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"asset": asset})
}

// DeleteAsset deletes an asset and its history.
// @Summary     Delete asset
// @Tags        assets
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Router      /assets/{id} [delete]
func (h *AssetHandler) DeleteAsset(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.assetService.DeleteAsset(userID, assetID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDelete, services.AuditResourceAsset, assetID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}

// RefreshAssetPrice revalues a tracked asset from the price source.
// @Summary     Refresh asset price
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset ID"
// @Success     200 {object} services.RefreshOutcome "Refresh outcome"
// @Failure     400 {object} ErrorResponse "Asset not tracked"
// @Failure     404 {object} ErrorResponse "Asset not found"
// @Failure     503 {object} ErrorResponse "Price unavailable"
// @Router      /assets/{id}/refresh [post]
func (h *AssetHandler) RefreshAssetPrice(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	assetID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	outcome, err := h.assetService.RefreshPrice(c.Request.Context(), userID, assetID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if outcome.Status == services.RefreshUnavailable {
		respondWithError(c, apperrors.ErrPriceUnavailable)
		return
	}

	if outcome.Status == services.RefreshUpdated {
		h.auditService.Log(userID, services.AuditActionRefresh, services.AuditResourceAsset, assetID, c.ClientIP(),
			map[string]interface{}{"old_value": outcome.OldValue.String(), "new_value": outcome.NewValue.String()})
	}

	c.JSON(http.StatusOK, gin.H{"refresh": outcome})
}

// RefreshAllPrices revalues every tracked asset with one price source request.
// @Summary     Refresh all asset prices
// @Tags        assets
// @Produce     json
// @Security    BearerAuth
// @Success     200 {object} services.RefreshSummary "Refresh summary"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /assets/refresh [post]
func (h *AssetHandler) RefreshAllPrices(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	summary, err := h.assetService.RefreshAllPrices(c.Request.Context(), userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"refresh": summary})
}
