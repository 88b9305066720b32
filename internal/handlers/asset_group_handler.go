package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "navtracker/internal/errors"
	"navtracker/internal/models"
	"navtracker/internal/services"
)

// AssetGroupHandler handles asset group requests.
type AssetGroupHandler struct {
	groupService services.AssetGroupServicer
	auditService services.AuditServicer
}

// NewAssetGroupHandler creates a new AssetGroupHandler.
func NewAssetGroupHandler(groupService services.AssetGroupServicer, auditService services.AuditServicer) *AssetGroupHandler {
	return &AssetGroupHandler{groupService: groupService, auditService: auditService}
}

// CreateAssetGroupRequest represents the request payload for creating an asset group.
type CreateAssetGroupRequest struct {
	Name        string `json:"name" binding:"required,min=1,max=100"`
	Description string `json:"description" binding:"max=500"`
	Type        string `json:"type" binding:"required,asset_group_type"`
	Icon        string `json:"icon" binding:"max=100"`
	Currency    string `json:"currency" binding:"omitempty,currency_code"`
}

// UpdateAssetGroupRequest represents the request payload for updating an asset group.
type UpdateAssetGroupRequest struct {
	Name        *string `json:"name" binding:"omitempty,min=1,max=100"`
	Description *string `json:"description" binding:"omitempty,max=500"`
	Type        *string `json:"type" binding:"omitempty,asset_group_type"`
	Icon        *string `json:"icon" binding:"omitempty,max=100"`
	Currency    *string `json:"currency" binding:"omitempty,currency_code"`
}

// CreateAssetGroup handles the creation of an asset group.
// @Summary     Create an asset group
// @Tags        asset-groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateAssetGroupRequest true "Asset group details"
// @Success     201 {object} models.AssetGroup "Asset group created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /asset-groups [post]
func (h *AssetGroupHandler) CreateAssetGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateAssetGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	group, err := h.groupService.CreateAssetGroup(userID, req.Name, req.Description,
		models.AssetGroupType(req.Type), req.Icon, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionCreate, services.AuditResourceAssetGroup, group.ID, c.ClientIP(),
		map[string]interface{}{"name": group.Name, "type": group.Type, "currency": group.Currency})

	c.JSON(http.StatusCreated, gin.H{"asset_group": group})
}

// GetAssetGroups lists the user's asset groups.
// @Summary     List asset groups
// @Tags        asset-groups
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} models.AssetGroup "Asset groups"
// @Failure     401 {object} ErrorResponse "Unauthorized"
// @Router      /asset-groups [get]
func (h *AssetGroupHandler) GetAssetGroups(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	groups, err := h.groupService.GetUserAssetGroups(userID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset_groups": groups})
}

// GetAssetGroup returns one group with its assets and their price histories.
// @Summary     Get asset group
// @Tags        asset-groups
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Asset group ID"
// @Success     200 {object} models.AssetGroup "Asset group with assets"
// @Failure     400 {object} ErrorResponse "Invalid ID"
// @Failure     404 {object} ErrorResponse "Asset group not found"
// @Router      /asset-groups/{id} [get]
func (h *AssetGroupHandler) GetAssetGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	group, err := h.groupService.GetByIDWithAssets(userID, groupID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"asset_group": group})
}

// UpdateAssetGroup applies partial changes to a group.
// @Summary     Update asset group
// @Description A currency change is applied to every asset in the group.
// @Tags        asset-groups
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string                  true "Asset group ID"
// @Param       request body UpdateAssetGroupRequest true "Changes"
// @Success     200 {object} models.AssetGroup "Updated asset group"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Asset group not found"
// @Router      /asset-groups/{id} [put]
func (h *AssetGroupHandler) UpdateAssetGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateAssetGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	var groupType *models.AssetGroupType
	if req.Type != nil {
		t := models.AssetGroupType(*req.Type)
		groupType = &t
	}

	group, err := h.groupService.UpdateAssetGroup(userID, groupID, req.Name, req.Description, groupType, req.Icon, req.Currency)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionUpdate, services.AuditResourceAssetGroup, groupID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"asset_group": group})
}

// DeleteAssetGroup deletes an empty group.
// @Summary     Delete asset group
// @Description Groups that still contain assets are not deleted.
// @Tags        asset-groups
// @Security    BearerAuth
// @Param       id path string true "Asset group ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Asset group not found"
// @Failure     409 {object} ErrorResponse "Asset group still has assets"
// @Router      /asset-groups/{id} [delete]
func (h *AssetGroupHandler) DeleteAssetGroup(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	groupID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	result, err := h.groupService.DeleteAssetGroup(userID, groupID)
	if err != nil {
		respondWithError(c, err)
		return
	}
	if !result.Success {
		switch result.Reason {
		case services.DeleteReasonHasAssets:
			respondWithError(c, apperrors.ErrAssetGroupHasAssets)
		default:
			respondWithError(c, apperrors.ErrAssetGroupNotFound)
		}
		return
	}

	h.auditService.Log(userID, services.AuditActionDelete, services.AuditResourceAssetGroup, groupID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
