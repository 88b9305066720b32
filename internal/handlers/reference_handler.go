package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"navtracker/internal/currency"
	"navtracker/internal/models"
	"navtracker/internal/pricing"
)

// ReferenceHandler serves the static lookup data clients need to build forms.
type ReferenceHandler struct {
	rates *currency.Table
}

// NewReferenceHandler creates a new ReferenceHandler.
func NewReferenceHandler(rates *currency.Table) *ReferenceHandler {
	return &ReferenceHandler{rates: rates}
}

// GetCurrencies lists the supported currencies and their rates.
// @Summary     Supported currencies
// @Tags        reference
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} currency.Currency "Currencies"
// @Router      /currencies [get]
func (h *ReferenceHandler) GetCurrencies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"base":        h.rates.Base(),
		"currencies":  h.rates.All(),
		"group_types": models.AssetGroupTypes,
		"avatars":     models.Avatars,
	})
}

// GetTokens lists the tokens that can be linked to the price source.
// @Summary     Trackable tokens
// @Tags        reference
// @Produce     json
// @Security    BearerAuth
// @Success     200 {array} pricing.Token "Tokens"
// @Router      /tokens [get]
func (h *ReferenceHandler) GetTokens(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tokens": pricing.Tokens()})
}
