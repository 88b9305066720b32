package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"navtracker/internal/models"
	"navtracker/internal/services"
)

// DebtHandler handles debt requests.
type DebtHandler struct {
	debtService  services.DebtServicer
	auditService services.AuditServicer
}

// NewDebtHandler creates a new DebtHandler.
func NewDebtHandler(debtService services.DebtServicer, auditService services.AuditServicer) *DebtHandler {
	return &DebtHandler{debtService: debtService, auditService: auditService}
}

// CreateDebtRequest represents the request payload for creating a debt.
type CreateDebtRequest struct {
	Name         string          `json:"name" binding:"required,min=1,max=100"`
	Description  string          `json:"description" binding:"max=500"`
	Amount       decimal.Decimal `json:"amount" swaggertype:"string" binding:"gte=0"`
	InterestRate decimal.Decimal `json:"interest_rate" swaggertype:"string" binding:"gte=0,lte=100"`
	Currency     string          `json:"currency" binding:"omitempty,currency_code"`
	DueDate      *string         `json:"due_date"`
	Status       string          `json:"status" binding:"omitempty,debt_status"`
}

// UpdateDebtRequest represents the request payload for updating a debt.
// An empty due_date clears it.
type UpdateDebtRequest struct {
	Name         *string          `json:"name" binding:"omitempty,min=1,max=100"`
	Description  *string          `json:"description" binding:"omitempty,max=500"`
	Amount       *decimal.Decimal `json:"amount" swaggertype:"string" binding:"omitempty,gte=0"`
	InterestRate *decimal.Decimal `json:"interest_rate" swaggertype:"string" binding:"omitempty,gte=0,lte=100"`
	Currency     *string          `json:"currency" binding:"omitempty,currency_code"`
	DueDate      *string          `json:"due_date"`
	Status       *string          `json:"status" binding:"omitempty,debt_status"`
}

// CreateDebt handles the creation of a debt.
// @Summary     Create a debt
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       request body CreateDebtRequest true "Debt details"
// @Success     201 {object} models.Debt "Debt created"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Router      /debts [post]
func (h *DebtHandler) CreateDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req CreateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	var dueDate *time.Time
	if req.DueDate != nil && *req.DueDate != "" {
		parsed, err := parseDate(*req.DueDate)
		if err != nil {
			respondWithError(c, err)
			return
		}
		dueDate = &parsed
	}

	debt, err := h.debtService.CreateDebt(userID, services.DebtInput{
		Name:         req.Name,
		Description:  req.Description,
		Amount:       req.Amount,
		InterestRate: req.InterestRate,
		Currency:     req.Currency,
		DueDate:      dueDate,
		Status:       models.DebtStatus(req.Status),
	})
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionCreate, services.AuditResourceDebt, debt.ID, c.ClientIP(),
		map[string]interface{}{"name": debt.Name, "amount": debt.Amount.String(), "currency": debt.Currency})

	c.JSON(http.StatusCreated, gin.H{"debt": debt})
}

// GetDebts lists the user's debts.
// @Summary     List debts
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Param       status query string false "Filter by status (active, paid_off, overdue)"
// @Success     200 {array} models.Debt "Debts"
// @Failure     400 {object} ErrorResponse "Invalid status"
// @Router      /debts [get]
func (h *DebtHandler) GetDebts(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}

	var filter struct {
		Status string `form:"status" binding:"omitempty,debt_status"`
	}
	if err := c.ShouldBindQuery(&filter); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	var status *models.DebtStatus
	if filter.Status != "" {
		s := models.DebtStatus(filter.Status)
		status = &s
	}

	debts, err := h.debtService.GetUserDebts(userID, status)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"debts": debts})
}

// GetDebt returns one debt.
// @Summary     Get debt
// @Tags        debts
// @Produce     json
// @Security    BearerAuth
// @Param       id path string true "Debt ID"
// @Success     200 {object} models.Debt "Debt"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Router      /debts/{id} [get]
func (h *DebtHandler) GetDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	debt, err := h.debtService.GetDebtByID(userID, debtID)
	if err != nil {
		respondWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"debt": debt})
}

// UpdateDebt applies partial changes to a debt.
// @Summary     Update debt
// @Tags        debts
// @Accept      json
// @Produce     json
// @Security    BearerAuth
// @Param       id      path string            true "Debt ID"
// @Param       request body UpdateDebtRequest true "Changes"
// @Success     200 {object} models.Debt "Updated debt"
// @Failure     400 {object} ErrorResponse "Invalid input"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Router      /debts/{id} [put]
func (h *DebtHandler) UpdateDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	var req UpdateDebtRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, bindError(err))
		return
	}

	input := services.UpdateDebtInput{
		Name:         req.Name,
		Description:  req.Description,
		Amount:       req.Amount,
		InterestRate: req.InterestRate,
		Currency:     req.Currency,
	}
	if req.Status != nil {
		s := models.DebtStatus(*req.Status)
		input.Status = &s
	}
	if req.DueDate != nil {
		if *req.DueDate == "" {
			input.ClearDueDate = true
		} else {
			parsed, err := parseDate(*req.DueDate)
			if err != nil {
				respondWithError(c, err)
				return
			}
			input.DueDate = &parsed
		}
	}

	debt, err := h.debtService.UpdateDebt(userID, debtID, input)
	if err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionUpdate, services.AuditResourceDebt, debtID, c.ClientIP(), nil)

	c.JSON(http.StatusOK, gin.H{"debt": debt})
}

// DeleteDebt deletes a debt.
// @Summary     Delete debt
// @Tags        debts
// @Security    BearerAuth
// @Param       id path string true "Debt ID"
// @Success     204 "Deleted"
// @Failure     404 {object} ErrorResponse "Debt not found"
// @Router      /debts/{id} [delete]
func (h *DebtHandler) DeleteDebt(c *gin.Context) {
	userID, err := getUserID(c)
	if err != nil {
		respondWithError(c, err)
		return
	}
	debtID, err := parsePathID(c, "id")
	if err != nil {
		respondWithError(c, err)
		return
	}

	if err := h.debtService.DeleteDebt(userID, debtID); err != nil {
		respondWithError(c, err)
		return
	}

	h.auditService.Log(userID, services.AuditActionDelete, services.AuditResourceDebt, debtID, c.ClientIP(), nil)

	c.Status(http.StatusNoContent)
}
