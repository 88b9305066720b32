package services

import (
	"errors"
	"strings"

	"gorm.io/gorm"

	"navtracker/internal/currency"
	apperrors "navtracker/internal/errors"
	"navtracker/internal/models"
)

// debtService handles debt business logic.
type debtService struct {
	db    *gorm.DB
	rates *currency.Table
}

// NewDebtService creates a new DebtServicer.
func NewDebtService(db *gorm.DB, rates *currency.Table) DebtServicer {
	return &debtService{db: db, rates: rates}
}

// CreateDebt records a new debt. Status defaults to active.
func (s *debtService) CreateDebt(userID string, input DebtInput) (*models.Debt, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "debt name is required")
	}
	if input.Amount.IsNegative() || input.InterestRate.IsNegative() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount and interest rate must not be negative")
	}
	status := input.Status
	if status == "" {
		status = models.DebtStatusActive
	}
	if !status.IsValid() {
		return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid debt status")
	}
	code, err := normalizeCurrency(s.rates, input.Currency)
	if err != nil {
		return nil, err
	}

	debt := &models.Debt{
		UserID:       userID,
		Name:         name,
		Description:  input.Description,
		Amount:       input.Amount.Round(2),
		InterestRate: input.InterestRate,
		Currency:     code,
		DueDate:      utcPtr(input.DueDate),
		Status:       status,
	}
	if err := s.db.Create(debt).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return debt, nil
}

// GetUserDebts lists the user's debts, newest first, optionally filtered by status.
func (s *debtService) GetUserDebts(userID string, status *models.DebtStatus) ([]models.Debt, error) {
	query := s.db.Where("user_id = ?", userID)
	if status != nil {
		query = query.Where("status = ?", *status)
	}

	debts := []models.Debt{}
	if err := query.Order("created_at DESC, id DESC").Find(&debts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return debts, nil
}

// GetRecentDebts returns up to limit of the user's most recently created debts.
func (s *debtService) GetRecentDebts(userID string, limit int) ([]models.Debt, error) {
	if limit <= 0 {
		limit = 5
	}
	debts := []models.Debt{}
	if err := s.db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&debts).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return debts, nil
}

// GetDebtByID retrieves a debt owned by the user.
func (s *debtService) GetDebtByID(userID, debtID string) (*models.Debt, error) {
	var debt models.Debt
	if err := s.db.Where("id = ? AND user_id = ?", debtID, userID).First(&debt).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrDebtNotFound
		}
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return &debt, nil
}

// UpdateDebt applies the non-nil changes.
func (s *debtService) UpdateDebt(userID, debtID string, input UpdateDebtInput) (*models.Debt, error) {
	debt, err := s.GetDebtByID(userID, debtID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "debt name is required")
		}
		debt.Name = name
	}
	if input.Description != nil {
		debt.Description = *input.Description
	}
	if input.Amount != nil {
		if input.Amount.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "amount must not be negative")
		}
		debt.Amount = input.Amount.Round(2)
	}
	if input.InterestRate != nil {
		if input.InterestRate.IsNegative() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "interest rate must not be negative")
		}
		debt.InterestRate = *input.InterestRate
	}
	if input.Currency != nil {
		code, err := normalizeCurrency(s.rates, *input.Currency)
		if err != nil {
			return nil, err
		}
		debt.Currency = code
	}
	if input.ClearDueDate {
		debt.DueDate = nil
	} else if input.DueDate != nil {
		debt.DueDate = utcPtr(input.DueDate)
	}
	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, apperrors.WithMessage(apperrors.ErrInvalidInput, "invalid debt status")
		}
		debt.Status = *input.Status
	}

	if err := s.db.Save(debt).Error; err != nil {
		return nil, apperrors.Wrap(apperrors.ErrInternalServer, err)
	}
	return debt, nil
}

// DeleteDebt removes a debt owned by the user.
func (s *debtService) DeleteDebt(userID, debtID string) error {
	result := s.db.Where("id = ? AND user_id = ?", debtID, userID).Delete(&models.Debt{})
	if result.Error != nil {
		return apperrors.Wrap(apperrors.ErrInternalServer, result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrDebtNotFound
	}
	return nil
}
