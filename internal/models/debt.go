package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DebtStatus represents the lifecycle state of a debt.
type DebtStatus string

const (
	DebtStatusActive  DebtStatus = "active"
	DebtStatusPaidOff DebtStatus = "paid_off"
	DebtStatusOverdue DebtStatus = "overdue"
)

// IsValid reports whether s is a known debt status.
func (s DebtStatus) IsValid() bool {
	switch s {
	case DebtStatusActive, DebtStatusPaidOff, DebtStatusOverdue:
		return true
	default:
		return false
	}
}

// Debt is a liability owed by the user. Only active debts count toward NAV.
type Debt struct {
	Base
	UserID       string          `gorm:"type:uuid;not null;index" json:"user_id"`
	Name         string          `gorm:"size:100;not null" json:"name"`
	Description  string          `gorm:"type:text" json:"description"`
	Amount       decimal.Decimal `gorm:"type:decimal(20,2);not null" json:"amount"`
	InterestRate decimal.Decimal `gorm:"type:decimal(5,2);not null;default:0" json:"interest_rate"`
	Currency     string          `gorm:"size:3;not null;default:'VND'" json:"currency"`
	DueDate      *time.Time      `json:"due_date,omitempty"`
	Status       DebtStatus      `gorm:"size:20;not null;default:'active'" json:"status"`
}
