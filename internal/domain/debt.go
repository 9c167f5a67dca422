package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrDebtAmountInvalid    = errors.New("debt amount must be positive")
	ErrDebtRemainingInvalid = errors.New("remaining amount cannot be negative or exceed total")
)

// Debt represents money owed to a creditor
type Debt struct {
	ID              int32           `json:"id"`
	UserID          uuid.UUID       `json:"userId"`
	Creditor        string          `json:"creditor"`
	TotalAmount     decimal.Decimal `json:"totalAmount"`
	RemainingAmount decimal.Decimal `json:"remainingAmount"`
	InterestRate    decimal.Decimal `json:"interestRate"`
	Active          bool            `json:"active"`
	CreatedAt       time.Time       `json:"createdAt"`
	UpdatedAt       time.Time       `json:"updatedAt"`
}

func (d *Debt) Validate() error {
	if d.Creditor == "" {
		return ErrNameRequired
	}
	if len(d.Creditor) > MaxNameLength {
		return ErrNameTooLong
	}
	if d.TotalAmount.LessThanOrEqual(decimal.Zero) {
		return ErrDebtAmountInvalid
	}
	if d.RemainingAmount.IsNegative() || d.RemainingAmount.GreaterThan(d.TotalAmount) {
		return ErrDebtRemainingInvalid
	}
	return nil
}

// DebtRepository defines the interface for debt persistence operations
type DebtRepository interface {
	Create(debt *Debt) (*Debt, error)
	GetActiveByUser(userID uuid.UUID) ([]*Debt, error)
	Deactivate(userID uuid.UUID, id int32) error
	// SumActiveRemaining sums remaining_amount over active rows.
	SumActiveRemaining(userID uuid.UUID) (decimal.Decimal, error)
}
