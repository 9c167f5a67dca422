package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrExpenseAmountInvalid = errors.New("expense amount must be positive")

// Expense represents a single recorded expense
type Expense struct {
	ID          int32           `json:"id"`
	UserID      uuid.UUID       `json:"userId"`
	Description string          `json:"description"`
	Category    *string         `json:"category,omitempty"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	// ReceiptID references an uploaded receipt image, when attached.
	ReceiptID *string   `json:"receiptId,omitempty"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (e *Expense) Validate() error {
	if e.Description == "" {
		return ErrNameRequired
	}
	if len(e.Description) > MaxNameLength {
		return ErrNameTooLong
	}
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrExpenseAmountInvalid
	}
	return nil
}

// ExpenseRepository defines the interface for expense persistence operations
type ExpenseRepository interface {
	Create(expense *Expense) (*Expense, error)
	GetByID(userID uuid.UUID, id int32) (*Expense, error)
	GetActiveByUser(userID uuid.UUID) ([]*Expense, error)
	Deactivate(userID uuid.UUID, id int32) error
	SetReceiptID(userID uuid.UUID, id int32, receiptID *string) error
	// SumByDateRange sums active rows dated within [from, to] inclusive.
	SumByDateRange(userID uuid.UUID, from, to time.Time) (decimal.Decimal, error)
}
