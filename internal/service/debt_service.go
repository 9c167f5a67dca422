package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/paisatrack/paisa-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// DebtService handles debt-related business logic
type DebtService struct {
	debtRepo domain.DebtRepository
	notifier ChangeNotifier
}

// NewDebtService creates a new DebtService
func NewDebtService(debtRepo domain.DebtRepository, notifier ChangeNotifier) *DebtService {
	return &DebtService{
		debtRepo: debtRepo,
		notifier: notifier,
	}
}

// CreateDebtInput holds the input for recording a debt
type CreateDebtInput struct {
	Creditor        string
	TotalAmount     decimal.Decimal
	RemainingAmount *decimal.Decimal
	InterestRate    decimal.Decimal
}

// CreateDebt records a new debt. Remaining amount defaults to the total.
func (s *DebtService) CreateDebt(userID uuid.UUID, input CreateDebtInput) (*domain.Debt, error) {
	remaining := input.TotalAmount
	if input.RemainingAmount != nil {
		remaining = *input.RemainingAmount
	}

	debt := &domain.Debt{
		UserID:          userID,
		Creditor:        strings.TrimSpace(input.Creditor),
		TotalAmount:     input.TotalAmount,
		RemainingAmount: remaining,
		InterestRate:    input.InterestRate,
		Active:          true,
	}
	if err := debt.Validate(); err != nil {
		return nil, err
	}

	created, err := s.debtRepo.Create(debt)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyChanged(userID)
	return created, nil
}

// GetDebts returns the user's active debts
func (s *DebtService) GetDebts(userID uuid.UUID) ([]*domain.Debt, error) {
	return s.debtRepo.GetActiveByUser(userID)
}

// DeleteDebt soft-deletes a debt
func (s *DebtService) DeleteDebt(userID uuid.UUID, id int32) error {
	if err := s.debtRepo.Deactivate(userID, id); err != nil {
		return err
	}
	s.notifier.NotifyChanged(userID)
	return nil
}
