package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paisatrack/paisa-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ExpenseService handles expense-related business logic
type ExpenseService struct {
	expenseRepo domain.ExpenseRepository
	notifier    ChangeNotifier
}

// NewExpenseService creates a new ExpenseService
func NewExpenseService(expenseRepo domain.ExpenseRepository, notifier ChangeNotifier) *ExpenseService {
	return &ExpenseService{
		expenseRepo: expenseRepo,
		notifier:    notifier,
	}
}

// CreateExpenseInput holds the input for recording an expense
type CreateExpenseInput struct {
	Description string
	Category    *string
	Amount      decimal.Decimal
	Date        *time.Time
}

// CreateExpense records a new expense
func (s *ExpenseService) CreateExpense(userID uuid.UUID, input CreateExpenseInput) (*domain.Expense, error) {
	date := time.Now().UTC().Truncate(24 * time.Hour)
	if input.Date != nil {
		date = *input.Date
	}

	var category *string
	if input.Category != nil {
		trimmed := strings.TrimSpace(*input.Category)
		if trimmed != "" {
			category = &trimmed
		}
	}

	expense := &domain.Expense{
		UserID:      userID,
		Description: strings.TrimSpace(input.Description),
		Category:    category,
		Amount:      input.Amount,
		Date:        date,
		Active:      true,
	}
	if err := expense.Validate(); err != nil {
		return nil, err
	}

	created, err := s.expenseRepo.Create(expense)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyChanged(userID)
	return created, nil
}

// GetExpenses returns the user's active expenses
func (s *ExpenseService) GetExpenses(userID uuid.UUID) ([]*domain.Expense, error) {
	return s.expenseRepo.GetActiveByUser(userID)
}

// DeleteExpense soft-deletes an expense
func (s *ExpenseService) DeleteExpense(userID uuid.UUID, id int32) error {
	if err := s.expenseRepo.Deactivate(userID, id); err != nil {
		return err
	}
	s.notifier.NotifyChanged(userID)
	return nil
}
