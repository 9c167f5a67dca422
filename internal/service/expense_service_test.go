package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/paisatrack/paisa-backend/internal/domain"
	"github.com/paisatrack/paisa-backend/internal/testutil"
	"github.com/shopspring/decimal"
)

func TestCreateExpense_Success(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	notifier := &testutil.MockNotifier{}
	expenseService := NewExpenseService(expenseRepo, notifier)

	userID := uuid.New()
	category := "food"
	expense, err := expenseService.CreateExpense(userID, CreateExpenseInput{
		Description: "Groceries",
		Category:    &category,
		Amount:      decimal.NewFromInt(150),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if expense.Description != "Groceries" {
		t.Errorf("Expected description 'Groceries', got %s", expense.Description)
	}
	if expense.Category == nil || *expense.Category != "food" {
		t.Errorf("Expected category 'food', got %v", expense.Category)
	}
	if expense.Date.IsZero() {
		t.Error("Expected the date to default to today")
	}
	if !expense.Active {
		t.Error("Expected the expense to be active")
	}
	if notifier.CallCount() != 1 {
		t.Errorf("Expected 1 change notification, got %d", notifier.CallCount())
	}
}

func TestCreateExpense_CustomDate(t *testing.T) {
	expenseService := NewExpenseService(testutil.NewMockExpenseRepository(), &testutil.MockNotifier{})

	customDate := time.Date(2025, 2, 14, 0, 0, 0, 0, time.UTC)
	expense, err := expenseService.CreateExpense(uuid.New(), CreateExpenseInput{
		Description: "Dinner",
		Amount:      decimal.NewFromInt(80),
		Date:        &customDate,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !expense.Date.Equal(customDate) {
		t.Errorf("Expected date %v, got %v", customDate, expense.Date)
	}
}

func TestCreateExpense_BlankCategoryDropped(t *testing.T) {
	expenseService := NewExpenseService(testutil.NewMockExpenseRepository(), &testutil.MockNotifier{})

	blank := "   "
	expense, err := expenseService.CreateExpense(uuid.New(), CreateExpenseInput{
		Description: "Misc",
		Category:    &blank,
		Amount:      decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if expense.Category != nil {
		t.Errorf("Expected whitespace category dropped, got %q", *expense.Category)
	}
}

func TestCreateExpense_ValidationFailure(t *testing.T) {
	notifier := &testutil.MockNotifier{}
	expenseService := NewExpenseService(testutil.NewMockExpenseRepository(), notifier)

	tests := []struct {
		name    string
		input   CreateExpenseInput
		wantErr error
	}{
		{
			name:    "missing description",
			input:   CreateExpenseInput{Description: "", Amount: decimal.NewFromInt(10)},
			wantErr: domain.ErrNameRequired,
		},
		{
			name:    "zero amount",
			input:   CreateExpenseInput{Description: "Free", Amount: decimal.Zero},
			wantErr: domain.ErrExpenseAmountInvalid,
		},
		{
			name:    "negative amount",
			input:   CreateExpenseInput{Description: "Refund", Amount: decimal.NewFromInt(-5)},
			wantErr: domain.ErrExpenseAmountInvalid,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := expenseService.CreateExpense(uuid.New(), tt.input)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Expected %v, got %v", tt.wantErr, err)
			}
		})
	}

	if notifier.CallCount() != 0 {
		t.Error("Expected no notifications on validation failures")
	}
}

func TestDeleteExpense_Notifies(t *testing.T) {
	expenseRepo := testutil.NewMockExpenseRepository()
	notifier := &testutil.MockNotifier{}
	expenseService := NewExpenseService(expenseRepo, notifier)

	userID := uuid.New()
	expense, err := expenseService.CreateExpense(userID, CreateExpenseInput{
		Description: "Subscription",
		Amount:      decimal.NewFromInt(15),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if err := expenseService.DeleteExpense(userID, expense.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if notifier.CallCount() != 2 {
		t.Errorf("Expected 2 notifications (create + delete), got %d", notifier.CallCount())
	}

	expenses, _ := expenseService.GetExpenses(userID)
	if len(expenses) != 0 {
		t.Errorf("Expected no active expenses after delete, got %d", len(expenses))
	}
}

func TestDeleteExpense_NotFound(t *testing.T) {
	expenseService := NewExpenseService(testutil.NewMockExpenseRepository(), &testutil.MockNotifier{})

	err := expenseService.DeleteExpense(uuid.New(), 7)
	if !errors.Is(err, domain.ErrExpenseNotFound) {
		t.Errorf("Expected ErrExpenseNotFound, got %v", err)
	}
}
