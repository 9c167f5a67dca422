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

func TestCreateGoal_Success(t *testing.T) {
	savingsRepo := testutil.NewMockSavingsRepository()
	notifier := &testutil.MockNotifier{}
	savingsService := NewSavingsService(savingsRepo, notifier)

	userID := uuid.New()
	goal, err := savingsService.CreateGoal(userID, CreateSavingsInput{
		Name:          "Emergency fund",
		TargetAmount:  decimal.NewFromInt(5000),
		CurrentAmount: decimal.NewFromInt(2000),
		TargetDate:    time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		Category:      domain.SavingsEmergency,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if goal.Name != "Emergency fund" {
		t.Errorf("Expected name 'Emergency fund', got %s", goal.Name)
	}
	if goal.Category != domain.SavingsEmergency {
		t.Errorf("Expected category 'emergency', got %s", goal.Category)
	}
	if !goal.Progress().Equal(decimal.NewFromInt(40)) {
		t.Errorf("Expected progress 40, got %s", goal.Progress())
	}
	if notifier.CallCount() != 1 {
		t.Errorf("Expected 1 change notification, got %d", notifier.CallCount())
	}
}

func TestCreateGoal_EmptyCategoryDefaultsToOther(t *testing.T) {
	savingsService := NewSavingsService(testutil.NewMockSavingsRepository(), &testutil.MockNotifier{})

	goal, err := savingsService.CreateGoal(uuid.New(), CreateSavingsInput{
		Name:         "Unspecified",
		TargetAmount: decimal.NewFromInt(1000),
		TargetDate:   time.Now().AddDate(1, 0, 0),
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if goal.Category != domain.SavingsOther {
		t.Errorf("Expected category 'other', got %s", goal.Category)
	}
}

func TestCreateGoal_ValidationFailure(t *testing.T) {
	notifier := &testutil.MockNotifier{}
	savingsService := NewSavingsService(testutil.NewMockSavingsRepository(), notifier)

	_, err := savingsService.CreateGoal(uuid.New(), CreateSavingsInput{
		Name:         "Bad",
		TargetAmount: decimal.Zero,
		TargetDate:   time.Now(),
	})
	if !errors.Is(err, domain.ErrSavingsTargetInvalid) {
		t.Errorf("Expected ErrSavingsTargetInvalid, got %v", err)
	}
	if notifier.CallCount() != 0 {
		t.Error("Expected no notification on validation failure")
	}
}

func TestUpdateGoal_PartialUpdate(t *testing.T) {
	savingsRepo := testutil.NewMockSavingsRepository()
	notifier := &testutil.MockNotifier{}
	savingsService := NewSavingsService(savingsRepo, notifier)

	userID := uuid.New()
	goal, err := savingsService.CreateGoal(userID, CreateSavingsInput{
		Name:          "House",
		TargetAmount:  decimal.NewFromInt(100000),
		CurrentAmount: decimal.NewFromInt(10000),
		TargetDate:    time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		Category:      domain.SavingsHouse,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	newCurrent := decimal.NewFromInt(25000)
	updated, err := savingsService.UpdateGoal(userID, goal.ID, UpdateSavingsInput{
		CurrentAmount: &newCurrent,
	})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !updated.CurrentAmount.Equal(newCurrent) {
		t.Errorf("Expected current 25000, got %s", updated.CurrentAmount)
	}
	if updated.Name != "House" {
		t.Errorf("Expected untouched name 'House', got %s", updated.Name)
	}
	if !updated.TargetAmount.Equal(decimal.NewFromInt(100000)) {
		t.Errorf("Expected untouched target 100000, got %s", updated.TargetAmount)
	}
	if notifier.CallCount() != 2 {
		t.Errorf("Expected 2 notifications (create + update), got %d", notifier.CallCount())
	}
}

func TestUpdateGoal_NotFound(t *testing.T) {
	savingsService := NewSavingsService(testutil.NewMockSavingsRepository(), &testutil.MockNotifier{})

	name := "Ghost"
	_, err := savingsService.UpdateGoal(uuid.New(), 99, UpdateSavingsInput{Name: &name})
	if !errors.Is(err, domain.ErrSavingsNotFound) {
		t.Errorf("Expected ErrSavingsNotFound, got %v", err)
	}
}

func TestUpdateGoal_InvalidChangeRejected(t *testing.T) {
	savingsRepo := testutil.NewMockSavingsRepository()
	savingsService := NewSavingsService(savingsRepo, &testutil.MockNotifier{})

	userID := uuid.New()
	goal, _ := savingsService.CreateGoal(userID, CreateSavingsInput{
		Name:         "Car",
		TargetAmount: decimal.NewFromInt(20000),
		TargetDate:   time.Now().AddDate(2, 0, 0),
		Category:     domain.SavingsCar,
	})

	negative := decimal.NewFromInt(-1)
	_, err := savingsService.UpdateGoal(userID, goal.ID, UpdateSavingsInput{
		CurrentAmount: &negative,
	})
	if !errors.Is(err, domain.ErrSavingsCurrentInvalid) {
		t.Errorf("Expected ErrSavingsCurrentInvalid, got %v", err)
	}
}

func TestDeleteGoal_Notifies(t *testing.T) {
	savingsRepo := testutil.NewMockSavingsRepository()
	notifier := &testutil.MockNotifier{}
	savingsService := NewSavingsService(savingsRepo, notifier)

	userID := uuid.New()
	goal, _ := savingsService.CreateGoal(userID, CreateSavingsInput{
		Name:         "Vacation",
		TargetAmount: decimal.NewFromInt(3000),
		TargetDate:   time.Now().AddDate(0, 6, 0),
		Category:     domain.SavingsVacation,
	})

	if err := savingsService.DeleteGoal(userID, goal.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	goals, _ := savingsService.GetGoals(userID)
	if len(goals) != 0 {
		t.Errorf("Expected no active goals after delete, got %d", len(goals))
	}
	if notifier.CallCount() != 2 {
		t.Errorf("Expected 2 notifications (create + delete), got %d", notifier.CallCount())
	}
}
