package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paisatrack/paisa-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// SavingsService handles savings-goal business logic
type SavingsService struct {
	savingsRepo domain.SavingsRepository
	notifier    ChangeNotifier
}

// NewSavingsService creates a new SavingsService
func NewSavingsService(savingsRepo domain.SavingsRepository, notifier ChangeNotifier) *SavingsService {
	return &SavingsService{
		savingsRepo: savingsRepo,
		notifier:    notifier,
	}
}

// CreateSavingsInput holds the input for creating a savings goal
type CreateSavingsInput struct {
	Name          string
	TargetAmount  decimal.Decimal
	CurrentAmount decimal.Decimal
	TargetDate    time.Time
	Category      domain.SavingsCategory
	Notes         *string
}

// UpdateSavingsInput holds the mutable fields of a savings goal
type UpdateSavingsInput struct {
	Name          *string
	TargetAmount  *decimal.Decimal
	CurrentAmount *decimal.Decimal
	TargetDate    *time.Time
	Category      *domain.SavingsCategory
	Notes         *string
}

// CreateGoal creates a new savings goal
func (s *SavingsService) CreateGoal(userID uuid.UUID, input CreateSavingsInput) (*domain.SavingsGoal, error) {
	category := input.Category
	if category == "" {
		category = domain.SavingsOther
	}

	goal := &domain.SavingsGoal{
		UserID:        userID,
		Name:          strings.TrimSpace(input.Name),
		TargetAmount:  input.TargetAmount,
		CurrentAmount: input.CurrentAmount,
		TargetDate:    input.TargetDate,
		Category:      category,
		Notes:         input.Notes,
		Active:        true,
	}
	if err := goal.Validate(); err != nil {
		return nil, err
	}

	created, err := s.savingsRepo.Create(goal)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyChanged(userID)
	return created, nil
}

// GetGoals returns the user's active savings goals
func (s *SavingsService) GetGoals(userID uuid.UUID) ([]*domain.SavingsGoal, error) {
	return s.savingsRepo.GetActiveByUser(userID)
}

// UpdateGoal applies the given changes to an existing goal
func (s *SavingsService) UpdateGoal(userID uuid.UUID, id int32, input UpdateSavingsInput) (*domain.SavingsGoal, error) {
	goals, err := s.savingsRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, err
	}

	var goal *domain.SavingsGoal
	for _, g := range goals {
		if g.ID == id {
			goal = g
			break
		}
	}
	if goal == nil {
		return nil, domain.ErrSavingsNotFound
	}

	if input.Name != nil {
		goal.Name = strings.TrimSpace(*input.Name)
	}
	if input.TargetAmount != nil {
		goal.TargetAmount = *input.TargetAmount
	}
	if input.CurrentAmount != nil {
		goal.CurrentAmount = *input.CurrentAmount
	}
	if input.TargetDate != nil {
		goal.TargetDate = *input.TargetDate
	}
	if input.Category != nil {
		goal.Category = *input.Category
	}
	if input.Notes != nil {
		goal.Notes = input.Notes
	}

	if err := goal.Validate(); err != nil {
		return nil, err
	}

	updated, err := s.savingsRepo.Update(goal)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyChanged(userID)
	return updated, nil
}

// DeleteGoal soft-deletes a savings goal
func (s *SavingsService) DeleteGoal(userID uuid.UUID, id int32) error {
	if err := s.savingsRepo.Deactivate(userID, id); err != nil {
		return err
	}
	s.notifier.NotifyChanged(userID)
	return nil
}
