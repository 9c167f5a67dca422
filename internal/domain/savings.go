package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrSavingsTargetInvalid   = errors.New("target amount must be positive")
	ErrSavingsCurrentInvalid  = errors.New("current amount cannot be negative")
	ErrSavingsCategoryInvalid = errors.New("invalid savings category")
)

// SavingsCategory categorizes a savings goal
type SavingsCategory string

const (
	SavingsEmergency  SavingsCategory = "emergency"
	SavingsVacation   SavingsCategory = "vacation"
	SavingsHouse      SavingsCategory = "house"
	SavingsCar        SavingsCategory = "car"
	SavingsEducation  SavingsCategory = "education"
	SavingsWedding    SavingsCategory = "wedding"
	SavingsRetirement SavingsCategory = "retirement"
	SavingsOther      SavingsCategory = "other"
)

// ValidSavingsCategories contains all accepted savings categories
var ValidSavingsCategories = map[SavingsCategory]bool{
	SavingsEmergency:  true,
	SavingsVacation:   true,
	SavingsHouse:      true,
	SavingsCar:        true,
	SavingsEducation:  true,
	SavingsWedding:    true,
	SavingsRetirement: true,
	SavingsOther:      true,
}

// SavingsGoal represents a savings target with accumulated progress
type SavingsGoal struct {
	ID            int32           `json:"id"`
	UserID        uuid.UUID       `json:"userId"`
	Name          string          `json:"name"`
	TargetAmount  decimal.Decimal `json:"targetAmount"`
	CurrentAmount decimal.Decimal `json:"currentAmount"`
	TargetDate    time.Time       `json:"targetDate"`
	Category      SavingsCategory `json:"category"`
	Notes         *string         `json:"notes,omitempty"`
	Active        bool            `json:"active"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

func (s *SavingsGoal) Validate() error {
	if s.Name == "" {
		return ErrNameRequired
	}
	if len(s.Name) > MaxNameLength {
		return ErrNameTooLong
	}
	if s.TargetAmount.LessThanOrEqual(decimal.Zero) {
		return ErrSavingsTargetInvalid
	}
	if s.CurrentAmount.IsNegative() {
		return ErrSavingsCurrentInvalid
	}
	if !ValidSavingsCategories[s.Category] {
		return ErrSavingsCategoryInvalid
	}
	return nil
}

// Progress returns the goal's completion percentage, capped at 100.
func (s *SavingsGoal) Progress() decimal.Decimal {
	if s.TargetAmount.IsZero() {
		return decimal.Zero
	}
	progress := s.CurrentAmount.Div(s.TargetAmount).Mul(decimal.NewFromInt(100))
	hundred := decimal.NewFromInt(100)
	if progress.GreaterThan(hundred) {
		return hundred
	}
	return progress
}

// SavingsSums holds per-user aggregates over active savings rows
type SavingsSums struct {
	TotalTarget  decimal.Decimal
	TotalCurrent decimal.Decimal
}

// SavingsRepository defines the interface for savings persistence operations
type SavingsRepository interface {
	Create(goal *SavingsGoal) (*SavingsGoal, error)
	GetActiveByUser(userID uuid.UUID) ([]*SavingsGoal, error)
	Update(goal *SavingsGoal) (*SavingsGoal, error)
	Deactivate(userID uuid.UUID, id int32) error
	SumActive(userID uuid.UUID) (SavingsSums, error)
}
