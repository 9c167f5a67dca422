package service

import (
	"github.com/google/uuid"
	"github.com/paisatrack/paisa-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ProfileService handles profile-related business logic
type ProfileService struct {
	userRepo domain.UserRepository
	notifier ChangeNotifier
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo domain.UserRepository, notifier ChangeNotifier) *ProfileService {
	return &ProfileService{
		userRepo: userRepo,
		notifier: notifier,
	}
}

// GetProfile retrieves a user's profile
func (s *ProfileService) GetProfile(userID uuid.UUID) (*domain.User, error) {
	return s.userRepo.GetByID(userID)
}

// UpdateProfile updates the user's profile fields. A salary change feeds the
// totals computation, so subscribers are notified.
func (s *ProfileService) UpdateProfile(userID uuid.UUID, input domain.UpdateProfileInput) (*domain.User, error) {
	user, err := s.userRepo.UpdateProfile(userID, input)
	if err != nil {
		return nil, err
	}

	if input.Salary != nil {
		s.notifier.NotifyChanged(userID)
	}
	return user, nil
}

// SetIncomeOverride writes the directly-editable monthly-income override.
// A non-zero override wins over the declared salary in totals computation.
func (s *ProfileService) SetIncomeOverride(userID uuid.UUID, income decimal.Decimal) (*domain.User, error) {
	if income.IsNegative() {
		return nil, domain.ErrInvalidInput
	}

	user, err := s.userRepo.SetIncomeOverride(userID, income)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyChanged(userID)
	return user, nil
}
