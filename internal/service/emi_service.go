package service

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/paisatrack/paisa-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ChangeNotifier is invoked after every mutation to a user's records so the
// totals snapshot can be recomputed and pushed to subscribers
type ChangeNotifier interface {
	NotifyChanged(userID uuid.UUID)
}

// EMIService handles EMI-related business logic
type EMIService struct {
	emiRepo  domain.EMIRepository
	notifier ChangeNotifier
}

// NewEMIService creates a new EMIService
func NewEMIService(emiRepo domain.EMIRepository, notifier ChangeNotifier) *EMIService {
	return &EMIService{
		emiRepo:  emiRepo,
		notifier: notifier,
	}
}

// CreateEMIInput holds the input for creating an EMI
type CreateEMIInput struct {
	LoanType     domain.LoanType
	Amount       decimal.Decimal
	InterestRate decimal.Decimal
	TenureMonths int32
	StartDate    time.Time
}

// CreateEMI creates a new EMI with a computed monthly installment
func (s *EMIService) CreateEMI(userID uuid.UUID, input CreateEMIInput) (*domain.EMI, error) {
	emi := &domain.EMI{
		UserID:       userID,
		LoanType:     domain.LoanType(strings.ToLower(string(input.LoanType))),
		Amount:       input.Amount,
		InterestRate: input.InterestRate,
		TenureMonths: input.TenureMonths,
		StartDate:    input.StartDate,
		Active:       true,
	}
	if err := emi.Validate(); err != nil {
		return nil, err
	}

	emi.MonthlyPayment = domain.MonthlyInstallment(emi.Amount, emi.InterestRate, emi.TenureMonths)

	created, err := s.emiRepo.Create(emi)
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyChanged(userID)
	return created, nil
}

// GetEMIs returns the user's active EMIs
func (s *EMIService) GetEMIs(userID uuid.UUID) ([]*domain.EMI, error) {
	return s.emiRepo.GetActiveByUser(userID)
}

// DeleteEMI soft-deletes an EMI; the row stays for audit/history
func (s *EMIService) DeleteEMI(userID uuid.UUID, id int32) error {
	if err := s.emiRepo.Deactivate(userID, id); err != nil {
		return err
	}
	s.notifier.NotifyChanged(userID)
	return nil
}

// GetStats returns count, total monthly payment and average interest rate
// across the user's active EMIs
func (s *EMIService) GetStats(userID uuid.UUID) (*domain.EMIStats, error) {
	emis, err := s.emiRepo.GetActiveByUser(userID)
	if err != nil {
		return nil, err
	}

	stats := &domain.EMIStats{
		Count:               len(emis),
		TotalMonthlyPayment: decimal.Zero,
		AvgInterestRate:     decimal.Zero,
	}

	if len(emis) == 0 {
		return stats, nil
	}

	rateSum := decimal.Zero
	for _, emi := range emis {
		stats.TotalMonthlyPayment = stats.TotalMonthlyPayment.Add(emi.MonthlyPayment)
		rateSum = rateSum.Add(emi.InterestRate)
	}
	stats.AvgInterestRate = rateSum.Div(decimal.NewFromInt(int64(len(emis)))).Round(2)

	return stats, nil
}
