package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrEMIAmountInvalid   = errors.New("emi amount must be positive")
	ErrEMIRateInvalid     = errors.New("interest rate must be between 0 and 100")
	ErrEMITenureInvalid   = errors.New("tenure must be at least 1 month")
	ErrEMILoanTypeInvalid = errors.New("invalid loan type")
)

// LoanType categorizes an EMI
type LoanType string

const (
	LoanTypeCar       LoanType = "car"
	LoanTypeHome      LoanType = "home"
	LoanTypeEducation LoanType = "education"
	LoanTypePersonal  LoanType = "personal"
	LoanTypeBusiness  LoanType = "business"
	LoanTypeOther     LoanType = "other"
)

// ValidLoanTypes contains all accepted loan types
var ValidLoanTypes = map[LoanType]bool{
	LoanTypeCar:       true,
	LoanTypeHome:      true,
	LoanTypeEducation: true,
	LoanTypePersonal:  true,
	LoanTypeBusiness:  true,
	LoanTypeOther:     true,
}

// EMI represents a loan with equated monthly installments
type EMI struct {
	ID           int32           `json:"id"`
	UserID       uuid.UUID       `json:"userId"`
	LoanType     LoanType        `json:"loanType"`
	Amount       decimal.Decimal `json:"amount"`
	InterestRate decimal.Decimal `json:"interestRate"` // annual, percent
	TenureMonths int32           `json:"tenureMonths"`
	StartDate    time.Time       `json:"startDate"`
	// MonthlyPayment is derived from amount, rate and tenure at write time.
	MonthlyPayment decimal.Decimal `json:"monthlyPayment"`
	Active         bool            `json:"active"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

func (e *EMI) Validate() error {
	if !ValidLoanTypes[e.LoanType] {
		return ErrEMILoanTypeInvalid
	}
	if e.Amount.LessThanOrEqual(decimal.Zero) {
		return ErrEMIAmountInvalid
	}
	if e.InterestRate.IsNegative() || e.InterestRate.GreaterThan(decimal.NewFromInt(100)) {
		return ErrEMIRateInvalid
	}
	if e.TenureMonths < 1 {
		return ErrEMITenureInvalid
	}
	return nil
}

// MonthlyInstallment computes the equated monthly installment for a loan:
// P*r*(1+r)^n / ((1+r)^n - 1) with r the monthly rate, or P/n when the rate
// is zero. Rounded to 2 decimal places.
func MonthlyInstallment(principal, annualRatePercent decimal.Decimal, tenureMonths int32) decimal.Decimal {
	if tenureMonths < 1 {
		return decimal.Zero
	}
	n := decimal.NewFromInt(int64(tenureMonths))
	if annualRatePercent.IsZero() {
		return principal.Div(n).Round(2)
	}
	r := annualRatePercent.Div(decimal.NewFromInt(100)).Div(decimal.NewFromInt(12))
	compound := decimal.NewFromInt(1).Add(r).Pow(n)
	return principal.Mul(r).Mul(compound).Div(compound.Sub(decimal.NewFromInt(1))).Round(2)
}

// EMISums holds per-user aggregates over active EMI rows
type EMISums struct {
	TotalAmount         decimal.Decimal
	TotalMonthlyPayment decimal.Decimal
}

// EMIStats is the response for the EMI statistics endpoint
type EMIStats struct {
	Count               int             `json:"totalEMIs"`
	TotalMonthlyPayment decimal.Decimal `json:"totalMonthlyPayment"`
	AvgInterestRate     decimal.Decimal `json:"avgInterestRate"`
}

// EMIRepository defines the interface for EMI persistence operations
type EMIRepository interface {
	Create(emi *EMI) (*EMI, error)
	GetActiveByUser(userID uuid.UUID) ([]*EMI, error)
	// Deactivate soft-deletes the row by flipping its active flag.
	Deactivate(userID uuid.UUID, id int32) error
	// SumActive returns sums over active rows; zero sums when none match.
	SumActive(userID uuid.UUID) (EMISums, error)
}
