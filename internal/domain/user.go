package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// User represents a user in the system
type User struct {
	ID         uuid.UUID `json:"id"`
	Auth0ID    string    `json:"auth0Id"`
	Email      string    `json:"email"`
	Name       *string   `json:"name"`
	Mobile     *string   `json:"mobile,omitempty"`
	Occupation *string   `json:"occupation,omitempty"`
	// Salary is the user's declared monthly income.
	Salary decimal.Decimal `json:"salary"`
	// MonthlyIncomeOverride, when non-zero, takes precedence over Salary
	// in totals computation. Written directly by the profile PATCH endpoint.
	MonthlyIncomeOverride *decimal.Decimal `json:"monthlyIncomeOverride,omitempty"`
	// Totals is the durable mirror of the last computed snapshot.
	Totals    *FinancialTotals `json:"totals,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

// MonthlyIncome resolves the income used for totals computation:
// the override when set and non-zero, else the declared salary.
func (u *User) MonthlyIncome() decimal.Decimal {
	if u.MonthlyIncomeOverride != nil && !u.MonthlyIncomeOverride.IsZero() {
		return *u.MonthlyIncomeOverride
	}
	return u.Salary
}

// UpdateProfileInput holds the mutable profile fields
type UpdateProfileInput struct {
	Name       *string
	Mobile     *string
	Occupation *string
	Salary     *decimal.Decimal
}

// UserRepository defines the interface for user persistence operations
type UserRepository interface {
	GetByID(id uuid.UUID) (*User, error)
	GetByAuth0ID(auth0ID string) (*User, error)
	CreateOrGetByAuth0ID(auth0ID, email string, name *string) (*User, error)
	UpdateProfile(id uuid.UUID, input UpdateProfileInput) (*User, error)
	SetIncomeOverride(id uuid.UUID, income decimal.Decimal) (*User, error)
	// SaveTotals persists the computed snapshot onto the user's profile.
	SaveTotals(id uuid.UUID, totals *FinancialTotals) error
}
