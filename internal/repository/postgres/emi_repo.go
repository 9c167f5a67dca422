package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paisatrack/paisa-backend/internal/domain"
)

// EMIRepository implements domain.EMIRepository using PostgreSQL
type EMIRepository struct {
	pool *pgxpool.Pool
}

// NewEMIRepository creates a new EMIRepository
func NewEMIRepository(pool *pgxpool.Pool) *EMIRepository {
	return &EMIRepository{pool: pool}
}

const emiColumns = `id, user_id, loan_type, amount::text, interest_rate::text,
	tenure_months, start_date, monthly_payment::text, active, created_at, updated_at`

func scanEMI(row pgx.Row) (*domain.EMI, error) {
	var (
		emi            domain.EMI
		amount         string
		rate           string
		monthlyPayment string
	)
	err := row.Scan(&emi.ID, &emi.UserID, &emi.LoanType, &amount, &rate,
		&emi.TenureMonths, &emi.StartDate, &monthlyPayment, &emi.Active,
		&emi.CreatedAt, &emi.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrEMINotFound
		}
		return nil, err
	}

	if emi.Amount, err = scanDecimal(amount); err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	if emi.InterestRate, err = scanDecimal(rate); err != nil {
		return nil, fmt.Errorf("invalid interest rate: %w", err)
	}
	if emi.MonthlyPayment, err = scanDecimal(monthlyPayment); err != nil {
		return nil, fmt.Errorf("invalid monthly payment: %w", err)
	}
	return &emi, nil
}

// Create inserts a new EMI row
func (r *EMIRepository) Create(emi *domain.EMI) (*domain.EMI, error) {
	row := r.pool.QueryRow(context.Background(), `
INSERT INTO emis (user_id, loan_type, amount, interest_rate, tenure_months,
	start_date, monthly_payment, active, created_at, updated_at)
VALUES ($1, $2, $3::numeric, $4::numeric, $5, $6, $7::numeric, true, now(), now())
RETURNING `+emiColumns,
		emi.UserID, emi.LoanType, emi.Amount.String(), emi.InterestRate.String(),
		emi.TenureMonths, emi.StartDate, emi.MonthlyPayment.String())
	return scanEMI(row)
}

// GetActiveByUser returns the user's active EMIs, newest first
func (r *EMIRepository) GetActiveByUser(userID uuid.UUID) ([]*domain.EMI, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+emiColumns+` FROM emis WHERE user_id = $1 AND active ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emis []*domain.EMI
	for rows.Next() {
		emi, err := scanEMI(rows)
		if err != nil {
			return nil, err
		}
		emis = append(emis, emi)
	}
	return emis, rows.Err()
}

// Deactivate soft-deletes an EMI by flipping its active flag
func (r *EMIRepository) Deactivate(userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE emis SET active = false, updated_at = now() WHERE id = $1 AND user_id = $2 AND active`,
		id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrEMINotFound
	}
	return nil
}

// SumActive returns principal and installment sums over active rows
func (r *EMIRepository) SumActive(userID uuid.UUID) (domain.EMISums, error) {
	var amount, monthlyPayment string
	err := r.pool.QueryRow(context.Background(), `
SELECT COALESCE(SUM(amount), 0)::text, COALESCE(SUM(monthly_payment), 0)::text
FROM emis WHERE user_id = $1 AND active`,
		userID).Scan(&amount, &monthlyPayment)
	if err != nil {
		return domain.EMISums{}, err
	}

	var sums domain.EMISums
	if sums.TotalAmount, err = scanDecimal(amount); err != nil {
		return domain.EMISums{}, fmt.Errorf("invalid amount sum: %w", err)
	}
	if sums.TotalMonthlyPayment, err = scanDecimal(monthlyPayment); err != nil {
		return domain.EMISums{}, fmt.Errorf("invalid payment sum: %w", err)
	}
	return sums, nil
}
