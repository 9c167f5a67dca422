package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paisatrack/paisa-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// DebtRepository implements domain.DebtRepository using PostgreSQL
type DebtRepository struct {
	pool *pgxpool.Pool
}

// NewDebtRepository creates a new DebtRepository
func NewDebtRepository(pool *pgxpool.Pool) *DebtRepository {
	return &DebtRepository{pool: pool}
}

const debtColumns = `id, user_id, creditor, total_amount::text,
	remaining_amount::text, interest_rate::text, active, created_at, updated_at`

func scanDebt(row pgx.Row) (*domain.Debt, error) {
	var (
		debt      domain.Debt
		total     string
		remaining string
		rate      string
	)
	err := row.Scan(&debt.ID, &debt.UserID, &debt.Creditor, &total,
		&remaining, &rate, &debt.Active, &debt.CreatedAt, &debt.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrDebtNotFound
		}
		return nil, err
	}

	if debt.TotalAmount, err = scanDecimal(total); err != nil {
		return nil, fmt.Errorf("invalid total amount: %w", err)
	}
	if debt.RemainingAmount, err = scanDecimal(remaining); err != nil {
		return nil, fmt.Errorf("invalid remaining amount: %w", err)
	}
	if debt.InterestRate, err = scanDecimal(rate); err != nil {
		return nil, fmt.Errorf("invalid interest rate: %w", err)
	}
	return &debt, nil
}

// Create inserts a new debt row
func (r *DebtRepository) Create(debt *domain.Debt) (*domain.Debt, error) {
	row := r.pool.QueryRow(context.Background(), `
INSERT INTO debts (user_id, creditor, total_amount, remaining_amount, interest_rate, active, created_at, updated_at)
VALUES ($1, $2, $3::numeric, $4::numeric, $5::numeric, true, now(), now())
RETURNING `+debtColumns,
		debt.UserID, debt.Creditor, debt.TotalAmount.String(),
		debt.RemainingAmount.String(), debt.InterestRate.String())
	return scanDebt(row)
}

// GetActiveByUser returns the user's active debts, newest first
func (r *DebtRepository) GetActiveByUser(userID uuid.UUID) ([]*domain.Debt, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+debtColumns+` FROM debts WHERE user_id = $1 AND active ORDER BY created_at DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var debts []*domain.Debt
	for rows.Next() {
		debt, err := scanDebt(rows)
		if err != nil {
			return nil, err
		}
		debts = append(debts, debt)
	}
	return debts, rows.Err()
}

// Deactivate soft-deletes a debt
func (r *DebtRepository) Deactivate(userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE debts SET active = false, updated_at = now() WHERE id = $1 AND user_id = $2 AND active`,
		id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrDebtNotFound
	}
	return nil
}

// SumActiveRemaining sums remaining_amount over active rows
func (r *DebtRepository) SumActiveRemaining(userID uuid.UUID) (decimal.Decimal, error) {
	var sum string
	err := r.pool.QueryRow(context.Background(), `
SELECT COALESCE(SUM(remaining_amount), 0)::text
FROM debts WHERE user_id = $1 AND active`,
		userID).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return scanDecimal(sum)
}
