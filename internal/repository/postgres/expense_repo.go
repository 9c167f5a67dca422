package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paisatrack/paisa-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// ExpenseRepository implements domain.ExpenseRepository using PostgreSQL
type ExpenseRepository struct {
	pool *pgxpool.Pool
}

// NewExpenseRepository creates a new ExpenseRepository
func NewExpenseRepository(pool *pgxpool.Pool) *ExpenseRepository {
	return &ExpenseRepository{pool: pool}
}

const expenseColumns = `id, user_id, description, category, amount::text,
	date, receipt_id, active, created_at, updated_at`

func scanExpense(row pgx.Row) (*domain.Expense, error) {
	var (
		expense   domain.Expense
		category  pgtype.Text
		amount    string
		receiptID pgtype.Text
	)
	err := row.Scan(&expense.ID, &expense.UserID, &expense.Description,
		&category, &amount, &expense.Date, &receiptID, &expense.Active,
		&expense.CreatedAt, &expense.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrExpenseNotFound
		}
		return nil, err
	}

	expense.Category = textPtr(category)
	expense.ReceiptID = textPtr(receiptID)
	if expense.Amount, err = scanDecimal(amount); err != nil {
		return nil, fmt.Errorf("invalid amount: %w", err)
	}
	return &expense, nil
}

// Create inserts a new expense row
func (r *ExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	row := r.pool.QueryRow(context.Background(), `
INSERT INTO expenses (user_id, description, category, amount, date, active, created_at, updated_at)
VALUES ($1, $2, $3, $4::numeric, $5, true, now(), now())
RETURNING `+expenseColumns,
		expense.UserID, expense.Description, ptrText(expense.Category),
		expense.Amount.String(), expense.Date)
	return scanExpense(row)
}

// GetByID retrieves one of the user's expenses
func (r *ExpenseRepository) GetByID(userID uuid.UUID, id int32) (*domain.Expense, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+expenseColumns+` FROM expenses WHERE id = $1 AND user_id = $2`,
		id, userID)
	return scanExpense(row)
}

// GetActiveByUser returns the user's active expenses, newest first
func (r *ExpenseRepository) GetActiveByUser(userID uuid.UUID) ([]*domain.Expense, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+expenseColumns+` FROM expenses WHERE user_id = $1 AND active ORDER BY date DESC, id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var expenses []*domain.Expense
	for rows.Next() {
		expense, err := scanExpense(rows)
		if err != nil {
			return nil, err
		}
		expenses = append(expenses, expense)
	}
	return expenses, rows.Err()
}

// Deactivate soft-deletes an expense
func (r *ExpenseRepository) Deactivate(userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE expenses SET active = false, updated_at = now() WHERE id = $1 AND user_id = $2 AND active`,
		id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// SetReceiptID records or clears the attached receipt
func (r *ExpenseRepository) SetReceiptID(userID uuid.UUID, id int32, receiptID *string) error {
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE expenses SET receipt_id = $3, updated_at = now() WHERE id = $1 AND user_id = $2`,
		id, userID, ptrText(receiptID))
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrExpenseNotFound
	}
	return nil
}

// SumByDateRange sums active rows dated within [from, to] inclusive
func (r *ExpenseRepository) SumByDateRange(userID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	var sum string
	err := r.pool.QueryRow(context.Background(), `
SELECT COALESCE(SUM(amount), 0)::text
FROM expenses WHERE user_id = $1 AND active AND date >= $2 AND date <= $3`,
		userID, from, to).Scan(&sum)
	if err != nil {
		return decimal.Zero, err
	}
	return scanDecimal(sum)
}
