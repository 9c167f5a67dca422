package postgres

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paisatrack/paisa-backend/internal/domain"
)

// SavingsRepository implements domain.SavingsRepository using PostgreSQL
type SavingsRepository struct {
	pool *pgxpool.Pool
}

// NewSavingsRepository creates a new SavingsRepository
func NewSavingsRepository(pool *pgxpool.Pool) *SavingsRepository {
	return &SavingsRepository{pool: pool}
}

const savingsColumns = `id, user_id, name, target_amount::text,
	current_amount::text, target_date, category, notes, active, created_at, updated_at`

func scanSavings(row pgx.Row) (*domain.SavingsGoal, error) {
	var (
		goal    domain.SavingsGoal
		target  string
		current string
		notes   pgtype.Text
	)
	err := row.Scan(&goal.ID, &goal.UserID, &goal.Name, &target, &current,
		&goal.TargetDate, &goal.Category, &notes, &goal.Active,
		&goal.CreatedAt, &goal.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrSavingsNotFound
		}
		return nil, err
	}

	goal.Notes = textPtr(notes)
	if goal.TargetAmount, err = scanDecimal(target); err != nil {
		return nil, fmt.Errorf("invalid target amount: %w", err)
	}
	if goal.CurrentAmount, err = scanDecimal(current); err != nil {
		return nil, fmt.Errorf("invalid current amount: %w", err)
	}
	return &goal, nil
}

// Create inserts a new savings goal row
func (r *SavingsRepository) Create(goal *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	row := r.pool.QueryRow(context.Background(), `
INSERT INTO savings_goals (user_id, name, target_amount, current_amount, target_date, category, notes, active, created_at, updated_at)
VALUES ($1, $2, $3::numeric, $4::numeric, $5, $6, $7, true, now(), now())
RETURNING `+savingsColumns,
		goal.UserID, goal.Name, goal.TargetAmount.String(),
		goal.CurrentAmount.String(), goal.TargetDate, goal.Category, ptrText(goal.Notes))
	return scanSavings(row)
}

// GetActiveByUser returns the user's active savings goals, nearest target first
func (r *SavingsRepository) GetActiveByUser(userID uuid.UUID) ([]*domain.SavingsGoal, error) {
	rows, err := r.pool.Query(context.Background(),
		`SELECT `+savingsColumns+` FROM savings_goals WHERE user_id = $1 AND active ORDER BY target_date ASC, id ASC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var goals []*domain.SavingsGoal
	for rows.Next() {
		goal, err := scanSavings(rows)
		if err != nil {
			return nil, err
		}
		goals = append(goals, goal)
	}
	return goals, rows.Err()
}

// Update overwrites the goal's mutable fields
func (r *SavingsRepository) Update(goal *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	row := r.pool.QueryRow(context.Background(), `
UPDATE savings_goals SET
	name           = $3,
	target_amount  = $4::numeric,
	current_amount = $5::numeric,
	target_date    = $6,
	category       = $7,
	notes          = $8,
	updated_at     = now()
WHERE id = $1 AND user_id = $2 AND active
RETURNING `+savingsColumns,
		goal.ID, goal.UserID, goal.Name, goal.TargetAmount.String(),
		goal.CurrentAmount.String(), goal.TargetDate, goal.Category, ptrText(goal.Notes))
	return scanSavings(row)
}

// Deactivate soft-deletes a savings goal
func (r *SavingsRepository) Deactivate(userID uuid.UUID, id int32) error {
	tag, err := r.pool.Exec(context.Background(),
		`UPDATE savings_goals SET active = false, updated_at = now() WHERE id = $1 AND user_id = $2 AND active`,
		id, userID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrSavingsNotFound
	}
	return nil
}

// SumActive returns target and current sums over active rows
func (r *SavingsRepository) SumActive(userID uuid.UUID) (domain.SavingsSums, error) {
	var target, current string
	err := r.pool.QueryRow(context.Background(), `
SELECT COALESCE(SUM(target_amount), 0)::text, COALESCE(SUM(current_amount), 0)::text
FROM savings_goals WHERE user_id = $1 AND active`,
		userID).Scan(&target, &current)
	if err != nil {
		return domain.SavingsSums{}, err
	}

	var sums domain.SavingsSums
	if sums.TotalTarget, err = scanDecimal(target); err != nil {
		return domain.SavingsSums{}, fmt.Errorf("invalid target sum: %w", err)
	}
	if sums.TotalCurrent, err = scanDecimal(current); err != nil {
		return domain.SavingsSums{}, fmt.Errorf("invalid current sum: %w", err)
	}
	return sums, nil
}
