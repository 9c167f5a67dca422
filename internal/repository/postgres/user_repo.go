package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/paisatrack/paisa-backend/internal/domain"
	"github.com/shopspring/decimal"
)

// UserRepository implements domain.UserRepository using PostgreSQL
type UserRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(pool *pgxpool.Pool) *UserRepository {
	return &UserRepository{pool: pool}
}

const userColumns = `id, auth0_id, email, name, mobile, occupation,
	COALESCE(salary, 0)::text, monthly_income_override::text, totals,
	created_at, updated_at`

func (r *UserRepository) scanUser(row pgx.Row) (*domain.User, error) {
	var (
		user       domain.User
		name       pgtype.Text
		mobile     pgtype.Text
		occupation pgtype.Text
		salary     string
		override   pgtype.Text
		totalsJSON []byte
	)
	err := row.Scan(&user.ID, &user.Auth0ID, &user.Email, &name, &mobile,
		&occupation, &salary, &override, &totalsJSON,
		&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}

	user.Name = textPtr(name)
	user.Mobile = textPtr(mobile)
	user.Occupation = textPtr(occupation)

	if user.Salary, err = scanDecimal(salary); err != nil {
		return nil, fmt.Errorf("invalid salary: %w", err)
	}
	if override.Valid {
		d, err := scanDecimal(override.String)
		if err != nil {
			return nil, fmt.Errorf("invalid income override: %w", err)
		}
		user.MonthlyIncomeOverride = &d
	}
	if len(totalsJSON) > 0 {
		var totals domain.FinancialTotals
		if err := json.Unmarshal(totalsJSON, &totals); err != nil {
			return nil, fmt.Errorf("invalid totals snapshot: %w", err)
		}
		user.Totals = &totals
	}

	return &user, nil
}

// GetByID retrieves a user by their UUID
func (r *UserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	return r.scanUser(row)
}

// GetByAuth0ID retrieves a user by their Auth0 ID
func (r *UserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(),
		`SELECT `+userColumns+` FROM users WHERE auth0_id = $1`, auth0ID)
	return r.scanUser(row)
}

// CreateOrGetByAuth0ID creates the user on first login, or returns the
// existing row
func (r *UserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name *string) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `
INSERT INTO users (id, auth0_id, email, name, created_at, updated_at)
VALUES ($1, $2, $3, $4, now(), now())
ON CONFLICT (auth0_id) DO UPDATE SET email = EXCLUDED.email
RETURNING `+userColumns,
		uuid.New(), auth0ID, email, ptrText(name))
	return r.scanUser(row)
}

// UpdateProfile applies the non-nil profile fields
func (r *UserRepository) UpdateProfile(id uuid.UUID, input domain.UpdateProfileInput) (*domain.User, error) {
	var salary pgtype.Text
	if input.Salary != nil {
		salary = pgtype.Text{String: input.Salary.String(), Valid: true}
	}

	row := r.pool.QueryRow(context.Background(), `
UPDATE users SET
	name       = COALESCE($2, name),
	mobile     = COALESCE($3, mobile),
	occupation = COALESCE($4, occupation),
	salary     = COALESCE($5::numeric, salary),
	updated_at = now()
WHERE id = $1
RETURNING `+userColumns,
		id, ptrText(input.Name), ptrText(input.Mobile), ptrText(input.Occupation), salary)
	return r.scanUser(row)
}

// SetIncomeOverride writes the monthly-income override field
func (r *UserRepository) SetIncomeOverride(id uuid.UUID, income decimal.Decimal) (*domain.User, error) {
	row := r.pool.QueryRow(context.Background(), `
UPDATE users SET monthly_income_override = $2::numeric, updated_at = now()
WHERE id = $1
RETURNING `+userColumns,
		id, income.String())
	return r.scanUser(row)
}

// SaveTotals persists the computed snapshot onto the user's profile row
func (r *UserRepository) SaveTotals(id uuid.UUID, totals *domain.FinancialTotals) error {
	data, err := json.Marshal(totals)
	if err != nil {
		return fmt.Errorf("marshal totals: %w", err)
	}

	tag, err := r.pool.Exec(context.Background(),
		`UPDATE users SET totals = $2, updated_at = now() WHERE id = $1`,
		id, data)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}
