// Package testutil provides hand-rolled mock repositories for service and
// handler tests.
package testutil

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paisatrack/paisa-backend/internal/domain"
	"github.com/paisatrack/paisa-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

// MockUserRepository is a mock implementation of domain.UserRepository
type MockUserRepository struct {
	Users map[string]*domain.User
	ByID  map[uuid.UUID]*domain.User

	// Errs override the result of the matching method when set
	GetByIDErr    error
	SaveTotalsErr error

	SaveTotalsCalls int
}

// NewMockUserRepository creates a new MockUserRepository
func NewMockUserRepository() *MockUserRepository {
	return &MockUserRepository{
		Users: make(map[string]*domain.User),
		ByID:  make(map[uuid.UUID]*domain.User),
	}
}

// Add registers a user in both lookup maps
func (m *MockUserRepository) Add(user *domain.User) {
	m.Users[user.Auth0ID] = user
	m.ByID[user.ID] = user
}

// GetByID retrieves a user by ID
func (m *MockUserRepository) GetByID(id uuid.UUID) (*domain.User, error) {
	if m.GetByIDErr != nil {
		return nil, m.GetByIDErr
	}
	if user, ok := m.ByID[id]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// GetByAuth0ID retrieves a user by Auth0 ID
func (m *MockUserRepository) GetByAuth0ID(auth0ID string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	return nil, domain.ErrUserNotFound
}

// CreateOrGetByAuth0ID creates or retrieves a user by Auth0 ID
func (m *MockUserRepository) CreateOrGetByAuth0ID(auth0ID, email string, name *string) (*domain.User, error) {
	if user, ok := m.Users[auth0ID]; ok {
		return user, nil
	}
	user := &domain.User{
		ID:        uuid.New(),
		Auth0ID:   auth0ID,
		Email:     email,
		Name:      name,
		Salary:    decimal.Zero,
		CreatedAt: time.Now(),
		UpdatedAt: time.Now(),
	}
	m.Add(user)
	return user, nil
}

// UpdateProfile updates the user's profile fields
func (m *MockUserRepository) UpdateProfile(id uuid.UUID, input domain.UpdateProfileInput) (*domain.User, error) {
	user, ok := m.ByID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if input.Name != nil {
		user.Name = input.Name
	}
	if input.Mobile != nil {
		user.Mobile = input.Mobile
	}
	if input.Occupation != nil {
		user.Occupation = input.Occupation
	}
	if input.Salary != nil {
		user.Salary = *input.Salary
	}
	user.UpdatedAt = time.Now()
	return user, nil
}

// SetIncomeOverride sets the monthly income override
func (m *MockUserRepository) SetIncomeOverride(id uuid.UUID, income decimal.Decimal) (*domain.User, error) {
	user, ok := m.ByID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	user.MonthlyIncomeOverride = &income
	user.UpdatedAt = time.Now()
	return user, nil
}

// SaveTotals persists the computed snapshot onto the user
func (m *MockUserRepository) SaveTotals(id uuid.UUID, totals *domain.FinancialTotals) error {
	m.SaveTotalsCalls++
	if m.SaveTotalsErr != nil {
		return m.SaveTotalsErr
	}
	user, ok := m.ByID[id]
	if !ok {
		return domain.ErrUserNotFound
	}
	user.Totals = totals
	return nil
}

// MockEMIRepository is a mock implementation of domain.EMIRepository
type MockEMIRepository struct {
	EMIs   map[int32]*domain.EMI
	nextID int32

	SumActiveErr error
}

// NewMockEMIRepository creates a new MockEMIRepository
func NewMockEMIRepository() *MockEMIRepository {
	return &MockEMIRepository{EMIs: make(map[int32]*domain.EMI)}
}

// Create creates a new EMI
func (m *MockEMIRepository) Create(emi *domain.EMI) (*domain.EMI, error) {
	m.nextID++
	emi.ID = m.nextID
	emi.CreatedAt = time.Now()
	emi.UpdatedAt = time.Now()
	m.EMIs[emi.ID] = emi
	return emi, nil
}

// GetActiveByUser returns the user's active EMIs
func (m *MockEMIRepository) GetActiveByUser(userID uuid.UUID) ([]*domain.EMI, error) {
	var result []*domain.EMI
	for _, emi := range m.EMIs {
		if emi.UserID == userID && emi.Active {
			result = append(result, emi)
		}
	}
	return result, nil
}

// Deactivate soft-deletes an EMI
func (m *MockEMIRepository) Deactivate(userID uuid.UUID, id int32) error {
	emi, ok := m.EMIs[id]
	if !ok || emi.UserID != userID || !emi.Active {
		return domain.ErrEMINotFound
	}
	emi.Active = false
	return nil
}

// SumActive sums the user's active EMIs
func (m *MockEMIRepository) SumActive(userID uuid.UUID) (domain.EMISums, error) {
	if m.SumActiveErr != nil {
		return domain.EMISums{}, m.SumActiveErr
	}
	sums := domain.EMISums{TotalAmount: decimal.Zero, TotalMonthlyPayment: decimal.Zero}
	for _, emi := range m.EMIs {
		if emi.UserID == userID && emi.Active {
			sums.TotalAmount = sums.TotalAmount.Add(emi.Amount)
			sums.TotalMonthlyPayment = sums.TotalMonthlyPayment.Add(emi.MonthlyPayment)
		}
	}
	return sums, nil
}

// MockExpenseRepository is a mock implementation of domain.ExpenseRepository
type MockExpenseRepository struct {
	Expenses map[int32]*domain.Expense
	nextID   int32

	SumErr error
}

// NewMockExpenseRepository creates a new MockExpenseRepository
func NewMockExpenseRepository() *MockExpenseRepository {
	return &MockExpenseRepository{Expenses: make(map[int32]*domain.Expense)}
}

// Create records a new expense
func (m *MockExpenseRepository) Create(expense *domain.Expense) (*domain.Expense, error) {
	m.nextID++
	expense.ID = m.nextID
	expense.CreatedAt = time.Now()
	expense.UpdatedAt = time.Now()
	m.Expenses[expense.ID] = expense
	return expense, nil
}

// GetByID retrieves an active expense by ID
func (m *MockExpenseRepository) GetByID(userID uuid.UUID, id int32) (*domain.Expense, error) {
	expense, ok := m.Expenses[id]
	if !ok || expense.UserID != userID || !expense.Active {
		return nil, domain.ErrExpenseNotFound
	}
	return expense, nil
}

// GetActiveByUser returns the user's active expenses
func (m *MockExpenseRepository) GetActiveByUser(userID uuid.UUID) ([]*domain.Expense, error) {
	var result []*domain.Expense
	for _, expense := range m.Expenses {
		if expense.UserID == userID && expense.Active {
			result = append(result, expense)
		}
	}
	return result, nil
}

// Deactivate soft-deletes an expense
func (m *MockExpenseRepository) Deactivate(userID uuid.UUID, id int32) error {
	expense, ok := m.Expenses[id]
	if !ok || expense.UserID != userID || !expense.Active {
		return domain.ErrExpenseNotFound
	}
	expense.Active = false
	return nil
}

// SetReceiptID attaches or detaches a receipt reference
func (m *MockExpenseRepository) SetReceiptID(userID uuid.UUID, id int32, receiptID *string) error {
	expense, ok := m.Expenses[id]
	if !ok || expense.UserID != userID || !expense.Active {
		return domain.ErrExpenseNotFound
	}
	expense.ReceiptID = receiptID
	return nil
}

// SumByDateRange sums active expenses dated within [from, to] inclusive
func (m *MockExpenseRepository) SumByDateRange(userID uuid.UUID, from, to time.Time) (decimal.Decimal, error) {
	if m.SumErr != nil {
		return decimal.Zero, m.SumErr
	}
	sum := decimal.Zero
	for _, expense := range m.Expenses {
		if expense.UserID != userID || !expense.Active {
			continue
		}
		if expense.Date.Before(from) || expense.Date.After(to) {
			continue
		}
		sum = sum.Add(expense.Amount)
	}
	return sum, nil
}

// MockDebtRepository is a mock implementation of domain.DebtRepository
type MockDebtRepository struct {
	Debts  map[int32]*domain.Debt
	nextID int32

	SumErr error
}

// NewMockDebtRepository creates a new MockDebtRepository
func NewMockDebtRepository() *MockDebtRepository {
	return &MockDebtRepository{Debts: make(map[int32]*domain.Debt)}
}

// Create records a new debt
func (m *MockDebtRepository) Create(debt *domain.Debt) (*domain.Debt, error) {
	m.nextID++
	debt.ID = m.nextID
	debt.CreatedAt = time.Now()
	debt.UpdatedAt = time.Now()
	m.Debts[debt.ID] = debt
	return debt, nil
}

// GetActiveByUser returns the user's active debts
func (m *MockDebtRepository) GetActiveByUser(userID uuid.UUID) ([]*domain.Debt, error) {
	var result []*domain.Debt
	for _, debt := range m.Debts {
		if debt.UserID == userID && debt.Active {
			result = append(result, debt)
		}
	}
	return result, nil
}

// Deactivate soft-deletes a debt
func (m *MockDebtRepository) Deactivate(userID uuid.UUID, id int32) error {
	debt, ok := m.Debts[id]
	if !ok || debt.UserID != userID || !debt.Active {
		return domain.ErrDebtNotFound
	}
	debt.Active = false
	return nil
}

// SumActiveRemaining sums remaining amounts across active debts
func (m *MockDebtRepository) SumActiveRemaining(userID uuid.UUID) (decimal.Decimal, error) {
	if m.SumErr != nil {
		return decimal.Zero, m.SumErr
	}
	sum := decimal.Zero
	for _, debt := range m.Debts {
		if debt.UserID == userID && debt.Active {
			sum = sum.Add(debt.RemainingAmount)
		}
	}
	return sum, nil
}

// MockSavingsRepository is a mock implementation of domain.SavingsRepository
type MockSavingsRepository struct {
	Goals  map[int32]*domain.SavingsGoal
	nextID int32

	SumErr error
}

// NewMockSavingsRepository creates a new MockSavingsRepository
func NewMockSavingsRepository() *MockSavingsRepository {
	return &MockSavingsRepository{Goals: make(map[int32]*domain.SavingsGoal)}
}

// Create creates a new savings goal
func (m *MockSavingsRepository) Create(goal *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	m.nextID++
	goal.ID = m.nextID
	goal.CreatedAt = time.Now()
	goal.UpdatedAt = time.Now()
	m.Goals[goal.ID] = goal
	return goal, nil
}

// GetActiveByUser returns the user's active savings goals
func (m *MockSavingsRepository) GetActiveByUser(userID uuid.UUID) ([]*domain.SavingsGoal, error) {
	var result []*domain.SavingsGoal
	for _, goal := range m.Goals {
		if goal.UserID == userID && goal.Active {
			result = append(result, goal)
		}
	}
	return result, nil
}

// Update replaces the mutable fields of a savings goal
func (m *MockSavingsRepository) Update(goal *domain.SavingsGoal) (*domain.SavingsGoal, error) {
	existing, ok := m.Goals[goal.ID]
	if !ok || existing.UserID != goal.UserID || !existing.Active {
		return nil, domain.ErrSavingsNotFound
	}
	goal.UpdatedAt = time.Now()
	m.Goals[goal.ID] = goal
	return goal, nil
}

// Deactivate soft-deletes a savings goal
func (m *MockSavingsRepository) Deactivate(userID uuid.UUID, id int32) error {
	goal, ok := m.Goals[id]
	if !ok || goal.UserID != userID || !goal.Active {
		return domain.ErrSavingsNotFound
	}
	goal.Active = false
	return nil
}

// SumActive sums target and current amounts across active goals
func (m *MockSavingsRepository) SumActive(userID uuid.UUID) (domain.SavingsSums, error) {
	if m.SumErr != nil {
		return domain.SavingsSums{}, m.SumErr
	}
	sums := domain.SavingsSums{TotalTarget: decimal.Zero, TotalCurrent: decimal.Zero}
	for _, goal := range m.Goals {
		if goal.UserID == userID && goal.Active {
			sums.TotalTarget = sums.TotalTarget.Add(goal.TargetAmount)
			sums.TotalCurrent = sums.TotalCurrent.Add(goal.CurrentAmount)
		}
	}
	return sums, nil
}

// MockPublisher captures published events for assertions
type MockPublisher struct {
	mu     sync.Mutex
	Events []websocket.Event
}

// Publish records the event
func (m *MockPublisher) Publish(userID uuid.UUID, event websocket.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Events = append(m.Events, event)
}

// Published returns a copy of the captured events
func (m *MockPublisher) Published() []websocket.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]websocket.Event, len(m.Events))
	copy(out, m.Events)
	return out
}

// MockNotifier records change notifications
type MockNotifier struct {
	mu    sync.Mutex
	Calls []uuid.UUID
}

// NotifyChanged records the notification
func (m *MockNotifier) NotifyChanged(userID uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls = append(m.Calls, userID)
}

// CallCount returns how many notifications were recorded
func (m *MockNotifier) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Calls)
}
