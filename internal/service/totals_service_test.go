package service

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/paisatrack/paisa-backend/internal/domain"
	"github.com/paisatrack/paisa-backend/internal/testutil"
	"github.com/paisatrack/paisa-backend/internal/websocket"
	"github.com/shopspring/decimal"
)

type totalsFixture struct {
	userRepo    *testutil.MockUserRepository
	emiRepo     *testutil.MockEMIRepository
	expenseRepo *testutil.MockExpenseRepository
	debtRepo    *testutil.MockDebtRepository
	savingsRepo *testutil.MockSavingsRepository
	service     *TotalsService
	user        *domain.User
}

func newTotalsFixture(t *testing.T) *totalsFixture {
	t.Helper()

	f := &totalsFixture{
		userRepo:    testutil.NewMockUserRepository(),
		emiRepo:     testutil.NewMockEMIRepository(),
		expenseRepo: testutil.NewMockExpenseRepository(),
		debtRepo:    testutil.NewMockDebtRepository(),
		savingsRepo: testutil.NewMockSavingsRepository(),
	}
	f.service = NewTotalsService(f.userRepo, f.emiRepo, f.expenseRepo, f.debtRepo, f.savingsRepo)

	f.user = &domain.User{
		ID:      uuid.New(),
		Auth0ID: "auth0|totals-test",
		Email:   "totals@example.com",
		Salary:  decimal.NewFromInt(8000),
	}
	f.userRepo.Add(f.user)

	return f
}

// setClock pins the service clock to a mutable instant
func (f *totalsFixture) setClock(at *time.Time) {
	f.service.now = func() time.Time { return *at }
}

func TestComputeTotals_ZeroRecords(t *testing.T) {
	f := newTotalsFixture(t)

	totals, err := f.service.ComputeTotals(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !totals.TotalExpenses.IsZero() {
		t.Errorf("Expected zero expenses, got %s", totals.TotalExpenses)
	}
	if !totals.TotalDebtAmount.IsZero() {
		t.Errorf("Expected zero debt, got %s", totals.TotalDebtAmount)
	}
	if !totals.TotalSavingsGoal.IsZero() || !totals.TotalSavingsCurrent.IsZero() {
		t.Errorf("Expected zero savings sums, got %s/%s", totals.TotalSavingsGoal, totals.TotalSavingsCurrent)
	}
	if !totals.MonthlyIncome.Equal(decimal.NewFromInt(8000)) {
		t.Errorf("Expected income 8000, got %s", totals.MonthlyIncome)
	}
	// With no expenses or EMIs the balance equals the income
	if !totals.TotalBalance.Equal(decimal.NewFromInt(8000)) {
		t.Errorf("Expected balance 8000, got %s", totals.TotalBalance)
	}
	if totals.LastCalculated.IsZero() {
		t.Error("Expected lastCalculated to be set")
	}
}

func TestComputeTotals_BalanceFormula(t *testing.T) {
	f := newTotalsFixture(t)

	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	f.setClock(&now)

	// Income 8000, expenses 3500 this month, EMI monthly payment 1200
	f.expenseRepo.Create(&domain.Expense{
		UserID:      f.user.ID,
		Description: "Rent",
		Amount:      decimal.NewFromInt(3500),
		Date:        time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
		Active:      true,
	})
	f.emiRepo.Create(&domain.EMI{
		UserID:         f.user.ID,
		LoanType:       domain.LoanTypeCar,
		Amount:         decimal.NewFromInt(60000),
		MonthlyPayment: decimal.NewFromInt(1200),
		Active:         true,
	})

	totals, err := f.service.ComputeTotals(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !totals.TotalBalance.Equal(decimal.NewFromInt(3300)) {
		t.Errorf("Expected balance 3300 (8000 - 3500 - 1200), got %s", totals.TotalBalance)
	}
	if !totals.TotalEMIAmount.Equal(decimal.NewFromInt(60000)) {
		t.Errorf("Expected EMI principal 60000, got %s", totals.TotalEMIAmount)
	}
	if !totals.TotalEMIMonthlyPayment.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("Expected EMI monthly 1200, got %s", totals.TotalEMIMonthlyPayment)
	}
}

func TestComputeTotals_SavingsSums(t *testing.T) {
	f := newTotalsFixture(t)

	f.savingsRepo.Create(&domain.SavingsGoal{
		UserID:        f.user.ID,
		Name:          "Emergency fund",
		TargetAmount:  decimal.NewFromInt(5000),
		CurrentAmount: decimal.NewFromInt(2000),
		Category:      domain.SavingsEmergency,
		Active:        true,
	})
	f.savingsRepo.Create(&domain.SavingsGoal{
		UserID:        f.user.ID,
		Name:          "Vacation",
		TargetAmount:  decimal.NewFromInt(3000),
		CurrentAmount: decimal.NewFromInt(3000),
		Category:      domain.SavingsVacation,
		Active:        true,
	})

	totals, err := f.service.ComputeTotals(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !totals.TotalSavingsGoal.Equal(decimal.NewFromInt(8000)) {
		t.Errorf("Expected savings target 8000, got %s", totals.TotalSavingsGoal)
	}
	if !totals.TotalSavingsCurrent.Equal(decimal.NewFromInt(5000)) {
		t.Errorf("Expected savings current 5000, got %s", totals.TotalSavingsCurrent)
	}
}

func TestComputeTotals_IncomeOverrideWins(t *testing.T) {
	f := newTotalsFixture(t)

	override := decimal.NewFromInt(12000)
	f.user.MonthlyIncomeOverride = &override

	totals, err := f.service.ComputeTotals(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !totals.MonthlyIncome.Equal(override) {
		t.Errorf("Expected override income 12000, got %s", totals.MonthlyIncome)
	}

	// A zero override falls back to the declared salary
	zero := decimal.Zero
	f.user.MonthlyIncomeOverride = &zero

	totals, err = f.service.ComputeTotals(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if !totals.MonthlyIncome.Equal(decimal.NewFromInt(8000)) {
		t.Errorf("Expected salary fallback 8000, got %s", totals.MonthlyIncome)
	}
}

func TestComputeTotals_SoftDeletedExcluded(t *testing.T) {
	f := newTotalsFixture(t)

	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	f.setClock(&now)

	kept, _ := f.expenseRepo.Create(&domain.Expense{
		UserID:      f.user.ID,
		Description: "Groceries",
		Amount:      decimal.NewFromInt(400),
		Date:        time.Date(2025, 3, 5, 0, 0, 0, 0, time.UTC),
		Active:      true,
	})
	removed, _ := f.expenseRepo.Create(&domain.Expense{
		UserID:      f.user.ID,
		Description: "Mistake",
		Amount:      decimal.NewFromInt(9999),
		Date:        time.Date(2025, 3, 6, 0, 0, 0, 0, time.UTC),
		Active:      true,
	})
	if err := f.expenseRepo.Deactivate(f.user.ID, removed.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	debt, _ := f.debtRepo.Create(&domain.Debt{
		UserID:          f.user.ID,
		Creditor:        "Bank",
		TotalAmount:     decimal.NewFromInt(10000),
		RemainingAmount: decimal.NewFromInt(10000),
		Active:          true,
	})
	if err := f.debtRepo.Deactivate(f.user.ID, debt.ID); err != nil {
		t.Fatalf("Deactivate failed: %v", err)
	}

	totals, err := f.service.ComputeTotals(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !totals.TotalExpenses.Equal(kept.Amount) {
		t.Errorf("Expected expenses %s (deactivated row excluded), got %s", kept.Amount, totals.TotalExpenses)
	}
	if !totals.TotalDebtAmount.IsZero() {
		t.Errorf("Expected zero debt after deactivation, got %s", totals.TotalDebtAmount)
	}
}

func TestComputeTotals_ExpenseOutsideMonthExcluded(t *testing.T) {
	f := newTotalsFixture(t)

	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	f.setClock(&now)

	f.expenseRepo.Create(&domain.Expense{
		UserID:      f.user.ID,
		Description: "Last month",
		Amount:      decimal.NewFromInt(700),
		Date:        time.Date(2025, 2, 28, 0, 0, 0, 0, time.UTC),
		Active:      true,
	})
	f.expenseRepo.Create(&domain.Expense{
		UserID:      f.user.ID,
		Description: "First of month",
		Amount:      decimal.NewFromInt(100),
		Date:        time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		Active:      true,
	})
	f.expenseRepo.Create(&domain.Expense{
		UserID:      f.user.ID,
		Description: "Last of month",
		Amount:      decimal.NewFromInt(50),
		Date:        time.Date(2025, 3, 31, 0, 0, 0, 0, time.UTC),
		Active:      true,
	})
	f.expenseRepo.Create(&domain.Expense{
		UserID:      f.user.ID,
		Description: "Next month",
		Amount:      decimal.NewFromInt(300),
		Date:        time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC),
		Active:      true,
	})

	totals, err := f.service.ComputeTotals(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !totals.TotalExpenses.Equal(decimal.NewFromInt(150)) {
		t.Errorf("Expected current-month expenses 150, got %s", totals.TotalExpenses)
	}
}

func TestComputeTotals_UserNotFound(t *testing.T) {
	f := newTotalsFixture(t)

	_, err := f.service.ComputeTotals(uuid.New())
	if !errors.Is(err, domain.ErrUserNotFound) {
		t.Errorf("Expected ErrUserNotFound, got %v", err)
	}
}

func TestComputeTotals_StoreFailure(t *testing.T) {
	f := newTotalsFixture(t)

	f.emiRepo.SumActiveErr = errors.New("connection refused")

	_, err := f.service.ComputeTotals(f.user.ID)
	if !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Errorf("Expected ErrStoreUnavailable, got %v", err)
	}
}

func TestComputeTotals_PersistsDurableMirror(t *testing.T) {
	f := newTotalsFixture(t)

	totals, err := f.service.ComputeTotals(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if f.userRepo.SaveTotalsCalls != 1 {
		t.Errorf("Expected 1 SaveTotals call, got %d", f.userRepo.SaveTotalsCalls)
	}
	if f.user.Totals == nil {
		t.Fatal("Expected totals mirrored onto the user")
	}
	if !f.user.Totals.LastCalculated.Equal(totals.LastCalculated) {
		t.Error("Expected mirrored snapshot to match the returned one")
	}
}

func TestComputeTotals_MirrorFailureIsNotFatal(t *testing.T) {
	f := newTotalsFixture(t)

	f.userRepo.SaveTotalsErr = errors.New("connection refused")

	totals, err := f.service.ComputeTotals(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if totals == nil {
		t.Fatal("Expected a snapshot despite the mirror failure")
	}

	// The snapshot must still be served from the in-memory cache
	cached, err := f.service.GetTotals(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if cached != totals {
		t.Error("Expected the cached snapshot to be served")
	}
}

func TestGetTotals_CacheWithinWindow(t *testing.T) {
	f := newTotalsFixture(t)

	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	f.setClock(&now)

	first, err := f.service.GetTotals(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// Mutate the underlying records: within the window the cached snapshot
	// is still served untouched
	f.expenseRepo.Create(&domain.Expense{
		UserID:      f.user.ID,
		Description: "New expense",
		Amount:      decimal.NewFromInt(500),
		Date:        now,
		Active:      true,
	})

	now = now.Add(2 * time.Minute)

	second, err := f.service.GetTotals(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if second != first {
		t.Error("Expected the identical cached snapshot within the staleness window")
	}
	if f.userRepo.SaveTotalsCalls != 1 {
		t.Errorf("Expected no recompute within the window, got %d SaveTotals calls", f.userRepo.SaveTotalsCalls)
	}
}

func TestGetTotals_RecomputeAfterWindow(t *testing.T) {
	f := newTotalsFixture(t)

	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	f.setClock(&now)

	first, err := f.service.GetTotals(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	now = now.Add(DefaultStalenessWindow + time.Second)

	second, err := f.service.GetTotals(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if !second.LastCalculated.After(first.LastCalculated) {
		t.Errorf("Expected lastCalculated to advance after the window: %v vs %v",
			first.LastCalculated, second.LastCalculated)
	}
	if f.userRepo.SaveTotalsCalls != 2 {
		t.Errorf("Expected a recompute after the window, got %d SaveTotals calls", f.userRepo.SaveTotalsCalls)
	}
}

func TestGetTotals_DurableMirrorSeedsCache(t *testing.T) {
	f := newTotalsFixture(t)

	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	f.setClock(&now)

	if _, err := f.service.ComputeTotals(f.user.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// A fresh service instance simulates a process restart: the in-memory
	// cache is empty but the durable mirror is still young
	restarted := NewTotalsService(f.userRepo, f.emiRepo, f.expenseRepo, f.debtRepo, f.savingsRepo)
	restarted.now = func() time.Time { return now.Add(time.Minute) }

	totals, err := restarted.GetTotals(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if totals != f.user.Totals {
		t.Error("Expected the durable mirror to be served without recompute")
	}
	if f.userRepo.SaveTotalsCalls != 1 {
		t.Errorf("Expected no recompute from the mirror, got %d SaveTotals calls", f.userRepo.SaveTotalsCalls)
	}
}

func TestGetTotals_CustomStalenessWindow(t *testing.T) {
	f := newTotalsFixture(t)
	f.service.SetStalenessWindow(time.Second)

	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	f.setClock(&now)

	if _, err := f.service.GetTotals(f.user.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	now = now.Add(2 * time.Second)

	if _, err := f.service.GetTotals(f.user.ID); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if f.userRepo.SaveTotalsCalls != 2 {
		t.Errorf("Expected recompute with the shortened window, got %d SaveTotals calls", f.userRepo.SaveTotalsCalls)
	}
}

func TestLastCalculated_Monotonic(t *testing.T) {
	f := newTotalsFixture(t)

	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	f.setClock(&now)

	first, err := f.service.ComputeTotals(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	// The clock regressing must not move lastCalculated backwards
	now = now.Add(-time.Minute)

	second, err := f.service.ComputeTotals(f.user.ID)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if second.LastCalculated.Before(first.LastCalculated) {
		t.Errorf("Expected lastCalculated to be non-decreasing: %v then %v",
			first.LastCalculated, second.LastCalculated)
	}
}

func TestNotifyChanged_PublishesOnUserTopic(t *testing.T) {
	f := newTotalsFixture(t)

	publisher := &testutil.MockPublisher{}
	f.service.SetEventPublisher(publisher)

	f.service.NotifyChanged(f.user.ID)

	events := waitForEvents(t, publisher, 1)

	if events[0].Topic != websocket.TotalsTopic(f.user.ID) {
		t.Errorf("Expected topic %q, got %q", websocket.TotalsTopic(f.user.ID), events[0].Topic)
	}
	if events[0].Type != websocket.EventTypeTotalsUpdated {
		t.Errorf("Expected type totalsUpdated, got %q", events[0].Type)
	}
}

func TestNotifyChanged_ComputeFailureIsSwallowed(t *testing.T) {
	f := newTotalsFixture(t)

	publisher := &testutil.MockPublisher{}
	f.service.SetEventPublisher(publisher)
	f.debtRepo.SumErr = errors.New("connection refused")

	// Must not panic or publish
	f.service.NotifyChanged(f.user.ID)

	time.Sleep(50 * time.Millisecond)
	if len(publisher.Published()) != 0 {
		t.Errorf("Expected no events on compute failure, got %d", len(publisher.Published()))
	}
}

// waitForEvents polls the mock publisher until at least n events arrive
func waitForEvents(t *testing.T, publisher *testutil.MockPublisher, n int) []websocket.Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		events := publisher.Published()
		if len(events) >= n {
			return events
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("Timed out waiting for %d events", n)
	return nil
}
