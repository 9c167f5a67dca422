package service

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/paisatrack/paisa-backend/internal/domain"
	"github.com/paisatrack/paisa-backend/internal/util"
	"github.com/paisatrack/paisa-backend/internal/websocket"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

// DefaultStalenessWindow is the maximum age of a cached snapshot before a
// read triggers recomputation
const DefaultStalenessWindow = 5 * time.Minute

// TotalsService computes, caches and propagates per-user financial totals.
// The snapshot is an eventually-consistent derived view: concurrent
// recomputes for the same user are allowed, last write wins.
type TotalsService struct {
	userRepo    domain.UserRepository
	emiRepo     domain.EMIRepository
	expenseRepo domain.ExpenseRepository
	debtRepo    domain.DebtRepository
	savingsRepo domain.SavingsRepository

	staleness time.Duration
	now       func() time.Time

	eventPublisher websocket.EventPublisher

	mu    sync.RWMutex
	cache map[uuid.UUID]*domain.FinancialTotals
}

// NewTotalsService creates a new TotalsService with the default staleness window
func NewTotalsService(
	userRepo domain.UserRepository,
	emiRepo domain.EMIRepository,
	expenseRepo domain.ExpenseRepository,
	debtRepo domain.DebtRepository,
	savingsRepo domain.SavingsRepository,
) *TotalsService {
	return &TotalsService{
		userRepo:    userRepo,
		emiRepo:     emiRepo,
		expenseRepo: expenseRepo,
		debtRepo:    debtRepo,
		savingsRepo: savingsRepo,
		staleness:   DefaultStalenessWindow,
		now:         time.Now,
		cache:       make(map[uuid.UUID]*domain.FinancialTotals),
	}
}

// SetStalenessWindow overrides the cache staleness window
func (s *TotalsService) SetStalenessWindow(d time.Duration) {
	if d > 0 {
		s.staleness = d
	}
}

// SetEventPublisher sets the publisher for real-time totals updates
func (s *TotalsService) SetEventPublisher(publisher websocket.EventPublisher) {
	s.eventPublisher = publisher
}

// ComputeTotals recomputes the user's snapshot from the four record stores,
// persists it onto the user's profile and stores it in the cache.
// Returns domain.ErrUserNotFound for unknown users; a failing store query
// aborts the computation rather than substituting partial zeros.
func (s *TotalsService) ComputeTotals(userID uuid.UUID) (*domain.FinancialTotals, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	monthStart, monthEnd := util.MonthRange(s.now())

	var (
		emiSums     domain.EMISums
		expenseSum  decimal.Decimal
		debtSum     decimal.Decimal
		savingsSums domain.SavingsSums
	)

	var g errgroup.Group
	g.Go(func() error {
		var err error
		emiSums, err = s.emiRepo.SumActive(userID)
		if err != nil {
			return fmt.Errorf("emi sums: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		expenseSum, err = s.expenseRepo.SumByDateRange(userID, monthStart, monthEnd)
		if err != nil {
			return fmt.Errorf("expense sum: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		debtSum, err = s.debtRepo.SumActiveRemaining(userID)
		if err != nil {
			return fmt.Errorf("debt sum: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		savingsSums, err = s.savingsRepo.SumActive(userID)
		if err != nil {
			return fmt.Errorf("savings sums: %w", err)
		}
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrStoreUnavailable, err)
	}

	monthlyIncome := user.MonthlyIncome()

	totals := &domain.FinancialTotals{
		TotalBalance:           monthlyIncome.Sub(expenseSum).Sub(emiSums.TotalMonthlyPayment),
		TotalSavingsGoal:       savingsSums.TotalTarget,
		TotalSavingsCurrent:    savingsSums.TotalCurrent,
		TotalDebtAmount:        debtSum,
		TotalEMIAmount:         emiSums.TotalAmount,
		TotalEMIMonthlyPayment: emiSums.TotalMonthlyPayment,
		TotalExpenses:          expenseSum,
		MonthlyIncome:          monthlyIncome,
		LastCalculated:         s.now().UTC(),
	}

	s.store(userID, totals)

	// Mirror to durable storage so the snapshot survives restarts.
	// The in-memory copy is already stored, so a mirror failure does not
	// invalidate the computation.
	if err := s.userRepo.SaveTotals(userID, totals); err != nil {
		log.Warn().
			Err(err).
			Stringer("user_id", userID).
			Msg("Failed to persist totals mirror")
	}

	return totals, nil
}

// GetTotals serves the user's totals through the cache: a memoized snapshot
// younger than the staleness window is returned verbatim; otherwise it
// delegates to ComputeTotals. Two concurrent misses may both recompute;
// that is an accepted overwrite.
func (s *TotalsService) GetTotals(userID uuid.UUID) (*domain.FinancialTotals, error) {
	if totals, ok := s.fresh(userID); ok {
		return totals, nil
	}

	// Fall back to the durable mirror before recomputing; it survives
	// process restarts.
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user.Totals != nil && s.now().Sub(user.Totals.LastCalculated) <= s.staleness {
		s.store(userID, user.Totals)
		return user.Totals, nil
	}

	return s.ComputeTotals(userID)
}

// NotifyChanged is invoked after every mutation to a user's underlying
// records. It forces a recompute (bypassing staleness) and publishes the
// fresh snapshot on the user's topic. Fire-and-forget: the caller's request
// is never blocked or failed by publication.
func (s *TotalsService) NotifyChanged(userID uuid.UUID) {
	go func() {
		totals, err := s.ComputeTotals(userID)
		if err != nil {
			log.Error().
				Err(err).
				Stringer("user_id", userID).
				Msg("Failed to recompute totals after change")
			return
		}

		if s.eventPublisher != nil {
			s.eventPublisher.Publish(userID, websocket.TotalsUpdated(userID, totals))
		}
	}()
}

// fresh returns the cached snapshot when it is within the staleness window
func (s *TotalsService) fresh(userID uuid.UUID) (*domain.FinancialTotals, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	totals, ok := s.cache[userID]
	if !ok {
		return nil, false
	}
	if s.now().Sub(totals.LastCalculated) > s.staleness {
		return nil, false
	}
	return totals, true
}

// store overwrites the cache entry, keeping lastCalculated monotonically
// non-decreasing per user
func (s *TotalsService) store(userID uuid.UUID, totals *domain.FinancialTotals) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.cache[userID]; ok && totals.LastCalculated.Before(prev.LastCalculated) {
		totals.LastCalculated = prev.LastCalculated
	}
	s.cache[userID] = totals
}
