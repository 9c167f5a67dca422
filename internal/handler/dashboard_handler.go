package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/paisatrack/paisa-backend/internal/domain"
	"github.com/paisatrack/paisa-backend/internal/middleware"
	"github.com/paisatrack/paisa-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// DashboardHandler handles dashboard-related HTTP requests
type DashboardHandler struct {
	totalsService *service.TotalsService
}

// NewDashboardHandler creates a new DashboardHandler
func NewDashboardHandler(totalsService *service.TotalsService) *DashboardHandler {
	return &DashboardHandler{
		totalsService: totalsService,
	}
}

// TotalsResponse is the flat dashboard totals API response
type TotalsResponse struct {
	TotalBalance           string    `json:"totalBalance"`
	TotalSavingsGoal       string    `json:"totalSavingsGoal"`
	TotalSavingsCurrent    string    `json:"totalSavingsCurrent"`
	TotalDebtAmount        string    `json:"totalDebtAmount"`
	TotalEMIAmount         string    `json:"totalEMIAmount"`
	TotalEMIMonthlyPayment string    `json:"totalEMIMonthlyPayment"`
	TotalExpenses          string    `json:"totalExpenses"`
	MonthlyIncome          string    `json:"monthlyIncome"`
	SavingsProgress        string    `json:"savingsProgress"`
	Health                 string    `json:"health"`
	LastCalculated         time.Time `json:"lastCalculated"`
}

func toTotalsResponse(t *domain.FinancialTotals) TotalsResponse {
	return TotalsResponse{
		TotalBalance:           t.TotalBalance.StringFixed(2),
		TotalSavingsGoal:       t.TotalSavingsGoal.StringFixed(2),
		TotalSavingsCurrent:    t.TotalSavingsCurrent.StringFixed(2),
		TotalDebtAmount:        t.TotalDebtAmount.StringFixed(2),
		TotalEMIAmount:         t.TotalEMIAmount.StringFixed(2),
		TotalEMIMonthlyPayment: t.TotalEMIMonthlyPayment.StringFixed(2),
		TotalExpenses:          t.TotalExpenses.StringFixed(2),
		MonthlyIncome:          t.MonthlyIncome.StringFixed(2),
		SavingsProgress:        t.SavingsProgress().Round(2).String(),
		Health:                 string(t.Health()),
		LastCalculated:         t.LastCalculated,
	}
}

// GetTotals handles GET /api/v1/dashboard/totals
func (h *DashboardHandler) GetTotals(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	totals, err := h.totalsService.GetTotals(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Stringer("user_id", userID).Msg("Failed to get dashboard totals")
		return NewInternalError(c, "Failed to get dashboard totals")
	}

	return c.JSON(http.StatusOK, toTotalsResponse(totals))
}
