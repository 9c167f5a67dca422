package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/paisatrack/paisa-backend/internal/domain"
	"github.com/paisatrack/paisa-backend/internal/middleware"
	"github.com/paisatrack/paisa-backend/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// DebtHandler handles debt-related HTTP requests
type DebtHandler struct {
	debtService *service.DebtService
}

// NewDebtHandler creates a new DebtHandler
func NewDebtHandler(debtService *service.DebtService) *DebtHandler {
	return &DebtHandler{debtService: debtService}
}

// CreateDebtRequest represents the create debt request body
type CreateDebtRequest struct {
	Creditor        string  `json:"creditor"`
	TotalAmount     string  `json:"totalAmount"`
	RemainingAmount *string `json:"remainingAmount"`
	InterestRate    string  `json:"interestRate"`
}

// DebtResponse represents a debt in API responses
type DebtResponse struct {
	ID              int32  `json:"id"`
	Creditor        string `json:"creditor"`
	TotalAmount     string `json:"totalAmount"`
	RemainingAmount string `json:"remainingAmount"`
	InterestRate    string `json:"interestRate"`
	CreatedAt       string `json:"createdAt"`
}

func toDebtResponse(debt *domain.Debt) DebtResponse {
	return DebtResponse{
		ID:              debt.ID,
		Creditor:        debt.Creditor,
		TotalAmount:     debt.TotalAmount.StringFixed(2),
		RemainingAmount: debt.RemainingAmount.StringFixed(2),
		InterestRate:    debt.InterestRate.StringFixed(2),
		CreatedAt:       debt.CreatedAt.Format(time.RFC3339),
	}
}

// CreateDebt handles POST /api/v1/debts
func (h *DebtHandler) CreateDebt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateDebtRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	total, err := decimal.NewFromString(req.TotalAmount)
	if err != nil {
		return NewValidationError(c, "Invalid total amount", []ValidationError{
			{Field: "totalAmount", Message: "Must be a valid decimal number"},
		})
	}

	rate, err := decimal.NewFromString(req.InterestRate)
	if err != nil {
		return NewValidationError(c, "Invalid interest rate", []ValidationError{
			{Field: "interestRate", Message: "Must be a valid decimal number"},
		})
	}

	var remaining *decimal.Decimal
	if req.RemainingAmount != nil {
		parsed, err := decimal.NewFromString(*req.RemainingAmount)
		if err != nil {
			return NewValidationError(c, "Invalid remaining amount", []ValidationError{
				{Field: "remainingAmount", Message: "Must be a valid decimal number"},
			})
		}
		remaining = &parsed
	}

	input := service.CreateDebtInput{
		Creditor:        req.Creditor,
		TotalAmount:     total,
		RemainingAmount: remaining,
		InterestRate:    rate,
	}

	debt, err := h.debtService.CreateDebt(userID, input)
	if err != nil {
		if errors.Is(err, domain.ErrNameRequired) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "creditor", Message: "Creditor is required"},
			})
		}
		if errors.Is(err, domain.ErrNameTooLong) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "creditor", Message: "Creditor must be 200 characters or less"},
			})
		}
		if errors.Is(err, domain.ErrDebtAmountInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "totalAmount", Message: "Total amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrDebtRemainingInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "remainingAmount", Message: "Remaining amount cannot be negative or exceed the total"},
			})
		}
		log.Error().Err(err).Stringer("user_id", userID).Msg("Failed to create debt")
		return NewInternalError(c, "Failed to create debt")
	}

	log.Info().Stringer("user_id", userID).Int32("debt_id", debt.ID).Msg("Debt created")

	return c.JSON(http.StatusCreated, toDebtResponse(debt))
}

// GetDebts handles GET /api/v1/debts
func (h *DebtHandler) GetDebts(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	debts, err := h.debtService.GetDebts(userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("Failed to get debts")
		return NewInternalError(c, "Failed to get debts")
	}

	response := make([]DebtResponse, len(debts))
	for i, debt := range debts {
		response[i] = toDebtResponse(debt)
	}

	return c.JSON(http.StatusOK, response)
}

// DeleteDebt handles DELETE /api/v1/debts/:id
func (h *DebtHandler) DeleteDebt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid debt ID", nil)
	}

	if err := h.debtService.DeleteDebt(userID, int32(id)); err != nil {
		if errors.Is(err, domain.ErrDebtNotFound) {
			return NewNotFoundError(c, "Debt not found")
		}
		log.Error().Err(err).Stringer("user_id", userID).Int("debt_id", id).Msg("Failed to delete debt")
		return NewInternalError(c, "Failed to delete debt")
	}

	log.Info().Stringer("user_id", userID).Int("debt_id", id).Msg("Debt deleted")

	return c.NoContent(http.StatusNoContent)
}
