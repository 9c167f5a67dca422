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

// EMIHandler handles EMI-related HTTP requests
type EMIHandler struct {
	emiService *service.EMIService
}

// NewEMIHandler creates a new EMIHandler
func NewEMIHandler(emiService *service.EMIService) *EMIHandler {
	return &EMIHandler{emiService: emiService}
}

// CreateEMIRequest represents the create EMI request body
type CreateEMIRequest struct {
	LoanType     string `json:"loanType"`
	Amount       string `json:"amount"`
	InterestRate string `json:"interestRate"`
	TenureMonths int32  `json:"tenureMonths"`
	StartDate    string `json:"startDate"`
}

// EMIResponse represents an EMI in API responses
type EMIResponse struct {
	ID             int32  `json:"id"`
	LoanType       string `json:"loanType"`
	Amount         string `json:"amount"`
	InterestRate   string `json:"interestRate"`
	TenureMonths   int32  `json:"tenureMonths"`
	StartDate      string `json:"startDate"`
	MonthlyPayment string `json:"monthlyPayment"`
	CreatedAt      string `json:"createdAt"`
}

// EMIStatsResponse represents aggregate EMI statistics
type EMIStatsResponse struct {
	Count               int    `json:"count"`
	TotalMonthlyPayment string `json:"totalMonthlyPayment"`
	AvgInterestRate     string `json:"avgInterestRate"`
}

func toEMIResponse(emi *domain.EMI) EMIResponse {
	return EMIResponse{
		ID:             emi.ID,
		LoanType:       string(emi.LoanType),
		Amount:         emi.Amount.StringFixed(2),
		InterestRate:   emi.InterestRate.StringFixed(2),
		TenureMonths:   emi.TenureMonths,
		StartDate:      emi.StartDate.Format("2006-01-02"),
		MonthlyPayment: emi.MonthlyPayment.StringFixed(2),
		CreatedAt:      emi.CreatedAt.Format(time.RFC3339),
	}
}

// CreateEMI handles POST /api/v1/emis
func (h *EMIHandler) CreateEMI(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateEMIRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		return NewValidationError(c, "Invalid amount", []ValidationError{
			{Field: "amount", Message: "Must be a valid decimal number"},
		})
	}

	rate, err := decimal.NewFromString(req.InterestRate)
	if err != nil {
		return NewValidationError(c, "Invalid interest rate", []ValidationError{
			{Field: "interestRate", Message: "Must be a valid decimal number"},
		})
	}

	startDate, err := time.Parse("2006-01-02", req.StartDate)
	if err != nil {
		return NewValidationError(c, "Invalid start date", []ValidationError{
			{Field: "startDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	input := service.CreateEMIInput{
		LoanType:     domain.LoanType(req.LoanType),
		Amount:       amount,
		InterestRate: rate,
		TenureMonths: req.TenureMonths,
		StartDate:    startDate,
	}

	emi, err := h.emiService.CreateEMI(userID, input)
	if err != nil {
		if errors.Is(err, domain.ErrEMILoanTypeInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "loanType", Message: "Must be one of: car, home, education, personal, business, other"},
			})
		}
		if errors.Is(err, domain.ErrEMIAmountInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "amount", Message: "Amount must be positive"},
			})
		}
		if errors.Is(err, domain.ErrEMIRateInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "interestRate", Message: "Interest rate must be between 0 and 100"},
			})
		}
		if errors.Is(err, domain.ErrEMITenureInvalid) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "tenureMonths", Message: "Tenure must be at least 1 month"},
			})
		}
		log.Error().Err(err).Stringer("user_id", userID).Msg("Failed to create EMI")
		return NewInternalError(c, "Failed to create EMI")
	}

	log.Info().Stringer("user_id", userID).Int32("emi_id", emi.ID).Str("loan_type", string(emi.LoanType)).Msg("EMI created")

	return c.JSON(http.StatusCreated, toEMIResponse(emi))
}

// GetEMIs handles GET /api/v1/emis
func (h *EMIHandler) GetEMIs(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	emis, err := h.emiService.GetEMIs(userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("Failed to get EMIs")
		return NewInternalError(c, "Failed to get EMIs")
	}

	response := make([]EMIResponse, len(emis))
	for i, emi := range emis {
		response[i] = toEMIResponse(emi)
	}

	return c.JSON(http.StatusOK, response)
}

// GetStats handles GET /api/v1/emis/stats
func (h *EMIHandler) GetStats(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	stats, err := h.emiService.GetStats(userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("Failed to get EMI stats")
		return NewInternalError(c, "Failed to get EMI stats")
	}

	return c.JSON(http.StatusOK, EMIStatsResponse{
		Count:               stats.Count,
		TotalMonthlyPayment: stats.TotalMonthlyPayment.StringFixed(2),
		AvgInterestRate:     stats.AvgInterestRate.StringFixed(2),
	})
}

// DeleteEMI handles DELETE /api/v1/emis/:id
func (h *EMIHandler) DeleteEMI(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid EMI ID", nil)
	}

	if err := h.emiService.DeleteEMI(userID, int32(id)); err != nil {
		if errors.Is(err, domain.ErrEMINotFound) {
			return NewNotFoundError(c, "EMI not found")
		}
		log.Error().Err(err).Stringer("user_id", userID).Int("emi_id", id).Msg("Failed to delete EMI")
		return NewInternalError(c, "Failed to delete EMI")
	}

	log.Info().Stringer("user_id", userID).Int("emi_id", id).Msg("EMI deleted")

	return c.NoContent(http.StatusNoContent)
}
