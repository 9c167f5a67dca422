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

// SavingsHandler handles savings goal HTTP requests
type SavingsHandler struct {
	savingsService *service.SavingsService
}

// NewSavingsHandler creates a new SavingsHandler
func NewSavingsHandler(savingsService *service.SavingsService) *SavingsHandler {
	return &SavingsHandler{savingsService: savingsService}
}

// CreateSavingsRequest represents the create savings goal request body
type CreateSavingsRequest struct {
	Name          string  `json:"name"`
	TargetAmount  string  `json:"targetAmount"`
	CurrentAmount string  `json:"currentAmount"`
	TargetDate    string  `json:"targetDate"`
	Category      string  `json:"category"`
	Notes         *string `json:"notes"`
}

// UpdateSavingsRequest represents the update savings goal request body
type UpdateSavingsRequest struct {
	Name          *string `json:"name"`
	TargetAmount  *string `json:"targetAmount"`
	CurrentAmount *string `json:"currentAmount"`
	TargetDate    *string `json:"targetDate"`
	Category      *string `json:"category"`
	Notes         *string `json:"notes"`
}

// SavingsResponse represents a savings goal in API responses
type SavingsResponse struct {
	ID            int32   `json:"id"`
	Name          string  `json:"name"`
	TargetAmount  string  `json:"targetAmount"`
	CurrentAmount string  `json:"currentAmount"`
	TargetDate    string  `json:"targetDate"`
	Category      string  `json:"category"`
	Notes         *string `json:"notes,omitempty"`
	Progress      string  `json:"progress"`
	CreatedAt     string  `json:"createdAt"`
}

func toSavingsResponse(goal *domain.SavingsGoal) SavingsResponse {
	return SavingsResponse{
		ID:            goal.ID,
		Name:          goal.Name,
		TargetAmount:  goal.TargetAmount.StringFixed(2),
		CurrentAmount: goal.CurrentAmount.StringFixed(2),
		TargetDate:    goal.TargetDate.Format("2006-01-02"),
		Category:      string(goal.Category),
		Notes:         goal.Notes,
		Progress:      goal.Progress().Round(2).String(),
		CreatedAt:     goal.CreatedAt.Format(time.RFC3339),
	}
}

func savingsValidationResponse(c echo.Context, err error) (error, bool) {
	switch {
	case errors.Is(err, domain.ErrNameRequired):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name is required"},
		}), true
	case errors.Is(err, domain.ErrNameTooLong):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "name", Message: "Name must be 200 characters or less"},
		}), true
	case errors.Is(err, domain.ErrSavingsTargetInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "targetAmount", Message: "Target amount must be positive"},
		}), true
	case errors.Is(err, domain.ErrSavingsCurrentInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "currentAmount", Message: "Current amount cannot be negative"},
		}), true
	case errors.Is(err, domain.ErrSavingsCategoryInvalid):
		return NewValidationError(c, "Validation failed", []ValidationError{
			{Field: "category", Message: "Must be one of: emergency, vacation, house, car, education, wedding, retirement, other"},
		}), true
	}
	return nil, false
}

// CreateGoal handles POST /api/v1/savings
func (h *SavingsHandler) CreateGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req CreateSavingsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	target, err := decimal.NewFromString(req.TargetAmount)
	if err != nil {
		return NewValidationError(c, "Invalid target amount", []ValidationError{
			{Field: "targetAmount", Message: "Must be a valid decimal number"},
		})
	}

	current := decimal.Zero
	if req.CurrentAmount != "" {
		current, err = decimal.NewFromString(req.CurrentAmount)
		if err != nil {
			return NewValidationError(c, "Invalid current amount", []ValidationError{
				{Field: "currentAmount", Message: "Must be a valid decimal number"},
			})
		}
	}

	targetDate, err := time.Parse("2006-01-02", req.TargetDate)
	if err != nil {
		return NewValidationError(c, "Invalid target date", []ValidationError{
			{Field: "targetDate", Message: "Must be in YYYY-MM-DD format"},
		})
	}

	input := service.CreateSavingsInput{
		Name:          req.Name,
		TargetAmount:  target,
		CurrentAmount: current,
		TargetDate:    targetDate,
		Category:      domain.SavingsCategory(req.Category),
		Notes:         req.Notes,
	}

	goal, err := h.savingsService.CreateGoal(userID, input)
	if err != nil {
		if resp, ok := savingsValidationResponse(c, err); ok {
			return resp
		}
		log.Error().Err(err).Stringer("user_id", userID).Msg("Failed to create savings goal")
		return NewInternalError(c, "Failed to create savings goal")
	}

	log.Info().Stringer("user_id", userID).Int32("goal_id", goal.ID).Str("name", goal.Name).Msg("Savings goal created")

	return c.JSON(http.StatusCreated, toSavingsResponse(goal))
}

// GetGoals handles GET /api/v1/savings
func (h *SavingsHandler) GetGoals(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	goals, err := h.savingsService.GetGoals(userID)
	if err != nil {
		log.Error().Err(err).Stringer("user_id", userID).Msg("Failed to get savings goals")
		return NewInternalError(c, "Failed to get savings goals")
	}

	response := make([]SavingsResponse, len(goals))
	for i, goal := range goals {
		response[i] = toSavingsResponse(goal)
	}

	return c.JSON(http.StatusOK, response)
}

// UpdateGoal handles PUT /api/v1/savings/:id
func (h *SavingsHandler) UpdateGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid savings goal ID", nil)
	}

	var req UpdateSavingsRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := service.UpdateSavingsInput{
		Name:  req.Name,
		Notes: req.Notes,
	}

	if req.TargetAmount != nil {
		parsed, err := decimal.NewFromString(*req.TargetAmount)
		if err != nil {
			return NewValidationError(c, "Invalid target amount", []ValidationError{
				{Field: "targetAmount", Message: "Must be a valid decimal number"},
			})
		}
		input.TargetAmount = &parsed
	}

	if req.CurrentAmount != nil {
		parsed, err := decimal.NewFromString(*req.CurrentAmount)
		if err != nil {
			return NewValidationError(c, "Invalid current amount", []ValidationError{
				{Field: "currentAmount", Message: "Must be a valid decimal number"},
			})
		}
		input.CurrentAmount = &parsed
	}

	if req.TargetDate != nil {
		parsed, err := time.Parse("2006-01-02", *req.TargetDate)
		if err != nil {
			return NewValidationError(c, "Invalid target date", []ValidationError{
				{Field: "targetDate", Message: "Must be in YYYY-MM-DD format"},
			})
		}
		input.TargetDate = &parsed
	}

	if req.Category != nil {
		category := domain.SavingsCategory(*req.Category)
		input.Category = &category
	}

	goal, err := h.savingsService.UpdateGoal(userID, int32(id), input)
	if err != nil {
		if errors.Is(err, domain.ErrSavingsNotFound) {
			return NewNotFoundError(c, "Savings goal not found")
		}
		if resp, ok := savingsValidationResponse(c, err); ok {
			return resp
		}
		log.Error().Err(err).Stringer("user_id", userID).Int("goal_id", id).Msg("Failed to update savings goal")
		return NewInternalError(c, "Failed to update savings goal")
	}

	log.Info().Stringer("user_id", userID).Int32("goal_id", goal.ID).Msg("Savings goal updated")

	return c.JSON(http.StatusOK, toSavingsResponse(goal))
}

// DeleteGoal handles DELETE /api/v1/savings/:id
func (h *SavingsHandler) DeleteGoal(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid savings goal ID", nil)
	}

	if err := h.savingsService.DeleteGoal(userID, int32(id)); err != nil {
		if errors.Is(err, domain.ErrSavingsNotFound) {
			return NewNotFoundError(c, "Savings goal not found")
		}
		log.Error().Err(err).Stringer("user_id", userID).Int("goal_id", id).Msg("Failed to delete savings goal")
		return NewInternalError(c, "Failed to delete savings goal")
	}

	log.Info().Stringer("user_id", userID).Int("goal_id", id).Msg("Savings goal deleted")

	return c.NoContent(http.StatusNoContent)
}
