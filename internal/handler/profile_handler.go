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
	"github.com/shopspring/decimal"
)

// ProfileHandler handles profile-related HTTP requests
type ProfileHandler struct {
	profileService *service.ProfileService
}

// NewProfileHandler creates a new ProfileHandler
func NewProfileHandler(profileService *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profileService: profileService}
}

// UpdateProfileRequest represents the update profile request body
type UpdateProfileRequest struct {
	Name       *string `json:"name"`
	Mobile     *string `json:"mobile"`
	Occupation *string `json:"occupation"`
	Salary     *string `json:"salary"`
}

// UpdateIncomeRequest represents the income override request body
type UpdateIncomeRequest struct {
	MonthlyIncome string `json:"monthlyIncome"`
}

// ProfileResponse represents a user profile in API responses
type ProfileResponse struct {
	ID            string  `json:"id"`
	Email         string  `json:"email"`
	Name          *string `json:"name"`
	Mobile        *string `json:"mobile,omitempty"`
	Occupation    *string `json:"occupation,omitempty"`
	Salary        string  `json:"salary"`
	MonthlyIncome string  `json:"monthlyIncome"`
	CreatedAt     string  `json:"createdAt"`
}

func toProfileResponse(user *domain.User) ProfileResponse {
	return ProfileResponse{
		ID:            user.ID.String(),
		Email:         user.Email,
		Name:          user.Name,
		Mobile:        user.Mobile,
		Occupation:    user.Occupation,
		Salary:        user.Salary.StringFixed(2),
		MonthlyIncome: user.MonthlyIncome().StringFixed(2),
		CreatedAt:     user.CreatedAt.Format(time.RFC3339),
	}
}

// GetProfile handles GET /api/v1/profile
func (h *ProfileHandler) GetProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	user, err := h.profileService.GetProfile(userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Stringer("user_id", userID).Msg("Failed to get profile")
		return NewInternalError(c, "Failed to get profile")
	}

	return c.JSON(http.StatusOK, toProfileResponse(user))
}

// UpdateProfile handles PUT /api/v1/profile
func (h *ProfileHandler) UpdateProfile(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	input := domain.UpdateProfileInput{
		Name:       req.Name,
		Mobile:     req.Mobile,
		Occupation: req.Occupation,
	}

	if req.Salary != nil {
		salary, err := decimal.NewFromString(*req.Salary)
		if err != nil {
			return NewValidationError(c, "Invalid salary", []ValidationError{
				{Field: "salary", Message: "Must be a valid decimal number"},
			})
		}
		if salary.IsNegative() {
			return NewValidationError(c, "Invalid salary", []ValidationError{
				{Field: "salary", Message: "Salary cannot be negative"},
			})
		}
		input.Salary = &salary
	}

	user, err := h.profileService.UpdateProfile(userID, input)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Stringer("user_id", userID).Msg("Failed to update profile")
		return NewInternalError(c, "Failed to update profile")
	}

	log.Info().Stringer("user_id", userID).Msg("Profile updated")

	return c.JSON(http.StatusOK, toProfileResponse(user))
}

// UpdateIncome handles PATCH /api/v1/profile/income
func (h *ProfileHandler) UpdateIncome(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	var req UpdateIncomeRequest
	if err := c.Bind(&req); err != nil {
		return NewValidationError(c, "Invalid request body", nil)
	}

	income, err := decimal.NewFromString(req.MonthlyIncome)
	if err != nil {
		return NewValidationError(c, "Invalid monthly income", []ValidationError{
			{Field: "monthlyIncome", Message: "Must be a valid decimal number"},
		})
	}

	user, err := h.profileService.SetIncomeOverride(userID, income)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return NewValidationError(c, "Validation failed", []ValidationError{
				{Field: "monthlyIncome", Message: "Monthly income cannot be negative"},
			})
		}
		if errors.Is(err, domain.ErrUserNotFound) {
			return NewNotFoundError(c, "User not found")
		}
		log.Error().Err(err).Stringer("user_id", userID).Msg("Failed to update income")
		return NewInternalError(c, "Failed to update income")
	}

	log.Info().Stringer("user_id", userID).Msg("Monthly income updated")

	return c.JSON(http.StatusOK, toProfileResponse(user))
}
