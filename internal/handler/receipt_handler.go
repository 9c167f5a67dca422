package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/paisatrack/paisa-backend/internal/domain"
	"github.com/paisatrack/paisa-backend/internal/middleware"
	"github.com/paisatrack/paisa-backend/internal/service"
	"github.com/rs/zerolog/log"
)

// ReceiptHandler handles expense receipt HTTP requests
type ReceiptHandler struct {
	receiptService *service.ReceiptService
}

// NewReceiptHandler creates a new ReceiptHandler
func NewReceiptHandler(receiptService *service.ReceiptService) *ReceiptHandler {
	return &ReceiptHandler{receiptService: receiptService}
}

// ReceiptResponse represents a receipt attachment in API responses
type ReceiptResponse struct {
	ID           string `json:"id"`
	ThumbnailURL string `json:"thumbnailUrl"`
	DisplayURL   string `json:"displayUrl"`
	OriginalURL  string `json:"originalUrl"`
}

func toReceiptResponse(meta *service.ReceiptMetadata) ReceiptResponse {
	return ReceiptResponse{
		ID:           meta.ID,
		ThumbnailURL: meta.ThumbnailURL,
		DisplayURL:   meta.DisplayURL,
		OriginalURL:  meta.OriginalURL,
	}
}

func (h *ReceiptHandler) storageEnabled() bool {
	return h.receiptService != nil && h.receiptService.IsEnabled()
}

// UploadReceipt handles POST /api/v1/expenses/:id/receipt
func (h *ReceiptHandler) UploadReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if !h.storageEnabled() {
		return NewServiceUnavailableError(c, "Receipt uploads are disabled (storage not configured)")
	}

	expenseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	file, err := c.FormFile("file")
	if err != nil {
		return NewValidationError(c, "No file provided", []ValidationError{
			{Field: "file", Message: "File is required"},
		})
	}

	if file.Size > service.MaxReceiptSize {
		return NewValidationError(c, "File too large", []ValidationError{
			{Field: "file", Message: "Maximum size is 5MB"},
		})
	}

	src, err := file.Open()
	if err != nil {
		log.Error().Err(err).Msg("Failed to open uploaded file")
		return NewInternalError(c, "Failed to process file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		log.Error().Err(err).Msg("Failed to read uploaded file")
		return NewInternalError(c, "Failed to process file")
	}

	meta, err := h.receiptService.Attach(c.Request().Context(), userID, int32(expenseID), data, file.Filename)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrExpenseNotFound):
			return NewNotFoundError(c, "Expense not found")
		case errors.Is(err, service.ErrReceiptTooLarge):
			return NewValidationError(c, "File too large", []ValidationError{
				{Field: "file", Message: "Maximum size is 5MB"},
			})
		case errors.Is(err, service.ErrReceiptInvalidFormat):
			return NewValidationError(c, "Invalid file format", []ValidationError{
				{Field: "file", Message: "Supported formats: JPEG, PNG, WebP"},
			})
		case errors.Is(err, service.ErrReceiptInvalidData):
			return NewValidationError(c, "Invalid image data", []ValidationError{
				{Field: "file", Message: "File is not a valid image"},
			})
		case errors.Is(err, service.ErrReceiptTooSmall):
			return NewValidationError(c, "Image too small", []ValidationError{
				{Field: "file", Message: "Minimum dimensions are 50x50 pixels"},
			})
		}
		log.Error().Err(err).Stringer("user_id", userID).Int("expense_id", expenseID).Msg("Failed to upload receipt")
		return NewInternalError(c, "Failed to upload receipt")
	}

	log.Info().Stringer("user_id", userID).Int("expense_id", expenseID).Str("receipt_id", meta.ID).Msg("Receipt uploaded")

	return c.JSON(http.StatusCreated, toReceiptResponse(meta))
}

// GetReceipt handles GET /api/v1/expenses/:id/receipt
func (h *ReceiptHandler) GetReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if !h.storageEnabled() {
		return NewServiceUnavailableError(c, "Receipt storage not configured")
	}

	expenseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	meta, err := h.receiptService.GetMetadata(c.Request().Context(), userID, int32(expenseID))
	if err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		if errors.Is(err, service.ErrReceiptNotAttached) {
			return NewNotFoundError(c, "Expense has no receipt")
		}
		log.Error().Err(err).Stringer("user_id", userID).Int("expense_id", expenseID).Msg("Failed to get receipt")
		return NewInternalError(c, "Failed to get receipt")
	}

	return c.JSON(http.StatusOK, toReceiptResponse(meta))
}

// DeleteReceipt handles DELETE /api/v1/expenses/:id/receipt
func (h *ReceiptHandler) DeleteReceipt(c echo.Context) error {
	userID := middleware.GetUserID(c)
	if userID == uuid.Nil {
		return NewUnauthorizedError(c, "Authentication required")
	}

	if !h.storageEnabled() {
		return NewServiceUnavailableError(c, "Receipt storage not configured")
	}

	expenseID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		return NewValidationError(c, "Invalid expense ID", nil)
	}

	if err := h.receiptService.Detach(c.Request().Context(), userID, int32(expenseID)); err != nil {
		if errors.Is(err, domain.ErrExpenseNotFound) {
			return NewNotFoundError(c, "Expense not found")
		}
		if errors.Is(err, service.ErrReceiptNotAttached) {
			return NewNotFoundError(c, "Expense has no receipt")
		}
		log.Error().Err(err).Stringer("user_id", userID).Int("expense_id", expenseID).Msg("Failed to delete receipt")
		return NewInternalError(c, "Failed to delete receipt")
	}

	log.Info().Stringer("user_id", userID).Int("expense_id", expenseID).Msg("Receipt deleted")

	return c.NoContent(http.StatusNoContent)
}
