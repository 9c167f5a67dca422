package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/google/uuid"
	"github.com/paisatrack/paisa-backend/internal/domain"
	"github.com/paisatrack/paisa-backend/internal/repository/storage"
)

const (
	MaxReceiptSize   = 5 * 1024 * 1024 // 5MB
	MinReceiptWidth  = 50
	MinReceiptHeight = 50
	ThumbnailWidth   = 200
	DisplayWidth     = 800
	JPEGQuality      = 85

	// ReceiptURLExpiry is how long a presigned view URL stays valid
	ReceiptURLExpiry = 15 * time.Minute
)

var (
	ErrReceiptTooLarge      = errors.New("file too large. Maximum size is 5MB")
	ErrReceiptInvalidFormat = errors.New("invalid format. Supported: JPEG, PNG, WebP")
	ErrReceiptTooSmall      = errors.New("image too small. Minimum 50x50 pixels")
	ErrReceiptInvalidData   = errors.New("invalid image data")
	ErrReceiptStorageOff    = errors.New("receipt storage not configured")
	ErrReceiptNotAttached   = errors.New("expense has no receipt")
)

// AllowedReceiptExtensions maps extensions to content types
var AllowedReceiptExtensions = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
}

// ReceiptMetadata contains presigned URLs for the stored variants
type ReceiptMetadata struct {
	ID           string `json:"id"`
	ThumbnailURL string `json:"thumbnailUrl"`
	DisplayURL   string `json:"displayUrl"`
	OriginalURL  string `json:"originalUrl"`
}

// ReceiptService validates, resizes and stores expense receipt images
type ReceiptService struct {
	storage     storage.ReceiptRepository
	expenseRepo domain.ExpenseRepository
}

// NewReceiptService creates a new ReceiptService
func NewReceiptService(storage storage.ReceiptRepository, expenseRepo domain.ExpenseRepository) *ReceiptService {
	return &ReceiptService{
		storage:     storage,
		expenseRepo: expenseRepo,
	}
}

// IsEnabled indicates whether uploads are supported (storage configured)
func (s *ReceiptService) IsEnabled() bool {
	return s != nil && s.storage != nil
}

// validateAndDecode validates the image and returns the decoded image
func (s *ReceiptService) validateAndDecode(data []byte, filename string) (image.Image, error) {
	if len(data) > MaxReceiptSize {
		return nil, ErrReceiptTooLarge
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := AllowedReceiptExtensions[ext]; !ok {
		return nil, ErrReceiptInvalidFormat
	}

	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrReceiptInvalidData
	}

	bounds := img.Bounds()
	if bounds.Dx() < MinReceiptWidth || bounds.Dy() < MinReceiptHeight {
		return nil, ErrReceiptTooSmall
	}

	return img, nil
}

// Attach validates the image, uploads thumbnail/display/original variants
// and records the receipt ID on the expense row
func (s *ReceiptService) Attach(ctx context.Context, userID uuid.UUID, expenseID int32, data []byte, filename string) (*ReceiptMetadata, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageOff
	}

	if _, err := s.expenseRepo.GetByID(userID, expenseID); err != nil {
		return nil, err
	}

	img, err := s.validateAndDecode(data, filename)
	if err != nil {
		return nil, err
	}

	receiptID := uuid.New().String()

	variants := []struct {
		name     string
		maxWidth int
	}{
		{"thumb", ThumbnailWidth},
		{"display", DisplayWidth},
		{"original", 0}, // 0 means keep original size
	}

	for _, v := range variants {
		out := img
		if v.maxWidth > 0 && img.Bounds().Dx() > v.maxWidth {
			out = imaging.Resize(img, v.maxWidth, 0, imaging.Lanczos)
		}

		var buf bytes.Buffer
		if err := jpeg.Encode(&buf, out, &jpeg.Options{Quality: JPEGQuality}); err != nil {
			return nil, fmt.Errorf("encode %s variant: %w", v.name, err)
		}

		objectPath := storage.ReceiptObjectPath(userID, expenseID, receiptID, v.name)
		if _, err := s.storage.Upload(ctx, objectPath, bytes.NewReader(buf.Bytes()), "image/jpeg", int64(buf.Len())); err != nil {
			return nil, fmt.Errorf("upload %s variant: %w", v.name, err)
		}
	}

	if err := s.expenseRepo.SetReceiptID(userID, expenseID, &receiptID); err != nil {
		return nil, err
	}

	return s.metadata(ctx, userID, expenseID, receiptID)
}

// GetMetadata returns presigned URLs for the expense's receipt
func (s *ReceiptService) GetMetadata(ctx context.Context, userID uuid.UUID, expenseID int32) (*ReceiptMetadata, error) {
	if !s.IsEnabled() {
		return nil, ErrReceiptStorageOff
	}

	expense, err := s.expenseRepo.GetByID(userID, expenseID)
	if err != nil {
		return nil, err
	}
	if expense.ReceiptID == nil {
		return nil, ErrReceiptNotAttached
	}

	return s.metadata(ctx, userID, expenseID, *expense.ReceiptID)
}

// Detach deletes the stored variants and clears the expense's receipt ID
func (s *ReceiptService) Detach(ctx context.Context, userID uuid.UUID, expenseID int32) error {
	if !s.IsEnabled() {
		return ErrReceiptStorageOff
	}

	expense, err := s.expenseRepo.GetByID(userID, expenseID)
	if err != nil {
		return err
	}
	if expense.ReceiptID == nil {
		return ErrReceiptNotAttached
	}

	for _, variant := range []string{"thumb", "display", "original"} {
		objectPath := storage.ReceiptObjectPath(userID, expenseID, *expense.ReceiptID, variant)
		if err := s.storage.Delete(ctx, objectPath); err != nil {
			return fmt.Errorf("delete %s variant: %w", variant, err)
		}
	}

	return s.expenseRepo.SetReceiptID(userID, expenseID, nil)
}

func (s *ReceiptService) metadata(ctx context.Context, userID uuid.UUID, expenseID int32, receiptID string) (*ReceiptMetadata, error) {
	meta := &ReceiptMetadata{ID: receiptID}

	urls := []struct {
		variant string
		dest    *string
	}{
		{"thumb", &meta.ThumbnailURL},
		{"display", &meta.DisplayURL},
		{"original", &meta.OriginalURL},
	}
	for _, u := range urls {
		objectPath := storage.ReceiptObjectPath(userID, expenseID, receiptID, u.variant)
		url, err := s.storage.GeneratePresignedURL(ctx, objectPath, ReceiptURLExpiry)
		if err != nil {
			return nil, fmt.Errorf("presign %s variant: %w", u.variant, err)
		}
		*u.dest = url
	}

	return meta, nil
}
