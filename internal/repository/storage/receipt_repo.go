package storage

import (
	"context"
	"fmt"
	"io"
	"path"
	"time"

	"github.com/google/uuid"
)

// ReceiptRepository defines the interface for receipt object storage
type ReceiptRepository interface {
	Upload(ctx context.Context, objectPath string, data io.Reader, contentType string, size int64) (string, error)
	Delete(ctx context.Context, objectPath string) error
	GeneratePresignedURL(ctx context.Context, objectPath string, expiry time.Duration) (string, error)
}

// ReceiptObjectPath builds the deterministic object path for a receipt
// variant: <userID>/expenses/<expenseID>/<receiptID>_<variant>.jpg
func ReceiptObjectPath(userID uuid.UUID, expenseID int32, receiptID, variant string) string {
	filename := fmt.Sprintf("%s_%s.jpg", receiptID, variant)
	return path.Join(userID.String(), "expenses", fmt.Sprintf("%d", expenseID), filename)
}
