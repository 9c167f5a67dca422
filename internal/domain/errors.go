package domain

import "errors"

// Domain errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrInternalError    = errors.New("internal error")
	ErrUserNotFound     = errors.New("user not found")
	ErrStoreUnavailable = errors.New("record store unavailable")
	ErrEMINotFound      = errors.New("emi not found")
	ErrExpenseNotFound  = errors.New("expense not found")
	ErrDebtNotFound     = errors.New("debt not found")
	ErrSavingsNotFound  = errors.New("savings goal not found")
	ErrNameRequired     = errors.New("name is required")
	ErrNameTooLong      = errors.New("name exceeds maximum length")
)

// Validation constants
const (
	MaxNameLength = 200
)
