package domain

import "errors"

var (
	// Validation errors
	ErrInvalidAmount = errors.New("amount must be positive")
	ErrInvalidKind   = errors.New("unknown transaction kind")

	// Balance errors
	ErrInsufficientFunds = errors.New("insufficient funds")

	// Infrastructure errors
	ErrStoreUnavailable = errors.New("ledger store unavailable")
)
