package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Validation constants
const (
	// MaxTransactionAmount caps a single credit or debit (decimal string).
	MaxTransactionAmount = "1000000000" // 1 billion

	MaxPageSize     = 1000
	DefaultPageSize = 50
)

var maxTransactionAmount = decimal.RequireFromString(MaxTransactionAmount)

// ValidateAmount checks that amount is a usable positive monetary value.
// Zero and negative amounts are rejected, as are amounts above the
// single-transaction cap.
func ValidateAmount(amount decimal.Decimal) error {
	if amount.LessThanOrEqual(decimal.Zero) {
		return ErrInvalidAmount
	}

	if amount.GreaterThan(maxTransactionAmount) {
		return fmt.Errorf("%w: maximum amount is %s", ErrInvalidAmount, MaxTransactionAmount)
	}

	return nil
}

// ValidateKind checks that kind is a known transaction direction.
func ValidateKind(kind TransactionKind) error {
	if !kind.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidKind, kind)
	}
	return nil
}

// ValidatePagination clamps pagination parameters to sane bounds.
func ValidatePagination(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
